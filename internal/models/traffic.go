package models

import "time"

// QueuedURL is a live-captured request held by the capture queue until drained.
type QueuedURL struct {
	URL        string            `json:"url"`
	Method     string            `json:"method"`
	Headers    map[string]string `json:"headers,omitempty"`
	Body       string            `json:"body,omitempty"`
	SourceIP   string            `json:"source_ip"`
	UserAgent  string            `json:"user_agent"`
	CapturedAt time.Time         `json:"captured_at"`
}

// AuditEntry is one audit-log record buffered by the audit batcher.
type AuditEntry struct {
	Action       string                 `json:"action"`
	ResourceType string                 `json:"resource_type"`
	ResourceID   string                 `json:"resource_id"`
	ActorID      string                 `json:"actor_id"`
	SourceIP     string                 `json:"source_ip"`
	UserAgent    string                 `json:"user_agent"`
	Details      map[string]interface{} `json:"details,omitempty"`
	Timestamp    time.Time              `json:"timestamp"`
}

// RateDecision is the outcome of a rate-limit check.
type RateDecision struct {
	Allowed   bool  `json:"allowed"`
	Limit     int   `json:"limit"`
	Remaining int   `json:"remaining"`
	ResetAt   int64 `json:"reset_at"` // unix seconds when the window resets

	// RetryAfter is the whole seconds until reset, set only on rejection.
	RetryAfter int64 `json:"retry_after,omitempty"`
}
