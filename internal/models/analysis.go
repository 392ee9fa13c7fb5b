package models

import "time"

// AttackType is one category of URL-borne attack recognised by the detector.
type AttackType string

const (
	AttackSQLInjection       AttackType = "sqli"
	AttackXSS                AttackType = "xss"
	AttackPathTraversal      AttackType = "path_traversal"
	AttackCommandInjection   AttackType = "command_injection"
	AttackSSRF               AttackType = "ssrf"
	AttackFileInclusion      AttackType = "file_inclusion"
	AttackCredentialStuffing AttackType = "credential_stuffing"
	AttackBruteForce         AttackType = "brute_force"
	AttackParamPollution     AttackType = "parameter_pollution"
	AttackXXE                AttackType = "xxe"
	AttackWebShell           AttackType = "web_shell"
	AttackTyposquatting      AttackType = "typosquatting"
)

// RiskLevel indicates urgency
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

var riskRank = map[RiskLevel]int{
	RiskLow:      0,
	RiskMedium:   1,
	RiskHigh:     2,
	RiskCritical: 3,
}

// MaxRisk returns the higher of two risk levels under low < medium < high < critical.
func MaxRisk(a, b RiskLevel) RiskLevel {
	if riskRank[b] > riskRank[a] {
		return b
	}
	return a
}

// RiskFromConfidence maps a clamped confidence score to a risk level.
func RiskFromConfidence(score float64) RiskLevel {
	switch {
	case score >= 0.9:
		return RiskCritical
	case score >= 0.7:
		return RiskHigh
	case score >= 0.5:
		return RiskMedium
	default:
		return RiskLow
	}
}

// ExtractedFeatures is the structured feature record computed from one URL.
// Immutable once produced.
type ExtractedFeatures struct {
	URLLength          int      `json:"url_length"`
	DomainLength       int      `json:"domain_length"`
	PathLength         int      `json:"path_length"`
	QueryLength        int      `json:"query_length"`
	SpecialCharCount   int      `json:"special_char_count"`
	DigitCount         int      `json:"digit_count"`
	Entropy            float64  `json:"entropy"`
	PathDepth          int      `json:"path_depth"`
	SubdomainCount     int      `json:"subdomain_count"`
	ParameterCount     int      `json:"parameter_count"`
	SuspiciousKeywords []string `json:"suspicious_keywords"`
	EncodedCharCount   int      `json:"encoded_chars_count"`
	FrequencyScore     float64  `json:"frequency_score"`
}

// Detection holds info on one attack type that crossed the emission threshold.
type Detection struct {
	AttackType AttackType `json:"attack_type"`
	Confidence float64    `json:"confidence"`
	RiskLevel  RiskLevel  `json:"risk_level"`

	URL       string `json:"url"`
	Timestamp int64  `json:"timestamp"`

	// Payload is the excerpt matched by the attack type's broadest pattern,
	// kept purely for display. Empty when no broad match exists.
	Payload string `json:"payload"`

	// Evidence names the sub-patterns that matched and their increments.
	Evidence map[string]interface{} `json:"evidence"`
}

// AnalysisResult aggregates one URL's features, detections and overall risk.
type AnalysisResult struct {
	URL        string            `json:"url"`
	Features   ExtractedFeatures `json:"features"`
	Detections []Detection       `json:"detections"`
	RiskLevel  RiskLevel         `json:"risk_level"`
	AnalyzedAt time.Time         `json:"analyzed_at"`
}

// OverallRisk returns the maximum tier among the detections, low when none.
func OverallRisk(detections []Detection) RiskLevel {
	risk := RiskLow
	for _, d := range detections {
		risk = MaxRisk(risk, d.RiskLevel)
	}
	return risk
}
