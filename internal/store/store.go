// Package store defines the persistence collaborator consumed by the engine.
// Any failure here must not prevent returning an in-memory analysis result.
package store

import (
	"context"
	"errors"

	"github.com/SubodhKumarSahu2826/CyberGuard/internal/models"
)

// ErrUnavailable wraps collaborator failures; callers downgrade to degraded
// mode rather than aborting the request.
var ErrUnavailable = errors.New("store unavailable")

// Store persists analysis output, captured traffic and audit batches.
type Store interface {
	SaveAnalysis(ctx context.Context, result *models.AnalysisResult) error
	SaveCapturedURLs(ctx context.Context, items []models.QueuedURL) error
	WriteAuditBatch(ctx context.Context, entries []models.AuditEntry) error
	RecentAnalyses(ctx context.Context, limit int) ([]models.AnalysisResult, error)
	Close()
}
