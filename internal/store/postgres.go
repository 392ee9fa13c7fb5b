package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SubodhKumarSahu2826/CyberGuard/internal/models"
)

// PostgresStore persists to the dashboard database via a pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore opens a connection pool and verifies it with a ping.
func NewPostgresStore(ctx context.Context, connectionString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) SaveAnalysis(ctx context.Context, result *models.AnalysisResult) error {
	featuresJSON, err := json.Marshal(result.Features)
	if err != nil {
		return fmt.Errorf("failed to marshal features: %w", err)
	}

	var analysisID int64
	err = s.pool.QueryRow(ctx,
		`INSERT INTO url_analyses (url, risk_level, features, analyzed_at)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		result.URL, string(result.RiskLevel), featuresJSON, result.AnalyzedAt,
	).Scan(&analysisID)
	if err != nil {
		return fmt.Errorf("%w: failed to store analysis: %v", ErrUnavailable, err)
	}

	if len(result.Detections) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, d := range result.Detections {
		evidenceJSON, err := json.Marshal(d.Evidence)
		if err != nil {
			return fmt.Errorf("failed to marshal evidence: %w", err)
		}
		batch.Queue(
			`INSERT INTO detections (analysis_id, attack_type, confidence, risk_level, payload, evidence, detected_at)
			 VALUES ($1, $2, $3, $4, $5, $6, to_timestamp($7))`,
			analysisID, string(d.AttackType), d.Confidence, string(d.RiskLevel), d.Payload, evidenceJSON, d.Timestamp,
		)
	}

	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("%w: failed to store detections: %v", ErrUnavailable, err)
	}

	return nil
}

func (s *PostgresStore) SaveCapturedURLs(ctx context.Context, items []models.QueuedURL) error {
	if len(items) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, item := range items {
		headersJSON, err := json.Marshal(item.Headers)
		if err != nil {
			return fmt.Errorf("failed to marshal headers: %w", err)
		}
		batch.Queue(
			`INSERT INTO captured_urls (url, method, headers, body, source_ip, user_agent, captured_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			item.URL, item.Method, headersJSON, item.Body, item.SourceIP, item.UserAgent, item.CapturedAt,
		)
	}

	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("%w: failed to store captured urls: %v", ErrUnavailable, err)
	}

	return nil
}

func (s *PostgresStore) WriteAuditBatch(ctx context.Context, entries []models.AuditEntry) error {
	if len(entries) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, e := range entries {
		detailsJSON, err := json.Marshal(e.Details)
		if err != nil {
			return fmt.Errorf("failed to marshal details: %w", err)
		}
		batch.Queue(
			`INSERT INTO audit_logs (action, resource_type, resource_id, actor_id, source_ip, user_agent, details, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			e.Action, e.ResourceType, e.ResourceID, e.ActorID, e.SourceIP, e.UserAgent, detailsJSON, e.Timestamp,
		)
	}

	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("%w: failed to write audit batch: %v", ErrUnavailable, err)
	}

	return nil
}

func (s *PostgresStore) RecentAnalyses(ctx context.Context, limit int) ([]models.AnalysisResult, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx,
		`SELECT url, risk_level, features, analyzed_at
		 FROM url_analyses ORDER BY analyzed_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query analyses: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	var results []models.AnalysisResult
	for rows.Next() {
		var r models.AnalysisResult
		var risk string
		var featuresJSON []byte
		if err := rows.Scan(&r.URL, &risk, &featuresJSON, &r.AnalyzedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis row: %w", err)
		}
		r.RiskLevel = models.RiskLevel(risk)
		if err := json.Unmarshal(featuresJSON, &r.Features); err != nil {
			return nil, fmt.Errorf("failed to unmarshal features: %w", err)
		}
		results = append(results, r)
	}

	return results, rows.Err()
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}
