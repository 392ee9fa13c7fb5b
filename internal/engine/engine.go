// Package engine wires the analysis pipeline: cache check, feature
// extraction, pattern detection, risk aggregation, then best-effort fan-out
// to the persistence, event bus and registry collaborators.
package engine

import (
	"context"
	"encoding/base64"
	"log"
	"time"

	"github.com/SubodhKumarSahu2826/CyberGuard/internal/cache"
	"github.com/SubodhKumarSahu2826/CyberGuard/internal/features"
	"github.com/SubodhKumarSahu2826/CyberGuard/internal/models"
	"github.com/SubodhKumarSahu2826/CyberGuard/internal/store"
)

const analysisKeyPrefix = "analysis:"

// Detector scores one raw URL. Implemented by detector.Detector.
type Detector interface {
	Detect(raw string) ([]models.Detection, error)
}

// DetectionPublisher pushes results onto the event bus. Optional collaborator.
type DetectionPublisher interface {
	PublishDetection(detection *models.Detection) error
	PublishAnalysis(result *models.AnalysisResult) error
}

// DetectionRegistry records active detections. Optional collaborator.
type DetectionRegistry interface {
	RegisterDetection(ctx context.Context, detection *models.Detection) error
}

// Engine is the threat analysis pipeline. Collaborator failures downgrade the
// response to computed-but-unpersisted rather than failing the request.
type Engine struct {
	detector  Detector
	cache     *cache.Cache[models.AnalysisResult]
	resultTTL time.Duration

	// Optional collaborators; any may be nil.
	store     store.Store
	publisher DetectionPublisher
	registry  DetectionRegistry
}

// New creates an engine around the given detector and cache. Collaborators
// are attached separately so a bare engine stays usable for one-shot analysis.
func New(det Detector, c *cache.Cache[models.AnalysisResult], resultTTL time.Duration) *Engine {
	if resultTTL <= 0 {
		resultTTL = cache.DefaultTTL
	}
	return &Engine{
		detector:  det,
		cache:     c,
		resultTTL: resultTTL,
	}
}

// WithStore attaches the persistence collaborator.
func (e *Engine) WithStore(s store.Store) *Engine {
	e.store = s
	return e
}

// WithPublisher attaches the event bus collaborator.
func (e *Engine) WithPublisher(p DetectionPublisher) *Engine {
	e.publisher = p
	return e
}

// WithRegistry attaches the detection registry collaborator.
func (e *Engine) WithRegistry(r DetectionRegistry) *Engine {
	e.registry = r
	return e
}

// CacheKey builds the cache key for one URL. Base64 keeps structurally
// distinct URLs from colliding under the prefix.
func CacheKey(raw string) string {
	return analysisKeyPrefix + base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// Analyze runs the full pipeline for one URL. A cached result within its TTL
// is returned as-is without re-running the detector.
func (e *Engine) Analyze(ctx context.Context, raw string) (*models.AnalysisResult, error) {
	key := CacheKey(raw)

	if cached, ok := e.cache.Get(key); ok {
		return &cached, nil
	}

	feats, err := features.Extract(raw)
	if err != nil {
		return nil, err
	}

	detections, err := e.detector.Detect(raw)
	if err != nil {
		return nil, err
	}

	result := models.AnalysisResult{
		URL:        raw,
		Features:   feats,
		Detections: detections,
		RiskLevel:  models.OverallRisk(detections),
		AnalyzedAt: time.Now(),
	}

	e.cache.Set(key, result, e.resultTTL)

	e.fanOut(ctx, &result)

	return &result, nil
}

// AnalyzeBatch runs Analyze over a drained capture batch, persisting the raw
// captures alongside. Per-URL failures are logged and skipped so one bad item
// cannot poison the batch.
func (e *Engine) AnalyzeBatch(ctx context.Context, items []models.QueuedURL) {
	if e.store != nil {
		if err := e.store.SaveCapturedURLs(ctx, items); err != nil {
			log.Printf("Warning: failed to persist captured batch: %v", err)
		}
	}

	for _, item := range items {
		if _, err := e.Analyze(ctx, item.URL); err != nil {
			log.Printf("Warning: skipping captured url %q: %v", item.URL, err)
		}
	}
}

// fanOut pushes a fresh result to the optional collaborators. Every failure
// is absorbed and logged; the caller still gets the in-memory result.
func (e *Engine) fanOut(ctx context.Context, result *models.AnalysisResult) {
	if e.store != nil {
		if err := e.store.SaveAnalysis(ctx, result); err != nil {
			log.Printf("Warning: analysis not persisted (degraded mode): %v", err)
		}
	}

	for i := range result.Detections {
		det := &result.Detections[i]

		if e.publisher != nil {
			if err := e.publisher.PublishDetection(det); err != nil {
				log.Printf("Warning: detection not published: %v", err)
			}
		}

		if e.registry != nil {
			if err := e.registry.RegisterDetection(ctx, det); err != nil {
				log.Printf("Warning: detection not registered: %v", err)
			}
		}
	}

	if e.publisher != nil {
		if err := e.publisher.PublishAnalysis(result); err != nil {
			log.Printf("Warning: analysis not published: %v", err)
		}
	}
}
