package orchestrator

import (
	"context"
	"log"
	"time"

	"github.com/SubodhKumarSahu2826/CyberGuard/internal/audit"
	"github.com/SubodhKumarSahu2826/CyberGuard/internal/cache"
	"github.com/SubodhKumarSahu2826/CyberGuard/internal/capture"
	"github.com/SubodhKumarSahu2826/CyberGuard/internal/config"
	"github.com/SubodhKumarSahu2826/CyberGuard/internal/detector"
	"github.com/SubodhKumarSahu2826/CyberGuard/internal/engine"
	"github.com/SubodhKumarSahu2826/CyberGuard/internal/eventbus"
	"github.com/SubodhKumarSahu2826/CyberGuard/internal/health"
	"github.com/SubodhKumarSahu2826/CyberGuard/internal/models"
	"github.com/SubodhKumarSahu2826/CyberGuard/internal/ratelimit"
	"github.com/SubodhKumarSahu2826/CyberGuard/internal/registry"
	"github.com/SubodhKumarSahu2826/CyberGuard/internal/store"
)

// Orchestrator is the composition root for the analysis engine. It owns the
// one-instance-per-process services and their lifecycle.
//
// Lifecycle:
//  1. Start() - builds the pipeline and connects collaborators
//  2. Run(ctx) - blocks until the context is cancelled
//  3. Stop() - drains queues and closes connections
//
// Graceful degradation:
//   - Postgres failure: results returned from memory, nothing persisted
//   - NATS failure: detections not pushed to the dashboard feed
//   - Redis failure: detections not registered across restarts
type Orchestrator struct {
	config *config.Config

	engine   *engine.Engine
	analysis *cache.Cache[models.AnalysisResult]
	limiter  *ratelimit.Limiter
	queue    *capture.Queue
	batcher  *audit.Batcher

	store     store.Store
	publisher *eventbus.Publisher
	registry  *registry.Client
	health    *health.Server
}

// NewOrchestrator creates a new Orchestrator instance with the provided
// configuration. Nothing starts until Start() is called.
func NewOrchestrator(cfg *config.Config) *Orchestrator {
	return &Orchestrator{config: cfg}
}

// Start builds the pipeline and connects optional collaborators. Only the
// in-process components are required; collaborator failures log warnings.
func (o *Orchestrator) Start() error {
	log.Printf("Starting CyberGuard engine...")

	o.analysis = cache.New[models.AnalysisResult](o.config.CacheSweepInterval)
	o.limiter = ratelimit.New(o.config.RateSweepInterval)

	o.engine = engine.New(detector.New(), o.analysis, o.config.CacheTTL)

	o.connectStore()
	o.connectNATS()
	o.connectRedis()

	o.queue = capture.NewQueue(o.captureSink, o.config.CaptureBatchSize, o.config.CaptureFlushInterval)
	o.batcher = audit.NewBatcher(o.auditSink(), o.config.AuditBatchSize, o.config.AuditFlushInterval, o.config.AuditMaxPending)

	o.health = health.NewServer(o.config.HealthPort, o.queue.Status)
	o.health.Start()

	log.Printf("CyberGuard engine started")
	return nil
}

// Engine exposes the analysis pipeline to callers.
func (o *Orchestrator) Engine() *engine.Engine {
	return o.engine
}

// CheckLimit gates one inbound call for a source address and route class.
func (o *Orchestrator) CheckLimit(sourceAddr, routeClass string) models.RateDecision {
	budget := o.config.RouteLimits.Lookup(routeClass)
	return o.limiter.CheckLimit(ratelimit.Identifier(sourceAddr, routeClass), budget.Limit, budget.Window())
}

// StartCapture begins a live capture session.
func (o *Orchestrator) StartCapture() { o.queue.Start() }

// StopCapture ends the session, draining any partial batch.
func (o *Orchestrator) StopCapture() { o.queue.Stop() }

// CaptureURL feeds one captured request into the queue.
func (o *Orchestrator) CaptureURL(item models.QueuedURL) { o.queue.Capture(item) }

// CaptureStatus reports the queue state.
func (o *Orchestrator) CaptureStatus() capture.Status { return o.queue.Status() }

// LogAudit enqueues one audit entry, fire and forget.
func (o *Orchestrator) LogAudit(entry models.AuditEntry) { o.batcher.Log(entry) }

// Run blocks until the context is cancelled.
func (o *Orchestrator) Run(ctx context.Context) error {
	log.Printf("Engine ready - health on :%s", o.config.HealthPort)
	<-ctx.Done()
	log.Printf("Shutdown signal received")
	return ctx.Err()
}

// Stop drains the queues and closes every connection.
func (o *Orchestrator) Stop() error {
	log.Printf("Stopping engine...")

	if o.queue != nil {
		o.queue.Stop()
	}

	if o.batcher != nil {
		o.batcher.Close()
	}

	if o.analysis != nil {
		o.analysis.Stop()
	}

	if o.limiter != nil {
		o.limiter.Stop()
	}

	if o.health != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := o.health.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down health server: %v", err)
		}
	}

	if o.publisher != nil {
		o.publisher.Close()
	}

	if o.registry != nil {
		if err := o.registry.Close(); err != nil {
			log.Printf("Error closing Redis client: %v", err)
		}
	}

	if o.store != nil {
		o.store.Close()
	}

	log.Printf("Engine stopped")
	return nil
}

// connectStore opens the Postgres pool. Optional: without it the engine
// serves from memory only.
func (o *Orchestrator) connectStore() {
	if o.config.DatabaseURL == "" {
		log.Printf("DATABASE_URL not configured, persistence disabled")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pg, err := store.NewPostgresStore(ctx, o.config.DatabaseURL)
	if err != nil {
		log.Printf("Warning: failed to connect to Postgres: %v", err)
		log.Printf("Analyses will not be persisted")
		return
	}

	o.store = pg
	o.engine.WithStore(pg)
	log.Printf("Connected to Postgres")
}

// connectNATS attaches the event bus publisher. Optional.
func (o *Orchestrator) connectNATS() {
	if o.config.NatsURL == "" {
		log.Printf("NATS URL not configured, skipping connection")
		return
	}

	publisher, err := eventbus.NewPublisher(o.config.NatsURL)
	if err != nil {
		log.Printf("Warning: failed to connect NATS publisher: %v", err)
		log.Printf("Detections will not be published to the dashboard feed")
		return
	}

	o.publisher = publisher
	o.engine.WithPublisher(publisher)
}

// connectRedis attaches the detection registry. Optional.
func (o *Orchestrator) connectRedis() {
	if o.config.RedisAddr == "" {
		log.Printf("Redis address not configured, skipping connection")
		return
	}

	client, err := registry.NewClient(o.config.RedisAddr, o.config.RedisPass, o.config.RedisDB)
	if err != nil {
		log.Printf("Warning: failed to connect to Redis: %v", err)
		log.Printf("Detection registry unavailable")
		return
	}

	o.registry = client
	o.engine.WithRegistry(client)
}

// captureSink drains capture batches into the analysis pipeline.
func (o *Orchestrator) captureSink(batch []models.QueuedURL) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	o.engine.AnalyzeBatch(ctx, batch)
	return nil
}

// auditSink flushes to Postgres when available, otherwise to the log.
func (o *Orchestrator) auditSink() audit.Sink {
	if o.store != nil {
		return o.store
	}
	return logAuditSink{}
}

type logAuditSink struct{}

func (logAuditSink) WriteAuditBatch(ctx context.Context, entries []models.AuditEntry) error {
	for _, e := range entries {
		log.Printf("audit: %s %s/%s actor=%s", e.Action, e.ResourceType, e.ResourceID, e.ActorID)
	}
	return nil
}
