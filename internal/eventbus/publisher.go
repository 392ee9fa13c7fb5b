package eventbus

import (
	"encoding/json"
	"log"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/SubodhKumarSahu2826/CyberGuard/internal/models"
)

// Subjects published by the engine.
const (
	SubjectThreats  = "threats.detected"
	SubjectAnalyses = "analysis.completed"
)

// Publisher publishes detections and completed analyses to NATS for the
// dashboard's live feed.
type Publisher struct {
	conn *nats.Conn
}

// NewPublisher creates a new event bus publisher
func NewPublisher(natsURL string) (*Publisher, error) {
	conn, err := nats.Connect(natsURL,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(10),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, err
	}

	log.Printf("Engine (Pub) connected to NATS at %s", natsURL)

	return &Publisher{conn: conn}, nil
}

// PublishDetection publishes one detection to the threats topic.
func (p *Publisher) PublishDetection(detection *models.Detection) error {
	data, err := json.Marshal(detection)
	if err != nil {
		return err
	}

	if err := p.conn.Publish(SubjectThreats, data); err != nil {
		return err
	}

	log.Printf("Published detection to event bus: [%s] %s", detection.RiskLevel, detection.AttackType)

	return nil
}

// PublishAnalysis publishes a completed analysis to the analyses topic.
func (p *Publisher) PublishAnalysis(result *models.AnalysisResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	return p.conn.Publish(SubjectAnalyses, data)
}

// Close closes the NATS connection
func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Close()
		log.Println("Engine (Pub) disconnected from NATS")
	}
}

// IsConnected returns true if connected to NATS
func (p *Publisher) IsConnected() bool {
	return p.conn != nil && p.conn.IsConnected()
}
