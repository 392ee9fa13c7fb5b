package detector

import (
	"net/url"
	"time"

	"github.com/SubodhKumarSahu2826/CyberGuard/internal/features"
	"github.com/SubodhKumarSahu2826/CyberGuard/internal/models"
)

// Detector scores raw URLs against the per-attack-type signature tables.
// Deterministic and side-effect free; safe for concurrent use.
//
// Matching runs against the raw URL string only. Payloads that would decode
// to a signature but do not textually match one of the listed encoded
// variants are a known detection gap.
type Detector struct {
	threshold float64
	profiles  []attackProfile
}

// New creates a detector over the full signature table with the default
// emission threshold.
func New() *Detector {
	return &Detector{
		threshold: 0.5,
		profiles:  profiles,
	}
}

// SetThreshold overrides the emission threshold. Scores must exceed it
// strictly for a detection to be emitted.
func (d *Detector) SetThreshold(threshold float64) {
	d.threshold = threshold
}

// Detect evaluates every attack profile independently and returns at most one
// detection per attack type. Returns features.ErrMalformedURL for input that
// does not parse as an absolute URL.
func (d *Detector) Detect(raw string) ([]models.Detection, error) {
	parsed, err := url.Parse(raw)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return nil, features.ErrMalformedURL
	}

	now := time.Now().Unix()
	var detections []models.Detection

	for _, profile := range d.profiles {
		score := 0.0
		evidence := make(map[string]interface{})

		for _, sig := range profile.signatures {
			if !sig.matches(raw) {
				continue
			}
			score = clamp01(score + sig.increment)
			evidence[sig.name] = sig.increment
		}

		if score <= d.threshold {
			continue
		}

		detections = append(detections, models.Detection{
			AttackType: profile.attack,
			Confidence: score,
			RiskLevel:  models.RiskFromConfidence(score),
			URL:        raw,
			Timestamp:  now,
			Payload:    profile.excerpt.FindString(raw),
			Evidence:   evidence,
		})
	}

	return detections, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
