// Package mlclient calls the external ML inference service. It is an
// optional enrichment signal: the engine's own scoring never depends on it.
package mlclient

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
)

// Prediction is the predictor's response for one URL.
type Prediction struct {
	URL                 string             `json:"url"`
	PredictedAttackType string             `json:"predicted_attack_type"`
	Confidence          float64            `json:"confidence"`
	RiskLevel           string             `json:"risk_level"`
	AllProbabilities    map[string]float64 `json:"all_probabilities"`
	ModelUsed           string             `json:"model_used"`
	ModelVersion        string             `json:"model_version"`
	Error               string             `json:"error,omitempty"`
}

// Client invokes the inference script once per URL and parses its JSON output.
type Client struct {
	PythonBin  string
	ScriptPath string
}

func NewClient(pythonBin, scriptPath string) *Client {
	if pythonBin == "" {
		pythonBin = "python3"
	}
	return &Client{PythonBin: pythonBin, ScriptPath: scriptPath}
}

// Predict returns the model's classification for one URL.
func (c *Client) Predict(ctx context.Context, url string) (*Prediction, error) {
	cmd := exec.CommandContext(ctx, c.PythonBin, c.ScriptPath, "--url", url, "--json")
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ml inference failed: %w", err)
	}

	var prediction Prediction
	if err := json.Unmarshal(out, &prediction); err != nil {
		return nil, fmt.Errorf("failed to parse prediction: %w", err)
	}
	if prediction.Error != "" {
		return nil, fmt.Errorf("ml inference reported: %s", prediction.Error)
	}

	return &prediction, nil
}
