// Package pcapclient invokes the external PCAP processor and consumes its
// results. The decoder itself is opaque: this package only hands it a file
// path and reads back the structured result it writes.
package pcapclient

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/SubodhKumarSahu2826/CyberGuard/internal/models"
)

// ExtractedURL is one HTTP request recovered from the capture file.
type ExtractedURL struct {
	URL       string `json:"url"`
	Method    string `json:"method"`
	SourceIP  string `json:"source_ip"`
	DestIP    string `json:"dest_ip"`
	UserAgent string `json:"user_agent"`
	Timestamp string `json:"timestamp"`
}

// Result mirrors the processor's results JSON.
type Result struct {
	PCAPFile      string         `json:"pcap_file"`
	TotalPackets  int            `json:"total_packets"`
	HTTPPackets   int            `json:"http_packets"`
	ExtractedURLs []ExtractedURL `json:"extracted_urls"`
	Error         string         `json:"error,omitempty"`
}

// Processor runs the external script. PythonBin defaults to "python3".
type Processor struct {
	PythonBin  string
	ScriptPath string
}

func NewProcessor(pythonBin, scriptPath string) *Processor {
	if pythonBin == "" {
		pythonBin = "python3"
	}
	return &Processor{PythonBin: pythonBin, ScriptPath: scriptPath}
}

// Process decodes one capture file. The script writes its results next to the
// input as <file>_results.json; that file is the contract.
func (p *Processor) Process(ctx context.Context, pcapPath string) (*Result, error) {
	cmd := exec.CommandContext(ctx, p.PythonBin, p.ScriptPath, pcapPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("pcap processor failed: %w (output: %s)", err, strings.TrimSpace(string(out)))
	}

	data, err := os.ReadFile(resultsPath(pcapPath))
	if err != nil {
		return nil, fmt.Errorf("failed to read processor results: %w", err)
	}

	return ParseResults(data)
}

// ParseResults decodes the processor's results JSON.
func ParseResults(data []byte) (*Result, error) {
	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse processor results: %w", err)
	}
	if result.Error != "" {
		return nil, fmt.Errorf("pcap processor reported: %s", result.Error)
	}
	return &result, nil
}

// QueuedURLs converts extracted requests into capture queue items.
func (r *Result) QueuedURLs() []models.QueuedURL {
	items := make([]models.QueuedURL, 0, len(r.ExtractedURLs))
	for _, u := range r.ExtractedURLs {
		capturedAt, err := time.Parse(time.RFC3339, u.Timestamp)
		if err != nil {
			capturedAt = time.Now()
		}
		items = append(items, models.QueuedURL{
			URL:        u.URL,
			Method:     u.Method,
			SourceIP:   u.SourceIP,
			UserAgent:  u.UserAgent,
			CapturedAt: capturedAt,
		})
	}
	return items
}

func resultsPath(pcapPath string) string {
	path := strings.TrimSuffix(pcapPath, ".pcapng")
	path = strings.TrimSuffix(path, ".pcap")
	return path + "_results.json"
}
