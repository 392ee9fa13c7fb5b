package features

import (
	"errors"
	"math"
	"net/url"
	"regexp"
	"strings"

	"github.com/SubodhKumarSahu2826/CyberGuard/internal/models"
)

// ErrMalformedURL is returned when the input cannot be parsed as an absolute
// URL. The extractor never attempts to repair malformed input.
var ErrMalformedURL = errors.New("malformed url")

var (
	specialCharRe = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>/?]`)
	digitRe       = regexp.MustCompile(`[0-9]`)
	encodedRe     = regexp.MustCompile(`%[0-9A-Fa-f]{2}`)
)

// suspiciousKeywords is a fixed, case-insensitive substring list spanning
// SQL/XSS/traversal/command-injection/credential vocabulary. Membership test
// only, not weighted.
var suspiciousKeywords = []string{
	"admin", "root", "password", "passwd", "login", "cmd", "shell",
	"union", "select", "insert", "delete", "drop", "exec", "script",
	"alert", "prompt", "confirm", "javascript", "vbscript",
	"../", "..\\", "/etc/", "/proc/", "/var/",
	"|", "&", ";", "`", "$(",
}

// benignMarkers feed the frequency heuristic: +0.1 each, capped at 1.0.
// Intentionally a weak auxiliary signal.
var benignMarkers = []string{".com", ".org", ".net", "www.", "http", "https"}

// Extract computes the feature record for one URL. The result is a value and
// never mutated afterwards.
func Extract(raw string) (models.ExtractedFeatures, error) {
	parsed, err := url.Parse(raw)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return models.ExtractedFeatures{}, ErrMalformedURL
	}

	host := parsed.Host
	path := parsed.EscapedPath()
	query := parsed.RawQuery

	f := models.ExtractedFeatures{
		URLLength:          len(raw),
		DomainLength:       len(host),
		PathLength:         len(path),
		QueryLength:        len(query),
		SpecialCharCount:   len(specialCharRe.FindAllString(raw, -1)),
		DigitCount:         len(digitRe.FindAllString(raw, -1)),
		Entropy:            CalculateEntropy(raw),
		PathDepth:          pathDepth(path),
		SubdomainCount:     subdomainCount(host),
		ParameterCount:     parameterCount(query),
		SuspiciousKeywords: matchKeywords(raw),
		EncodedCharCount:   len(encodedRe.FindAllString(raw, -1)),
		FrequencyScore:     frequencyScore(raw),
	}

	return f, nil
}

// CalculateEntropy returns the Shannon entropy of the string in bits over its
// character-frequency distribution. A repeated-character string has entropy 0.
func CalculateEntropy(text string) float64 {
	if text == "" {
		return 0
	}

	counts := make(map[rune]int)
	total := 0
	for _, r := range text {
		counts[r]++
		total++
	}

	entropy := 0.0
	for _, count := range counts {
		p := float64(count) / float64(total)
		entropy -= p * math.Log2(p)
	}

	return entropy
}

func pathDepth(path string) int {
	depth := 0
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			depth++
		}
	}
	return depth
}

func subdomainCount(host string) int {
	// Strip a port if present; labels only.
	if idx := strings.LastIndex(host, ":"); idx != -1 && !strings.Contains(host[idx:], "]") {
		host = host[:idx]
	}
	n := len(strings.Split(host, ".")) - 2
	if n < 0 {
		return 0
	}
	return n
}

func parameterCount(query string) int {
	if query == "" {
		return 0
	}
	values, err := url.ParseQuery(query)
	if err != nil {
		// Count raw pairs when the query does not parse cleanly.
		return len(strings.Split(query, "&"))
	}
	return len(values)
}

func matchKeywords(raw string) []string {
	lower := strings.ToLower(raw)
	matched := make([]string, 0)
	for _, kw := range suspiciousKeywords {
		if strings.Contains(lower, kw) {
			matched = append(matched, kw)
		}
	}
	return matched
}

func frequencyScore(raw string) float64 {
	lower := strings.ToLower(raw)
	score := 0.0
	for _, marker := range benignMarkers {
		if strings.Contains(lower, marker) {
			score += 0.1
		}
	}
	return math.Min(score, 1.0)
}
