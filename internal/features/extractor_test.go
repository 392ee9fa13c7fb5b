package features_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SubodhKumarSahu2826/CyberGuard/internal/features"
)

func TestExtract_BasicFields(t *testing.T) {
	f, err := features.Extract("https://www.example.com/a/b/c?x=1&y=2")

	require.NoError(t, err)
	assert.Equal(t, len("https://www.example.com/a/b/c?x=1&y=2"), f.URLLength)
	assert.Equal(t, len("www.example.com"), f.DomainLength)
	assert.Equal(t, 3, f.PathDepth)
	assert.Equal(t, 1, f.SubdomainCount)
	assert.Equal(t, 2, f.ParameterCount)
	assert.Equal(t, 2, f.DigitCount)
}

func TestExtract_RejectsMalformedInput(t *testing.T) {
	cases := []string{
		"",
		"not a url at all",
		"/relative/path",
		"example.com/missing-scheme",
		"http://",
	}

	for _, raw := range cases {
		_, err := features.Extract(raw)
		assert.ErrorIs(t, err, features.ErrMalformedURL, "input: %q", raw)
	}
}

func TestExtract_CountsAreNonNegative(t *testing.T) {
	urls := []string{
		"https://example.com/",
		"http://a.b.c.d.example.com/deep/path?q=%3Cscript%3E",
		"https://shop.com/products?category=electronics",
	}

	for _, raw := range urls {
		f, err := features.Extract(raw)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, f.Entropy, 0.0)
		assert.GreaterOrEqual(t, f.SpecialCharCount, 0)
		assert.GreaterOrEqual(t, f.DigitCount, 0)
		assert.GreaterOrEqual(t, f.PathDepth, 0)
		assert.GreaterOrEqual(t, f.SubdomainCount, 0)
		assert.GreaterOrEqual(t, f.ParameterCount, 0)
		assert.GreaterOrEqual(t, f.EncodedCharCount, 0)
	}
}

func TestCalculateEntropy_RepeatedCharacterIsZero(t *testing.T) {
	assert.Equal(t, 0.0, features.CalculateEntropy("aaaaaaa"))
	assert.Equal(t, 0.0, features.CalculateEntropy(""))
}

func TestCalculateEntropy_DiverseStringIsHigher(t *testing.T) {
	low := features.CalculateEntropy("aaaaaaa")
	high := features.CalculateEntropy("x9k2m8n4p7q1w5e3r6t")

	assert.Less(t, low, high)
}

func TestExtract_SuspiciousKeywords(t *testing.T) {
	f, err := features.Extract("http://evil.com/admin?q=UNION+SELECT+passwd")

	require.NoError(t, err)
	assert.Contains(t, f.SuspiciousKeywords, "admin")
	assert.Contains(t, f.SuspiciousKeywords, "union")
	assert.Contains(t, f.SuspiciousKeywords, "select")
	assert.Contains(t, f.SuspiciousKeywords, "passwd")
}

func TestExtract_EncodedCharCount(t *testing.T) {
	f, err := features.Extract("http://e.com/p?q=%3Cscript%3Ealert%281%29")

	require.NoError(t, err)
	assert.Equal(t, 4, f.EncodedCharCount)
}

func TestExtract_FrequencyScoreIsBounded(t *testing.T) {
	f, err := features.Extract("https://www.example.com.org.net/")

	require.NoError(t, err)
	assert.GreaterOrEqual(t, f.FrequencyScore, 0.0)
	assert.LessOrEqual(t, f.FrequencyScore, 1.0)
	// all six benign markers present
	assert.InDelta(t, 0.6, f.FrequencyScore, 0.0001)
}

func TestExtract_SubdomainCountFlooredAtZero(t *testing.T) {
	f, err := features.Extract("http://localhost:8080/x")

	require.NoError(t, err)
	assert.Equal(t, 0, f.SubdomainCount)
}
