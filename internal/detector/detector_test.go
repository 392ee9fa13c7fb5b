package detector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SubodhKumarSahu2826/CyberGuard/internal/detector"
	"github.com/SubodhKumarSahu2826/CyberGuard/internal/features"
	"github.com/SubodhKumarSahu2826/CyberGuard/internal/models"
)

func findDetection(detections []models.Detection, attack models.AttackType) *models.Detection {
	for i := range detections {
		if detections[i].AttackType == attack {
			return &detections[i]
		}
	}
	return nil
}

func TestDetect_SQLInjection(t *testing.T) {
	det := detector.New()

	detections, err := det.Detect("http://e.com/search?id=1' OR '1'='1")
	require.NoError(t, err)

	sqli := findDetection(detections, models.AttackSQLInjection)
	require.NotNil(t, sqli, "SQL injection detection should fire")
	assert.Greater(t, sqli.Confidence, 0.7)
	assert.Equal(t, models.RiskHigh, sqli.RiskLevel)
	assert.NotEmpty(t, sqli.Payload)
	assert.Contains(t, sqli.Evidence, "quote")
}

func TestDetect_XSS(t *testing.T) {
	det := detector.New()

	detections, err := det.Detect("http://e.com/s?q=<script>alert(1)</script>")
	require.NoError(t, err)

	xss := findDetection(detections, models.AttackXSS)
	require.NotNil(t, xss, "XSS detection should fire")
	assert.Greater(t, xss.Confidence, 0.7)
	assert.Contains(t, xss.Payload, "<script>")
}

func TestDetect_PathTraversal(t *testing.T) {
	det := detector.New()

	detections, err := det.Detect("http://e.com/f?p=../../../etc/passwd")
	require.NoError(t, err)

	traversal := findDetection(detections, models.AttackPathTraversal)
	require.NotNil(t, traversal, "traversal detection should fire")
	assert.Greater(t, traversal.Confidence, 0.7)
}

func TestDetect_CommandInjection(t *testing.T) {
	det := detector.New()

	detections, err := det.Detect("http://e.com/run?cmd=cat%20/etc/shadow;whoami")
	require.NoError(t, err)

	cmdInj := findDetection(detections, models.AttackCommandInjection)
	require.NotNil(t, cmdInj, "command injection detection should fire")
	assert.Greater(t, cmdInj.Confidence, 0.5)
}

func TestDetect_BenignURLIsClean(t *testing.T) {
	det := detector.New()

	detections, err := det.Detect("https://example.com/about")
	require.NoError(t, err)

	assert.Empty(t, detections)
	assert.Equal(t, models.RiskLow, models.OverallRisk(detections))
}

func TestDetect_BenignShopURLIsClean(t *testing.T) {
	det := detector.New()

	detections, err := det.Detect("https://shop.com/products?category=electronics&page=2")
	require.NoError(t, err)

	assert.Empty(t, detections)
}

func TestDetect_MultipleAttackTypes(t *testing.T) {
	det := detector.New()

	detections, err := det.Detect("http://e.com/a?file=../../../etc/passwd&cmd=cat%20/etc/passwd;id")
	require.NoError(t, err)

	assert.NotNil(t, findDetection(detections, models.AttackPathTraversal))
	assert.NotNil(t, findDetection(detections, models.AttackCommandInjection))
}

func TestDetect_AtMostOneDetectionPerAttackType(t *testing.T) {
	det := detector.New()

	detections, err := det.Detect("http://e.com/q?id=1' OR '1'='1 UNION SELECT passwd FROM users--")
	require.NoError(t, err)

	seen := make(map[models.AttackType]int)
	for _, d := range detections {
		seen[d.AttackType]++
	}
	for attack, count := range seen {
		assert.Equal(t, 1, count, "attack type %s emitted more than once", attack)
	}
}

func TestDetect_ConfidenceIsClamped(t *testing.T) {
	det := detector.New()

	// Every SQLi signature fires; uncapped sum would be 1.6.
	detections, err := det.Detect("http://e.com/q?id=1' OR 'a'='a' UNION SELECT sleep(5)-- %27")
	require.NoError(t, err)

	for _, d := range detections {
		assert.LessOrEqual(t, d.Confidence, 1.0)
		assert.GreaterOrEqual(t, d.Confidence, 0.0)
	}
}

func TestDetect_CriticalTierAtHighScore(t *testing.T) {
	det := detector.New()

	detections, err := det.Detect("http://e.com/f?p=../../../etc/passwd")
	require.NoError(t, err)

	traversal := findDetection(detections, models.AttackPathTraversal)
	require.NotNil(t, traversal)
	// dotdot + sensitive_file + repeated_traversal = 0.9
	assert.Equal(t, models.RiskCritical, traversal.RiskLevel)
}

func TestDetect_CredentialStuffing(t *testing.T) {
	det := detector.New()

	detections, err := det.Detect("https://site.com/login.php?username=admin&password=123456")
	require.NoError(t, err)

	creds := findDetection(detections, models.AttackCredentialStuffing)
	require.NotNil(t, creds, "credential stuffing detection should fire")
	assert.Greater(t, creds.Confidence, 0.5)
}

func TestDetect_ParameterPollution(t *testing.T) {
	det := detector.New()

	detections, err := det.Detect("http://e.com/s?id=1&id=2&ids[]=3")
	require.NoError(t, err)

	pollution := findDetection(detections, models.AttackParamPollution)
	require.NotNil(t, pollution, "parameter pollution detection should fire")
	assert.Contains(t, pollution.Evidence, "duplicate_param")
}

func TestDetect_Typosquatting(t *testing.T) {
	det := detector.New()

	detections, err := det.Detect("http://paypal.com.secure-login.tk/signin")
	require.NoError(t, err)

	typo := findDetection(detections, models.AttackTyposquatting)
	require.NotNil(t, typo, "typosquatting detection should fire")
}

func TestDetect_MalformedURL(t *testing.T) {
	det := detector.New()

	_, err := det.Detect("not-a-url")
	assert.ErrorIs(t, err, features.ErrMalformedURL)
}

func TestDetect_EvidenceNamesMatchedPatterns(t *testing.T) {
	det := detector.New()

	detections, err := det.Detect("http://e.com/f?p=../../../etc/passwd")
	require.NoError(t, err)

	traversal := findDetection(detections, models.AttackPathTraversal)
	require.NotNil(t, traversal)
	assert.Contains(t, traversal.Evidence, "dotdot")
	assert.Contains(t, traversal.Evidence, "sensitive_file")
	assert.Contains(t, traversal.Evidence, "repeated_traversal")
}
