package registry

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/SubodhKumarSahu2826/CyberGuard/internal/models"
)

// DefaultRetention is how long a registered detection stays queryable.
const DefaultRetention = 24 * time.Hour

// threatID derives a stable key from the URL and attack type so repeat
// detections of the same URL overwrite rather than accumulate.
func threatID(url string, attack models.AttackType) string {
	sum := sha1.Sum([]byte(url + "|" + string(attack)))
	return hex.EncodeToString(sum[:])
}

// RegisterDetection stores the detection and indexes it in the per-risk
// active set.
func (c *Client) RegisterDetection(ctx context.Context, detection *models.Detection) error {
	id := threatID(detection.URL, detection.AttackType)
	threatKey := fmt.Sprintf("threat:%s", id)

	data, err := json.Marshal(detection)
	if err != nil {
		return fmt.Errorf("failed to marshal detection: %w", err)
	}

	if err := c.rdb.Set(ctx, threatKey, data, DefaultRetention).Err(); err != nil {
		return fmt.Errorf("failed to store detection: %w", err)
	}

	activeKey := fmt.Sprintf("threats:active:%s", detection.RiskLevel)
	if err := c.rdb.SAdd(ctx, activeKey, id).Err(); err != nil {
		return fmt.Errorf("failed to add to active set: %w", err)
	}

	return nil
}

// GetDetection fetches one registered detection by URL and attack type.
func (c *Client) GetDetection(ctx context.Context, url string, attack models.AttackType) (*models.Detection, error) {
	threatKey := fmt.Sprintf("threat:%s", threatID(url, attack))

	data, err := c.rdb.Get(ctx, threatKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get detection: %w", err)
	}

	var detection models.Detection
	if err := json.Unmarshal([]byte(data), &detection); err != nil {
		return nil, fmt.Errorf("failed to unmarshal detection: %w", err)
	}

	return &detection, nil
}

// ActiveDetections lists registered detections for one risk level. Expired
// members are pruned from the index as they are encountered.
func (c *Client) ActiveDetections(ctx context.Context, risk models.RiskLevel) ([]*models.Detection, error) {
	activeKey := fmt.Sprintf("threats:active:%s", risk)

	ids, err := c.rdb.SMembers(ctx, activeKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get active detections: %w", err)
	}

	detections := make([]*models.Detection, 0, len(ids))
	for _, id := range ids {
		data, err := c.rdb.Get(ctx, fmt.Sprintf("threat:%s", id)).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				c.rdb.SRem(ctx, activeKey, id)
			}
			continue
		}

		var detection models.Detection
		if err := json.Unmarshal([]byte(data), &detection); err != nil {
			continue
		}
		detections = append(detections, &detection)
	}

	return detections, nil
}
