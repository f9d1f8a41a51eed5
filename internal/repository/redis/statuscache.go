package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chatboxhq/chatbox/internal/domain"
	"github.com/google/uuid"
)

const (
	statusCachePrefix = "videostatus:"
	statusCacheTTL    = 5 * time.Second
)

// StatusCache holds the latest video-job snapshot for polling clients so
// repeated polls do not hit the database. Entries are short-lived and are
// invalidated whenever a job's status is written.
type StatusCache struct {
	client *Client
}

// NewStatusCache creates a new video status cache
func NewStatusCache(client *Client) *StatusCache {
	return &StatusCache{client: client}
}

// Get retrieves a cached snapshot. A miss returns (nil, nil).
func (c *StatusCache) Get(ctx context.Context, videoID uuid.UUID) (*domain.VideoSnapshot, error) {
	key := statusCachePrefix + videoID.String()

	data, err := c.client.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, nil // Cache miss
	}

	var snap domain.VideoSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// Set caches a snapshot for a video job
func (c *StatusCache) Set(ctx context.Context, videoID uuid.UUID, snap domain.VideoSnapshot) error {
	key := statusCachePrefix + videoID.String()

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return c.client.rdb.Set(ctx, key, data, statusCacheTTL).Err()
}

// Invalidate removes the cached snapshot for a video job
func (c *StatusCache) Invalidate(ctx context.Context, videoID uuid.UUID) error {
	return c.client.rdb.Del(ctx, statusCachePrefix+videoID.String()).Err()
}
