// internal/service/property/views.go
package property

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"quinto-service/internal/repository/postgres"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// flushThreshold caps how many views pile up in Redis before they are folded
// into the properties row.
const flushThreshold = 10

// ViewCounter buffers listing page views in Redis so every read of a popular
// listing does not become an UPDATE on the properties table.
type ViewCounter struct {
	client       *redis.Client
	propertyRepo *postgres.PropertyRepository
	logger       *zap.Logger
}

func NewViewCounter(client *redis.Client, propertyRepo *postgres.PropertyRepository, logger *zap.Logger) *ViewCounter {
	return &ViewCounter{
		client:       client,
		propertyRepo: propertyRepo,
		logger:       logger,
	}
}

func viewKey(propertyID int64) string {
	return fmt.Sprintf("views:property:%d", propertyID)
}

// Register counts one view. When the buffer reaches the threshold it is
// drained into the database.
func (v *ViewCounter) Register(ctx context.Context, propertyID int64) error {
	count, err := v.client.Incr(ctx, viewKey(propertyID)).Result()
	if err != nil {
		return fmt.Errorf("failed to increment view counter: %w", err)
	}

	if count >= flushThreshold {
		return v.Flush(ctx, propertyID)
	}
	return nil
}

// Flush drains the buffered views of one listing into the database.
func (v *ViewCounter) Flush(ctx context.Context, propertyID int64) error {
	raw, err := v.client.GetDel(ctx, viewKey(propertyID)).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to drain view counter: %w", err)
	}

	delta, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || delta <= 0 {
		return nil
	}

	return v.propertyRepo.AddViews(ctx, propertyID, delta)
}

// FlushAll drains every buffered counter. Runs on a ticker and at shutdown.
func (v *ViewCounter) FlushAll(ctx context.Context) {
	iter := v.client.Scan(ctx, 0, "views:property:*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()

		var propertyID int64
		if _, err := fmt.Sscanf(key, "views:property:%d", &propertyID); err != nil {
			continue
		}

		if err := v.Flush(ctx, propertyID); err != nil {
			v.logger.Error("failed to flush view counter",
				zap.String("key", key), zap.Error(err))
		}
	}
	if err := iter.Err(); err != nil {
		v.logger.Error("view counter scan failed", zap.Error(err))
	}
}

// Run flushes buffered views periodically until the context ends.
func (v *ViewCounter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			v.FlushAll(context.WithoutCancel(ctx))
			return
		case <-ticker.C:
			v.FlushAll(ctx)
		}
	}
}
