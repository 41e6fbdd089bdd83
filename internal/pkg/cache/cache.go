// Package cache provides the stats cache capability used by the logbook
// stats service. Two implementations exist: a redis-backed cache and an
// in-process TTL cache for deployments without redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yaqubtawab/siwes-backend/internal/app/models"
)

// ErrCacheMiss is returned when the requested key is not cached
var ErrCacheMiss = errors.New("cache: key not found")

// DefaultStatsTTL bounds staleness for stats served without a write in between
const DefaultStatsTTL = 10 * time.Minute

// StatsCache caches per-student logbook stats. Writes to the logbook must
// invalidate the owning student's key synchronously before returning.
type StatsCache interface {
	Get(ctx context.Context, studentID int64) (*models.LogbookStats, error)
	Set(ctx context.Context, studentID int64, stats *models.LogbookStats) error
	Invalidate(ctx context.Context, studentID int64) error
}

func statsKey(studentID int64) string {
	return fmt.Sprintf("stats:student:%d", studentID)
}
