// internal/store/cache/roster.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"project-workers/internal/common/logger"
	"project-workers/internal/common/metrics"
	"project-workers/internal/matching"
	"project-workers/internal/models"
)

// RosterKey holds the JSON-encoded active employee list.
const RosterKey = "employees:active"

// RosterCache is a read-through cache in front of an EmployeeSource. Redis
// failures fall through to the source. Workload counts are never cached here.
// Roster changes, including deactivation, become visible once the entry expires.
type RosterCache struct {
	source matching.EmployeeSource
	rdb    redis.Cmdable
	ttl    time.Duration
	logger logger.Logger
}

func NewRosterCache(source matching.EmployeeSource, rdb redis.Cmdable, ttl time.Duration, log logger.Logger) *RosterCache {
	return &RosterCache{
		source: source,
		rdb:    rdb,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "roster-cache"}),
	}
}

func (c *RosterCache) ActiveEmployees(ctx context.Context) ([]models.Employee, error) {
	if employees, ok := c.get(ctx); ok {
		metrics.RosterCacheLookups.WithLabelValues("hit").Inc()
		return employees, nil
	}

	employees, err := c.source.ActiveEmployees(ctx)
	if err != nil {
		return nil, err
	}

	c.set(ctx, employees)
	return employees, nil
}

func (c *RosterCache) get(ctx context.Context) ([]models.Employee, bool) {
	raw, err := c.rdb.Get(ctx, RosterKey).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.RosterCacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}
	if err != nil {
		metrics.RosterCacheLookups.WithLabelValues("error").Inc()
		c.logger.Warn("roster cache read failed", map[string]interface{}{"error": err.Error()})
		return nil, false
	}

	var employees []models.Employee
	if err := json.Unmarshal(raw, &employees); err != nil {
		metrics.RosterCacheLookups.WithLabelValues("error").Inc()
		c.logger.Warn("discarding undecodable roster cache entry", map[string]interface{}{"error": err.Error()})
		return nil, false
	}
	return employees, true
}

func (c *RosterCache) set(ctx context.Context, employees []models.Employee) {
	raw, err := json.Marshal(employees)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, RosterKey, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("roster cache write failed", map[string]interface{}{"error": err.Error()})
	}
}
