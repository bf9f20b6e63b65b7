package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/supplyboard/backend-go/internal/config"
	"github.com/supplyboard/backend-go/internal/domain"
)

const (
	dashboardSummaryKeyPrefix = "dashboard:summary"
	dashboardScanBatchSize    = 100
)

// DashboardCache caches computed KPI summaries per order filter. The cached
// value is a pure function of the underlying snapshot, so a short TTL plus
// whole-prefix invalidation on data refresh is sufficient.
type DashboardCache interface {
	GetSummary(ctx context.Context, filter domain.OrderFilter) (*domain.KPISummary, bool, error)
	SetSummary(ctx context.Context, filter domain.OrderFilter, summary *domain.KPISummary) error
	InvalidateAll(ctx context.Context) error
}

type redisDashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopDashboardCache struct{}

// NewDashboardCache returns a redis-backed cache, or a noop implementation
// when caching is disabled.
func NewDashboardCache(cfg config.CacheConfig) (DashboardCache, error) {
	if !cfg.Enabled {
		return &noopDashboardCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisDashboardCache{client: client, ttl: ttl}, nil
}

// NewNoopDashboardCache returns the disabled cache.
func NewNoopDashboardCache() DashboardCache {
	return &noopDashboardCache{}
}

func (c *redisDashboardCache) GetSummary(ctx context.Context, filter domain.OrderFilter) (*domain.KPISummary, bool, error) {
	key := buildSummaryKey(filter)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var summary domain.KPISummary
	if err := json.Unmarshal(payload, &summary); err != nil {
		// Poisoned entry; drop it and recompute.
		_ = c.client.Del(ctx, key).Err()
		return nil, false, nil
	}

	return &summary, true, nil
}

func (c *redisDashboardCache) SetSummary(ctx context.Context, filter domain.OrderFilter, summary *domain.KPISummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	if err := c.client.Set(ctx, buildSummaryKey(filter), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisDashboardCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, dashboardSummaryKeyPrefix, dashboardScanBatchSize)
}

func (c *noopDashboardCache) GetSummary(context.Context, domain.OrderFilter) (*domain.KPISummary, bool, error) {
	return nil, false, nil
}

func (c *noopDashboardCache) SetSummary(context.Context, domain.OrderFilter, *domain.KPISummary) error {
	return nil
}

func (c *noopDashboardCache) InvalidateAll(context.Context) error {
	return nil
}

// buildSummaryKey canonicalizes the filter (sorted slices, stable field
// order) and hashes it, so logically equal filters share a cache entry.
func buildSummaryKey(filter domain.OrderFilter) string {
	var parts []string

	if filter.DateFrom != nil {
		parts = append(parts, "from="+filter.DateFrom.Format("2006-01-02"))
	}
	if filter.DateTo != nil {
		parts = append(parts, "to="+filter.DateTo.Format("2006-01-02"))
	}
	if len(filter.Categories) > 0 {
		cats := append([]string(nil), filter.Categories...)
		sort.Strings(cats)
		parts = append(parts, "cat="+strings.Join(cats, ","))
	}
	if len(filter.ABCClasses) > 0 {
		classes := make([]string, len(filter.ABCClasses))
		for i, c := range filter.ABCClasses {
			classes[i] = string(c)
		}
		sort.Strings(classes)
		parts = append(parts, "abc="+strings.Join(classes, ","))
	}
	if len(filter.Suppliers) > 0 {
		sup := append([]string(nil), filter.Suppliers...)
		sort.Strings(sup)
		parts = append(parts, "sup="+strings.Join(sup, ","))
	}

	if len(parts) == 0 {
		return dashboardSummaryKeyPrefix + ":all"
	}

	sum := sha1.Sum([]byte(strings.Join(parts, "|")))
	return dashboardSummaryKeyPrefix + ":" + hex.EncodeToString(sum[:])
}
