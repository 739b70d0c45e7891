// Package cache provides a two-tier response cache for interpretation
// results. The engine is deterministic, so a response can be replayed for an
// identical request without recomputation: tier 1 is an in-process expirable
// LRU, tier 2 an optional shared Redis behind a circuit breaker.
//
// The cache degrades silently. A Redis outage never fails a request; the
// breaker stops hammering a dead Redis and the memory tier keeps serving.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/lab-interpretation-server/internal/domain"
	"github.com/lab-interpretation-server/internal/service"
)

const keyPrefix = "labinterp:response:"

// ResponseCache caches serialized interpretation responses keyed by a
// content hash of the request.
type ResponseCache struct {
	logger  *logrus.Logger
	memory  *expirable.LRU[string, []byte]
	redis   *redis.Client
	breaker *gobreaker.CircuitBreaker
	ttl     time.Duration
}

// New creates a response cache from configuration. The Redis tier is only
// wired when a URL is configured; connection failure at startup disables it
// rather than failing the process.
func New(config domain.CacheConfig, logger *logrus.Logger) (*ResponseCache, error) {
	if config.MemorySize <= 0 {
		return nil, fmt.Errorf("cache memory size must be positive, got %d", config.MemorySize)
	}

	c := &ResponseCache{
		logger: logger,
		memory: expirable.NewLRU[string, []byte](config.MemorySize, nil, config.TTL),
		ttl:    config.TTL,
	}

	if config.RedisURL == "" {
		return c, nil
	}

	opts, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	opts.PoolSize = config.PoolSize
	opts.PoolTimeout = config.PoolTimeout
	opts.MaxRetries = config.MaxRetries

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Warn("Redis unreachable, response cache running memory-only")
		client.Close()
		return c, nil
	}

	c.redis = client
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "response-cache-redis",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     15 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Cache circuit breaker state changed")
		},
	})

	return c, nil
}

// Key derives the deterministic cache key for a batch request. Results are
// sorted into a canonical order first so that submission order does not
// fragment the cache.
func Key(params *service.InterpretBatchParams) string {
	results := make([]service.ResultInput, len(params.Results))
	copy(results, params.Results)
	sort.Slice(results, func(i, j int) bool {
		if results[i].TestCode != results[j].TestCode {
			return results[i].TestCode < results[j].TestCode
		}
		if results[i].Value != results[j].Value {
			return results[i].Value < results[j].Value
		}
		return results[i].Unit < results[j].Unit
	})

	canonical := struct {
		Age     int                   `json:"age"`
		Sex     domain.Sex            `json:"sex"`
		Results []service.ResultInput `json:"results"`
	}{params.Age, params.Sex, results}

	payload, _ := json.Marshal(canonical)
	sum := sha256.Sum256(payload)
	return keyPrefix + hex.EncodeToString(sum[:])
}

// Get looks the key up in the memory tier first, then Redis. A Redis hit is
// promoted into the memory tier.
func (c *ResponseCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if payload, ok := c.memory.Get(key); ok {
		return payload, true
	}

	if c.redis == nil {
		return nil, false
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.redis.Get(ctx, key).Bytes()
	})
	if err != nil {
		if err != redis.Nil {
			c.logger.WithError(err).Debug("Redis cache read failed")
		}
		return nil, false
	}

	payload := result.([]byte)
	c.memory.Add(key, payload)
	return payload, true
}

// Set stores the payload in both tiers. Redis failures are logged and
// swallowed.
func (c *ResponseCache) Set(ctx context.Context, key string, payload []byte) {
	c.memory.Add(key, payload)

	if c.redis == nil {
		return
	}

	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.redis.Set(ctx, key, payload, c.ttl).Err()
	})
	if err != nil {
		c.logger.WithError(err).Debug("Redis cache write failed")
	}
}

// Len returns the number of entries currently in the memory tier.
func (c *ResponseCache) Len() int {
	return c.memory.Len()
}

// Close releases the Redis connection, if any.
func (c *ResponseCache) Close() error {
	if c.redis != nil {
		return c.redis.Close()
	}
	return nil
}
