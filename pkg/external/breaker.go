package external

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/variant-context-server/internal/domain"
)

// ResilientAnnotationClient wraps an annotation client with a circuit breaker
// and an optional Redis cache. A tripped breaker reports upstream
// unavailability without issuing requests; not-found outcomes do not count as
// breaker failures.
type ResilientAnnotationClient struct {
	client  AnnotationClient
	breaker *gobreaker.CircuitBreaker
	cache   *AnnotationCache
	log     *logrus.Logger
}

// fetchOutcome threads a not-found result through the breaker without
// registering it as a failure.
type fetchOutcome struct {
	record *domain.AnnotationRecord
	err    error
}

// NewResilientAnnotationClient wraps a client with a circuit breaker. cache may
// be nil when response caching is disabled.
func NewResilientAnnotationClient(client AnnotationClient, cache *AnnotationCache, log *logrus.Logger) *ResilientAnnotationClient {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "VEP",
		MaxRequests: 5,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
	})

	return &ResilientAnnotationClient{
		client:  client,
		breaker: breaker,
		cache:   cache,
		log:     log,
	}
}

// Fetch resolves an identifier through the cache, then the breaker-guarded
// upstream client. Successful records are cached best-effort.
func (c *ResilientAnnotationClient) Fetch(ctx context.Context, queryID string) (*domain.AnnotationRecord, error) {
	if c.cache != nil {
		record, hit, err := c.cache.Get(ctx, queryID)
		if err != nil {
			c.log.WithFields(logrus.Fields{
				"query_id": queryID,
				"error":    err,
			}).Warn("Annotation cache read failed")
		} else if hit {
			return record, nil
		}
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		record, err := c.client.Fetch(ctx, queryID)
		if err != nil && errors.Is(err, domain.ErrNotFound) {
			return fetchOutcome{err: err}, nil
		}
		return fetchOutcome{record: record}, err
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("annotation circuit open: %w: %w", domain.ErrUpstreamUnavailable, err)
		}
		return nil, err
	}

	outcome := result.(fetchOutcome)
	if outcome.err != nil {
		return nil, outcome.err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, queryID, outcome.record, 0); err != nil {
			c.log.WithFields(logrus.Fields{
				"query_id": queryID,
				"error":    err,
			}).Warn("Annotation cache write failed")
		}
	}

	return outcome.record, nil
}
