package vectorsearch

import (
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/furnishly/backend/internal/domain"
	"github.com/furnishly/backend/internal/logging"
	"github.com/furnishly/backend/internal/metrics"
)

// newBreaker opens after 5 consecutive failures, or a 60% failure rate
// over at least 10 requests, and probes again after 30 seconds
func newBreaker(name string) *gobreaker.CircuitBreaker[any] {
	metrics.VectorCircuitState.Set(stateToFloat(gobreaker.StateClosed))

	return gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.ConsecutiveFailures >= 5 {
				return true
			}
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		IsSuccessful: func(err error) bool {
			return err == nil || isClientError(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("component", "vectorsearch").
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
			metrics.VectorCircuitState.Set(stateToFloat(to))
		},
	})
}

// execute runs fn under cb. Rejections while open or half-open saturated
// are reported as domain.ErrCircuitOpen.
func execute[T any](cb *gobreaker.CircuitBreaker[any], fn func() (*T, error)) (*T, error) {
	result, err := cb.Execute(func() (any, error) {
		return fn()
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, domain.ErrCircuitOpen
		}
		return nil, err
	}

	typed, _ := result.(*T)
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
