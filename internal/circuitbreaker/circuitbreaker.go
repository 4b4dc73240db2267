// Package circuitbreaker wraps sony/gobreaker with project defaults.
package circuitbreaker

import (
	"time"

	"github.com/sony/gobreaker/v2"
)

// Config controls the breaker's trip and recovery behavior.
type Config struct {
	Name        string
	MaxRequests uint32        // probes allowed while half-open
	Interval    time.Duration // closed-state counter reset
	Timeout     time.Duration // open-state cool down
	MinRequests uint32        // minimum samples before tripping
	FailureRate float64       // trip threshold over the sample window
}

// DefaultConfig returns the defaults used for external RPC calls.
func DefaultConfig(name string) Config {
	return Config{
		Name:        name,
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		MinRequests: 5,
		FailureRate: 0.5,
	}
}

// CircuitBreaker is a typed breaker for calls returning T.
type CircuitBreaker[T any] struct {
	cb *gobreaker.CircuitBreaker[T]
}

// New creates a breaker from the given config.
func New[T any](cfg Config) *CircuitBreaker[T] {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			rate := float64(counts.TotalFailures) / float64(counts.Requests)
			return rate >= cfg.FailureRate
		},
	}
	return &CircuitBreaker[T]{cb: gobreaker.NewCircuitBreaker[T](settings)}
}

// Execute runs fn under the breaker.
func (c *CircuitBreaker[T]) Execute(fn func() (T, error)) (T, error) {
	return c.cb.Execute(fn)
}

// State reports the breaker state as a string.
func (c *CircuitBreaker[T]) State() string {
	return c.cb.State().String()
}

// IsOpen reports whether calls are currently rejected.
func (c *CircuitBreaker[T]) IsOpen() bool {
	return c.cb.State() == gobreaker.StateOpen
}
