// Package circuitbreaker wraps github.com/sony/gobreaker so failing
// upstreams, blog hosts and the database, stop receiving traffic until
// they recover.
package circuitbreaker

import (
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// Config tunes one breaker instance.
type Config struct {
	Name string
	// MaxRequests caps probe traffic while half-open.
	MaxRequests uint32
	// Interval clears the closed-state counters periodically.
	Interval time.Duration
	// Timeout is the open-state cool-down before probing again.
	Timeout time.Duration
	// FailureThreshold is the failure ratio that trips the breaker, once
	// at least MinRequests have been observed.
	FailureThreshold float64
	MinRequests      uint32
}

// tripped reports whether the observed counts should open the circuit.
func (c Config) tripped(counts gobreaker.Counts) bool {
	if counts.Requests < c.MinRequests {
		return false
	}
	return float64(counts.TotalFailures)/float64(counts.Requests) >= c.FailureThreshold
}

// DefaultConfig trips at 60% failures over at least 5 requests.
func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// FeedFetchConfig tolerates more failures; RSS hosts flap routinely.
func FeedFetchConfig() Config {
	cfg := DefaultConfig("feed-fetch")
	cfg.MaxRequests = 5
	cfg.Interval = 60 * time.Second
	cfg.Timeout = 120 * time.Second
	cfg.FailureThreshold = 0.7
	cfg.MinRequests = 10
	return cfg
}

// PageFetchConfig covers blog post pages. Markup changes without notice
// and those failures persist, so the cool-down is long.
func PageFetchConfig() Config {
	cfg := DefaultConfig("page-fetch")
	cfg.Interval = 60 * time.Second
	cfg.Timeout = 300 * time.Second
	return cfg
}

// CircuitBreaker is a thin wrapper that adds state logging and naming.
type CircuitBreaker struct {
	breaker *gobreaker.CircuitBreaker
	name    string
}

func logStateChange(name string, from, to gobreaker.State) {
	slog.Warn("circuit breaker state changed",
		slog.String("circuit", name),
		slog.String("from", from.String()),
		slog.String("to", to.String()))
}

// New builds a breaker from cfg. State transitions are logged at warn
// level so operators see trips without scraping metrics.
func New(cfg Config) *CircuitBreaker {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:          cfg.Name,
		MaxRequests:   cfg.MaxRequests,
		Interval:      cfg.Interval,
		Timeout:       cfg.Timeout,
		ReadyToTrip:   cfg.tripped,
		OnStateChange: logStateChange,
	})
	return &CircuitBreaker{breaker: breaker, name: cfg.Name}
}

// Execute runs fn through the breaker. When the circuit is open it
// returns gobreaker.ErrOpenState without calling fn.
func (cb *CircuitBreaker) Execute(fn func() (interface{}, error)) (interface{}, error) {
	return cb.breaker.Execute(fn)
}

func (cb *CircuitBreaker) State() gobreaker.State {
	return cb.breaker.State()
}

func (cb *CircuitBreaker) Name() string {
	return cb.name
}

func (cb *CircuitBreaker) IsOpen() bool {
	return cb.breaker.State() == gobreaker.StateOpen
}
