// Package circuitbreaker guards the warehouse connection. When queries fail
// repeatedly the breaker opens and callers fail fast instead of stacking
// timeouts on a warehouse that is already down.
package circuitbreaker

import (
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// State represents the circuit breaker state
type State string

const (
	// StateClosed means queries are allowed
	StateClosed State = "closed"
	// StateOpen means queries are blocked
	StateOpen State = "open"
	// StateHalfOpen means a limited number of probe queries are allowed
	StateHalfOpen State = "half_open"
)

// ErrCircuitOpen is returned when the breaker is rejecting calls
var ErrCircuitOpen = errors.New("circuit breaker is open")

// Config configures a circuit breaker
type Config struct {
	Name string
	// MaxFailures is the consecutive-failure count that opens the breaker
	MaxFailures int
	// Timeout is how long the breaker stays open before probing
	Timeout time.Duration
	// HalfOpenSuccesses is the probe successes required to close again
	HalfOpenSuccesses int
}

// DefaultConfig returns breaker settings suited to warehouse queries, which
// already carry their own per-query timeout and retry budget.
func DefaultConfig(name string) *Config {
	return &Config{
		Name:              name,
		MaxFailures:       5,
		Timeout:           30 * time.Second,
		HalfOpenSuccesses: 2,
	}
}

// CircuitBreaker implements a consecutive-failure circuit breaker
type CircuitBreaker struct {
	name              string
	maxFailures       int
	timeout           time.Duration
	halfOpenSuccesses int

	mu               sync.Mutex
	state            State
	consecutiveFails int
	probeSuccesses   int
	lastStateChange  time.Time
}

// New creates a circuit breaker in the closed state
func New(config *Config) *CircuitBreaker {
	return &CircuitBreaker{
		name:              config.Name,
		maxFailures:       config.MaxFailures,
		timeout:           config.Timeout,
		halfOpenSuccesses: config.HalfOpenSuccesses,
		state:             StateClosed,
		lastStateChange:   time.Now(),
	}
}

// Execute runs fn under breaker protection. When the breaker is open it
// returns ErrCircuitOpen without calling fn.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if err := cb.beforeCall(); err != nil {
		return err
	}

	err := fn()
	cb.afterCall(err)

	return err
}

// State returns the current breaker state
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *CircuitBreaker) beforeCall() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateOpen {
		if time.Since(cb.lastStateChange) < cb.timeout {
			return ErrCircuitOpen
		}
		cb.setState(StateHalfOpen)
	}

	return nil
}

func (cb *CircuitBreaker) afterCall(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil {
		cb.onFailure()
		return
	}
	cb.onSuccess()
}

func (cb *CircuitBreaker) onSuccess() {
	switch cb.state {
	case StateClosed:
		cb.consecutiveFails = 0
	case StateHalfOpen:
		cb.probeSuccesses++
		if cb.probeSuccesses >= cb.halfOpenSuccesses {
			cb.setState(StateClosed)
			logrus.WithField("breaker", cb.name).Info("Circuit breaker closed")
		}
	}
}

func (cb *CircuitBreaker) onFailure() {
	switch cb.state {
	case StateClosed:
		cb.consecutiveFails++
		if cb.consecutiveFails >= cb.maxFailures {
			cb.setState(StateOpen)
			logrus.WithFields(logrus.Fields{
				"breaker":  cb.name,
				"failures": cb.consecutiveFails,
			}).Warn("Circuit breaker opened")
		}
	case StateHalfOpen:
		// A failed probe reopens immediately
		cb.setState(StateOpen)
		logrus.WithField("breaker", cb.name).Warn("Circuit breaker reopened")
	}
}

func (cb *CircuitBreaker) setState(state State) {
	cb.state = state
	cb.lastStateChange = time.Now()
	cb.consecutiveFails = 0
	cb.probeSuccesses = 0
}
