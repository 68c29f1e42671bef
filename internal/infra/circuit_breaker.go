package infra

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Breaker states. Closed lets calls through, Open fails them fast, HalfOpen
// lets probes through until enough succeed to close again.
type CBState int

const (
	CBClosed CBState = iota
	CBOpen
	CBHalfOpen
)

func (s CBState) String() string {
	switch s {
	case CBClosed:
		return "closed"
	case CBOpen:
		return "open"
	case CBHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrCircuitOpen is returned by Execute while the breaker is open.
var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitBreakerConfig struct {
	Name             string
	FailureThreshold int           // consecutive failures before opening
	SuccessThreshold int           // half-open successes before closing
	OpenTimeout      time.Duration // wait before the first probe
}

// DefaultCBConfig suits the outbound notification gateways (SMS, SMTP).
func DefaultCBConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:             name,
		FailureThreshold: 5,
		SuccessThreshold: 2,
		OpenTimeout:      60 * time.Second,
	}
}

// CircuitBreaker guards a flaky dependency. Safe for concurrent use.
type CircuitBreaker struct {
	mu        sync.Mutex
	name      string
	state     CBState
	failures  int
	successes int
	openedAt  time.Time
	cfg       CircuitBreakerConfig
	now       func() time.Time
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = 2
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 60 * time.Second
	}
	return &CircuitBreaker{name: cfg.Name, state: CBClosed, cfg: cfg, now: time.Now}
}

// State returns the current state, moving Open to HalfOpen once the timeout elapsed.
func (cb *CircuitBreaker) State() CBState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.current()
}

func (cb *CircuitBreaker) current() CBState {
	if cb.state == CBOpen && cb.now().Sub(cb.openedAt) >= cb.cfg.OpenTimeout {
		cb.transition(CBHalfOpen)
	}
	return cb.state
}

// Execute runs fn unless the breaker is open, and records its outcome.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if cb.State() == CBOpen {
		return ErrCircuitOpen
	}

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil {
		cb.failed()
		return err
	}
	cb.succeeded()
	return nil
}

// caller holds mu
func (cb *CircuitBreaker) failed() {
	cb.failures++
	switch cb.state {
	case CBClosed:
		if cb.failures >= cb.cfg.FailureThreshold {
			cb.openedAt = cb.now()
			cb.transition(CBOpen)
		}
	case CBHalfOpen:
		cb.openedAt = cb.now()
		cb.transition(CBOpen)
	}
}

// caller holds mu
func (cb *CircuitBreaker) succeeded() {
	switch cb.state {
	case CBClosed:
		cb.failures = 0
	case CBHalfOpen:
		cb.successes++
		if cb.successes >= cb.cfg.SuccessThreshold {
			cb.transition(CBClosed)
		}
	}
}

func (cb *CircuitBreaker) transition(to CBState) {
	if cb.state == to {
		return
	}
	log.Info().Str("breaker", cb.name).Str("from", cb.state.String()).Str("to", to.String()).Msg("circuit breaker state change")
	cb.state = to
	cb.failures = 0
	cb.successes = 0
}
