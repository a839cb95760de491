package circuit_breaker

import (
	"errors"
	"sync"
	"time"
)

type Status uint8

const (
	Closed   Status = 1
	Open     Status = 2
	HalfOpen Status = 3
)

func (s Status) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

var ErrOpenCB = errors.New("circuit breaker is open")

type CircuitBreaker interface {
	Call(service func() error) error
	State() Status
	Reset()
}

type circuitBreaker struct {
	mu    sync.Mutex
	state Status

	// window of the last window call outcomes, true means failed
	window []bool
	pos    int

	// share of failed calls in the window that opens the breaker
	threshold float64
	// how long the breaker stays open before probing
	cooldown time.Duration
	openedAt time.Time

	// successful probes required to close again
	recoveryRequests int
	probes           int

	now func() time.Time
}

// New returns a breaker tracking the outcome of the last windowSize calls.
func New(windowSize int, cooldown time.Duration, threshold float64, recoveryRequests int) CircuitBreaker {
	if windowSize < 1 {
		windowSize = 1
	}
	return &circuitBreaker{
		state:            Closed,
		window:           make([]bool, windowSize),
		threshold:        threshold,
		cooldown:         cooldown,
		recoveryRequests: recoveryRequests,
		now:              time.Now,
	}
}

func (cb *circuitBreaker) Call(service func() error) error {
	if !cb.allow() {
		return ErrOpenCB
	}

	err := service()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.record(err != nil)
	return err
}

func (cb *circuitBreaker) State() Status {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *circuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.reset()
}

func (cb *circuitBreaker) allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state != Open {
		return true
	}
	if cb.now().Sub(cb.openedAt) <= cb.cooldown {
		return false
	}
	cb.state = HalfOpen
	cb.probes = 0
	return true
}

// record must be called with mu held.
func (cb *circuitBreaker) record(failed bool) {
	cb.window[cb.pos] = failed
	cb.pos = (cb.pos + 1) % len(cb.window)

	if cb.state == HalfOpen {
		if failed {
			cb.trip()
			return
		}
		cb.probes++
		if cb.probes > cb.recoveryRequests {
			cb.reset()
		}
		return
	}

	fails := 0
	for _, f := range cb.window {
		if f {
			fails++
		}
	}
	if float64(fails)/float64(len(cb.window)) >= cb.threshold {
		cb.trip()
	}
}

func (cb *circuitBreaker) trip() {
	cb.state = Open
	cb.probes = 0
	cb.openedAt = cb.now()
}

func (cb *circuitBreaker) reset() {
	for i := range cb.window {
		cb.window[i] = false
	}
	cb.probes = 0
	cb.pos = 0
	cb.state = Closed
}
