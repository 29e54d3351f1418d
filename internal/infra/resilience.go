package infra

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// RequestDeduplicator coalesces identical in-flight upstream requests.
// When several tool calls ask for the same law at once, only one HTTP
// request is made and every waiter shares its result.
type RequestDeduplicator struct {
	mu       sync.Mutex
	inflight map[string]*inflightRequest
}

type inflightRequest struct {
	done   chan struct{}
	result any
	err    error
}

// NewRequestDeduplicator creates an empty deduplicator.
func NewRequestDeduplicator() *RequestDeduplicator {
	return &RequestDeduplicator{inflight: make(map[string]*inflightRequest)}
}

// Do runs fn unless a request with the same key is already in flight, in
// which case it waits for that request's result. The bool reports whether
// the result was shared.
func (d *RequestDeduplicator) Do(ctx context.Context, key string, fn func() (any, error)) (any, bool, error) {
	d.mu.Lock()
	if req, ok := d.inflight[key]; ok {
		d.mu.Unlock()
		select {
		case <-req.done:
			return req.result, true, req.err
		case <-ctx.Done():
			return nil, false, ctx.Err()
		}
	}

	req := &inflightRequest{done: make(chan struct{})}
	d.inflight[key] = req
	d.mu.Unlock()

	req.result, req.err = fn()
	close(req.done)

	d.mu.Lock()
	delete(d.inflight, key)
	d.mu.Unlock()

	return req.result, false, req.err
}

// InFlight returns the number of requests currently being deduplicated.
func (d *RequestDeduplicator) InFlight() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.inflight)
}

// CircuitState is the circuit breaker's current mode.
type CircuitState int

const (
	CircuitClosed   CircuitState = iota // normal operation
	CircuitOpen                         // failing fast
	CircuitHalfOpen                     // probing for recovery
)

func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreaker fails fast when law.go.kr stops responding, instead of
// stacking up timeouts. Opens after a run of consecutive failures, then
// lets a couple of probe requests through after the reset timeout.
type CircuitBreaker struct {
	mu sync.RWMutex

	failureThreshold int
	resetTimeout     time.Duration
	halfOpenMax      int

	state            CircuitState
	consecutiveFails int
	lastFailure      time.Time
	halfOpenCount    int
}

// NewCircuitBreaker returns a breaker with defaults suited to the upstream:
// open after 5 straight failures, probe again after 30 seconds.
func NewCircuitBreaker() *CircuitBreaker {
	return NewCircuitBreakerWithConfig(5, 30*time.Second, 2)
}

// NewCircuitBreakerWithConfig returns a breaker with explicit settings.
func NewCircuitBreakerWithConfig(failureThreshold int, resetTimeout time.Duration, halfOpenMax int) *CircuitBreaker {
	return &CircuitBreaker{
		failureThreshold: failureThreshold,
		resetTimeout:     resetTimeout,
		halfOpenMax:      halfOpenMax,
		state:            CircuitClosed,
	}
}

// Allow reports whether a request may proceed, transitioning open → half-open
// once the reset timeout has elapsed.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitClosed:
		return true
	case CircuitOpen:
		if time.Since(cb.lastFailure) > cb.resetTimeout {
			cb.state = CircuitHalfOpen
			cb.halfOpenCount = 1
			return true
		}
		return false
	case CircuitHalfOpen:
		if cb.halfOpenCount < cb.halfOpenMax {
			cb.halfOpenCount++
			return true
		}
		return false
	default:
		return false
	}
}

// RecordSuccess resets the failure count; a success in half-open closes the
// circuit.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.consecutiveFails = 0
	if cb.state == CircuitHalfOpen {
		cb.state = CircuitClosed
		cb.halfOpenCount = 0
	}
}

// RecordFailure counts a failure, opening the circuit at the threshold.
// Any failure in half-open reopens immediately.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.consecutiveFails++
	cb.lastFailure = time.Now()

	switch cb.state {
	case CircuitClosed:
		if cb.consecutiveFails >= cb.failureThreshold {
			cb.state = CircuitOpen
		}
	case CircuitHalfOpen:
		cb.state = CircuitOpen
		cb.halfOpenCount = 0
	}
}

// State returns the current circuit state.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state
}

// Stats returns a snapshot for logging and the probe command.
func (cb *CircuitBreaker) Stats() CircuitBreakerStats {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return CircuitBreakerStats{
		State:            cb.state.String(),
		ConsecutiveFails: cb.consecutiveFails,
		LastFailure:      cb.lastFailure,
	}
}

// CircuitBreakerStats is a point-in-time view of the breaker.
type CircuitBreakerStats struct {
	State            string    `json:"state"`
	ConsecutiveFails int       `json:"consecutive_failures"`
	LastFailure      time.Time `json:"last_failure,omitempty"`
}

// ErrCircuitOpen is returned while the breaker rejects requests.
type ErrCircuitOpen struct {
	RetryAt  time.Time
	Failures int
}

func (e *ErrCircuitOpen) Error() string {
	return fmt.Sprintf("circuit breaker open after %d failures: law.go.kr is not responding, retry after %s",
		e.Failures, e.RetryAt.Format(time.RFC3339))
}
