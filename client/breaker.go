package client

import (
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/cenk/backoff"
	circuit "github.com/rubyist/circuitbreaker"
)

// breakerSet holds one circuit breaker per repository host.
type breakerSet struct {
	breakers map[string]*circuit.Breaker
	mu       sync.RWMutex
}

func newBreakerSet() *breakerSet {
	return &breakerSet{breakers: make(map[string]*circuit.Breaker)}
}

// get returns or creates the breaker for host.
func (s *breakerSet) get(host string) *circuit.Breaker {
	s.mu.RLock()
	breaker, exists := s.breakers[host]
	s.mu.RUnlock()

	if exists {
		return breaker
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if breaker, exists := s.breakers[host]; exists {
		return breaker
	}

	// Trips after 5 consecutive failures
	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = 30 * time.Second
	expBackoff.MaxInterval = 5 * time.Minute
	expBackoff.Multiplier = 2.0
	expBackoff.Reset()

	breaker = circuit.NewBreakerWithOptions(&circuit.Options{
		BackOff:    expBackoff,
		ShouldTrip: circuit.ThresholdTripFunc(5),
	})
	s.breakers[host] = breaker
	return breaker
}

// call runs fn under the breaker for rawURL's host. A 404 is a valid answer
// from a healthy repository and does not count as a failure.
func (s *breakerSet) call(rawURL string, fn func() ([]byte, error)) ([]byte, error) {
	host := hostOf(rawURL)
	breaker := s.get(host)

	if !breaker.Ready() {
		return nil, fmt.Errorf("%w for %s", ErrCircuitOpen, host)
	}

	var body []byte
	var notFound error
	err := breaker.Call(func() error {
		var fetchErr error
		body, fetchErr = fn()
		if errors.Is(fetchErr, ErrNotFound) {
			notFound = fetchErr
			return nil
		}
		return fetchErr
	}, 0)

	if errors.Is(err, circuit.ErrBreakerOpen) {
		return nil, fmt.Errorf("%w for %s", ErrCircuitOpen, host)
	}
	if err != nil {
		return nil, err
	}
	if notFound != nil {
		return nil, notFound
	}
	return body, nil
}

func (s *breakerSet) states() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	states := make(map[string]string, len(s.breakers))
	for host, breaker := range s.breakers {
		if breaker.Tripped() {
			states[host] = "open"
		} else {
			states[host] = "closed"
		}
	}
	return states
}

// hostOf groups URLs by host; file URLs and unparseable input share a
// truncated prefix instead.
func hostOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		if len(rawURL) > 50 {
			return rawURL[:50]
		}
		return rawURL
	}
	return parsed.Host
}
