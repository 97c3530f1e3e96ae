package apiclient

import (
	"sync"
	"time"
)

// StatusTracker remembers whether the API answered the most recent call.
// Every completed call flips it: online after a success, offline after a failure.
type StatusTracker struct {
	mu      sync.RWMutex
	known   bool
	online  bool
	lastErr error
	changed time.Time
}

// Record stores the outcome of one API call
func (s *StatusTracker) Record(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	online := err == nil
	if !s.known || online != s.online {
		s.changed = time.Now()
	}
	s.known = true
	s.online = online
	s.lastErr = err
}

// Online reports whether the last completed call succeeded
func (s *StatusTracker) Online() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.online
}

// Known reports whether any call has completed yet
func (s *StatusTracker) Known() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.known
}

// LastError returns the error of the last call, nil when it succeeded
func (s *StatusTracker) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Since returns when the status last changed
func (s *StatusTracker) Since() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.changed
}
