// Package camera holds the process-wide capture session state machine.
package camera

import (
	"strconv"
	"sync"
	"sync/atomic"

	"garbage-vision-go/internal/models"
)

// Session is the single notion of "is a live feed currently being
// produced, and from which source". One Session is constructed at process
// start in the stopped state and passed by reference to the HTTP handlers
// and the streaming loop.
//
// The streaming loop polls Active once per frame iteration, so stop
// latency is bounded by one frame's processing time. Starting while
// already running just replaces the source; the running loop picks it up
// on its next open, an accepted simplification since capture hardware is
// single-consumer anyway.
type Session struct {
	active atomic.Bool

	mu     sync.RWMutex
	source string
}

// NewSession returns a stopped session with the given default source.
func NewSession(defaultSource string) *Session {
	s := &Session{}
	s.source = defaultSource
	return s
}

// Start records the source and flips the session to running. Idempotent.
func (s *Session) Start(source string) {
	s.mu.Lock()
	s.source = source
	s.mu.Unlock()
	s.active.Store(true)
}

// Stop flips the session to stopped, regardless of current state. The
// last source value persists for Status.
func (s *Session) Stop() {
	s.active.Store(false)
}

// Active reports whether the session is running.
func (s *Session) Active() bool {
	return s.active.Load()
}

// Source returns the current capture source.
func (s *Session) Source() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

// Status is a point-in-time read of the session. Numeric sources are
// reported as device indexes, everything else as stream URIs.
func (s *Session) Status() models.CameraStatusResponse {
	return models.CameraStatusResponse{
		Active: s.Active(),
		Source: SourceValue(s.Source()),
	}
}

// SourceValue parses a source string: numeric selects an indexed local
// device, any other string is a network stream URI.
func SourceValue(source string) any {
	if idx, err := strconv.Atoi(source); err == nil {
		return idx
	}
	return source
}
