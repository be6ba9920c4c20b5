package analytics

import (
	"context"
	"sync"
	"time"

	"analyticshelper/internal/services/instanceid"
)

// Session tracks a foreground session so the helper can log the
// corresponding open/close events with engagement time. The vendor has its
// own automatic lifecycle events, but those cannot carry custom parameters.
type Session struct {
	helper *Helper

	mu      sync.Mutex
	id      string
	started time.Time
	active  bool
}

// NewSession creates a session tracker bound to this helper.
func (h *Helper) NewSession() *Session {
	return &Session{helper: h}
}

// Start marks the session as foregrounded and logs app_open. Starting an
// already-active session is a no-op.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return nil
	}
	s.id = instanceid.NewSessionID()
	s.started = time.Now()
	s.active = true
	id := s.id
	s.mu.Unlock()

	return s.helper.LogEvent(ctx, EventAppOpen, Params{
		ParamSessionID: id,
	})
}

// End marks the session as backgrounded and logs app_close with the elapsed
// engagement time in seconds. Ending an inactive session is a no-op.
func (s *Session) End(ctx context.Context) error {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return nil
	}
	s.active = false
	id := s.id
	engagement := time.Since(s.started).Seconds()
	s.mu.Unlock()

	return s.helper.LogEvent(ctx, EventAppClose, Params{
		ParamSessionID:      id,
		ParamEngagementTime: engagement,
	})
}

// ID returns the current session identifier, empty before the first Start.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}
