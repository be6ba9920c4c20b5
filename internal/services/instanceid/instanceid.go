// Package instanceid provides identifier generation for the analytics helper:
// random UUIDs for the app instance (client) identifier and monotonic,
// lowercase ULIDs for session identifiers.
package instanceid

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// Service provides thread-safe session ID generation with monotonic ordering.
// IDs generated by the same instance sort lexicographically by creation time,
// including within the same millisecond.
type Service struct {
	entropy *ulid.MonotonicEntropy
	mu      sync.Mutex
}

// New creates a new ID service with a monotonic entropy source.
func New() *Service {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	return &Service{
		entropy: entropy,
	}
}

// NewSessionID returns a 26-character lowercase ULID. This method is
// thread-safe and maintains monotonic ordering.
func (s *Service) NewSessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy)
	return strings.ToLower(id.String())
}

// NewClientID returns a random UUID suitable as an app instance identifier.
// The canonical 36-character form fits exactly within the user property value
// limit.
func NewClientID() string {
	return uuid.NewString()
}

// Package-level service instance for convenience.
var defaultService = New()

// NewSessionID returns a session ID using the default service instance.
func NewSessionID() string {
	return defaultService.NewSessionID()
}
