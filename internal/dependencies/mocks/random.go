package mocks

import (
	"fmt"
	"sync"

	"github.com/mcoot/weddingplanner/internal/dependencies/random"
)

// MockRandom is a mock implementation of Random for testing.
// Queued strings are returned first; once the queue is drained String falls
// back to a real random draw so tests that do not care about codes still get
// unique ones.
type MockRandom struct {
	mu sync.Mutex

	stringResults []string
	fallback      *random.CryptoRandom

	idCounter int
}

// Ensure MockRandom implements Random
var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a new MockRandom
func NewMockRandom() *MockRandom {
	return &MockRandom{fallback: random.New()}
}

// String returns the next queued result, or a random string if none remain
func (r *MockRandom) String(length int, alphabet string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.stringResults) == 0 {
		return r.fallback.String(length, alphabet)
	}
	result := r.stringResults[0]
	r.stringResults = r.stringResults[1:]
	return result
}

// ID returns sequential identifiers: id-1, id-2, ...
func (r *MockRandom) ID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.idCounter++
	return fmt.Sprintf("id-%d", r.idCounter)
}

// QueueString adds values to the String result queue
func (r *MockRandom) QueueString(values ...string) {
	r.mu.Lock()
	r.stringResults = append(r.stringResults, values...)
	r.mu.Unlock()
}

// Reset clears all queued results and restarts the ID sequence
func (r *MockRandom) Reset() {
	r.mu.Lock()
	r.stringResults = nil
	r.idCounter = 0
	r.mu.Unlock()
}
