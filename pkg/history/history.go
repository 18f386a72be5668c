// Package history records print attempts.
package history

import (
	"context"
	"sync"
	"time"
)

// Status values for an Entry.
const (
	StatusPrinted = "printed"
	StatusFailed  = "failed"
	StatusDryRun  = "dry-run"
)

// Entry is one print attempt.
type Entry struct {
	ID          string    `json:"id" bson:"_id"`
	Text        string    `json:"text" bson:"text"`
	LabelSize   string    `json:"label_size" bson:"label_size"`
	Font        string    `json:"font" bson:"font"`
	Orientation string    `json:"orientation" bson:"orientation"`
	Printer     string    `json:"printer" bson:"printer"`
	Status      string    `json:"status" bson:"status"`
	Error       string    `json:"error,omitempty" bson:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// Store persists entries.
type Store interface {
	Record(ctx context.Context, e Entry) error
	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]Entry, error)
	Close(ctx context.Context) error
}

// DefaultCapacity bounds a MemoryStore created with a non-positive size.
const DefaultCapacity = 100

// MemoryStore keeps the most recent entries in a ring buffer.
type MemoryStore struct {
	mu      sync.Mutex
	entries []Entry
	next    int
	full    bool
}

// NewMemoryStore creates a store holding at most capacity entries.
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemoryStore{entries: make([]Entry, capacity)}
}

func (s *MemoryStore) Record(ctx context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[s.next] = e
	s.next = (s.next + 1) % len(s.entries)
	if s.next == 0 {
		s.full = true
	}
	return nil
}

func (s *MemoryStore) Recent(ctx context.Context, limit int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.next
	if s.full {
		n = len(s.entries)
	}
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]Entry, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (s.next - i + len(s.entries)) % len(s.entries)
		out = append(out, s.entries[idx])
	}
	return out, nil
}

func (s *MemoryStore) Close(ctx context.Context) error { return nil }

var _ Store = (*MemoryStore)(nil)
