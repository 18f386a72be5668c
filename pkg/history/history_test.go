package history

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"
)

func entry(i int) Entry {
	return Entry{ID: fmt.Sprintf("e%d", i), Text: "label", Status: StatusPrinted, CreatedAt: time.Unix(int64(i), 0)}
}

func ids(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		capacity int
		records  int
		limit    int
		want     []string
	}{
		{"empty", 3, 0, 10, []string{}},
		{"partial", 3, 2, 10, []string{"e1", "e0"}},
		{"limit", 3, 3, 2, []string{"e2", "e1"}},
		{"wraps", 3, 5, 0, []string{"e4", "e3", "e2"}},
		{"exact fill", 3, 3, 0, []string{"e2", "e1", "e0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewMemoryStore(tt.capacity)
			for i := 0; i < tt.records; i++ {
				if err := s.Record(ctx, entry(i)); err != nil {
					t.Fatal(err)
				}
			}
			got, err := s.Recent(ctx, tt.limit)
			if err != nil {
				t.Fatal(err)
			}
			if fmt.Sprint(ids(got)) != fmt.Sprint(tt.want) {
				t.Errorf("Recent(%d) = %v, want %v", tt.limit, ids(got), tt.want)
			}
		})
	}
}

func TestMemoryStoreDefaultCapacity(t *testing.T) {
	s := NewMemoryStore(0)
	if len(s.entries) != DefaultCapacity {
		t.Errorf("capacity = %d, want %d", len(s.entries), DefaultCapacity)
	}
}

func TestMemoryStoreConcurrent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(50)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.Record(ctx, entry(i))
			_, _ = s.Recent(ctx, 5)
		}(i)
	}
	wg.Wait()

	got, _ := s.Recent(ctx, 0)
	if len(got) != 20 {
		t.Errorf("len(Recent) = %d, want 20", len(got))
	}
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("QLABEL_TEST_MONGO")
	if uri == "" {
		t.Skip("QLABEL_TEST_MONGO not set")
	}
	ctx := context.Background()
	coll := fmt.Sprintf("history_test_%d", time.Now().UnixNano())
	s, err := NewMongoStore(ctx, MongoOptions{URI: uri, Database: "qlabel_test", Collection: coll})
	if err != nil {
		t.Fatalf("NewMongoStore: %v", err)
	}
	defer func() {
		_ = s.coll.Drop(ctx)
		_ = s.Close(ctx)
	}()

	for i := 0; i < 3; i++ {
		if err := s.Record(ctx, entry(i)); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	got, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if fmt.Sprint(ids(got)) != "[e2 e1]" {
		t.Errorf("Recent(2) = %v", ids(got))
	}
}
