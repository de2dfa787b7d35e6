package store

import (
	"context"
	"testing"
	"time"

	"github.com/53Karthik/Summary-Q-A-Insight-Engine/types"
)

func TestMemoryStore_ListByOwnerNewestFirst(t *testing.T) {
	mem := NewMemoryStore()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i, q := range []string{"oldest", "middle", "newest"} {
		err := mem.AppendEntry(context.Background(), types.HistoryEntry{
			OwnerID:   "u1",
			Question:  q,
			Answer:    "a",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	entries, err := mem.ListByOwner(context.Background(), "u1", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for i, want := range []string{"newest", "middle", "oldest"} {
		if entries[i].Question != want {
			t.Errorf("entries[%d] = %q, want %q", i, entries[i].Question, want)
		}
	}
	if entries[0].ID == entries[1].ID {
		t.Error("entries share an id")
	}
}

func TestMemoryStore_ListByOwnerLimit(t *testing.T) {
	mem := NewMemoryStore()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		mem.AppendEntry(context.Background(), types.HistoryEntry{
			OwnerID:   "u1",
			Question:  "q",
			Answer:    "a",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
	}

	entries, err := mem.ListByOwner(context.Background(), "u1", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("limit ignored: got %d entries", len(entries))
	}
}

func TestMemoryStore_OwnersAreIsolated(t *testing.T) {
	mem := NewMemoryStore()
	mem.AppendEntry(context.Background(), types.HistoryEntry{OwnerID: "u1", Question: "q", CreatedAt: time.Now()})

	entries, err := mem.ListByOwner(context.Background(), "u2", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("owner u2 sees u1 entries: %d", len(entries))
	}
}
