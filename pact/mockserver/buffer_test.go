package mockserver

import (
	"testing"

	"github.com/pact-go/pact/pact"
)

func TestBoundedResultLogEvictsOldest(t *testing.T) {
	log := NewBoundedResultLog(2)
	log.Push(pact.NewRequestNotFound(pact.NewRequest("GET", "/a")))
	log.Push(pact.NewRequestNotFound(pact.NewRequest("GET", "/b")))
	log.Push(pact.NewRequestNotFound(pact.NewRequest("GET", "/c")))

	all := log.All()
	if len(all) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(all))
	}
	if all[0].Actual.Path != "/b" || all[1].Actual.Path != "/c" {
		t.Errorf("expected oldest entry evicted, got %q then %q", all[0].Actual.Path, all[1].Actual.Path)
	}
}

func TestBoundedResultLogIterOrderIsOldestFirst(t *testing.T) {
	log := NewBoundedResultLog(3)
	log.Push(pact.NewRequestNotFound(pact.NewRequest("GET", "/1")))
	log.Push(pact.NewRequestNotFound(pact.NewRequest("GET", "/2")))

	var paths []string
	log.Iter(func(r pact.MatchResult) {
		paths = append(paths, r.Actual.Path)
	})
	if len(paths) != 2 || paths[0] != "/1" || paths[1] != "/2" {
		t.Errorf("unexpected iteration order: %v", paths)
	}
}

func TestNewBoundedResultLogPanicsOnNonPositiveSize(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected a panic for non-positive size")
		}
	}()
	NewBoundedResultLog(0)
}
