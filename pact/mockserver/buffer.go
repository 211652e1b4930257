package mockserver

import (
	"sync"

	"github.com/pact-go/pact/pact"
)

// ResultLog defines the interface the mock server uses to record the
// outcome of matching each incoming request against the interaction set.
// Implementations must handle concurrent calls: the server's dispatch loop
// never holds any other lock while pushing, and readers (the
// /_pact/results admin endpoint, the completeness check) may iterate at
// any time.
type ResultLog interface {
	// Push appends r as the newest entry, evicting the oldest entry once
	// the log is at capacity.
	Push(r MatchResult)

	// Iter calls fn on every entry, oldest first.
	Iter(fn func(MatchResult))

	// All returns a snapshot slice, oldest first.
	All() []MatchResult
}

// MatchResult is an alias for pact.MatchResult, kept local so the rest of
// this package's exported surface doesn't need to spell out the import.
type MatchResult = pact.MatchResult

// ringLog stores the most recent n results, overwriting the oldest once
// full, mirroring server/buffer.go's ring-buffer Buffer.
type ringLog struct {
	ring  []MatchResult
	size  int
	start int
	end   int
	sync.Mutex
}

// NewBoundedResultLog creates a ResultLog holding at most n entries. Panics
// if n is not positive, matching the teacher's NewBoundedBuffer contract.
func NewBoundedResultLog(n int) ResultLog {
	if n <= 0 {
		panic("size must be greater than 0")
	}
	return &ringLog{ring: make([]MatchResult, n, n)}
}

func (b *ringLog) Push(r MatchResult) {
	b.Lock()
	defer b.Unlock()

	b.ring[b.end] = r
	b.end = (b.end + 1) % len(b.ring)

	switch b.size {
	case len(b.ring):
		b.start = (b.start + 1) % len(b.ring)
	default:
		b.size++
	}
}

func (b *ringLog) Iter(fn func(MatchResult)) {
	b.Lock()
	defer b.Unlock()

	i := b.start
	for j := 0; j < b.size; j++ {
		fn(b.ring[i])
		i = (i + 1) % len(b.ring)
	}
}

func (b *ringLog) All() []MatchResult {
	var out []MatchResult
	b.Iter(func(r MatchResult) {
		out = append(out, r)
	})
	return out
}
