package manager

import (
	"sync/atomic"

	"github.com/rs/xid"
)

// Tracker counts active transcriptions process-wide and answers whether the
// service can accept more work. It never blocks or queues; callers decide what
// to do when IsOverloaded reports true.
type Tracker struct {
	active atomic.Int64
}

// Token is the obligation to call End for a matching Begin.
type Token struct {
	id    xid.ID
	ended atomic.Bool
}

// ID returns the unique token id, useful for correlating logs.
func (t *Token) ID() string { return t.id.String() }

func NewTracker() *Tracker { return &Tracker{} }

// Begin records the start of a transcription. Pair every Begin with a deferred End.
func (t *Tracker) Begin() *Token {
	t.active.Add(1)
	return &Token{id: xid.New()}
}

// End records the end of the transcription bracketed by tok. Only the first
// End per token decrements the count.
func (t *Tracker) End(tok *Token) {
	if tok == nil || !tok.ended.CompareAndSwap(false, true) {
		return
	}
	t.active.Add(-1)
}

// Active returns the current number of active transcriptions.
func (t *Tracker) Active() int64 { return t.active.Load() }

// IsOverloaded reports whether the active count reached limit.
// A nil limit disables admission control.
func (t *Tracker) IsOverloaded(limit *int) bool {
	if limit == nil {
		return false
	}
	return t.active.Load() >= int64(*limit)
}
