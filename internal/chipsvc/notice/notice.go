// Package notice models the short-lived status line shown after an action.
package notice

import (
	"sync"
	"time"
)

// DefaultTTL is how long a notice stays visible.
const DefaultTTL = 3 * time.Second

type Kind string

const (
	KindError   Kind = "error"
	KindSuccess Kind = "success"
)

type Notice struct {
	Kind      Kind      `json:"kind"`
	Text      string    `json:"text"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (n *Notice) Active(now time.Time) bool {
	return n != nil && now.Before(n.ExpiresAt)
}

// Board holds at most one notice and clears it once its TTL has elapsed.
// Posting a new notice replaces the current one and restarts the clock.
type Board struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	current *Notice
	timer   *time.Timer
	expired func()
}

func NewBoard(ttl time.Duration) *Board {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Board{ttl: ttl, now: time.Now}
}

func (b *Board) TTL() time.Duration { return b.ttl }

func (b *Board) Error(text string) *Notice   { return b.post(KindError, text) }
func (b *Board) Success(text string) *Notice { return b.post(KindSuccess, text) }

// Current returns the visible notice, or nil.
func (b *Board) Current() *Notice {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.current.Active(b.now()) {
		return nil
	}
	n := *b.current
	return &n
}

func (b *Board) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clearLocked()
}

func (b *Board) post(kind Kind, text string) *Notice {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.clearLocked()
	n := &Notice{Kind: kind, Text: text, ExpiresAt: b.now().Add(b.ttl)}
	b.current = n
	b.timer = time.AfterFunc(b.ttl, func() {
		b.mu.Lock()
		cleared := b.current == n
		if cleared {
			b.current = nil
			b.timer = nil
		}
		expired := b.expired
		b.mu.Unlock()

		if cleared && expired != nil {
			expired()
		}
	})

	out := *n
	return &out
}

func (b *Board) clearLocked() {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.current = nil
}

// Boards keeps one Board per session and viewer. A board only exists while
// it shows a notice: it is created by Post and evicted once the notice clears.
type Boards struct {
	mu     sync.Mutex
	ttl    time.Duration
	boards map[boardKey]*Board
}

type boardKey struct {
	session string
	viewer  string
}

func NewBoards(ttl time.Duration) *Boards {
	return &Boards{ttl: ttl, boards: make(map[boardKey]*Board)}
}

func (bs *Boards) Error(session, viewer, text string) *Notice {
	return bs.post(session, viewer, KindError, text)
}

func (bs *Boards) Success(session, viewer, text string) *Notice {
	return bs.post(session, viewer, KindSuccess, text)
}

// Current returns the notice visible to viewer in session, or nil. It never
// creates a board.
func (bs *Boards) Current(session, viewer string) *Notice {
	bs.mu.Lock()
	b, ok := bs.boards[boardKey{session, viewer}]
	bs.mu.Unlock()
	if !ok {
		return nil
	}
	return b.Current()
}

// Drop removes every board of session, e.g. once the session is deleted.
func (bs *Boards) Drop(session string) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	for k, b := range bs.boards {
		if k.session == session {
			b.Clear()
			delete(bs.boards, k)
		}
	}
}

// Len reports how many boards are held.
func (bs *Boards) Len() int {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	return len(bs.boards)
}

// post holds bs.mu while posting so an eviction cannot race a new notice.
func (bs *Boards) post(session, viewer string, kind Kind, text string) *Notice {
	bs.mu.Lock()
	defer bs.mu.Unlock()

	k := boardKey{session, viewer}
	b, ok := bs.boards[k]
	if !ok {
		b = NewBoard(bs.ttl)
		b.expired = func() { bs.evict(k, b) }
		bs.boards[k] = b
	}
	return b.post(kind, text)
}

func (bs *Boards) evict(k boardKey, b *Board) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	if bs.boards[k] == b && b.Current() == nil {
		delete(bs.boards, k)
	}
}
