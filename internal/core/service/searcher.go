package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mysterybox-game/boxctl/internal/core/domain"
)

const defaultSearchDelay = 500 * time.Millisecond

// SearchResult is one delivered search outcome. Seq identifies which Query
// call produced it.
type SearchResult struct {
	Seq   uint64
	Term  string
	Users []domain.User
	Err   error
}

// UserSearcher is the narrow slice of the admin console the Searcher needs.
type UserSearcher interface {
	SearchUsers(ctx context.Context, term string) ([]domain.User, error)
}

// Searcher debounces rapid query edits into a single request and guards
// against out-of-order responses: each dispatched request carries a
// monotonically increasing sequence number, and a response is only delivered
// when its sequence is still the latest issued. A superseded in-flight
// request is not cancelled, just silenced.
type Searcher struct {
	admin   UserSearcher
	delay   time.Duration
	deliver func(SearchResult)
	log     zerolog.Logger

	mu    sync.Mutex
	timer *time.Timer
	seq   uint64
}

// NewSearcher returns a Searcher delivering results through fn. A
// non-positive delay falls back to 500ms.
func NewSearcher(admin UserSearcher, delay time.Duration, fn func(SearchResult), log zerolog.Logger) *Searcher {
	if delay <= 0 {
		delay = defaultSearchDelay
	}
	return &Searcher{admin: admin, delay: delay, deliver: fn, log: log}
}

// Query schedules a search for term, replacing any pending one. The request
// fires after the debounce delay on its own goroutine.
func (s *Searcher) Query(ctx context.Context, term string) {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.seq++
	seq := s.seq
	s.timer = time.AfterFunc(s.delay, func() {
		s.run(ctx, seq, term)
	})
	s.mu.Unlock()
}

// Cancel drops any pending query without dispatching it. Responses already
// in flight are discarded on arrival.
func (s *Searcher) Cancel() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.seq++
	s.mu.Unlock()
}

func (s *Searcher) run(ctx context.Context, seq uint64, term string) {
	users, err := s.admin.SearchUsers(ctx, term)

	s.mu.Lock()
	latest := s.seq
	s.mu.Unlock()
	if seq != latest {
		s.log.Debug().Uint64("seq", seq).Uint64("latest", latest).Str("term", term).Msg("stale search response discarded")
		return
	}

	s.deliver(SearchResult{Seq: seq, Term: term, Users: users, Err: err})
}
