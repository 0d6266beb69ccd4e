// Package memrepo provides in-memory implementations of the repository
// interfaces. Writes made inside a transaction are undone on Rollback, which
// makes it usable for dry runs and for exercising the service layer without
// PostgreSQL. Concurrent transactions are not isolated from each other.
package memrepo

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/siriuscareer/career-admin/internal/model"
	"github.com/siriuscareer/career-admin/internal/repository"
)

var errTxClosed = errors.New("memrepo: transaction already closed")

type state struct {
	tests          map[int64]model.Test
	questions      map[int64]model.Question
	nextTestID     int64
	nextQuestionID int64
}

func (s *state) clone() *state {
	c := &state{
		tests:          make(map[int64]model.Test, len(s.tests)),
		questions:      make(map[int64]model.Question, len(s.questions)),
		nextTestID:     s.nextTestID,
		nextQuestionID: s.nextQuestionID,
	}
	for id, t := range s.tests {
		c.tests[id] = t
	}
	for id, q := range s.questions {
		c.questions[id] = q
	}
	return c
}

// Store holds the in-memory tables. It satisfies the Begin half of the
// service database handle; the DBTX methods are never called by memrepo
// repositories and panic if used.
type Store struct {
	repository.DBTX

	mu        sync.Mutex
	data      *state
	clock     time.Time
	completed map[int64]struct{}

	// FailCreate, when set, is returned by the next TestRepository.Create
	// call after the test and its questions have been staged.
	FailCreate error

	Commits   int
	Rollbacks int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		data: &state{
			tests:          map[int64]model.Test{},
			questions:      map[int64]model.Question{},
			nextTestID:     1,
			nextQuestionID: 1,
		},
		clock:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		completed: map[int64]struct{}{},
	}
}

// MarkCompleted records a completed result for the test, which blocks its deletion.
func (s *Store) MarkCompleted(testID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completed[testID] = struct{}{}
}

// Begin starts a transaction that snapshots the current tables.
func (s *Store) Begin(ctx context.Context) (pgx.Tx, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &tx{store: s, snapshot: s.data.clone()}, nil
}

// TestCount returns the number of stored tests.
func (s *Store) TestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.tests)
}

// QuestionCount returns the number of stored questions across all tests.
func (s *Store) QuestionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.questions)
}

// now returns a strictly increasing timestamp so newest-first ordering is stable.
func (s *Store) now() time.Time {
	s.clock = s.clock.Add(time.Millisecond)
	return s.clock
}

type tx struct {
	pgx.Tx

	store    *Store
	snapshot *state
	closed   bool
}

func (t *tx) Commit(ctx context.Context) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if t.closed {
		return errTxClosed
	}
	t.closed = true
	t.store.Commits++
	return nil
}

func (t *tx) Rollback(ctx context.Context) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if t.closed {
		return errTxClosed
	}
	t.closed = true
	t.store.data = t.snapshot
	t.store.Rollbacks++
	return nil
}
