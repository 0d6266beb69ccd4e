package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/siriuscareer/career-admin/internal/model"
	"github.com/siriuscareer/career-admin/internal/repository"
	"github.com/siriuscareer/career-admin/internal/validator"
)

// Domain Errors
var (
	ErrTestNotFound  = errors.New("test not found")
	ErrSlugConflict  = errors.New("test slug already exists")
	ErrHasResults    = errors.New("test has completed results")
	ErrInvalidOrder  = validator.ErrInvalidOrder
	ErrInvalidConfig = validator.ErrInvalidConfig
	ErrIntegrity     = repository.ErrIntegrity
)

// Database is the storage handle the service reads through and opens
// transactions on. *pgxpool.Pool satisfies it.
type Database interface {
	repository.DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TestService handles test and question business logic. Every mutation runs
// in its own transaction that is either committed or rolled back exactly once.
type TestService struct {
	db           Database
	testRepo     repository.TestRepository
	questionRepo repository.QuestionRepository
	log          zerolog.Logger
}

// NewTestService creates a new TestService.
func NewTestService(
	db Database,
	testRepo repository.TestRepository,
	questionRepo repository.QuestionRepository,
	log zerolog.Logger,
) *TestService {
	return &TestService{
		db:           db,
		testRepo:     testRepo,
		questionRepo: questionRepo,
		log:          log.With().Str("component", "test_service").Logger(),
	}
}

// List returns every test, newest first.
func (s *TestService) List(ctx context.Context) ([]model.TestSummary, error) {
	return summarize(s.testRepo.GetAll(ctx, s.db))
}

// GetActive returns active tests, newest first.
func (s *TestService) GetActive(ctx context.Context) ([]model.TestSummary, error) {
	return summarize(s.testRepo.GetActive(ctx, s.db))
}

// GetInactive returns inactive tests, newest first.
func (s *TestService) GetInactive(ctx context.Context) ([]model.TestSummary, error) {
	return summarize(s.testRepo.GetInactive(ctx, s.db))
}

// GetDetails returns the test identified by slug with its questions ordered by order.
func (s *TestService) GetDetails(ctx context.Context, slug string) (*model.Test, error) {
	test, err := s.testRepo.GetBySlug(ctx, s.db, validator.NormalizeSlug(slug))
	if err != nil {
		return nil, fmt.Errorf("get test: %w", err)
	}
	if test == nil {
		return nil, ErrTestNotFound
	}

	test.Questions, err = s.questionRepo.GetByTestID(ctx, s.db, test.ID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return test, nil
}

// Create persists a new test together with its questions.
func (s *TestService) Create(ctx context.Context, test *model.Test) (*model.Test, error) {
	test.Slug = validator.NormalizeSlug(test.Slug)

	if err := validator.ValidateQuestionConfigs(test.Questions); err != nil {
		return nil, err
	}

	exists, err := s.testRepo.ExistsBySlug(ctx, s.db, test.Slug)
	if err != nil {
		return nil, fmt.Errorf("check slug: %w", err)
	}
	if exists {
		return nil, ErrSlugConflict
	}

	if err := validator.ValidateQuestionOrders(validator.OrdersOf(test.Questions)); err != nil {
		return nil, err
	}

	var created *model.Test
	err = s.withTx(ctx, func(tx pgx.Tx) error {
		if err := s.testRepo.Create(ctx, tx, test); err != nil {
			return err
		}
		created, err = s.reload(ctx, tx, test.ID)
		return err
	})
	if errors.Is(err, repository.ErrDuplicateSlug) {
		// Lost a race against a concurrent create of the same slug.
		return nil, ErrSlugConflict
	}
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("slug", created.Slug).
		Int("questions", len(created.Questions)).
		Msg("Test created")
	return created, nil
}

// Update applies patch to the test identified by slug. A non-nil
// patch.Questions replaces the full question set.
func (s *TestService) Update(ctx context.Context, slug string, patch model.TestPatch) (*model.Test, error) {
	if patch.Questions != nil {
		if err := validator.ValidateQuestionConfigs(patch.Questions); err != nil {
			return nil, err
		}
	}

	var updated *model.Test
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		test, err := s.testRepo.GetBySlug(ctx, tx, validator.NormalizeSlug(slug))
		if err != nil {
			return fmt.Errorf("get test: %w", err)
		}
		if test == nil {
			return ErrTestNotFound
		}

		if patch.Questions != nil {
			if err := validator.ValidateQuestionOrders(validator.OrdersOf(patch.Questions)); err != nil {
				return err
			}
		}

		if err := s.testRepo.Update(ctx, tx, test, patch); err != nil {
			return err
		}
		updated, err = s.reload(ctx, tx, test.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("slug", updated.Slug).
		Bool("questions_replaced", patch.Questions != nil).
		Int("questions", len(updated.Questions)).
		Msg("Test updated")
	return updated, nil
}

// Delete removes the test identified by slug and, through it, its questions.
func (s *TestService) Delete(ctx context.Context, slug string) error {
	slug = validator.NormalizeSlug(slug)

	err := s.withTx(ctx, func(tx pgx.Tx) error {
		test, err := s.testRepo.GetBySlug(ctx, tx, slug)
		if err != nil {
			return fmt.Errorf("get test: %w", err)
		}
		if test == nil {
			return ErrTestNotFound
		}

		hasResults, err := s.testRepo.HasCompletedResults(ctx, tx, test.ID)
		if err != nil {
			return fmt.Errorf("check results: %w", err)
		}
		if hasResults {
			return ErrHasResults
		}

		return s.testRepo.Delete(ctx, tx, test)
	})
	if err != nil {
		return err
	}

	s.log.Info().Str("slug", slug).Msg("Test deleted")
	return nil
}

// withTx runs fn inside a transaction. The transaction is rolled back when fn
// fails and committed otherwise.
func (s *TestService) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			s.log.Error().Err(rbErr).Msg("Rollback failed")
		}
		return err
	}

	// pgx rolls the transaction back itself when COMMIT fails.
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", repository.Classify(err))
	}
	return nil
}

// reload re-reads a test and its questions through the given handle so the
// caller sees exactly what was staged.
func (s *TestService) reload(ctx context.Context, db repository.DBTX, id int64) (*model.Test, error) {
	test, err := s.testRepo.GetByID(ctx, db, id)
	if err != nil {
		return nil, fmt.Errorf("reload test: %w", err)
	}
	if test == nil {
		return nil, ErrTestNotFound
	}

	test.Questions, err = s.questionRepo.GetByTestID(ctx, db, id)
	if err != nil {
		return nil, fmt.Errorf("reload questions: %w", err)
	}
	return test, nil
}

func summarize(tests []model.Test, err error) ([]model.TestSummary, error) {
	if err != nil {
		return nil, err
	}
	summaries := make([]model.TestSummary, len(tests))
	for i := range tests {
		summaries[i] = tests[i].Summary()
	}
	return summaries, nil
}
