package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/siriuscareer/career-admin/internal/model"
)

// TestRepository handles test data access.
type TestRepository interface {
	GetAll(ctx context.Context, db DBTX) ([]model.Test, error)
	GetBySlug(ctx context.Context, db DBTX, slug string) (*model.Test, error)
	GetByID(ctx context.Context, db DBTX, id int64) (*model.Test, error)
	ExistsBySlug(ctx context.Context, db DBTX, slug string) (bool, error)
	Create(ctx context.Context, db DBTX, test *model.Test) error
	Update(ctx context.Context, db DBTX, test *model.Test, patch model.TestPatch) error
	Delete(ctx context.Context, db DBTX, test *model.Test) error
	HasCompletedResults(ctx context.Context, db DBTX, testID int64) (bool, error)
	GetActive(ctx context.Context, db DBTX) ([]model.Test, error)
	GetInactive(ctx context.Context, db DBTX) ([]model.Test, error)
}

const testColumns = `id, slug, name, description, is_active, created_at, updated_at`

type testRepository struct {
	questionRepo QuestionRepository
}

// NewTestRepository creates a new TestRepository. Questions owned by a test
// are written through questionRepo.
func NewTestRepository(questionRepo QuestionRepository) TestRepository {
	return &testRepository{questionRepo: questionRepo}
}

// GetAll returns every test, newest first.
func (r *testRepository) GetAll(ctx context.Context, db DBTX) ([]model.Test, error) {
	return r.list(ctx, db, `SELECT `+testColumns+` FROM tests ORDER BY created_at DESC, id DESC`)
}

// GetActive returns active tests, newest first.
func (r *testRepository) GetActive(ctx context.Context, db DBTX) ([]model.Test, error) {
	return r.list(ctx, db,
		`SELECT `+testColumns+` FROM tests WHERE is_active = $1 ORDER BY created_at DESC, id DESC`, true)
}

// GetInactive returns inactive tests, newest first.
func (r *testRepository) GetInactive(ctx context.Context, db DBTX) ([]model.Test, error) {
	return r.list(ctx, db,
		`SELECT `+testColumns+` FROM tests WHERE is_active = $1 ORDER BY created_at DESC, id DESC`, false)
}

// GetBySlug retrieves a test by slug. Returns nil when absent.
func (r *testRepository) GetBySlug(ctx context.Context, db DBTX, slug string) (*model.Test, error) {
	t, err := scanTest(db.QueryRow(ctx, `SELECT `+testColumns+` FROM tests WHERE slug = $1`, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return t, err
}

// GetByID retrieves a test by ID. Returns nil when absent.
func (r *testRepository) GetByID(ctx context.Context, db DBTX, id int64) (*model.Test, error) {
	t, err := scanTest(db.QueryRow(ctx, `SELECT `+testColumns+` FROM tests WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return t, err
}

// ExistsBySlug reports whether a test with slug exists.
func (r *testRepository) ExistsBySlug(ctx context.Context, db DBTX, slug string) (bool, error) {
	var exists bool
	err := db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM tests WHERE slug = $1)`, slug).Scan(&exists)
	return exists, err
}

// Create inserts the test row and all of its questions.
func (r *testRepository) Create(ctx context.Context, db DBTX, test *model.Test) error {
	err := db.QueryRow(ctx,
		`INSERT INTO tests (slug, name, description, is_active)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		test.Slug, test.Name, test.Description, test.IsActive,
	).Scan(&test.ID, &test.CreatedAt, &test.UpdatedAt)
	if err != nil {
		return Classify(err)
	}

	return r.questionRepo.CreateBulk(ctx, db, test.ID, test.Questions)
}

// Update applies the non-nil fields of patch. A non-nil question list
// replaces every existing question of the test.
func (r *testRepository) Update(ctx context.Context, db DBTX, test *model.Test, patch model.TestPatch) error {
	err := db.QueryRow(ctx,
		`UPDATE tests
		 SET name = COALESCE($1, name),
		     description = COALESCE($2, description),
		     is_active = COALESCE($3, is_active),
		     updated_at = NOW()
		 WHERE id = $4
		 RETURNING `+testColumns,
		patch.Name, patch.Description, patch.IsActive, test.ID,
	).Scan(&test.ID, &test.Slug, &test.Name, &test.Description, &test.IsActive, &test.CreatedAt, &test.UpdatedAt)
	if err != nil {
		return Classify(err)
	}

	if patch.Questions == nil {
		return nil
	}

	if err := r.questionRepo.DeleteByTestID(ctx, db, test.ID); err != nil {
		return err
	}
	if err := r.questionRepo.CreateBulk(ctx, db, test.ID, patch.Questions); err != nil {
		return err
	}
	test.Questions = patch.Questions
	return nil
}

// Delete removes the test. Its questions go with it through ON DELETE CASCADE.
func (r *testRepository) Delete(ctx context.Context, db DBTX, test *model.Test) error {
	_, err := db.Exec(ctx, `DELETE FROM tests WHERE id = $1`, test.ID)
	return Classify(err)
}

// HasCompletedResults reports whether any completed result references the
// test. There is no results store yet, so nothing ever blocks deletion.
func (r *testRepository) HasCompletedResults(ctx context.Context, db DBTX, testID int64) (bool, error) {
	return false, nil
}

func (r *testRepository) list(ctx context.Context, db DBTX, query string, args ...any) ([]model.Test, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tests := []model.Test{}
	for rows.Next() {
		t, err := scanTest(rows)
		if err != nil {
			return nil, err
		}
		tests = append(tests, *t)
	}
	return tests, rows.Err()
}

func scanTest(row pgx.Row) (*model.Test, error) {
	t := &model.Test{}
	if err := row.Scan(&t.ID, &t.Slug, &t.Name, &t.Description, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return t, nil
}
