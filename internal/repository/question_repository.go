package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/siriuscareer/career-admin/internal/model"
)

// QuestionRepository handles question data access.
type QuestionRepository interface {
	GetByTestID(ctx context.Context, db DBTX, testID int64) ([]model.Question, error)
	GetByID(ctx context.Context, db DBTX, id int64) (*model.Question, error)
	Create(ctx context.Context, db DBTX, q *model.Question) error
	CreateBulk(ctx context.Context, db DBTX, testID int64, questions []model.Question) error
	Update(ctx context.Context, db DBTX, q *model.Question) error
	Delete(ctx context.Context, db DBTX, id int64) error
	DeleteByTestID(ctx context.Context, db DBTX, testID int64) error
	ExistsByTestAndOrder(ctx context.Context, db DBTX, testID int64, order int, excludeID *int64) (bool, error)
	CountByTestID(ctx context.Context, db DBTX, testID int64) (int, error)
}

const questionColumns = `id, test_id, text, "order", type, config, created_at, updated_at`

type questionRepository struct{}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository() QuestionRepository {
	return &questionRepository{}
}

// GetByTestID retrieves all questions of a test, ordered by their order.
func (r *questionRepository) GetByTestID(ctx context.Context, db DBTX, testID int64) ([]model.Question, error) {
	rows, err := db.Query(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE test_id = $1 ORDER BY "order", id`, testID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := []model.Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, *q)
	}
	return questions, rows.Err()
}

// GetByID retrieves a question by its ID. Returns nil when absent.
func (r *questionRepository) GetByID(ctx context.Context, db DBTX, id int64) (*model.Question, error) {
	q, err := scanQuestion(db.QueryRow(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return q, err
}

// Create inserts a single question and fills in its generated fields.
func (r *questionRepository) Create(ctx context.Context, db DBTX, q *model.Question) error {
	err := db.QueryRow(ctx,
		`INSERT INTO questions (test_id, text, "order", type, config)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		q.TestID, q.Text, q.Order, q.Type, configOrEmpty(q.Config),
	).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
	return Classify(err)
}

// CreateBulk inserts questions for testID in submission order, filling in
// the generated fields of each element.
func (r *questionRepository) CreateBulk(ctx context.Context, db DBTX, testID int64, questions []model.Question) error {
	for i := range questions {
		questions[i].TestID = testID
		if err := r.Create(ctx, db, &questions[i]); err != nil {
			return err
		}
	}
	return nil
}

// Update overwrites the mutable fields of a question.
func (r *questionRepository) Update(ctx context.Context, db DBTX, q *model.Question) error {
	err := db.QueryRow(ctx,
		`UPDATE questions
		 SET text = $1, "order" = $2, type = $3, config = $4, updated_at = NOW()
		 WHERE id = $5
		 RETURNING updated_at`,
		q.Text, q.Order, q.Type, configOrEmpty(q.Config), q.ID,
	).Scan(&q.UpdatedAt)
	return Classify(err)
}

// Delete removes a question.
func (r *questionRepository) Delete(ctx context.Context, db DBTX, id int64) error {
	_, err := db.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	return Classify(err)
}

// DeleteByTestID removes every question of a test.
func (r *questionRepository) DeleteByTestID(ctx context.Context, db DBTX, testID int64) error {
	_, err := db.Exec(ctx, `DELETE FROM questions WHERE test_id = $1`, testID)
	return Classify(err)
}

// ExistsByTestAndOrder reports whether the test already has a question at
// order, ignoring the question excludeID when given.
func (r *questionRepository) ExistsByTestAndOrder(ctx context.Context, db DBTX, testID int64, order int, excludeID *int64) (bool, error) {
	var exists bool
	err := db.QueryRow(ctx,
		`SELECT EXISTS(
		   SELECT 1 FROM questions
		   WHERE test_id = $1 AND "order" = $2 AND ($3::BIGINT IS NULL OR id <> $3)
		 )`,
		testID, order, excludeID,
	).Scan(&exists)
	return exists, err
}

// CountByTestID counts the questions of a test.
func (r *questionRepository) CountByTestID(ctx context.Context, db DBTX, testID int64) (int, error) {
	var n int
	err := db.QueryRow(ctx, `SELECT COUNT(*) FROM questions WHERE test_id = $1`, testID).Scan(&n)
	return n, err
}

func scanQuestion(row pgx.Row) (*model.Question, error) {
	q := &model.Question{}
	if err := row.Scan(&q.ID, &q.TestID, &q.Text, &q.Order, &q.Type, &q.Config, &q.CreatedAt, &q.UpdatedAt); err != nil {
		return nil, err
	}
	return q, nil
}

func configOrEmpty(cfg map[string]any) map[string]any {
	if cfg == nil {
		return map[string]any{}
	}
	return cfg
}
