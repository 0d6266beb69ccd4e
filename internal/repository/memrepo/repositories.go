package memrepo

import (
	"context"
	"sort"

	"github.com/siriuscareer/career-admin/internal/model"
	"github.com/siriuscareer/career-admin/internal/repository"
)

// QuestionRepository is the in-memory repository.QuestionRepository.
type QuestionRepository struct {
	store *Store
}

// NewQuestionRepository returns a QuestionRepository backed by store.
func NewQuestionRepository(store *Store) *QuestionRepository {
	return &QuestionRepository{store: store}
}

var _ repository.QuestionRepository = (*QuestionRepository)(nil)

func (r *QuestionRepository) GetByTestID(ctx context.Context, db repository.DBTX, testID int64) ([]model.Question, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.byTest(testID), nil
}

func (r *QuestionRepository) GetByID(ctx context.Context, db repository.DBTX, id int64) (*model.Question, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	q, ok := r.store.data.questions[id]
	if !ok {
		return nil, nil
	}
	return &q, nil
}

func (r *QuestionRepository) Create(ctx context.Context, db repository.DBTX, q *model.Question) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.insert(q)
}

func (r *QuestionRepository) CreateBulk(ctx context.Context, db repository.DBTX, testID int64, questions []model.Question) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i := range questions {
		questions[i].TestID = testID
		if err := r.insert(&questions[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *QuestionRepository) Update(ctx context.Context, db repository.DBTX, q *model.Question) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	existing, ok := r.store.data.questions[q.ID]
	if !ok {
		return nil
	}
	existing.Text = q.Text
	existing.Order = q.Order
	existing.Type = q.Type
	existing.Config = q.Config
	existing.UpdatedAt = r.store.now()
	r.store.data.questions[q.ID] = existing
	q.UpdatedAt = existing.UpdatedAt
	return nil
}

func (r *QuestionRepository) Delete(ctx context.Context, db repository.DBTX, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.data.questions, id)
	return nil
}

func (r *QuestionRepository) DeleteByTestID(ctx context.Context, db repository.DBTX, testID int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.deleteByTest(testID)
	return nil
}

func (r *QuestionRepository) ExistsByTestAndOrder(ctx context.Context, db repository.DBTX, testID int64, order int, excludeID *int64) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, q := range r.store.data.questions {
		if q.TestID != testID || q.Order != order {
			continue
		}
		if excludeID != nil && q.ID == *excludeID {
			continue
		}
		return true, nil
	}
	return false, nil
}

func (r *QuestionRepository) CountByTestID(ctx context.Context, db repository.DBTX, testID int64) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return len(r.byTest(testID)), nil
}

// insert requires the store lock to be held.
func (r *QuestionRepository) insert(q *model.Question) error {
	if _, ok := r.store.data.tests[q.TestID]; !ok {
		return repository.ErrIntegrity
	}
	q.ID = r.store.data.nextQuestionID
	r.store.data.nextQuestionID++
	q.CreatedAt = r.store.now()
	q.UpdatedAt = q.CreatedAt
	if q.Config == nil {
		q.Config = map[string]any{}
	}
	r.store.data.questions[q.ID] = *q
	return nil
}

func (r *QuestionRepository) byTest(testID int64) []model.Question {
	questions := []model.Question{}
	for _, q := range r.store.data.questions {
		if q.TestID == testID {
			questions = append(questions, q)
		}
	}
	sort.Slice(questions, func(i, j int) bool {
		if questions[i].Order != questions[j].Order {
			return questions[i].Order < questions[j].Order
		}
		return questions[i].ID < questions[j].ID
	})
	return questions
}

func (r *QuestionRepository) deleteByTest(testID int64) {
	for id, q := range r.store.data.questions {
		if q.TestID == testID {
			delete(r.store.data.questions, id)
		}
	}
}

// TestRepository is the in-memory repository.TestRepository.
type TestRepository struct {
	store     *Store
	questions *QuestionRepository
}

// NewTestRepository returns a TestRepository backed by store.
func NewTestRepository(store *Store) *TestRepository {
	return &TestRepository{store: store, questions: NewQuestionRepository(store)}
}

var _ repository.TestRepository = (*TestRepository)(nil)

func (r *TestRepository) GetAll(ctx context.Context, db repository.DBTX) ([]model.Test, error) {
	return r.filter(func(model.Test) bool { return true }), nil
}

func (r *TestRepository) GetActive(ctx context.Context, db repository.DBTX) ([]model.Test, error) {
	return r.filter(func(t model.Test) bool { return t.IsActive }), nil
}

func (r *TestRepository) GetInactive(ctx context.Context, db repository.DBTX) ([]model.Test, error) {
	return r.filter(func(t model.Test) bool { return !t.IsActive }), nil
}

func (r *TestRepository) GetBySlug(ctx context.Context, db repository.DBTX, slug string) (*model.Test, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, t := range r.store.data.tests {
		if t.Slug == slug {
			return &t, nil
		}
	}
	return nil, nil
}

func (r *TestRepository) GetByID(ctx context.Context, db repository.DBTX, id int64) (*model.Test, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	t, ok := r.store.data.tests[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *TestRepository) ExistsBySlug(ctx context.Context, db repository.DBTX, slug string) (bool, error) {
	t, err := r.GetBySlug(ctx, db, slug)
	return t != nil, err
}

func (r *TestRepository) Create(ctx context.Context, db repository.DBTX, test *model.Test) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, t := range r.store.data.tests {
		if t.Slug == test.Slug {
			return repository.ErrDuplicateSlug
		}
	}

	test.ID = r.store.data.nextTestID
	r.store.data.nextTestID++
	test.CreatedAt = r.store.now()
	test.UpdatedAt = test.CreatedAt

	row := *test
	row.Questions = nil
	r.store.data.tests[test.ID] = row

	for i := range test.Questions {
		test.Questions[i].TestID = test.ID
		if err := r.questions.insert(&test.Questions[i]); err != nil {
			return err
		}
	}

	if err := r.store.FailCreate; err != nil {
		r.store.FailCreate = nil
		return err
	}
	return nil
}

func (r *TestRepository) Update(ctx context.Context, db repository.DBTX, test *model.Test, patch model.TestPatch) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	row, ok := r.store.data.tests[test.ID]
	if !ok {
		return nil
	}
	if patch.Name != nil {
		row.Name = *patch.Name
	}
	if patch.Description != nil {
		row.Description = patch.Description
	}
	if patch.IsActive != nil {
		row.IsActive = *patch.IsActive
	}
	row.UpdatedAt = r.store.now()
	r.store.data.tests[test.ID] = row

	questions := test.Questions
	*test = row
	test.Questions = questions

	if patch.Questions == nil {
		return nil
	}
	r.questions.deleteByTest(test.ID)
	for i := range patch.Questions {
		patch.Questions[i].TestID = test.ID
		if err := r.questions.insert(&patch.Questions[i]); err != nil {
			return err
		}
	}
	test.Questions = patch.Questions
	return nil
}

func (r *TestRepository) Delete(ctx context.Context, db repository.DBTX, test *model.Test) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.data.tests, test.ID)
	r.questions.deleteByTest(test.ID)
	return nil
}

func (r *TestRepository) HasCompletedResults(ctx context.Context, db repository.DBTX, testID int64) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	_, ok := r.store.completed[testID]
	return ok, nil
}

func (r *TestRepository) filter(keep func(model.Test) bool) []model.Test {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tests := []model.Test{}
	for _, t := range r.store.data.tests {
		if keep(t) {
			tests = append(tests, t)
		}
	}
	sort.Slice(tests, func(i, j int) bool {
		if !tests[i].CreatedAt.Equal(tests[j].CreatedAt) {
			return tests[i].CreatedAt.After(tests[j].CreatedAt)
		}
		return tests[i].ID > tests[j].ID
	})
	return tests
}
