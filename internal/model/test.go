package model

import "time"

// Test represents a psychological test definition (Big Five, MBTI, ...).
type Test struct {
	ID          int64      `json:"id"`
	Slug        string     `json:"slug"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	IsActive    bool       `json:"is_active"`
	Questions   []Question `json:"questions"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TestSummary is the list representation of a test, without description and questions.
type TestSummary struct {
	ID        int64     `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Summary returns the list representation of t.
func (t *Test) Summary() TestSummary {
	return TestSummary{
		ID:        t.ID,
		Slug:      t.Slug,
		Name:      t.Name,
		IsActive:  t.IsActive,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// TestPatch carries the fields of a partial test update.
// Nil fields are left untouched. A non-nil Questions slice replaces the
// whole question set of the test.
type TestPatch struct {
	Name        *string
	Description *string
	IsActive    *bool
	Questions   []Question
}

// CreateTestRequest is the payload for creating a test together with its questions.
type CreateTestRequest struct {
	Slug        string            `json:"slug" binding:"required,min=1,max=100,slug"`
	Name        string            `json:"name" binding:"required,min=1,max=200"`
	Description *string           `json:"description" binding:"omitempty,max=2000"`
	IsActive    *bool             `json:"is_active" binding:"omitempty"`
	Questions   []QuestionRequest `json:"questions" binding:"required,min=1,dive"`
}

// UpdateTestRequest is the payload for a partial test update.
type UpdateTestRequest struct {
	Name        *string           `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string           `json:"description" binding:"omitempty,max=2000"`
	IsActive    *bool             `json:"is_active" binding:"omitempty"`
	Questions   []QuestionRequest `json:"questions" binding:"omitempty,min=1,dive"`
}

// ToTest converts the request into a Test ready for creation.
func (r *CreateTestRequest) ToTest() *Test {
	isActive := true
	if r.IsActive != nil {
		isActive = *r.IsActive
	}
	return &Test{
		Slug:        r.Slug,
		Name:        r.Name,
		Description: r.Description,
		IsActive:    isActive,
		Questions:   QuestionsFromRequests(r.Questions),
	}
}

// ToPatch converts the request into a TestPatch.
func (r *UpdateTestRequest) ToPatch() TestPatch {
	patch := TestPatch{
		Name:        r.Name,
		Description: r.Description,
		IsActive:    r.IsActive,
	}
	if r.Questions != nil {
		patch.Questions = QuestionsFromRequests(r.Questions)
	}
	return patch
}
