package model

import (
	"math"
	"slices"
	"time"
)

// Question represents a single item within a test.
type Question struct {
	ID        int64          `json:"id"`
	TestID    int64          `json:"test_id"`
	Text      string         `json:"text"`
	Order     int            `json:"order"`
	Type      QuestionType   `json:"type"`
	Config    map[string]any `json:"config"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// MaxQuestionOrder is the largest order the INTEGER column can hold.
const MaxQuestionOrder = math.MaxInt32

type QuestionType string

const (
	QuestionTypeLikertScale    QuestionType = "likert_scale"
	QuestionTypeBinaryChoice   QuestionType = "binary_choice"
	QuestionTypeMultipleChoice QuestionType = "multiple_choice"
	QuestionTypeTextInput      QuestionType = "text_input"
)

// QuestionTypes lists every supported question type.
var QuestionTypes = []QuestionType{
	QuestionTypeLikertScale,
	QuestionTypeBinaryChoice,
	QuestionTypeMultipleChoice,
	QuestionTypeTextInput,
}

// Valid reports whether t is one of QuestionTypes.
func (t QuestionType) Valid() bool {
	return slices.Contains(QuestionTypes, t)
}

// QuestionRequest is the payload for one question of a test.
type QuestionRequest struct {
	Text   string         `json:"text" binding:"required,min=1,max=2000"`
	Order  *int           `json:"order" binding:"required,min=0,max=2147483647"`
	Type   string         `json:"type" binding:"required,oneof=likert_scale binary_choice multiple_choice text_input"`
	Config map[string]any `json:"config" binding:"required"`
}

// QuestionsFromRequests maps request payloads to unsaved questions.
func QuestionsFromRequests(reqs []QuestionRequest) []Question {
	questions := make([]Question, len(reqs))
	for i, q := range reqs {
		questions[i] = Question{
			Text:   q.Text,
			Type:   QuestionType(q.Type),
			Config: q.Config,
		}
		if q.Order != nil {
			questions[i].Order = *q.Order
		}
	}
	return questions
}
