package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/siriuscareer/career-admin/internal/model"
)

// Rule errors. Every RuleError unwraps to one of these.
var (
	ErrInvalidOrder  = errors.New("invalid question order")
	ErrInvalidConfig = errors.New("invalid question config")
)

// RuleError reports a rule violation on a single request field.
type RuleError struct {
	Field   string
	Message string
	Kind    error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *RuleError) Unwrap() error {
	return e.Kind
}

// requiredConfigKeys lists the config keys each question type must carry.
var requiredConfigKeys = map[model.QuestionType][]string{
	model.QuestionTypeLikertScale:    {"scale", "min_value", "max_value"},
	model.QuestionTypeBinaryChoice:   {"option_a", "option_b"},
	model.QuestionTypeMultipleChoice: {"options"},
	model.QuestionTypeTextInput:      nil,
}

// ValidateQuestionOrders checks that orders hold no duplicates and form the
// contiguous range [min, max]. Any starting point is accepted.
func ValidateQuestionOrders(orders []int) error {
	if len(orders) == 0 {
		return &RuleError{Field: "questions", Message: "at least one question is required", Kind: ErrInvalidOrder}
	}

	seen := make(map[int]struct{}, len(orders))
	lo, hi := orders[0], orders[0]
	for _, o := range orders {
		if _, dup := seen[o]; dup {
			return &RuleError{Field: "questions", Message: "question orders must be unique", Kind: ErrInvalidOrder}
		}
		seen[o] = struct{}{}
		lo = min(lo, o)
		hi = max(hi, o)
	}

	// Unique values spanning exactly len(orders) integers leave no gap.
	if hi-lo+1 != len(orders) {
		return &RuleError{Field: "questions", Message: "question orders must be sequential", Kind: ErrInvalidOrder}
	}
	return nil
}

// ValidateQuestionConfig checks that config carries the keys required by qType.
// Extra keys are permitted and values are not range-checked.
func ValidateQuestionConfig(qType model.QuestionType, config map[string]any) error {
	if !qType.Valid() {
		return &RuleError{Field: "config", Message: fmt.Sprintf("unsupported question type %q", qType), Kind: ErrInvalidConfig}
	}

	for _, key := range requiredConfigKeys[qType] {
		if _, present := config[key]; !present {
			return &RuleError{
				Field:   "config",
				Message: fmt.Sprintf("config for %s must include '%s'", qType, key),
				Kind:    ErrInvalidConfig,
			}
		}
	}

	if qType == model.QuestionTypeMultipleChoice {
		if _, isList := config["options"].([]any); !isList {
			return &RuleError{
				Field:   "config",
				Message: "config for multiple_choice must include 'options' as a list",
				Kind:    ErrInvalidConfig,
			}
		}
	}
	return nil
}

// ValidateQuestionConfigs runs the config rule on every question and
// reports the first violation with its index in the field path.
func ValidateQuestionConfigs(questions []model.Question) error {
	for i, q := range questions {
		if err := ValidateQuestionConfig(q.Type, q.Config); err != nil {
			var re *RuleError
			if errors.As(err, &re) {
				re.Field = fmt.Sprintf("questions[%d].%s", i, re.Field)
			}
			return err
		}
	}
	return nil
}

// OrdersOf returns the order of each question.
func OrdersOf(questions []model.Question) []int {
	orders := make([]int, len(questions))
	for i, q := range questions {
		orders[i] = q.Order
	}
	return orders
}

// ValidateQuestions runs the config rule on every question, then the order
// rule over the whole set.
func ValidateQuestions(questions []model.Question) error {
	if err := ValidateQuestionConfigs(questions); err != nil {
		return err
	}
	return ValidateQuestionOrders(OrdersOf(questions))
}

// IsValidSlug reports whether s is 1-100 ASCII letters, digits, hyphens or underscores.
func IsValidSlug(s string) bool {
	if s == "" || len(s) > 100 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}

// NormalizeSlug lower-cases and trims a slug.
func NormalizeSlug(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
