// Package seed loads test definitions from YAML files and creates them
// through the test service.
package seed

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/siriuscareer/career-admin/internal/model"
	"github.com/siriuscareer/career-admin/internal/validator"
	"gopkg.in/yaml.v3"
)

// ErrInvalidFile marks a seed file that cannot be read or does not describe
// valid tests.
var ErrInvalidFile = errors.New("invalid seed file")

type yamlFile struct {
	Tests []yamlTest `yaml:"tests"`
}

type yamlTest struct {
	Slug        string         `yaml:"slug"`
	Name        string         `yaml:"name"`
	Description *string        `yaml:"description"`
	IsActive    *bool          `yaml:"is_active"`
	Questions   []yamlQuestion `yaml:"questions"`
}

type yamlQuestion struct {
	Text   string         `yaml:"text"`
	Order  *int           `yaml:"order"`
	Type   string         `yaml:"type"`
	Config map[string]any `yaml:"config"`
}

// LoadFile reads every test defined in the YAML file at path.
func LoadFile(path string) ([]*model.Test, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidFile, path, err)
	}
	tests, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tests, nil
}

// Parse decodes and validates a YAML seed document.
func Parse(b []byte) ([]*model.Test, error) {
	var f yamlFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}
	if len(f.Tests) == 0 {
		return nil, fmt.Errorf("%w: no tests defined", ErrInvalidFile)
	}

	seen := make(map[string]struct{}, len(f.Tests))
	tests := make([]*model.Test, 0, len(f.Tests))
	for i, yt := range f.Tests {
		t, err := mapAndValidate(yt)
		if err != nil {
			return nil, fmt.Errorf("%w: tests[%d]: %w", ErrInvalidFile, i, err)
		}
		if _, dup := seen[t.Slug]; dup {
			return nil, fmt.Errorf("%w: tests[%d]: duplicate slug %q", ErrInvalidFile, i, t.Slug)
		}
		seen[t.Slug] = struct{}{}
		tests = append(tests, t)
	}
	return tests, nil
}

func mapAndValidate(yt yamlTest) (*model.Test, error) {
	if !validator.IsValidSlug(yt.Slug) {
		return nil, fmt.Errorf("slug %q must be 1-100 alphanumeric characters, hyphens, or underscores", yt.Slug)
	}
	name := strings.TrimSpace(yt.Name)
	if name == "" || len(name) > 200 {
		return nil, errors.New("name must be 1-200 characters")
	}
	if len(yt.Questions) == 0 {
		return nil, errors.New("at least one question is required")
	}

	isActive := true
	if yt.IsActive != nil {
		isActive = *yt.IsActive
	}

	t := &model.Test{
		Slug:        validator.NormalizeSlug(yt.Slug),
		Name:        name,
		Description: yt.Description,
		IsActive:    isActive,
		Questions:   make([]model.Question, 0, len(yt.Questions)),
	}

	for i, yq := range yt.Questions {
		if strings.TrimSpace(yq.Text) == "" {
			return nil, fmt.Errorf("questions[%d]: text is required", i)
		}
		if yq.Order == nil || *yq.Order < 0 || *yq.Order > model.MaxQuestionOrder {
			return nil, fmt.Errorf("questions[%d]: order must be an integer between 0 and %d", i, model.MaxQuestionOrder)
		}
		if yq.Config == nil {
			return nil, fmt.Errorf("questions[%d]: config is required", i)
		}
		t.Questions = append(t.Questions, model.Question{
			Text:   yq.Text,
			Order:  *yq.Order,
			Type:   model.QuestionType(yq.Type),
			Config: yq.Config,
		})
	}

	if err := validator.ValidateQuestions(t.Questions); err != nil {
		return nil, err
	}
	return t, nil
}
