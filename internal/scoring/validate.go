package scoring

import (
	"fmt"

	"supscore/internal/model"
)

// ValidateResponses checks a response set against an assessment tree
// before scoring: every required question must have a response, and
// every present response must match its question's expected shape. The
// common usage is to validate first, then score in lenient mode for a
// guaranteed clean pass.
func (c *Calculator) ValidateResponses(a *model.Assessment, responses model.ResponseSet) (*model.ResponseValidation, error) {
	if a == nil {
		return nil, fmt.Errorf("%w: nil assessment", ErrInvalidInput)
	}

	validation := &model.ResponseValidation{Issues: []model.ResponseIssue{}}
	for i := range a.Sections {
		c.validateSection(&a.Sections[i], responses, nil, validation)
	}
	validation.IsValid = len(validation.Issues) == 0
	return validation, nil
}

func (c *Calculator) validateSection(sec *model.Section, responses model.ResponseSet, path []string, validation *model.ResponseValidation) {
	currentPath := append(append([]string{}, path...), sec.ID)

	for i := range sec.Questions {
		q := &sec.Questions[i]
		response, present := responses[q.ID]

		if q.Required {
			validation.RequiredQuestions++
			if !present || response == nil {
				validation.Issues = append(validation.Issues, model.ResponseIssue{
					Type:       "missing_required",
					QuestionID: q.ID,
					Path:       currentPath,
					Message:    fmt.Sprintf("required question %q is missing a response", q.Text),
				})
			} else {
				validation.RequiredAnswered++
			}
		}

		if present && response != nil {
			if err := ValidateResponseFormat(q, response); err != nil {
				validation.Issues = append(validation.Issues, model.ResponseIssue{
					Type:       "invalid_format",
					QuestionID: q.ID,
					Path:       currentPath,
					Message:    err.Error(),
				})
			}
		}
	}

	nested := sec.Nested()
	for i := range nested {
		c.validateSection(&nested[i], responses, currentPath, validation)
	}
}

// ValidateResponseFormat checks that a response has the shape its
// question type expects. Unknown types pass: the scorer already treats
// them as non-fatal.
func ValidateResponseFormat(q *model.Question, response interface{}) error {
	switch q.Type {
	case model.QuestionTypeBoolean:
		if _, ok := response.(bool); !ok {
			return fmt.Errorf("boolean response required for question %s", q.ID)
		}
	case model.QuestionTypeComposite, model.QuestionTypeMatrix:
		if _, ok := asResponseMap(response); !ok {
			return fmt.Errorf("object response required for question %s", q.ID)
		}
	case model.QuestionTypeChoice:
		if q.Multiple || len(q.CorrectAnswers) > 0 {
			if _, ok := toStringSlice(response); !ok {
				return fmt.Errorf("array response required for multiple choice question %s", q.ID)
			}
		}
	case model.QuestionTypeNumber, model.QuestionTypeRating, model.QuestionTypeRange:
		if _, ok := toFloat(response); !ok {
			return fmt.Errorf("numeric response required for question %s", q.ID)
		}
	case model.QuestionTypeText:
		if _, ok := response.(string); !ok {
			return fmt.Errorf("string response required for question %s", q.ID)
		}
	}
	return nil
}
