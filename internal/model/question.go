package model

// QuestionType defines the type of question
type QuestionType string

const (
	QuestionTypeBoolean   QuestionType = "boolean"                // Yes/no check
	QuestionTypeComposite QuestionType = "composite"              // Multiple yes/no sub-questions
	QuestionTypeChoice    QuestionType = "choice"                 // Single or multi select
	QuestionTypeRating    QuestionType = "rating"                 // Numeric scale, default 1-5
	QuestionTypeText      QuestionType = "text"                   // Free text
	QuestionTypeNumber    QuestionType = "number"                 // Numeric value
	QuestionTypeRange     QuestionType = "range"                  // Slider input, scored like number
	QuestionTypeMatrix    QuestionType = "data_validation_matrix" // Month-by-month data reconciliation
)

// KnownQuestionTypes lists every type the scoring engine understands.
var KnownQuestionTypes = []QuestionType{
	QuestionTypeBoolean,
	QuestionTypeComposite,
	QuestionTypeChoice,
	QuestionTypeRating,
	QuestionTypeText,
	QuestionTypeNumber,
	QuestionTypeRange,
	QuestionTypeMatrix,
}

// IsKnownQuestionType reports whether t is part of the closed type set.
func IsKnownQuestionType(t QuestionType) bool {
	for _, k := range KnownQuestionTypes {
		if t == k {
			return true
		}
	}
	return false
}

// Question is a single scoring unit inside a checklist section.
// Type-specific fields are optional and only read for the matching type.
type Question struct {
	ID       string       `json:"id" bson:"id"`
	Text     string       `json:"text" bson:"text"`
	Type     QuestionType `json:"type" bson:"type"`
	MaxScore float64      `json:"maxScore" bson:"maxScore"` // 0 treated as 1
	Weight   float64      `json:"weight" bson:"weight"`     // 0 treated as 1.0
	Required bool         `json:"required" bson:"required"`

	Instruction  string  `json:"instruction,omitempty" bson:"instruction,omitempty"`
	ExpectedTime float64 `json:"expectedTime,omitempty" bson:"expectedTime,omitempty"` // seconds, for time-based scoring

	// boolean / choice (single) / number: expected answer. For boolean a
	// nil value means "true is correct".
	CorrectAnswer interface{} `json:"correctAnswer,omitempty" bson:"correctAnswer,omitempty"`

	// choice (multi-select)
	CorrectAnswers []string `json:"correctAnswers,omitempty" bson:"correctAnswers,omitempty"`
	Options        []string `json:"options,omitempty" bson:"options,omitempty"`
	Multiple       bool     `json:"multiple,omitempty" bson:"multiple,omitempty"`

	// rating
	MinRating      int      `json:"minRating,omitempty" bson:"minRating,omitempty"` // 0 treated as 1
	MaxRating      int      `json:"maxRating,omitempty" bson:"maxRating,omitempty"` // 0 treated as 5
	ExpectedRating *float64 `json:"expectedRating,omitempty" bson:"expectedRating,omitempty"`

	// text
	Keywords           []string `json:"keywords,omitempty" bson:"keywords,omitempty"`
	RequireAllKeywords bool     `json:"requireAllKeywords,omitempty" bson:"requireAllKeywords,omitempty"`
	MinLength          int      `json:"minLength,omitempty" bson:"minLength,omitempty"`
	MaxLength          int      `json:"maxLength,omitempty" bson:"maxLength,omitempty"`

	// number / range
	Tolerance float64  `json:"tolerance,omitempty" bson:"tolerance,omitempty"`
	MinValue  *float64 `json:"minValue,omitempty" bson:"minValue,omitempty"`
	MaxValue  *float64 `json:"maxValue,omitempty" bson:"maxValue,omitempty"`

	// composite
	SubQuestions []SubQuestion `json:"subQuestions,omitempty" bson:"subQuestions,omitempty"`
	// Fraction of sub-question max below which the accumulated score is
	// scaled down by the completion rate. 0 disables the branch.
	PartialCreditThreshold float64 `json:"partialCreditThreshold,omitempty" bson:"partialCreditThreshold,omitempty"`

	// data_validation_matrix
	Validation  *MatrixValidation `json:"validation,omitempty" bson:"validation,omitempty"`
	MonthlyData []MonthlyData     `json:"monthlyData,omitempty" bson:"monthlyData,omitempty"`
}

// EffectiveMaxScore returns the score ceiling, defaulting to 1.
func (q *Question) EffectiveMaxScore() float64 {
	if q.MaxScore <= 0 {
		return 1
	}
	return q.MaxScore
}

// EffectiveWeight returns the weight multiplier, defaulting to 1.0.
func (q *Question) EffectiveWeight() float64 {
	if q.Weight == 0 {
		return 1.0
	}
	return q.Weight
}

// SubQuestion is one yes/no part of a composite question. Sub-questions
// carry no further nesting.
type SubQuestion struct {
	ID       string       `json:"id" bson:"id"`
	Text     string       `json:"text" bson:"text"`
	Type     QuestionType `json:"type" bson:"type"`
	MaxScore float64      `json:"maxScore" bson:"maxScore"`
	Weight   float64      `json:"weight" bson:"weight"`
}

// EffectiveMaxScore returns the sub-question ceiling, defaulting to 1.
func (s *SubQuestion) EffectiveMaxScore() float64 {
	if s.MaxScore <= 0 {
		return 1
	}
	return s.MaxScore
}

// EffectiveWeight returns the sub-question weight, defaulting to 1.0.
func (s *SubQuestion) EffectiveWeight() float64 {
	if s.Weight == 0 {
		return 1.0
	}
	return s.Weight
}

// MonthlyData is one month's row of a data validation matrix. The row is
// answered with a MatrixCellResponse keyed by this ID.
type MonthlyData struct {
	ID       string `json:"id" bson:"id"`
	Month    string `json:"month" bson:"month"`
	ParentID string `json:"parentId" bson:"parentId"`
}

// MatrixValidation describes the audit columns of a data validation
// matrix. The columns are informational; only concordance is scored.
type MatrixValidation struct {
	Type     string          `json:"type" bson:"type"`
	Months   int             `json:"months" bson:"months"`
	Elements []MatrixElement `json:"elements,omitempty" bson:"elements,omitempty"`
}

// MatrixElement is a single column of the matrix (reported count,
// recount, ratio, concordance).
type MatrixElement struct {
	ID       string `json:"id" bson:"id"`
	Name     string `json:"name" bson:"name"`
	Type     string `json:"type" bson:"type"`
	Formula  string `json:"formula,omitempty" bson:"formula,omitempty"`
	Required bool   `json:"required" bson:"required"`
}
