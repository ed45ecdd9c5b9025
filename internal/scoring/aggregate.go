package scoring

import (
	"fmt"
	"math"

	"supscore/internal/model"
)

// ScoreSection recursively scores a container: its direct questions plus
// every nested subsection and category, which are treated identically.
// The summed score is capped at the container's declared max score (or
// the derived sum of children when none is declared); a container can
// never exceed that cap even if children's raw scores sum higher.
func (c *Calculator) ScoreSection(sec *model.Section, responses model.ResponseSet, ctx *Context) (*model.SectionResult, error) {
	if sec == nil || sec.ID == "" {
		return nil, fmt.Errorf("%w: section has no id", ErrInvalidInput)
	}

	var totalScore, maxScore float64
	questionResults := make([]model.ScoreResult, 0, len(sec.Questions))

	for i := range sec.Questions {
		q := &sec.Questions[i]
		result, err := c.ScoreQuestion(q, responses[q.ID], ctx)
		if err != nil {
			return nil, err
		}
		questionResults = append(questionResults, *result)
		totalScore += result.Score
		maxScore += result.MaxScore
	}

	nested := sec.Nested()
	nestedResults := make([]model.SectionResult, 0, len(nested))
	for i := range nested {
		nestedResult, err := c.ScoreSection(&nested[i], responses, ctx)
		if err != nil {
			return nil, err
		}
		nestedResults = append(nestedResults, *nestedResult)
		totalScore += nestedResult.Score
		maxScore += nestedResult.MaxScore
	}

	effectiveMax := sec.MaxScore
	if effectiveMax <= 0 {
		effectiveMax = maxScore
	}
	cappedScore := math.Min(totalScore, effectiveMax)

	return &model.SectionResult{
		ID:         sec.ID,
		Score:      c.round(cappedScore),
		MaxScore:   c.round(effectiveMax),
		Percentage: c.Percentage(cappedScore, effectiveMax),
		Metadata: model.SectionScoreMeta{
			QuestionResults: questionResults,
			NestedResults:   nestedResults,
			Title:           sec.Title,
			Weight:          sec.Weight,
		},
		Timestamp: nowStamp(),
	}, nil
}

// ScoreAssessment scores every top-level section, accumulating weighted
// score and max score when weighted scoring is on and the section
// declares a weight. The total is capped at the assessment's declared
// max score and converted to a rounded percentage, grade and level.
func (c *Calculator) ScoreAssessment(a *model.Assessment, responses model.ResponseSet, ctx *Context) (*model.AssessmentResult, error) {
	if a == nil {
		return nil, fmt.Errorf("%w: nil assessment", ErrInvalidInput)
	}

	var totalScore, maxScore float64
	sectionResults := make([]model.SectionResult, 0, len(a.Sections))

	for i := range a.Sections {
		sec := &a.Sections[i]
		result, err := c.ScoreSection(sec, responses, ctx)
		if err != nil {
			return nil, err
		}
		sectionResults = append(sectionResults, *result)

		if c.opts.WeightedScoring && sec.Weight != 0 {
			totalScore += result.Score * sec.Weight
			maxScore += result.MaxScore * sec.Weight
		} else {
			totalScore += result.Score
			maxScore += result.MaxScore
		}
	}

	assessmentMax := a.MaxScore
	if assessmentMax <= 0 {
		assessmentMax = maxScore
	}
	finalScore := math.Min(totalScore, assessmentMax)
	percentage := c.Percentage(finalScore, assessmentMax)

	meta := model.AssessmentScoreMeta{
		AssessmentID:    a.ID,
		AssessmentTitle: a.Title,
		SectionResults:  sectionResults,
		Responses:       len(responses),
	}
	if ctx != nil {
		meta.TimeSpent = ctx.TimeSpent
	}

	return &model.AssessmentResult{
		Score:      c.round(finalScore),
		MaxScore:   c.round(assessmentMax),
		Percentage: percentage,
		Grade:      gradeFor(percentage),
		Level:      performanceLevel(percentage),
		Metadata:   meta,
		Timestamp:  nowStamp(),
	}, nil
}

// gradeFor maps a percentage to a letter grade. Bounds are inclusive,
// top row first, so exactly 80 is a B, not a B+.
func gradeFor(percentage float64) string {
	switch {
	case percentage >= 95:
		return "A+"
	case percentage >= 90:
		return "A"
	case percentage >= 87:
		return "A-"
	case percentage >= 83:
		return "B+"
	case percentage >= 80:
		return "B"
	case percentage >= 77:
		return "B-"
	case percentage >= 73:
		return "C+"
	case percentage >= 70:
		return "C"
	case percentage >= 67:
		return "C-"
	case percentage >= 63:
		return "D+"
	case percentage >= 60:
		return "D"
	default:
		return "F"
	}
}

func performanceLevel(percentage float64) string {
	switch {
	case percentage >= 90:
		return "Excellent"
	case percentage >= 80:
		return "Good"
	case percentage >= 70:
		return "Satisfactory"
	case percentage >= 60:
		return "Needs Improvement"
	default:
		return "Unsatisfactory"
	}
}
