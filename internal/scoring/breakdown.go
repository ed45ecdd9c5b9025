package scoring

import (
	"fmt"

	"supscore/internal/model"
)

// Breakdown scores the assessment and wraps the result with per-section
// summaries, per-question-type statistics, performance metrics and
// textual recommendations.
func (c *Calculator) Breakdown(a *model.Assessment, responses model.ResponseSet, ctx *Context) (*model.ScoreBreakdown, error) {
	result, err := c.ScoreAssessment(a, responses, ctx)
	if err != nil {
		return nil, err
	}

	bySection := make([]model.SectionSummary, 0, len(result.Metadata.SectionResults))
	for i := range result.Metadata.SectionResults {
		sec := &result.Metadata.SectionResults[i]
		bySection = append(bySection, model.SectionSummary{
			ID:             sec.ID,
			Title:          sec.Metadata.Title,
			Score:          sec.Score,
			MaxScore:       sec.MaxScore,
			Percentage:     c.Percentage(sec.Score, sec.MaxScore),
			QuestionsCount: len(sec.Metadata.QuestionResults),
		})
	}

	return &model.ScoreBreakdown{
		AssessmentResult: *result,
		Breakdown: model.BreakdownDetail{
			BySection:      bySection,
			ByQuestionType: c.questionTypeStats(a, responses),
			Performance: model.Performance{
				Overall: result.Percentage,
				Grade:   result.Grade,
				Level:   result.Level,
				// True trend analysis needs historical results, which
				// live outside the scoring core.
				Trend: "stable",
			},
			Recommendations: c.recommendations(result),
		},
	}, nil
}

// questionTypeStats walks the entire tree, all nesting levels, tallying
// per question type. A question counts as correct when its scored result
// equals its max score.
func (c *Calculator) questionTypeStats(a *model.Assessment, responses model.ResponseSet) map[string]*model.TypeStats {
	stats := make(map[string]*model.TypeStats)

	a.WalkQuestions(func(q *model.Question) {
		typeName := string(q.Type)
		if typeName == "" {
			typeName = "unknown"
		}
		ts := stats[typeName]
		if ts == nil {
			ts = &model.TypeStats{}
			stats[typeName] = ts
		}

		ts.Total++
		ts.MaxScore += q.EffectiveMaxScore()

		response, present := responses[q.ID]
		if !present || response == nil {
			return
		}
		ts.Answered++
		result, err := c.ScoreQuestion(q, response, nil)
		if err != nil {
			return
		}
		ts.TotalScore += result.Score
		if result.Score == result.MaxScore {
			ts.Correct++
		}
	})

	for _, ts := range stats {
		if ts.Total > 0 {
			ts.AnswerRate = float64(ts.Answered) / float64(ts.Total) * 100
		}
		if ts.Answered > 0 {
			ts.Accuracy = float64(ts.Correct) / float64(ts.Answered) * 100
		}
		if ts.MaxScore > 0 {
			ts.ScorePercentage = ts.TotalScore / ts.MaxScore * 100
		}
	}

	return stats
}

// recommendations produces supervision follow-up advice from fixed
// thresholds, plus one line per top-level section scoring under half of
// its own max.
func (c *Calculator) recommendations(result *model.AssessmentResult) []string {
	recommendations := make([]string, 0, 2)

	switch {
	case result.Percentage < 60:
		recommendations = append(recommendations,
			"Overall performance is below the acceptable threshold. Plan a remediation visit covering the fundamentals of this checklist.")
	case result.Percentage < 80:
		recommendations = append(recommendations,
			"Good progress. Focus the next supervision on the sections scoring below average.")
	default:
		recommendations = append(recommendations,
			"Excellent work. The facility demonstrates strong command of the assessed procedures.")
	}

	for i := range result.Metadata.SectionResults {
		sec := &result.Metadata.SectionResults[i]
		if c.Percentage(sec.Score, sec.MaxScore) < 50 {
			recommendations = append(recommendations,
				fmt.Sprintf("Section %q needs attention: additional supervision recommended.", sec.Metadata.Title))
		}
	}

	return recommendations
}
