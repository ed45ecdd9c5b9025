package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supscore/internal/model"
)

func testAssessment() model.Assessment {
	return model.Assessment{
		ID:          "checklist_csb_2024",
		Title:       "Supervision CSB",
		Departement: "sante_mere_enfant",
		Niveau:      "CSB2",
		MaxScore:    2,
		Sections: []model.Section{
			{
				ID:       "section_01",
				Title:    "Gestion des intrants",
				MaxScore: 2,
				Weight:   1,
				Questions: []model.Question{
					boolQuestion("q1", 1, 1),
					boolQuestion("q2", 1, 1),
				},
			},
		},
	}
}

func TestScoreSection_InvalidSection(t *testing.T) {
	calc := NewCalculator(nil)

	_, err := calc.ScoreSection(nil, model.ResponseSet{}, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	sec := model.Section{Title: "sans id"}
	_, err = calc.ScoreSection(&sec, model.ResponseSet{}, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestScoreSection_NestedContainers(t *testing.T) {
	calc := NewCalculator(nil)

	sec := model.Section{
		ID:    "section_01",
		Title: "Gestion des intrants",
		Questions: []model.Question{
			boolQuestion("q1", 1, 1),
		},
		Subsections: []model.Section{
			{
				ID:    "sub_01",
				Title: "Stocks",
				Questions: []model.Question{
					boolQuestion("q2", 2, 1),
				},
			},
		},
		Categories: []model.Section{
			{
				ID:    "cat_01",
				Title: "Outils de gestion",
				Questions: []model.Question{
					boolQuestion("q3", 1, 1),
				},
			},
		},
	}
	responses := model.ResponseSet{"q1": true, "q2": true, "q3": false}

	result, err := calc.ScoreSection(&sec, responses, nil)
	require.NoError(t, err)
	assert.Equal(t, 3.0, result.Score)
	assert.Equal(t, 4.0, result.MaxScore) // derived from children
	assert.Len(t, result.Metadata.QuestionResults, 1)
	assert.Len(t, result.Metadata.NestedResults, 2)
	assert.Equal(t, "sub_01", result.Metadata.NestedResults[0].ID)
	assert.Equal(t, "cat_01", result.Metadata.NestedResults[1].ID)
}

func TestScoreSection_CappingInvariant(t *testing.T) {
	calc := NewCalculator(nil)

	// Children can raw-sum to 4 but the section budget is 2.
	sec := model.Section{
		ID:       "section_01",
		Title:    "Capped",
		MaxScore: 2,
		Questions: []model.Question{
			boolQuestion("q1", 2, 1),
			boolQuestion("q2", 2, 1),
		},
	}
	responses := model.ResponseSet{"q1": true, "q2": true}

	result, err := calc.ScoreSection(&sec, responses, nil)
	require.NoError(t, err)
	assert.Equal(t, 2.0, result.Score)
	assert.LessOrEqual(t, result.Score, result.MaxScore)
	assert.Equal(t, 100.0, result.Percentage)
}

func TestScoreSection_EmptyContainer(t *testing.T) {
	calc := NewCalculator(nil)

	sec := model.Section{ID: "section_01", Title: "Vide"}
	result, err := calc.ScoreSection(&sec, model.ResponseSet{}, nil)
	require.NoError(t, err)
	assert.Zero(t, result.Score)
	assert.Zero(t, result.MaxScore)
	assert.Zero(t, result.Percentage) // never NaN
}

func TestScoreAssessment_EndToEnd(t *testing.T) {
	calc := NewCalculator(nil)
	a := testAssessment()
	responses := model.ResponseSet{"q1": true, "q2": false}

	result, err := calc.ScoreAssessment(&a, responses, nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, result.Score)
	assert.Equal(t, 2.0, result.MaxScore)
	assert.Equal(t, 50.0, result.Percentage)
	assert.Equal(t, "F", result.Grade)
	assert.Equal(t, "Unsatisfactory", result.Level)
	assert.Equal(t, "checklist_csb_2024", result.Metadata.AssessmentID)
	assert.Equal(t, 2, result.Metadata.Responses)
	assert.Len(t, result.Metadata.SectionResults, 1)
}

func TestScoreAssessment_NilAssessment(t *testing.T) {
	calc := NewCalculator(nil)
	_, err := calc.ScoreAssessment(nil, model.ResponseSet{}, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestScoreAssessment_SectionWeights(t *testing.T) {
	calc := NewCalculator(nil)

	a := model.Assessment{
		ID:    "weighted",
		Title: "Weighted",
		Sections: []model.Section{
			{
				ID:        "s1",
				Title:     "Double weight",
				Weight:    2,
				Questions: []model.Question{boolQuestion("q1", 1, 1)},
			},
			{
				ID:        "s2",
				Title:     "Plain",
				Questions: []model.Question{boolQuestion("q2", 1, 1)},
			},
		},
	}
	responses := model.ResponseSet{"q1": true, "q2": false}

	result, err := calc.ScoreAssessment(&a, responses, nil)
	require.NoError(t, err)
	// s1 contributes 2*1 of 2*1, s2 contributes 0 of 1.
	assert.Equal(t, 2.0, result.Score)
	assert.Equal(t, 3.0, result.MaxScore)
	assert.Equal(t, 66.67, result.Percentage)

	unweightedOpts := DefaultOptions()
	unweightedOpts.WeightedScoring = false
	unweighted := NewCalculator(&unweightedOpts)
	result, err = unweighted.ScoreAssessment(&a, responses, nil)
	require.NoError(t, err)
	assert.Equal(t, 1.0, result.Score)
	assert.Equal(t, 2.0, result.MaxScore)
}

func TestScoreAssessment_DivisionByZero(t *testing.T) {
	calc := NewCalculator(nil)

	a := model.Assessment{
		ID:       "empty",
		Title:    "Empty",
		Sections: []model.Section{{ID: "s1", Title: "Vide"}},
	}
	result, err := calc.ScoreAssessment(&a, model.ResponseSet{}, nil)
	require.NoError(t, err)
	assert.Zero(t, result.Percentage)
	assert.Equal(t, "F", result.Grade)
}

func TestScoreAssessment_Idempotent(t *testing.T) {
	calc := NewCalculator(nil)
	a := testAssessment()
	responses := model.ResponseSet{"q1": true, "q2": false}

	first, err := calc.ScoreAssessment(&a, responses, nil)
	require.NoError(t, err)
	second, err := calc.ScoreAssessment(&a, responses, nil)
	require.NoError(t, err)

	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, first.Percentage, second.Percentage)
	assert.Equal(t, first.Grade, second.Grade)
}

func TestScoreAssessment_StrictModePropagation(t *testing.T) {
	opts := DefaultOptions()
	opts.StrictMode = true
	calc := NewCalculator(&opts)

	a := testAssessment()
	_, err := calc.ScoreAssessment(&a, model.ResponseSet{"q1": true}, nil)
	require.Error(t, err)
	assert.True(t, IsMissingResponse(err))
}

func TestGradeBoundaries(t *testing.T) {
	tests := []struct {
		percentage float64
		grade      string
		level      string
	}{
		{100, "A+", "Excellent"},
		{95, "A+", "Excellent"},
		{94.99, "A", "Excellent"},
		{90, "A", "Excellent"},
		{87, "A-", "Good"},
		{83, "B+", "Good"},
		{80, "B", "Good"}, // inclusive lower bound: exactly 80 is B, not B+
		{79.99, "B-", "Satisfactory"},
		{73, "C+", "Satisfactory"},
		{70, "C", "Satisfactory"},
		{67, "C-", "Needs Improvement"},
		{63, "D+", "Needs Improvement"},
		{60, "D", "Needs Improvement"},
		{59.99, "F", "Unsatisfactory"},
		{0, "F", "Unsatisfactory"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.grade, gradeFor(tt.percentage), "percentage %v", tt.percentage)
		assert.Equal(t, tt.level, performanceLevel(tt.percentage), "percentage %v", tt.percentage)
	}
}
