package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supscore/internal/model"
)

func matrixQuestion(id string, maxScore, weight float64, months int) model.Question {
	q := model.Question{
		ID:       id,
		Text:     "Nombre cas de fievre toutes causes",
		Type:     model.QuestionTypeMatrix,
		MaxScore: maxScore,
		Weight:   weight,
		Required: true,
	}
	for i := 0; i < months; i++ {
		q.MonthlyData = append(q.MonthlyData, model.MonthlyData{
			ID:       id + "_m" + string(rune('1'+i)),
			Month:    "Mois " + string(rune('1'+i)),
			ParentID: id,
		})
	}
	return q
}

func TestScoreMatrix_PerMonthShares(t *testing.T) {
	calc := NewCalculator(nil)
	q := matrixQuestion("me_data_001", 3, 1, 3)

	response := map[string]interface{}{
		"me_data_001_m1": model.MatrixCellResponse{ReportedCount: 120, Recount: 120, Concordance: true},
		"me_data_001_m2": model.MatrixCellResponse{ReportedCount: 98, Recount: 94, Concordance: false},
		"me_data_001_m3": model.MatrixCellResponse{ReportedCount: 57, Recount: 57, Concordance: true},
	}

	assert.Equal(t, 2.0, calc.ScoreMatrix(&q, response))
}

func TestScoreMatrix_RawMapCells(t *testing.T) {
	calc := NewCalculator(nil)
	q := matrixQuestion("me_data_001", 3, 1, 3)

	// Wire form: decoded JSON maps with a concordance key.
	response := map[string]interface{}{
		"me_data_001_m1": map[string]interface{}{"concordance": true},
		"me_data_001_m2": map[string]interface{}{"concordance": false},
		"me_data_001_m3": map[string]interface{}{"concordance": "oui"}, // not strictly true
	}

	assert.Equal(t, 1.0, calc.ScoreMatrix(&q, response))
}

func TestScoreMatrix_Weight(t *testing.T) {
	calc := NewCalculator(nil)
	q := matrixQuestion("me_data_001", 3, 2, 3)

	response := map[string]interface{}{
		"me_data_001_m1": model.MatrixCellResponse{Concordance: true},
	}

	// One month's share times the weight.
	assert.Equal(t, 2.0, calc.ScoreMatrix(&q, response))
}

func TestScoreMatrix_NoMonthlyData(t *testing.T) {
	calc := NewCalculator(nil)
	q := model.Question{ID: "q1", Type: model.QuestionTypeMatrix, MaxScore: 3}

	assert.Zero(t, calc.ScoreMatrix(&q, map[string]interface{}{}))
}

func TestScoreMatrix_MissingAndMalformedCells(t *testing.T) {
	calc := NewCalculator(nil)
	q := matrixQuestion("me_data_001", 3, 1, 3)

	response := map[string]interface{}{
		"me_data_001_m1": model.MatrixCellResponse{Concordance: true},
		// m2 absent, m3 malformed
		"me_data_001_m3": "concordance",
	}

	assert.Equal(t, 1.0, calc.ScoreMatrix(&q, response))
	assert.Zero(t, calc.ScoreMatrix(&q, "not a map"))
}

func TestScoreQuestion_MatrixThroughPipeline(t *testing.T) {
	calc := NewCalculator(nil)
	q := matrixQuestion("me_data_001", 3, 2, 3)

	response := map[string]interface{}{
		"me_data_001_m1": model.MatrixCellResponse{Concordance: true},
		"me_data_001_m2": model.MatrixCellResponse{Concordance: true},
		"me_data_001_m3": model.MatrixCellResponse{Concordance: true},
	}

	// The pipeline applies the weight exactly once and clamps at the
	// question max.
	result, err := calc.ScoreQuestion(&q, response, nil)
	require.NoError(t, err)
	assert.Equal(t, 3.0, result.Score)
	assert.Equal(t, 3.0, result.Metadata.BaseScore)
	assert.Equal(t, 6.0, result.Metadata.WeightedScore)
}
