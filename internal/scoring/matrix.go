package scoring

import "supscore/internal/model"

// ScoreMatrix scores a data validation matrix question. The question's
// max score is split evenly across its monthly records; a month earns
// its share only when its concordance flag is strictly true. The numeric
// reconciliation columns are audit data and are never scored. The total
// is multiplied by the question weight.
func (c *Calculator) ScoreMatrix(q *model.Question, response interface{}) float64 {
	return c.scoreMatrixBase(q, response) * q.EffectiveWeight()
}

// scoreMatrixBase is the unweighted per-month amortization; the question
// pipeline applies the weight itself so it is not applied twice.
func (c *Calculator) scoreMatrixBase(q *model.Question, response interface{}) float64 {
	if len(q.MonthlyData) == 0 {
		return 0
	}
	cells, ok := asResponseMap(response)
	if !ok {
		return 0
	}

	scorePerMonth := q.EffectiveMaxScore() / float64(len(q.MonthlyData))
	var total float64
	for i := range q.MonthlyData {
		if cellConcordance(cells[q.MonthlyData[i].ID]) {
			total += scorePerMonth
		}
	}
	return total
}

// cellConcordance extracts the concordance flag from the shapes a matrix
// cell response can arrive in.
func cellConcordance(v interface{}) bool {
	switch cell := v.(type) {
	case model.MatrixCellResponse:
		return cell.Concordance
	case *model.MatrixCellResponse:
		return cell != nil && cell.Concordance
	case map[string]interface{}:
		b, ok := cell["concordance"].(bool)
		return ok && b
	case map[string]bool:
		return cell["concordance"]
	default:
		return false
	}
}
