package scoring

import (
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"supscore/internal/model"
)

// Calculator scores checklist questions, sections and assessments. It is
// a pure computation over immutable trees and a response set: no I/O, no
// shared state, safe for concurrent use.
type Calculator struct {
	opts Options
}

// NewCalculator creates a calculator. A nil opts uses DefaultOptions;
// fallback values are resolved once here, never per call.
func NewCalculator(opts *Options) *Calculator {
	if opts == nil {
		o := DefaultOptions()
		return &Calculator{opts: o}
	}
	return &Calculator{opts: opts.normalized()}
}

// Options returns the effective configuration.
func (c *Calculator) Options() Options {
	return c.opts
}

// ScoreQuestion computes the score for one question given one raw
// response. A nil response scores zero, unless strict mode is on and the
// question is required, in which case a MissingResponseError is returned.
func (c *Calculator) ScoreQuestion(q *model.Question, response interface{}, ctx *Context) (*model.ScoreResult, error) {
	if q == nil || q.ID == "" {
		return nil, fmt.Errorf("%w: question has no id", ErrInvalidInput)
	}

	maxScore := q.EffectiveMaxScore()

	if response == nil {
		if c.opts.StrictMode && q.Required {
			return nil, &MissingResponseError{QuestionID: q.ID}
		}
		return c.newScoreResult(q.ID, 0, maxScore, model.QuestionScoreMeta{
			QuestionType: q.Type,
		}), nil
	}

	baseScore := c.baseScore(q, response)
	weightedScore := c.applyWeight(baseScore, q.EffectiveWeight())
	timeAdjusted := c.applyTimeAdjustment(weightedScore, ctx, q)
	finalScore := math.Min(timeAdjusted, maxScore)
	if finalScore < 0 {
		finalScore = 0
	}

	return c.newScoreResult(q.ID, finalScore, maxScore, model.QuestionScoreMeta{
		BaseScore:         baseScore,
		WeightedScore:     weightedScore,
		TimeAdjustedScore: timeAdjusted,
		Response:          response,
		QuestionType:      q.Type,
	}), nil
}

// baseScore dispatches on the question type. Unknown types are non
// fatal: they log a warning and score zero so one exotic question never
// sinks a whole assessment.
func (c *Calculator) baseScore(q *model.Question, response interface{}) float64 {
	switch q.Type {
	case model.QuestionTypeBoolean:
		return c.scoreBoolean(q, response)
	case model.QuestionTypeComposite:
		return c.scoreComposite(q, response)
	case model.QuestionTypeChoice:
		return c.scoreChoice(q, response)
	case model.QuestionTypeRating:
		return c.scoreRating(q, response)
	case model.QuestionTypeText:
		return c.scoreText(q, response)
	case model.QuestionTypeNumber, model.QuestionTypeRange:
		return c.scoreNumber(q, response)
	case model.QuestionTypeMatrix:
		return c.scoreMatrixBase(q, response)
	default:
		log.Printf("[scoring] unknown question type %q (question %s), scoring 0", q.Type, q.ID)
		return 0
	}
}

func (c *Calculator) scoreBoolean(q *model.Question, response interface{}) float64 {
	answer, ok := response.(bool)
	if !ok {
		return 0
	}

	correct := true
	if b, isBool := q.CorrectAnswer.(bool); isBool {
		correct = b
	}
	if answer == correct {
		return q.EffectiveMaxScore()
	}
	return 0
}

// scoreComposite sums boolean sub-question scores. When the question
// declares a partial credit threshold and the completion rate falls
// below it, the accumulated sum is scaled down by the completion rate.
func (c *Calculator) scoreComposite(q *model.Question, response interface{}) float64 {
	if len(q.SubQuestions) == 0 {
		return 0
	}
	subResponses, ok := asResponseMap(response)
	if !ok {
		return 0
	}

	var totalScore, maxPossible float64
	for i := range q.SubQuestions {
		sub := &q.SubQuestions[i]
		totalScore += c.scoreSubQuestion(sub, subResponses[sub.ID])
		maxPossible += sub.EffectiveMaxScore()
	}

	if c.opts.PartialCredit && q.PartialCreditThreshold > 0 && maxPossible > 0 {
		completionRate := totalScore / maxPossible
		if completionRate < q.PartialCreditThreshold {
			return totalScore * completionRate
		}
	}

	return totalScore
}

// scoreSubQuestion applies boolean semantics; sub-questions carry no
// nested structure of their own.
func (c *Calculator) scoreSubQuestion(sub *model.SubQuestion, response interface{}) float64 {
	answer, ok := response.(bool)
	if !ok || !answer {
		return 0
	}
	score := c.applyWeight(sub.EffectiveMaxScore(), sub.EffectiveWeight())
	return math.Min(score, sub.EffectiveMaxScore())
}

func (c *Calculator) scoreChoice(q *model.Question, response interface{}) float64 {
	maxScore := q.EffectiveMaxScore()

	// No expected answer configured: any response is valid.
	if q.CorrectAnswer == nil && len(q.CorrectAnswers) == 0 {
		return maxScore
	}

	// Single choice.
	if q.CorrectAnswer != nil {
		if responseEquals(response, q.CorrectAnswer) {
			return maxScore
		}
		return 0
	}

	// Multi-select.
	selected, ok := toStringSlice(response)
	if !ok || len(selected) == 0 {
		return 0
	}
	correctSet := make(map[string]bool, len(q.CorrectAnswers))
	for _, a := range q.CorrectAnswers {
		correctSet[a] = true
	}
	var correctCount, incorrectCount int
	for _, s := range selected {
		if correctSet[s] {
			correctCount++
		} else {
			incorrectCount++
		}
	}

	if c.opts.PartialCredit {
		score := float64(correctCount) / float64(len(q.CorrectAnswers)) * maxScore
		penalty := float64(incorrectCount) / float64(len(selected)) * maxScore * c.opts.IncorrectChoicePenalty
		return math.Max(0, score-penalty)
	}

	if correctCount == len(q.CorrectAnswers) && incorrectCount == 0 {
		return maxScore
	}
	return 0
}

func (c *Calculator) scoreRating(q *model.Question, response interface{}) float64 {
	rating, ok := toFloat(response)
	if !ok {
		return 0
	}

	minRating := float64(q.MinRating)
	if q.MinRating == 0 {
		minRating = 1
	}
	maxRating := float64(q.MaxRating)
	if q.MaxRating == 0 {
		maxRating = 5
	}
	if rating < minRating || rating > maxRating {
		return 0
	}

	maxScore := q.EffectiveMaxScore()

	// Proximity to the expected rating, when one is declared.
	if q.ExpectedRating != nil {
		expected := *q.ExpectedRating
		maxDifference := math.Max(math.Abs(maxRating-expected), math.Abs(minRating-expected))
		if maxDifference == 0 {
			return maxScore
		}
		proximity := 1 - math.Abs(rating-expected)/maxDifference
		return proximity * maxScore
	}

	// Otherwise scale linearly with position in the range.
	if maxRating == minRating {
		return maxScore
	}
	return (rating - minRating) / (maxRating - minRating) * maxScore
}

func (c *Calculator) scoreText(q *model.Question, response interface{}) float64 {
	raw, ok := response.(string)
	if !ok {
		return 0
	}
	text := strings.ToLower(strings.TrimSpace(raw))
	maxScore := q.EffectiveMaxScore()

	// Keyword matching.
	if len(q.Keywords) > 0 {
		found := 0
		for _, keyword := range q.Keywords {
			if strings.Contains(text, strings.ToLower(keyword)) {
				found++
			}
		}
		if q.RequireAllKeywords {
			if found == len(q.Keywords) {
				return maxScore
			}
			return 0
		}
		return float64(found) / float64(len(q.Keywords)) * maxScore
	}

	// Length based scoring.
	if q.MinLength > 0 || q.MaxLength > 0 {
		length := utf8.RuneCountInString(text)
		minLen := q.MinLength
		maxLen := q.MaxLength

		if length >= minLen && (maxLen == 0 || length <= maxLen) {
			return maxScore
		}
		if c.opts.PartialCredit {
			if length < minLen {
				return float64(length) / float64(minLen) * maxScore
			}
			if maxLen > 0 && length > maxLen {
				overflow := float64(length-maxLen) / float64(maxLen)
				return math.Max(0, 1-overflow) * maxScore
			}
		}
		return 0
	}

	// Default: any non-empty trimmed response earns full credit.
	if len(text) > 0 {
		return maxScore
	}
	return 0
}

func (c *Calculator) scoreNumber(q *model.Question, response interface{}) float64 {
	number, ok := toFloat(response)
	if !ok {
		return 0
	}
	maxScore := q.EffectiveMaxScore()

	// Exact match within tolerance.
	if correct, isNum := toFloat(q.CorrectAnswer); q.CorrectAnswer != nil && isNum {
		if math.Abs(number-correct) <= q.Tolerance {
			return maxScore
		}
		return 0
	}

	// Range validation.
	if q.MinValue != nil || q.MaxValue != nil {
		min := math.Inf(-1)
		if q.MinValue != nil {
			min = *q.MinValue
		}
		max := math.Inf(1)
		if q.MaxValue != nil {
			max = *q.MaxValue
		}
		if number >= min && number <= max {
			return maxScore
		}
		if c.opts.PartialCredit {
			if number < min {
				halfRange := min
				if q.MaxValue != nil {
					halfRange = max - min
				}
				if halfRange > 0 {
					return math.Max(0, 1-(min-number)/halfRange) * maxScore
				}
			} else if number > max {
				halfRange := max
				if q.MinValue != nil {
					halfRange = max - min
				}
				if halfRange > 0 {
					return math.Max(0, 1-(number-max)/halfRange) * maxScore
				}
			}
		}
		return 0
	}

	// No constraints: any parseable number earns full credit.
	return maxScore
}

func (c *Calculator) applyWeight(score, weight float64) float64 {
	if !c.opts.WeightedScoring {
		return score
	}
	return score * weight
}

// applyTimeAdjustment grants a 10% bonus for finishing well under the
// expected time and a 10% penalty for taking more than twice as long.
func (c *Calculator) applyTimeAdjustment(score float64, ctx *Context, q *model.Question) float64 {
	if !c.opts.TimeBasedScoring || ctx == nil || ctx.TimeSpent <= 0 || q.ExpectedTime <= 0 {
		return score
	}
	ratio := ctx.TimeSpent / q.ExpectedTime
	if ratio < 0.5 {
		return score * 1.1
	}
	if ratio > 2.0 {
		return score * 0.9
	}
	return score
}

// Percentage computes score/maxScore as a rounded percentage. A zero max
// score yields 0, never NaN.
func (c *Calculator) Percentage(score, maxScore float64) float64 {
	if maxScore == 0 {
		return 0
	}
	return c.round(score / maxScore * 100)
}

func (c *Calculator) round(v float64) float64 {
	p := math.Pow(10, float64(c.opts.RoundingPrecision))
	return math.Round(v*p) / p
}

func (c *Calculator) newScoreResult(id string, score, maxScore float64, meta model.QuestionScoreMeta) *model.ScoreResult {
	return &model.ScoreResult{
		ID:         id,
		Score:      c.round(score),
		MaxScore:   c.round(maxScore),
		Percentage: c.Percentage(score, maxScore),
		Metadata:   meta,
		Timestamp:  nowStamp(),
	}
}

func nowStamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// asResponseMap normalizes the map shapes a composite or matrix response
// can arrive in (decoded JSON, bson, or typed maps).
func asResponseMap(response interface{}) (map[string]interface{}, bool) {
	switch m := response.(type) {
	case map[string]interface{}:
		return m, true
	case model.ResponseSet:
		return m, true
	case map[string]bool:
		out := make(map[string]interface{}, len(m))
		for k, v := range m {
			out[k] = v
		}
		return out, true
	default:
		return nil, false
	}
}

// toFloat accepts the numeric shapes a decoded response can take,
// including numeric strings.
func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func toStringSlice(v interface{}) ([]string, bool) {
	switch s := v.(type) {
	case []string:
		return s, true
	case []interface{}:
		out := make([]string, 0, len(s))
		for _, item := range s {
			str, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, str)
		}
		return out, true
	default:
		return nil, false
	}
}

// responseEquals compares a raw response with an expected answer,
// tolerating the int/float64 mismatch JSON decoding introduces.
func responseEquals(response, expected interface{}) bool {
	if rf, ok := numericValue(response); ok {
		ef, ok2 := numericValue(expected)
		return ok2 && rf == ef
	}
	switch r := response.(type) {
	case string:
		e, ok := expected.(string)
		return ok && r == e
	case bool:
		e, ok := expected.(bool)
		return ok && r == e
	default:
		return false
	}
}

// numericValue is toFloat restricted to actual numeric types, so string
// responses never compare equal to numeric answers.
func numericValue(v interface{}) (float64, bool) {
	switch v.(type) {
	case float64, float32, int, int32, int64, uint:
		return toFloat(v)
	default:
		return 0, false
	}
}
