package model

// QuestionScoreMeta records how a question score was derived.
type QuestionScoreMeta struct {
	BaseScore         float64      `json:"baseScore" bson:"baseScore"`
	WeightedScore     float64      `json:"weightedScore" bson:"weightedScore"`
	TimeAdjustedScore float64      `json:"timeAdjustedScore" bson:"timeAdjustedScore"`
	Response          interface{}  `json:"response,omitempty" bson:"response,omitempty"`
	QuestionType      QuestionType `json:"questionType,omitempty" bson:"questionType,omitempty"`
}

// ScoreResult is the outcome of scoring a single question.
type ScoreResult struct {
	ID         string            `json:"id" bson:"id"`
	Score      float64           `json:"score" bson:"score"`
	MaxScore   float64           `json:"maxScore" bson:"maxScore"`
	Percentage float64           `json:"percentage" bson:"percentage"`
	Metadata   QuestionScoreMeta `json:"metadata" bson:"metadata"`
	Timestamp  string            `json:"timestamp" bson:"timestamp"` // RFC 3339, capture time of computation
}

// SectionScoreMeta carries the detail behind a section score.
type SectionScoreMeta struct {
	QuestionResults []ScoreResult   `json:"questionResults" bson:"questionResults"`
	NestedResults   []SectionResult `json:"nestedResults" bson:"nestedResults"`
	Title           string          `json:"title" bson:"title"`
	Weight          float64         `json:"weight" bson:"weight"`
}

// SectionResult is the outcome of scoring one container (section,
// subsection or category).
type SectionResult struct {
	ID         string           `json:"id" bson:"id"`
	Score      float64          `json:"score" bson:"score"`
	MaxScore   float64          `json:"maxScore" bson:"maxScore"`
	Percentage float64          `json:"percentage" bson:"percentage"`
	Metadata   SectionScoreMeta `json:"metadata" bson:"metadata"`
	Timestamp  string           `json:"timestamp" bson:"timestamp"`
}

// AssessmentScoreMeta carries the detail behind an assessment score.
type AssessmentScoreMeta struct {
	AssessmentID    string          `json:"assessmentId" bson:"assessmentId"`
	AssessmentTitle string          `json:"assessmentTitle" bson:"assessmentTitle"`
	SectionResults  []SectionResult `json:"sectionResults" bson:"sectionResults"`
	Responses       int             `json:"responses" bson:"responses"` // number of response keys supplied
	TimeSpent       float64         `json:"timeSpent,omitempty" bson:"timeSpent,omitempty"`
}

// AssessmentResult is the outcome of scoring a whole assessment.
type AssessmentResult struct {
	Score      float64             `json:"score" bson:"score"`
	MaxScore   float64             `json:"maxScore" bson:"maxScore"`
	Percentage float64             `json:"percentage" bson:"percentage"`
	Grade      string              `json:"grade" bson:"grade"`
	Level      string              `json:"level" bson:"level"`
	Metadata   AssessmentScoreMeta `json:"metadata" bson:"metadata"`
	Timestamp  string              `json:"timestamp" bson:"timestamp"`
}

// SectionSummary is the per-section line of a score breakdown.
type SectionSummary struct {
	ID             string  `json:"id" bson:"id"`
	Title          string  `json:"title" bson:"title"`
	Score          float64 `json:"score" bson:"score"`
	MaxScore       float64 `json:"maxScore" bson:"maxScore"`
	Percentage     float64 `json:"percentage" bson:"percentage"`
	QuestionsCount int     `json:"questionsCount" bson:"questionsCount"`
}

// TypeStats aggregates results per question type across the whole tree.
type TypeStats struct {
	Total           int     `json:"total" bson:"total"`
	Answered        int     `json:"answered" bson:"answered"`
	Correct         int     `json:"correct" bson:"correct"` // scored exactly maxScore
	TotalScore      float64 `json:"totalScore" bson:"totalScore"`
	MaxScore        float64 `json:"maxScore" bson:"maxScore"`
	AnswerRate      float64 `json:"answerRate" bson:"answerRate"`
	Accuracy        float64 `json:"accuracy" bson:"accuracy"`
	ScorePercentage float64 `json:"scorePercentage" bson:"scorePercentage"`
}

// Performance summarizes overall standing. Trend stays "stable" until
// historical results are wired in.
type Performance struct {
	Overall float64 `json:"overall" bson:"overall"`
	Grade   string  `json:"grade" bson:"grade"`
	Level   string  `json:"level" bson:"level"`
	Trend   string  `json:"trend" bson:"trend"`
}

// BreakdownDetail groups the analytics views of a breakdown.
type BreakdownDetail struct {
	BySection       []SectionSummary      `json:"bySection" bson:"bySection"`
	ByQuestionType  map[string]*TypeStats `json:"byQuestionType" bson:"byQuestionType"`
	Performance     Performance           `json:"performance" bson:"performance"`
	Recommendations []string              `json:"recommendations" bson:"recommendations"`
}

// ScoreBreakdown wraps an assessment result with its analytics.
type ScoreBreakdown struct {
	AssessmentResult `bson:",inline"`
	Breakdown        BreakdownDetail `json:"breakdown" bson:"breakdown"`
}

// StoredResult is a persisted assessment result tied to a session.
type StoredResult struct {
	ID           string           `json:"id" bson:"_id,omitempty"`
	SessionID    string           `json:"sessionId" bson:"sessionId"`
	AssessmentID string           `json:"assessmentId" bson:"assessmentId"`
	Facility     string           `json:"facility,omitempty" bson:"facility,omitempty"`
	Result       AssessmentResult `json:"result" bson:"result"`
	Breakdown    *BreakdownDetail `json:"breakdown,omitempty" bson:"breakdown,omitempty"`
}
