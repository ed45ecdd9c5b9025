package model

import "time"

// SessionStatus tracks the lifecycle of a supervision session.
type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
	SessionAbandoned  SessionStatus = "abandoned"
)

// ResponseRecord is one recorded answer inside a session.
type ResponseRecord struct {
	Value        interface{}  `json:"value" bson:"value"`
	QuestionType QuestionType `json:"questionType" bson:"questionType"`
	AnsweredAt   time.Time    `json:"answeredAt" bson:"answeredAt"`
}

// Session is one run of a supervisor working through an assessment at a
// facility. Responses are keyed by question id.
type Session struct {
	ID           string                    `json:"id" bson:"_id,omitempty"`
	AssessmentID string                    `json:"assessmentId" bson:"assessmentId"`
	Facility     string                    `json:"facility,omitempty" bson:"facility,omitempty"`
	Supervisor   string                    `json:"supervisor,omitempty" bson:"supervisor,omitempty"`
	Status       SessionStatus             `json:"status" bson:"status"`
	CurrentIndex int                       `json:"currentIndex" bson:"currentIndex"`
	Responses    map[string]ResponseRecord `json:"responses" bson:"responses"`
	StartedAt    time.Time                 `json:"startedAt" bson:"startedAt"`
	CompletedAt  *time.Time                `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
}

// ResponseValues flattens the recorded answers into the raw ResponseSet
// the scoring engine consumes.
func (s *Session) ResponseValues() ResponseSet {
	responses := make(ResponseSet, len(s.Responses))
	for id, rec := range s.Responses {
		responses[id] = rec.Value
	}
	return responses
}

// Progress is a snapshot of how far a session has advanced.
type Progress struct {
	Answered         int     `json:"answered"`
	Total            int     `json:"total"`
	Percent          float64 `json:"percent"`
	RequiredAnswered int     `json:"requiredAnswered"`
	RequiredTotal    int     `json:"requiredTotal"`
}

// QuestionRef locates a question within the flattened navigation order.
type QuestionRef struct {
	Index        int      `json:"index"`
	Question     Question `json:"question"`
	SectionID    string   `json:"sectionId"`
	SectionTitle string   `json:"sectionTitle"`
	Path         []string `json:"path"`
}
