package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"supscore/internal/cache"
	"supscore/internal/model"
	"supscore/internal/repository"
	"supscore/internal/scoring"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionClosed   = errors.New("session is not in progress")
	ErrUnknownQuestion = errors.New("question not part of this assessment")
	ErrInvalidResponse = errors.New("invalid response format")
)

// IncompleteError is returned by Complete when required questions are
// still unanswered. Validation carries the per-question issues.
type IncompleteError struct {
	Validation *model.ResponseValidation
}

func (e *IncompleteError) Error() string {
	missing := e.Validation.RequiredQuestions - e.Validation.RequiredAnswered
	return fmt.Sprintf("session incomplete: %d required questions unanswered", missing)
}

// SubmitOutcome is returned after recording one response: the score of
// the answered question plus the live running totals.
type SubmitOutcome struct {
	QuestionScore *model.ScoreResult `json:"questionScore"`
	RunningScore  float64            `json:"runningScore"`
	MaxScore      float64            `json:"maxScore"`
	Percentage    float64            `json:"percentage"`
	Progress      *model.Progress    `json:"progress"`
}

// SessionService drives supervision sessions: one supervisor working
// through one checklist at one facility.
type SessionService struct {
	sessionRepo    repository.SessionRepo
	assessmentRepo repository.AssessmentRepo
	resultRepo     repository.ResultRepo
	sessionCache   cache.SessionCache
	rankingCache   cache.RankingCache
	calc           *scoring.Calculator
}

// NewSessionService creates a new session service
func NewSessionService(
	sessionRepo repository.SessionRepo,
	assessmentRepo repository.AssessmentRepo,
	resultRepo repository.ResultRepo,
	sessionCache cache.SessionCache,
	rankingCache cache.RankingCache,
	calc *scoring.Calculator,
) *SessionService {
	return &SessionService{
		sessionRepo:    sessionRepo,
		assessmentRepo: assessmentRepo,
		resultRepo:     resultRepo,
		sessionCache:   sessionCache,
		rankingCache:   rankingCache,
		calc:           calc,
	}
}

// Start opens a new session against an existing assessment.
func (s *SessionService) Start(ctx context.Context, assessmentID, facility, supervisor string) (*model.Session, error) {
	assessment, err := s.assessmentRepo.GetByID(ctx, assessmentID)
	if err != nil {
		return nil, err
	}
	if assessment == nil {
		return nil, ErrAssessmentNotFound
	}

	session := &model.Session{
		ID:           "sess_" + uuid.New().String()[:8],
		AssessmentID: assessmentID,
		Facility:     facility,
		Supervisor:   supervisor,
		Status:       model.SessionInProgress,
		Responses:    make(map[string]model.ResponseRecord),
		StartedAt:    time.Now().UTC(),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}
	if err := s.sessionCache.Set(ctx, session); err != nil {
		log.Printf("[session] cache set failed for %s: %v", session.ID, err)
	}
	return session, nil
}

// Get loads a session, cache first.
func (s *SessionService) Get(ctx context.Context, id string) (*model.Session, error) {
	session, err := s.sessionCache.Get(ctx, id)
	if err != nil {
		log.Printf("[session] cache get failed for %s: %v", id, err)
	}
	if session != nil {
		return session, nil
	}
	session, err = s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Submit records one response and returns the question score together
// with the live running totals.
func (s *SessionService) Submit(ctx context.Context, sessionID, questionID string, value interface{}) (*SubmitOutcome, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != model.SessionInProgress {
		return nil, ErrSessionClosed
	}

	assessment, err := s.assessmentRepo.GetByID(ctx, session.AssessmentID)
	if err != nil {
		return nil, err
	}
	if assessment == nil {
		return nil, ErrAssessmentNotFound
	}

	question := findQuestion(assessment, questionID)
	if question == nil {
		return nil, ErrUnknownQuestion
	}
	if err := scoring.ValidateResponseFormat(question, value); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	if session.Responses == nil {
		session.Responses = make(map[string]model.ResponseRecord)
	}
	session.Responses[questionID] = model.ResponseRecord{
		Value:        value,
		QuestionType: question.Type,
		AnsweredAt:   time.Now().UTC(),
	}
	if err := s.persist(ctx, session); err != nil {
		return nil, err
	}

	score, err := s.calc.ScoreQuestion(question, value, nil)
	if err != nil {
		return nil, err
	}
	running, err := s.calc.ScoreAssessment(assessment, session.ResponseValues(), nil)
	if err != nil {
		return nil, err
	}

	return &SubmitOutcome{
		QuestionScore: score,
		RunningScore:  running.Score,
		MaxScore:      running.MaxScore,
		Percentage:    running.Percentage,
		Progress:      progressOf(assessment, session),
	}, nil
}

// Progress reports how far a session has advanced.
func (s *SessionService) Progress(ctx context.Context, sessionID string) (*model.Progress, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	assessment, err := s.assessmentRepo.GetByID(ctx, session.AssessmentID)
	if err != nil {
		return nil, err
	}
	if assessment == nil {
		return nil, ErrAssessmentNotFound
	}
	return progressOf(assessment, session), nil
}

// Current returns the question at the session cursor.
func (s *SessionService) Current(ctx context.Context, sessionID string) (*model.QuestionRef, error) {
	return s.move(ctx, sessionID, 0)
}

// Next advances the cursor and returns the question there.
func (s *SessionService) Next(ctx context.Context, sessionID string) (*model.QuestionRef, error) {
	return s.move(ctx, sessionID, 1)
}

// Previous moves the cursor back and returns the question there.
func (s *SessionService) Previous(ctx context.Context, sessionID string) (*model.QuestionRef, error) {
	return s.move(ctx, sessionID, -1)
}

// GoTo jumps the cursor to a specific question id.
func (s *SessionService) GoTo(ctx context.Context, sessionID, questionID string) (*model.QuestionRef, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	_, refs, err := s.questionList(ctx, session)
	if err != nil {
		return nil, err
	}

	for i := range refs {
		if refs[i].Question.ID == questionID {
			session.CurrentIndex = i
			if err := s.persist(ctx, session); err != nil {
				return nil, err
			}
			return &refs[i], nil
		}
	}
	return nil, ErrUnknownQuestion
}

func (s *SessionService) move(ctx context.Context, sessionID string, delta int) (*model.QuestionRef, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	_, refs, err := s.questionList(ctx, session)
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return nil, ErrUnknownQuestion
	}

	idx := session.CurrentIndex + delta
	if idx < 0 {
		idx = 0
	}
	if idx > len(refs)-1 {
		idx = len(refs) - 1
	}
	if idx != session.CurrentIndex {
		session.CurrentIndex = idx
		if err := s.persist(ctx, session); err != nil {
			return nil, err
		}
	}
	return &refs[idx], nil
}

// Complete validates, scores and closes a session. The final result and
// breakdown are persisted and the facility ranking updated. timeSpent is
// the supervisor-reported duration in seconds, the same unit as
// Question.ExpectedTime; zero means unknown.
func (s *SessionService) Complete(ctx context.Context, sessionID string, timeSpent float64) (*model.StoredResult, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != model.SessionInProgress {
		return nil, ErrSessionClosed
	}

	assessment, err := s.assessmentRepo.GetByID(ctx, session.AssessmentID)
	if err != nil {
		return nil, err
	}
	if assessment == nil {
		return nil, ErrAssessmentNotFound
	}

	responses := session.ResponseValues()
	validation, err := s.calc.ValidateResponses(assessment, responses)
	if err != nil {
		return nil, err
	}
	if !validation.IsValid {
		return nil, &IncompleteError{Validation: validation}
	}

	scoreCtx := &scoring.Context{TimeSpent: timeSpent}
	breakdown, err := s.calc.Breakdown(assessment, responses, scoreCtx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session.Status = model.SessionCompleted
	session.CompletedAt = &now
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}
	if err := s.sessionCache.Delete(ctx, session.ID); err != nil {
		log.Printf("[session] cache delete failed for %s: %v", session.ID, err)
	}

	stored := &model.StoredResult{
		SessionID:    session.ID,
		AssessmentID: session.AssessmentID,
		Facility:     session.Facility,
		Result:       breakdown.AssessmentResult,
		Breakdown:    &breakdown.Breakdown,
	}
	id, err := s.resultRepo.Create(ctx, stored)
	if err != nil {
		return nil, err
	}
	stored.ID = id

	if session.Facility != "" {
		if err := s.rankingCache.UpdateScore(ctx, session.AssessmentID, session.Facility, stored.Result.Percentage); err != nil {
			log.Printf("[session] ranking update failed for %s: %v", session.Facility, err)
		}
	}
	return stored, nil
}

// Abandon closes a session without scoring it.
func (s *SessionService) Abandon(ctx context.Context, sessionID string) error {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.Status != model.SessionInProgress {
		return ErrSessionClosed
	}

	now := time.Now().UTC()
	session.Status = model.SessionAbandoned
	session.CompletedAt = &now
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return err
	}
	if err := s.sessionCache.Delete(ctx, session.ID); err != nil {
		log.Printf("[session] cache delete failed for %s: %v", session.ID, err)
	}
	return nil
}

func (s *SessionService) persist(ctx context.Context, session *model.Session) error {
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return err
	}
	if err := s.sessionCache.Set(ctx, session); err != nil {
		log.Printf("[session] cache set failed for %s: %v", session.ID, err)
	}
	return nil
}

func (s *SessionService) questionList(ctx context.Context, session *model.Session) (*model.Assessment, []model.QuestionRef, error) {
	assessment, err := s.assessmentRepo.GetByID(ctx, session.AssessmentID)
	if err != nil {
		return nil, nil, err
	}
	if assessment == nil {
		return nil, nil, ErrAssessmentNotFound
	}
	return assessment, FlattenQuestions(assessment), nil
}

// FlattenQuestions lists every question in document order with its
// location in the tree, the order navigation walks.
func FlattenQuestions(a *model.Assessment) []model.QuestionRef {
	var refs []model.QuestionRef
	for i := range a.Sections {
		refs = flattenSection(&a.Sections[i], nil, refs)
	}
	return refs
}

func flattenSection(sec *model.Section, path []string, refs []model.QuestionRef) []model.QuestionRef {
	path = append(path, sec.ID)
	for i := range sec.Questions {
		refs = append(refs, model.QuestionRef{
			Index:        len(refs),
			Question:     sec.Questions[i],
			SectionID:    sec.ID,
			SectionTitle: sec.Title,
			Path:         append([]string(nil), path...),
		})
	}
	for i := range sec.Subsections {
		refs = flattenSection(&sec.Subsections[i], path, refs)
	}
	for i := range sec.Categories {
		refs = flattenSection(&sec.Categories[i], path, refs)
	}
	return refs
}

func findQuestion(a *model.Assessment, id string) *model.Question {
	var found *model.Question
	a.WalkQuestions(func(q *model.Question) {
		if found == nil && q.ID == id {
			found = q
		}
	})
	return found
}

func progressOf(a *model.Assessment, session *model.Session) *model.Progress {
	progress := &model.Progress{}
	a.WalkQuestions(func(q *model.Question) {
		progress.Total++
		if q.Required {
			progress.RequiredTotal++
		}
		if _, ok := session.Responses[q.ID]; ok {
			progress.Answered++
			if q.Required {
				progress.RequiredAnswered++
			}
		}
	})
	if progress.Total > 0 {
		progress.Percent = float64(progress.Answered) / float64(progress.Total) * 100
	}
	return progress
}
