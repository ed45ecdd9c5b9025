package service

import (
	"context"

	"supscore/internal/cache"
	"supscore/internal/model"
	"supscore/internal/repository"
	"supscore/internal/scoring"
)

// ScoringService exposes the calculator for ad hoc scoring and serves
// stored results and facility rankings. Persistence happens on the
// session completion path, not here.
type ScoringService struct {
	calc         *scoring.Calculator
	resultRepo   repository.ResultRepo
	rankingCache cache.RankingCache
}

// NewScoringService creates a new scoring service
func NewScoringService(calc *scoring.Calculator, resultRepo repository.ResultRepo, rankingCache cache.RankingCache) *ScoringService {
	return &ScoringService{
		calc:         calc,
		resultRepo:   resultRepo,
		rankingCache: rankingCache,
	}
}

// calculator returns the shared calculator, or a one-off built from the
// request override.
func (s *ScoringService) calculator(opts *scoring.Options) *scoring.Calculator {
	if opts == nil {
		return s.calc
	}
	return scoring.NewCalculator(opts)
}

// Score computes the result for a full tree and response set.
func (s *ScoringService) Score(a *model.Assessment, responses model.ResponseSet, opts *scoring.Options, timeSpent float64) (*model.AssessmentResult, error) {
	return s.calculator(opts).ScoreAssessment(a, responses, &scoring.Context{TimeSpent: timeSpent})
}

// Breakdown computes the result plus its analytics views.
func (s *ScoringService) Breakdown(a *model.Assessment, responses model.ResponseSet, opts *scoring.Options, timeSpent float64) (*model.ScoreBreakdown, error) {
	return s.calculator(opts).Breakdown(a, responses, &scoring.Context{TimeSpent: timeSpent})
}

// Validate checks a response set against a tree without scoring it.
func (s *ScoringService) Validate(a *model.Assessment, responses model.ResponseSet) (*model.ResponseValidation, error) {
	return s.calc.ValidateResponses(a, responses)
}

// ResultBySession returns the stored result of a completed session.
func (s *ScoringService) ResultBySession(ctx context.Context, sessionID string) (*model.StoredResult, error) {
	return s.resultRepo.GetBySessionID(ctx, sessionID)
}

// ResultsByAssessment lists stored results for one checklist.
func (s *ScoringService) ResultsByAssessment(ctx context.Context, assessmentID string) ([]*model.StoredResult, error) {
	return s.resultRepo.ListByAssessment(ctx, assessmentID)
}

// ResultsByFacility lists stored results for one facility.
func (s *ScoringService) ResultsByFacility(ctx context.Context, facility string) ([]*model.StoredResult, error) {
	return s.resultRepo.ListByFacility(ctx, facility)
}

// Rankings returns the top facilities for an assessment.
func (s *ScoringService) Rankings(ctx context.Context, assessmentID string, limit int) ([]cache.RankingEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.rankingCache.GetTop(ctx, assessmentID, limit)
}

// FacilityRank returns one facility's 1-indexed rank, -1 if absent.
func (s *ScoringService) FacilityRank(ctx context.Context, assessmentID, facility string) (int64, error) {
	return s.rankingCache.GetRank(ctx, assessmentID, facility)
}
