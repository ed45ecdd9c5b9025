package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"supscore/internal/cache"
	"supscore/internal/model"
)

// map-backed repo fakes, enough to drive the services without mongo

type fakeAssessmentRepo struct {
	items map[string]*model.Assessment
}

func newFakeAssessmentRepo() *fakeAssessmentRepo {
	return &fakeAssessmentRepo{items: make(map[string]*model.Assessment)}
}

func (r *fakeAssessmentRepo) Create(_ context.Context, a *model.Assessment) error {
	copied := *a
	r.items[a.ID] = &copied
	return nil
}

func (r *fakeAssessmentRepo) GetByID(_ context.Context, id string) (*model.Assessment, error) {
	a, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	copied := *a
	return &copied, nil
}

func (r *fakeAssessmentRepo) List(_ context.Context, departement, niveau string) ([]*model.Assessment, error) {
	var out []*model.Assessment
	for _, a := range r.items {
		if departement != "" && a.Departement != departement {
			continue
		}
		if niveau != "" && a.Niveau != niveau {
			continue
		}
		copied := *a
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeAssessmentRepo) Update(_ context.Context, a *model.Assessment) error {
	copied := *a
	r.items[a.ID] = &copied
	return nil
}

func (r *fakeAssessmentRepo) Delete(_ context.Context, id string) error {
	delete(r.items, id)
	return nil
}

type fakeTemplateRepo struct {
	items map[string]*model.Template
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{items: make(map[string]*model.Template)}
}

func (r *fakeTemplateRepo) Create(_ context.Context, t *model.Template) error {
	copied := *t
	r.items[t.ID] = &copied
	return nil
}

func (r *fakeTemplateRepo) GetByID(_ context.Context, id string) (*model.Template, error) {
	t, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTemplateRepo) List(_ context.Context, departement string) ([]*model.Template, error) {
	var out []*model.Template
	for _, t := range r.items {
		if departement != "" && t.Departement != departement {
			continue
		}
		copied := *t
		out = append(out, &copied)
	}
	return out, nil
}

func (r *fakeTemplateRepo) Delete(_ context.Context, id string) error {
	delete(r.items, id)
	return nil
}

type fakeSessionRepo struct {
	items map[string]*model.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{items: make(map[string]*model.Session)}
}

func (r *fakeSessionRepo) Create(_ context.Context, s *model.Session) error {
	copied := *s
	r.items[s.ID] = &copied
	return nil
}

func (r *fakeSessionRepo) GetByID(_ context.Context, id string) (*model.Session, error) {
	s, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

func (r *fakeSessionRepo) Update(_ context.Context, s *model.Session) error {
	copied := *s
	r.items[s.ID] = &copied
	return nil
}

func (r *fakeSessionRepo) ListByAssessment(_ context.Context, assessmentID string) ([]*model.Session, error) {
	var out []*model.Session
	for _, s := range r.items {
		if s.AssessmentID == assessmentID {
			copied := *s
			out = append(out, &copied)
		}
	}
	return out, nil
}

type fakeResultRepo struct {
	items map[string]*model.StoredResult
	next  int
}

func newFakeResultRepo() *fakeResultRepo {
	return &fakeResultRepo{items: make(map[string]*model.StoredResult)}
}

func (r *fakeResultRepo) Create(_ context.Context, res *model.StoredResult) (string, error) {
	r.next++
	id := res.ID
	if id == "" {
		id = "result_" + string(rune('a'+r.next-1))
	}
	copied := *res
	copied.ID = id
	r.items[id] = &copied
	return id, nil
}

func (r *fakeResultRepo) GetBySessionID(_ context.Context, sessionID string) (*model.StoredResult, error) {
	for _, res := range r.items {
		if res.SessionID == sessionID {
			copied := *res
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeResultRepo) ListByAssessment(_ context.Context, assessmentID string) ([]*model.StoredResult, error) {
	var out []*model.StoredResult
	for _, res := range r.items {
		if res.AssessmentID == assessmentID {
			copied := *res
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (r *fakeResultRepo) ListByFacility(_ context.Context, facility string) ([]*model.StoredResult, error) {
	var out []*model.StoredResult
	for _, res := range r.items {
		if res.Facility == facility {
			copied := *res
			out = append(out, &copied)
		}
	}
	return out, nil
}

func setupCaches(t *testing.T) (cache.SessionCache, cache.RankingCache) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return cache.NewSessionCache(client), cache.NewRankingCache(client)
}

// supervisionChecklist builds a small two-section tree with required
// boolean questions and one matrix question.
func supervisionChecklist() *model.Assessment {
	return &model.Assessment{
		ID:      "checklist_csb_2024",
		Title:   "Supervision CSB",
		Niveau:  "CSB2",
		Version: "1.0",
		Sections: []model.Section{
			{
				ID:    "hygiene",
				Title: "Hygiene",
				Questions: []model.Question{
					{ID: "q1", Type: model.QuestionTypeBoolean, Text: "Water point available", MaxScore: 1, Required: true},
					{ID: "q2", Type: model.QuestionTypeBoolean, Text: "Waste sorted", MaxScore: 1},
				},
			},
			{
				ID:    "data_quality",
				Title: "Data quality",
				Questions: []model.Question{
					{
						ID:       "q3",
						Type:     model.QuestionTypeMatrix,
						Text:     "RMA concordance",
						MaxScore: 2,
						Required: true,
						MonthlyData: []model.MonthlyData{
							{ID: "m1", Month: "2024-01", ParentID: "q3"},
							{ID: "m2", Month: "2024-02", ParentID: "q3"},
						},
					},
				},
			},
		},
	}
}
