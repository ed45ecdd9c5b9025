package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supscore/internal/model"
)

func setupRedis(t *testing.T) *redis.Client {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}

func TestSessionCache_SetGet(t *testing.T) {
	cache := NewSessionCache(setupRedis(t))
	ctx := context.Background()

	session := &model.Session{
		ID:           "sess-1",
		AssessmentID: "checklist_csb_2024",
		Facility:     "CSB2 Ambohipo",
		Supervisor:   "Dr Rakoto",
		Status:       model.SessionInProgress,
		Responses: map[string]model.ResponseRecord{
			"q1": {Value: true, QuestionType: "boolean"},
		},
	}
	require.NoError(t, cache.Set(ctx, session))

	got, err := cache.Get(ctx, "sess-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "checklist_csb_2024", got.AssessmentID)
	assert.Equal(t, "CSB2 Ambohipo", got.Facility)
	assert.Equal(t, model.SessionInProgress, got.Status)
	assert.Equal(t, true, got.Responses["q1"].Value)
}

func TestSessionCache_GetMissing(t *testing.T) {
	cache := NewSessionCache(setupRedis(t))

	got, err := cache.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionCache_Delete(t *testing.T) {
	cache := NewSessionCache(setupRedis(t))
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, &model.Session{ID: "sess-2"}))
	require.NoError(t, cache.Delete(ctx, "sess-2"))

	got, err := cache.Get(ctx, "sess-2")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRankingCache_TopAndRank(t *testing.T) {
	cache := NewRankingCache(setupRedis(t))
	ctx := context.Background()

	require.NoError(t, cache.UpdateScore(ctx, "checklist_csb_2024", "CSB2 Ambohipo", 82.5))
	require.NoError(t, cache.UpdateScore(ctx, "checklist_csb_2024", "CSB1 Anosibe", 64.0))
	require.NoError(t, cache.UpdateScore(ctx, "checklist_csb_2024", "CSB2 Itaosy", 91.3))

	top, err := cache.GetTop(ctx, "checklist_csb_2024", 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "CSB2 Itaosy", top[0].Facility)
	assert.Equal(t, 1, top[0].Rank)
	assert.Equal(t, 91.3, top[0].Percentage)
	assert.Equal(t, "CSB2 Ambohipo", top[1].Facility)

	rank, err := cache.GetRank(ctx, "checklist_csb_2024", "CSB1 Anosibe")
	require.NoError(t, err)
	assert.Equal(t, int64(3), rank)
}

func TestRankingCache_UpdateReplacesScore(t *testing.T) {
	cache := NewRankingCache(setupRedis(t))
	ctx := context.Background()

	require.NoError(t, cache.UpdateScore(ctx, "a1", "CSB2 Ambohipo", 40))
	require.NoError(t, cache.UpdateScore(ctx, "a1", "CSB2 Ambohipo", 75))

	top, err := cache.GetTop(ctx, "a1", 10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, 75.0, top[0].Percentage)
}

func TestRankingCache_RankMissingFacility(t *testing.T) {
	cache := NewRankingCache(setupRedis(t))

	rank, err := cache.GetRank(context.Background(), "a1", "unknown")
	require.NoError(t, err)
	assert.Equal(t, int64(-1), rank)
}
