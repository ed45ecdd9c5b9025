package rest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supscore/internal/model"
	"supscore/internal/scoring"
	"supscore/internal/service"
)

func testRouter(t *testing.T) http.Handler {
	t.Setenv("SUPERVISOR_USERNAME", "supervisor")
	t.Setenv("SUPERVISOR_PASSWORD", "secret")
	t.Setenv("JWT_SECRET", "test-secret")

	return NewRouter(&Container{
		AuthService:    service.NewAuthService(),
		ScoringService: service.NewScoringService(scoring.NewCalculator(nil), nil, nil),
	})
}

func login(t *testing.T, router http.Handler) string {
	body := bytes.NewBufferString(`{"username":"supervisor","password":"secret"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp model.LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestRouter_Health(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouter_LoginRejectsBadCredentials(t *testing.T) {
	router := testRouter(t)

	body := bytes.NewBufferString(`{"username":"supervisor","password":"wrong"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_ScoreRequiresAuth(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/score", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_ScoreEndToEnd(t *testing.T) {
	router := testRouter(t)
	token := login(t, router)

	payload := map[string]interface{}{
		"assessment": map[string]interface{}{
			"id":    "checklist_mini",
			"title": "Mini checklist",
			"sections": []map[string]interface{}{
				{
					"id":    "s1",
					"title": "Hygiene",
					"questions": []map[string]interface{}{
						{"id": "q1", "type": "boolean", "maxScore": 1, "required": true},
						{"id": "q2", "type": "boolean", "maxScore": 1},
					},
				},
			},
		},
		"responses": map[string]interface{}{"q1": true, "q2": false},
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/score", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var result model.AssessmentResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 1.0, result.Score)
	assert.Equal(t, 2.0, result.MaxScore)
	assert.Equal(t, 50.0, result.Percentage)
	assert.Equal(t, "F", result.Grade)
}

// A request that only sets strictMode must keep partial credit and
// decimal rounding at their defaults.
func TestRouter_ScoreSparseOptionsKeepDefaults(t *testing.T) {
	router := testRouter(t)
	token := login(t, router)

	payload := map[string]interface{}{
		"assessment": map[string]interface{}{
			"id":    "checklist_mini",
			"title": "Mini checklist",
			"sections": []map[string]interface{}{
				{
					"id":    "s1",
					"title": "Formations",
					"questions": []map[string]interface{}{
						{
							"id":             "q1",
							"type":           "choice",
							"maxScore":       4,
							"multiple":       true,
							"options":        []string{"a", "b", "c", "d"},
							"correctAnswers": []string{"a", "b", "c", "d"},
						},
						{"id": "q2", "type": "boolean", "maxScore": 2},
					},
				},
			},
		},
		"responses": map[string]interface{}{"q1": []string{"a", "b"}, "q2": true},
		"options":   map[string]interface{}{"strictMode": true},
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/score", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var result model.AssessmentResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 4.0, result.Score)
	assert.Equal(t, 6.0, result.MaxScore)
	assert.Equal(t, 66.67, result.Percentage)
}
