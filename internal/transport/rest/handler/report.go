package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"supscore/internal/model"
	"supscore/internal/scoring"
	"supscore/internal/service"
)

// ReportHandler handles ad hoc scoring, results and ranking endpoints
type ReportHandler struct {
	scoringSvc *service.ScoringService
}

// NewReportHandler creates a new report handler
func NewReportHandler(scoringSvc *service.ScoringService) *ReportHandler {
	return &ReportHandler{scoringSvc: scoringSvc}
}

// ScoreRequest is the request body for ad hoc scoring. Options, when
// present, override the server defaults for this request only; fields
// left out keep their default values.
type ScoreRequest struct {
	Assessment *model.Assessment  `json:"assessment"`
	Responses  model.ResponseSet  `json:"responses"`
	Options    *scoring.Overrides `json:"options,omitempty"`
	TimeSpent  float64            `json:"timeSpent,omitempty"`
}

func (req *ScoreRequest) scoringOptions() *scoring.Options {
	if req.Options == nil {
		return nil
	}
	opts := req.Options.Resolve()
	return &opts
}

func decodeScoreRequest(w http.ResponseWriter, r *http.Request) (*ScoreRequest, bool) {
	var req ScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	if req.Assessment == nil {
		writeError(w, http.StatusBadRequest, "assessment is required")
		return nil, false
	}
	return &req, true
}

// Score handles POST /v1/score
func (h *ReportHandler) Score(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeScoreRequest(w, r)
	if !ok {
		return
	}

	result, err := h.scoringSvc.Score(req.Assessment, req.Responses, req.scoringOptions(), req.TimeSpent)
	if err != nil {
		writeScoringError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Breakdown handles POST /v1/score/breakdown
func (h *ReportHandler) Breakdown(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeScoreRequest(w, r)
	if !ok {
		return
	}

	breakdown, err := h.scoringSvc.Breakdown(req.Assessment, req.Responses, req.scoringOptions(), req.TimeSpent)
	if err != nil {
		writeScoringError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, breakdown)
}

// Validate handles POST /v1/score/validate
func (h *ReportHandler) Validate(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeScoreRequest(w, r)
	if !ok {
		return
	}

	validation, err := h.scoringSvc.Validate(req.Assessment, req.Responses)
	if err != nil {
		writeScoringError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, validation)
}

// Rankings handles GET /v1/rankings/{assessmentId}?limit=N
func (h *ReportHandler) Rankings(w http.ResponseWriter, r *http.Request) {
	assessmentID := mux.Vars(r)["assessmentId"]
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.scoringSvc.Rankings(r.Context(), assessmentID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"rankings": entries})
}

// Results handles GET /v1/results?assessmentId=...|facility=...
func (h *ReportHandler) Results(w http.ResponseWriter, r *http.Request) {
	assessmentID := r.URL.Query().Get("assessmentId")
	facility := r.URL.Query().Get("facility")

	var (
		results []*model.StoredResult
		err     error
	)
	switch {
	case assessmentID != "":
		results, err = h.scoringSvc.ResultsByAssessment(r.Context(), assessmentID)
	case facility != "":
		results, err = h.scoringSvc.ResultsByFacility(r.Context(), facility)
	default:
		writeError(w, http.StatusBadRequest, "assessmentId or facility query parameter is required")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

// SessionResult handles GET /v1/sessions/{id}/result
func (h *ReportHandler) SessionResult(w http.ResponseWriter, r *http.Request) {
	result, err := h.scoringSvc.ResultBySession(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if result == nil {
		writeError(w, http.StatusNotFound, "no result for this session")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func writeScoringError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, scoring.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case scoring.IsMissingResponse(err):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
