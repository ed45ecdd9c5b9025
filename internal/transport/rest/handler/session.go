package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"supscore/internal/service"
	"supscore/internal/transport/rest/middleware"
)

// SessionHandler handles supervision session endpoints
type SessionHandler struct {
	sessionSvc *service.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionSvc *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc}
}

// StartSessionRequest is the request body for starting a session
type StartSessionRequest struct {
	AssessmentID string `json:"assessmentId"`
	Facility     string `json:"facility"`
}

// Start handles POST /v1/sessions
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.AssessmentID == "" {
		writeError(w, http.StatusBadRequest, "assessmentId is required")
		return
	}

	supervisor := middleware.GetSupervisorName(r.Context())
	session, err := h.sessionSvc.Start(r.Context(), req.AssessmentID, req.Facility, supervisor)
	if err != nil {
		if errors.Is(err, service.ErrAssessmentNotFound) {
			writeError(w, http.StatusNotFound, "assessment not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

// Get handles GET /v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionSvc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// SubmitResponseRequest is the request body for submitting a response
type SubmitResponseRequest struct {
	QuestionID string      `json:"questionId"`
	Value      interface{} `json:"value"`
}

// Submit handles POST /v1/sessions/{id}/responses
func (h *SessionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.QuestionID == "" {
		writeError(w, http.StatusBadRequest, "questionId is required")
		return
	}

	outcome, err := h.sessionSvc.Submit(r.Context(), mux.Vars(r)["id"], req.QuestionID, req.Value)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, outcome)
}

// Progress handles GET /v1/sessions/{id}/progress
func (h *SessionHandler) Progress(w http.ResponseWriter, r *http.Request) {
	progress, err := h.sessionSvc.Progress(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, progress)
}

// Question handles GET /v1/sessions/{id}/questions/{position}
// where position is one of current, next, previous.
func (h *SessionHandler) Question(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	var fetch func(r *http.Request, id string) (interface{}, error)
	switch vars["position"] {
	case "current":
		fetch = func(r *http.Request, id string) (interface{}, error) { return h.sessionSvc.Current(r.Context(), id) }
	case "next":
		fetch = func(r *http.Request, id string) (interface{}, error) { return h.sessionSvc.Next(r.Context(), id) }
	case "previous":
		fetch = func(r *http.Request, id string) (interface{}, error) { return h.sessionSvc.Previous(r.Context(), id) }
	default:
		writeError(w, http.StatusBadRequest, "position must be current, next or previous")
		return
	}

	ref, err := fetch(r, id)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ref)
}

// GoTo handles POST /v1/sessions/{id}/goto/{questionId}
func (h *SessionHandler) GoTo(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	ref, err := h.sessionSvc.GoTo(r.Context(), vars["id"], vars["questionId"])
	if err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ref)
}

// CompleteSessionRequest is the request body for completing a session.
// TimeSpent is in seconds.
type CompleteSessionRequest struct {
	TimeSpent float64 `json:"timeSpent"`
}

// Complete handles POST /v1/sessions/{id}/complete
func (h *SessionHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req CompleteSessionRequest
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	result, err := h.sessionSvc.Complete(r.Context(), mux.Vars(r)["id"], req.TimeSpent)
	if err != nil {
		var incomplete *service.IncompleteError
		if errors.As(err, &incomplete) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"error":      incomplete.Error(),
				"validation": incomplete.Validation,
			})
			return
		}
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Abandon handles POST /v1/sessions/{id}/abandon
func (h *SessionHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionSvc.Abandon(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "abandoned"})
}

func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, service.ErrAssessmentNotFound):
		writeError(w, http.StatusNotFound, "assessment not found")
	case errors.Is(err, service.ErrSessionClosed):
		writeError(w, http.StatusConflict, "session is not in progress")
	case errors.Is(err, service.ErrUnknownQuestion):
		writeError(w, http.StatusNotFound, "question not found")
	case errors.Is(err, service.ErrInvalidResponse):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
