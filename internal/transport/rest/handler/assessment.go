package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"supscore/internal/model"
	"supscore/internal/service"
)

// AssessmentHandler handles checklist and template endpoints
type AssessmentHandler struct {
	contentSvc *service.ContentService
}

// NewAssessmentHandler creates a new assessment handler
func NewAssessmentHandler(contentSvc *service.ContentService) *AssessmentHandler {
	return &AssessmentHandler{contentSvc: contentSvc}
}

// Create handles POST /v1/assessments
func (h *AssessmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var assessment model.Assessment
	if err := json.NewDecoder(r.Body).Decode(&assessment); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.contentSvc.CreateAssessment(r.Context(), &assessment); err != nil {
		if errors.Is(err, service.ErrInvalidStructure) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, &assessment)
}

// List handles GET /v1/assessments
func (h *AssessmentHandler) List(w http.ResponseWriter, r *http.Request) {
	departement := r.URL.Query().Get("departement")
	niveau := r.URL.Query().Get("niveau")

	assessments, err := h.contentSvc.ListAssessments(r.Context(), departement, niveau)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"assessments": assessments})
}

// Get handles GET /v1/assessments/{id}
func (h *AssessmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	assessment, err := h.contentSvc.GetAssessment(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if assessment == nil {
		writeError(w, http.StatusNotFound, "assessment not found")
		return
	}

	writeJSON(w, http.StatusOK, assessment)
}

// Update handles PUT /v1/assessments/{id}
func (h *AssessmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var assessment model.Assessment
	if err := json.NewDecoder(r.Body).Decode(&assessment); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	assessment.ID = id

	if err := h.contentSvc.UpdateAssessment(r.Context(), &assessment); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStructure):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrAssessmentNotFound):
			writeError(w, http.StatusNotFound, "assessment not found")
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, &assessment)
}

// Delete handles DELETE /v1/assessments/{id}
func (h *AssessmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.contentSvc.DeleteAssessment(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Export handles GET /v1/assessments/{id}/export?format=json|csv
func (h *AssessmentHandler) Export(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}

	var (
		data        []byte
		contentType string
		err         error
	)
	switch format {
	case "json":
		data, err = h.contentSvc.ExportJSON(r.Context(), id)
		contentType = "application/json"
	case "csv":
		data, err = h.contentSvc.ExportCSV(r.Context(), id)
		contentType = "text/csv"
	default:
		writeError(w, http.StatusBadRequest, "unsupported export format")
		return
	}
	if err != nil {
		if errors.Is(err, service.ErrAssessmentNotFound) {
			writeError(w, http.StatusNotFound, "assessment not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+id+`.`+format+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Import handles POST /v1/assessments/import
func (h *AssessmentHandler) Import(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unable to read request body")
		return
	}

	assessment, err := h.contentSvc.ImportJSON(r.Context(), data)
	if err != nil {
		if errors.Is(err, service.ErrInvalidStructure) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, assessment)
}

// CreateTemplate handles POST /v1/templates
func (h *AssessmentHandler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var template model.Template
	if err := json.NewDecoder(r.Body).Decode(&template); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.contentSvc.CreateTemplate(r.Context(), &template); err != nil {
		if errors.Is(err, service.ErrInvalidStructure) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, &template)
}

// ListTemplates handles GET /v1/templates
func (h *AssessmentHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	departement := r.URL.Query().Get("departement")

	templates, err := h.contentSvc.ListTemplates(r.Context(), departement)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"templates": templates})
}

// InstantiateTemplateRequest is the request body for instantiating a template
type InstantiateTemplateRequest struct {
	Title string `json:"title"`
}

// InstantiateTemplate handles POST /v1/templates/{id}/instantiate
func (h *AssessmentHandler) InstantiateTemplate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req InstantiateTemplateRequest
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	assessment, err := h.contentSvc.InstantiateTemplate(r.Context(), id, req.Title)
	if err != nil {
		if errors.Is(err, service.ErrTemplateNotFound) {
			writeError(w, http.StatusNotFound, "template not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, assessment)
}
