package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"supscore/internal/model"
	"supscore/internal/repository"
)

var (
	ErrAssessmentNotFound = errors.New("assessment not found")
	ErrTemplateNotFound   = errors.New("template not found")
	ErrInvalidStructure   = errors.New("invalid checklist structure")
)

// ContentService handles assessment and template management for the
// backoffice. Scoring consumes the trees it produces, so structural
// validation happens here, on every write.
type ContentService struct {
	assessmentRepo repository.AssessmentRepo
	templateRepo   repository.TemplateRepo
}

// NewContentService creates a new content service
func NewContentService(assessmentRepo repository.AssessmentRepo, templateRepo repository.TemplateRepo) *ContentService {
	return &ContentService{
		assessmentRepo: assessmentRepo,
		templateRepo:   templateRepo,
	}
}

// CreateAssessment validates and stores a new checklist.
func (s *ContentService) CreateAssessment(ctx context.Context, assessment *model.Assessment) error {
	if assessment.ID == "" {
		assessment.ID = "assessment_" + uuid.New().String()[:8]
	}
	if assessment.Version == "" {
		assessment.Version = "1.0"
	}
	if err := validateStructure(assessment); err != nil {
		return err
	}
	return s.assessmentRepo.Create(ctx, assessment)
}

// GetAssessment retrieves a checklist by id
func (s *ContentService) GetAssessment(ctx context.Context, id string) (*model.Assessment, error) {
	return s.assessmentRepo.GetByID(ctx, id)
}

// ListAssessments retrieves checklists, optionally filtered by
// departement and niveau.
func (s *ContentService) ListAssessments(ctx context.Context, departement, niveau string) ([]*model.Assessment, error) {
	return s.assessmentRepo.List(ctx, departement, niveau)
}

// UpdateAssessment validates and replaces an existing checklist.
func (s *ContentService) UpdateAssessment(ctx context.Context, assessment *model.Assessment) error {
	if err := validateStructure(assessment); err != nil {
		return err
	}
	existing, err := s.assessmentRepo.GetByID(ctx, assessment.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrAssessmentNotFound
	}
	assessment.CreatedAt = existing.CreatedAt
	return s.assessmentRepo.Update(ctx, assessment)
}

// DeleteAssessment removes a checklist
func (s *ContentService) DeleteAssessment(ctx context.Context, id string) error {
	return s.assessmentRepo.Delete(ctx, id)
}

// CreateTemplate validates and stores a reusable checklist blueprint.
func (s *ContentService) CreateTemplate(ctx context.Context, template *model.Template) error {
	if template.ID == "" {
		template.ID = "template_" + uuid.New().String()[:8]
	}
	tree := &model.Assessment{ID: template.ID, Sections: template.Sections}
	if err := validateStructure(tree); err != nil {
		return err
	}
	return s.templateRepo.Create(ctx, template)
}

// GetTemplate retrieves a template by id
func (s *ContentService) GetTemplate(ctx context.Context, id string) (*model.Template, error) {
	return s.templateRepo.GetByID(ctx, id)
}

// ListTemplates retrieves templates, optionally filtered by departement
func (s *ContentService) ListTemplates(ctx context.Context, departement string) ([]*model.Template, error) {
	return s.templateRepo.List(ctx, departement)
}

// DeleteTemplate removes a template
func (s *ContentService) DeleteTemplate(ctx context.Context, id string) error {
	return s.templateRepo.Delete(ctx, id)
}

// InstantiateTemplate creates a fresh assessment from a template. The
// new assessment gets its own id and starts at version 1.0.
func (s *ContentService) InstantiateTemplate(ctx context.Context, templateID, title string) (*model.Assessment, error) {
	template, err := s.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, ErrTemplateNotFound
	}

	if title == "" {
		title = template.Name
	}
	assessment := &model.Assessment{
		ID:          "assessment_" + uuid.New().String()[:8],
		Title:       title,
		Description: template.Description,
		Departement: template.Departement,
		Niveau:      template.Niveau,
		Version:     "1.0",
		MaxScore:    template.MaxScore,
		Sections:    template.Sections,
	}
	if err := s.assessmentRepo.Create(ctx, assessment); err != nil {
		return nil, err
	}
	return assessment, nil
}

// ExportJSON serializes an assessment for transfer between instances.
func (s *ContentService) ExportJSON(ctx context.Context, id string) ([]byte, error) {
	assessment, err := s.assessmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if assessment == nil {
		return nil, ErrAssessmentNotFound
	}
	return json.MarshalIndent(assessment, "", "  ")
}

// ImportJSON validates and stores an assessment exported elsewhere.
func (s *ContentService) ImportJSON(ctx context.Context, data []byte) (*model.Assessment, error) {
	var assessment model.Assessment
	if err := json.Unmarshal(data, &assessment); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStructure, err)
	}
	if err := s.CreateAssessment(ctx, &assessment); err != nil {
		return nil, err
	}
	return &assessment, nil
}

// ExportCSV flattens an assessment into one row per question, matrix
// questions expanded to one row per month.
func (s *ContentService) ExportCSV(ctx context.Context, id string) ([]byte, error) {
	assessment, err := s.assessmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if assessment == nil {
		return nil, ErrAssessmentNotFound
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := []string{"section_id", "section_title", "question_id", "type", "text", "max_score", "weight", "required", "month"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for i := range assessment.Sections {
		if err := writeSectionRows(w, &assessment.Sections[i]); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSectionRows(w *csv.Writer, sec *model.Section) error {
	for i := range sec.Questions {
		q := &sec.Questions[i]
		if q.Type == model.QuestionTypeMatrix && len(q.MonthlyData) > 0 {
			for _, month := range q.MonthlyData {
				if err := w.Write(questionRow(sec, q, month.Month)); err != nil {
					return err
				}
			}
			continue
		}
		if err := w.Write(questionRow(sec, q, "")); err != nil {
			return err
		}
	}
	for i := range sec.Subsections {
		if err := writeSectionRows(w, &sec.Subsections[i]); err != nil {
			return err
		}
	}
	for i := range sec.Categories {
		if err := writeSectionRows(w, &sec.Categories[i]); err != nil {
			return err
		}
	}
	return nil
}

func questionRow(sec *model.Section, q *model.Question, month string) []string {
	return []string{
		sec.ID,
		sec.Title,
		q.ID,
		string(q.Type),
		q.Text,
		strconv.FormatFloat(q.EffectiveMaxScore(), 'f', -1, 64),
		strconv.FormatFloat(q.EffectiveWeight(), 'f', -1, 64),
		strconv.FormatBool(q.Required),
		month,
	}
}

// validateStructure checks the invariants scoring relies on: non-empty
// unique question ids, known types, non-negative max scores.
func validateStructure(a *model.Assessment) error {
	if a.ID == "" {
		return fmt.Errorf("%w: missing assessment id", ErrInvalidStructure)
	}
	if len(a.Sections) == 0 {
		return fmt.Errorf("%w: assessment %q has no sections", ErrInvalidStructure, a.ID)
	}

	seen := make(map[string]bool)
	var walkErr error
	a.WalkQuestions(func(q *model.Question) {
		if walkErr != nil {
			return
		}
		switch {
		case q.ID == "":
			walkErr = fmt.Errorf("%w: question with empty id", ErrInvalidStructure)
		case seen[q.ID]:
			walkErr = fmt.Errorf("%w: duplicate question id %q", ErrInvalidStructure, q.ID)
		case !model.IsKnownQuestionType(q.Type):
			walkErr = fmt.Errorf("%w: question %q has unknown type %q", ErrInvalidStructure, q.ID, q.Type)
		case q.MaxScore < 0:
			walkErr = fmt.Errorf("%w: question %q has negative max score", ErrInvalidStructure, q.ID)
		}
		seen[q.ID] = true
	})
	if walkErr != nil {
		return walkErr
	}

	for i := range a.Sections {
		if err := validateSectionIDs(&a.Sections[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateSectionIDs(sec *model.Section) error {
	if sec.ID == "" {
		return fmt.Errorf("%w: section with empty id", ErrInvalidStructure)
	}
	for i := range sec.Subsections {
		if err := validateSectionIDs(&sec.Subsections[i]); err != nil {
			return err
		}
	}
	for i := range sec.Categories {
		if err := validateSectionIDs(&sec.Categories[i]); err != nil {
			return err
		}
	}
	return nil
}
