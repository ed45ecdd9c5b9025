package model

import "time"

// Section is a node of the checklist tree. Subsections and categories are
// structurally identical containers that differ only in label semantics,
// so both reuse this type and the aggregator treats them uniformly.
type Section struct {
	ID          string  `json:"id" bson:"id"`
	Title       string  `json:"title" bson:"title"`
	Instruction string  `json:"instruction,omitempty" bson:"instruction,omitempty"`
	MaxScore    float64 `json:"maxScore" bson:"maxScore"` // 0 means derive from children
	Weight      float64 `json:"weight" bson:"weight"`     // top-level sections only, 0 treated as 1.0

	Questions   []Question `json:"questions,omitempty" bson:"questions,omitempty"`
	Subsections []Section  `json:"subsections,omitempty" bson:"subsections,omitempty"`
	Categories  []Section  `json:"categories,omitempty" bson:"categories,omitempty"`
}

// Nested returns every nested container, subsections first. Callers must
// not mutate the returned sections.
func (s *Section) Nested() []Section {
	if len(s.Subsections) == 0 {
		return s.Categories
	}
	if len(s.Categories) == 0 {
		return s.Subsections
	}
	nested := make([]Section, 0, len(s.Subsections)+len(s.Categories))
	nested = append(nested, s.Subsections...)
	return append(nested, s.Categories...)
}

// EffectiveWeight returns the section weight, defaulting to 1.0.
func (s *Section) EffectiveWeight() float64 {
	if s.Weight == 0 {
		return 1.0
	}
	return s.Weight
}

// Assessment is the root checklist entity. Content ids are authored
// (e.g. "checklist_csb_2024") so the mongo _id is the string id itself.
type Assessment struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Departement string    `json:"departement,omitempty" bson:"departement,omitempty"`
	Niveau      string    `json:"niveau,omitempty" bson:"niveau,omitempty"`
	Version     string    `json:"version,omitempty" bson:"version,omitempty"`
	MaxScore    float64   `json:"maxScore" bson:"maxScore"` // 0 means derive from sections
	Sections    []Section `json:"sections" bson:"sections"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// WalkQuestions visits every question in the tree, all nesting levels, in
// document order.
func (a *Assessment) WalkQuestions(visit func(q *Question)) {
	for i := range a.Sections {
		walkSectionQuestions(&a.Sections[i], visit)
	}
}

func walkSectionQuestions(s *Section, visit func(q *Question)) {
	for i := range s.Questions {
		visit(&s.Questions[i])
	}
	for i := range s.Subsections {
		walkSectionQuestions(&s.Subsections[i], visit)
	}
	for i := range s.Categories {
		walkSectionQuestions(&s.Categories[i], visit)
	}
}

// Template is a reusable checklist blueprint managed by the backoffice.
type Template struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Departement string    `json:"departement,omitempty" bson:"departement,omitempty"`
	Niveau      string    `json:"niveau,omitempty" bson:"niveau,omitempty"`
	MaxScore    float64   `json:"maxScore" bson:"maxScore"`
	Sections    []Section `json:"sections" bson:"sections"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}
