package model

// ResponseSet maps question ids to their raw responses. Values are one
// of: bool, number, string, []string (multi-select), map[string]bool or
// map[string]interface{} (composite sub-answers), or a per-month map of
// MatrixCellResponse / raw maps (data validation matrix).
type ResponseSet map[string]interface{}

// MatrixCellResponse is one month's reconciliation record. The counts
// and ratio are audit data; only Concordance is scored.
type MatrixCellResponse struct {
	ReportedCount float64 `json:"rmaCount" bson:"rmaCount"` // from the reporting tool (RMA)
	Recount       float64 `json:"recount" bson:"recount"`   // recounted from collection tools
	Ratio         float64 `json:"ratio,omitempty" bson:"ratio,omitempty"`
	Concordance   bool    `json:"concordance" bson:"concordance"`
}

// ResponseIssue describes one problem found while validating a response
// set against an assessment tree.
type ResponseIssue struct {
	Type       string   `json:"type"` // "missing_required" or "invalid_format"
	QuestionID string   `json:"questionId"`
	Path       []string `json:"path"`
	Message    string   `json:"message"`
}

// ResponseValidation is the outcome of pre-scoring validation.
type ResponseValidation struct {
	IsValid           bool            `json:"isValid"`
	Issues            []ResponseIssue `json:"issues"`
	RequiredQuestions int             `json:"requiredQuestions"`
	RequiredAnswered  int             `json:"requiredAnswered"`
}
