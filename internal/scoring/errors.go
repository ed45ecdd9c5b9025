package scoring

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks a malformed question, section or assessment
// object (missing id, nil tree). Fatal to the single call that saw it.
var ErrInvalidInput = errors.New("invalid input")

// MissingResponseError is returned in strict mode when a required
// question has no response.
type MissingResponseError struct {
	QuestionID string
}

func (e *MissingResponseError) Error() string {
	return fmt.Sprintf("required question %s is missing response", e.QuestionID)
}

// IsMissingResponse reports whether err is a MissingResponseError.
func IsMissingResponse(err error) bool {
	var m *MissingResponseError
	return errors.As(err, &m)
}
