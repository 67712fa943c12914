package preference

import (
	"errors"
	"fmt"

	"github.com/vqdung71104/student-management-sub001/internal/models"
)

// ErrUnrecognized is the sentinel wrapped by every ParseError.
var ErrUnrecognized = errors.New("unrecognized answer")

// ParseError reports an answer that could not be mapped onto the asked dimension.
// It is recoverable: the caller re-asks the same question with Guidance.
type ParseError struct {
	Dimension models.Dimension
	Input     string
	Reason    string
	Guidance  string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s answer %q: %s", e.Dimension, e.Input, e.Reason)
}

// Unwrap exposes ErrUnrecognized to errors.Is.
func (e *ParseError) Unwrap() error {
	return ErrUnrecognized
}

func newParseError(dim models.Dimension, input, reason string) *ParseError {
	return &ParseError{Dimension: dim, Input: input, Reason: reason, Guidance: guidanceFor(dim)}
}
