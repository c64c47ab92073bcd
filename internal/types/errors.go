package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCorpusUnavailable is returned when the corpus store cannot be read at
// load time. Steady-state reads never fail with it.
var ErrCorpusUnavailable = errors.New("corpus unavailable")

// ValidationError rejects a request parameter with field-level detail.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request parameter %s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates every rejected field of a request.
type ValidationErrors []*ValidationError

func (e ValidationErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, v := range e {
		parts = append(parts, v.Error())
	}
	return strings.Join(parts, "; ")
}

// AsValidation unwraps err into field-level validation errors, if any.
func AsValidation(err error) (ValidationErrors, bool) {
	var many ValidationErrors
	if errors.As(err, &many) {
		return many, true
	}
	var one *ValidationError
	if errors.As(err, &one) {
		return ValidationErrors{one}, true
	}
	return nil, false
}
