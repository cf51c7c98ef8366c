package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrLocationNotFound is returned when a location search yields no candidates.
	ErrLocationNotFound = errors.New("location not found")

	// ErrInvalidSubmission is returned when a submission is missing a field or
	// carries an unparseable date.
	ErrInvalidSubmission = errors.New("invalid submission")
)

// UpstreamError reports a non-success response from an external collaborator.
type UpstreamError struct {
	Collaborator string
	StatusCode   int
	Body         string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s API error: status %d: %s", e.Collaborator, e.StatusCode, e.Body)
}
