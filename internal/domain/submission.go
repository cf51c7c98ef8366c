package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-date format accepted for submissions.
const DateLayout = "2006-01-02"

// ParseSubmission validates raw form input. All fields are required and the
// date must be a calendar date in DateLayout.
func ParseSubmission(city, eventName, date string) (Submission, error) {
	city = strings.TrimSpace(city)
	eventName = strings.TrimSpace(eventName)
	date = strings.TrimSpace(date)

	switch {
	case city == "":
		return Submission{}, fmt.Errorf("%w: city is required", ErrInvalidSubmission)
	case eventName == "":
		return Submission{}, fmt.Errorf("%w: event name is required", ErrInvalidSubmission)
	case date == "":
		return Submission{}, fmt.Errorf("%w: date is required", ErrInvalidSubmission)
	}

	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return Submission{}, fmt.Errorf("%w: date %q: %w", ErrInvalidSubmission, date, err)
	}

	return Submission{City: city, EventName: eventName, Date: d}, nil
}
