package domain

import "time"

// NotificationLevel tags a user-visible notification.
type NotificationLevel string

const (
	LevelSuccess NotificationLevel = "success"
	LevelWarning NotificationLevel = "warning"
	LevelError   NotificationLevel = "error"
)

// Notification is a timed, user-visible message.
type Notification struct {
	Level        NotificationLevel `json:"level"`
	Message      string            `json:"message"`
	Duration     time.Duration     `json:"duration"`
	AssessmentID string            `json:"assessment_id,omitempty"`
	At           time.Time         `json:"at"`
}

// DurationMillis reports the display duration in milliseconds.
func (n Notification) DurationMillis() int64 {
	return n.Duration.Milliseconds()
}
