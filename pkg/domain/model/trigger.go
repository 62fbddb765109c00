package model

import "time"

const (
	TriggerMessage = "Actualización iniciada desde OneDrive"
	TriggerNote    = "Los datos se actualizarán en 30-60 segundos"

	// TimestampLayout renders UTC times like JavaScript's Date.toISOString
	TimestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

// TriggerResponse is the JSON body returned for a POST to the trigger endpoint
type TriggerResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	Timestamp string `json:"timestamp"`
	Note      string `json:"note,omitempty"`
}

// NewTriggerSuccess builds the response for a dispatched workflow
func NewTriggerSuccess(now time.Time) *TriggerResponse {
	return &TriggerResponse{
		Success:   true,
		Message:   TriggerMessage,
		Timestamp: FormatTimestamp(now),
		Note:      TriggerNote,
	}
}

// NewTriggerFailure builds the response for a failed dispatch
func NewTriggerFailure(err error, now time.Time) *TriggerResponse {
	return &TriggerResponse{
		Success:   false,
		Error:     err.Error(),
		Timestamp: FormatTimestamp(now),
	}
}

// FormatTimestamp formats t as ISO-8601 in UTC with millisecond precision
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
