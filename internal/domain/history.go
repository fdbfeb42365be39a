package domain

import "time"

// HistoryRecord is a persisted transformation outcome.
type HistoryRecord struct {
	ID          string        `json:"id"`
	ToolID      string        `json:"toolId"`
	Success     bool          `json:"success"`
	Message     string        `json:"message"`
	EditedImage string        `json:"editedImage,omitempty"`
	Prompt      string        `json:"prompt,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	Duration    time.Duration `json:"duration"`
}
