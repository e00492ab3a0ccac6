package entities

import (
	"time"

	"github.com/google/uuid"
)

// Highlight is a timestamped excerpt of a recording produced by analysis.
// It is created after its parent recording and removed with it.
type Highlight struct {
	ID               uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	RecordingID      uuid.UUID `json:"recording_id" gorm:"type:uuid;not null;index"`
	TimestampSeconds float64   `json:"timestamp_seconds"`
	Content          string    `json:"content" gorm:"type:text;not null"`
	CreatedAt        time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (Highlight) TableName() string {
	return "highlights"
}

// NewHighlight creates a highlight attached to a recording
func NewHighlight(recordingID uuid.UUID, timestampSeconds float64, content string) *Highlight {
	return &Highlight{
		ID:               uuid.New(),
		RecordingID:      recordingID,
		TimestampSeconds: timestampSeconds,
		Content:          content,
		CreatedAt:        time.Now(),
	}
}
