package folder

import "github.com/google/uuid"

// CreateRequest creates a named folder
type CreateRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// AddRecordingRequest links a recording into a folder
type AddRecordingRequest struct {
	RecordingID uuid.UUID `json:"recording_id" validate:"required"`
}
