package entities

import (
	"time"

	"github.com/google/uuid"
)

// Folder is a user-owned named grouping of recordings
type Folder struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (Folder) TableName() string {
	return "folders"
}

// NewFolder creates a folder owned by the given user
func NewFolder(userID uuid.UUID, name string) *Folder {
	return &Folder{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now(),
	}
}

// FolderRecording joins folders and recordings many-to-many. The pipeline
// never touches it.
type FolderRecording struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	FolderID    uuid.UUID `json:"folder_id" gorm:"type:uuid;not null;uniqueIndex:idx_folder_recording"`
	RecordingID uuid.UUID `json:"recording_id" gorm:"type:uuid;not null;uniqueIndex:idx_folder_recording"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (FolderRecording) TableName() string {
	return "folder_recordings"
}
