package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/echovault/echovault/internal/domain/entities"
)

// FolderRepository defines persistence operations for folders and the
// folder-recording join
type FolderRepository interface {
	Create(ctx context.Context, folder *entities.Folder) error
	FindByID(ctx context.Context, userID, id uuid.UUID) (*entities.Folder, error)
	FindAllByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Folder, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error

	AddRecording(ctx context.Context, folderID, recordingID uuid.UUID) error
	RemoveRecording(ctx context.Context, folderID, recordingID uuid.UUID) error
	FindRecordings(ctx context.Context, userID, folderID uuid.UUID) ([]*entities.Recording, error)
}
