package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/echovault/echovault/internal/domain/entities"
)

// RecordingRepository defines persistence operations for recordings and
// their highlights. Every read and write is scoped to the owning user.
type RecordingRepository interface {
	Create(ctx context.Context, recording *entities.Recording) error
	FindByID(ctx context.Context, userID, id uuid.UUID) (*entities.Recording, error)
	FindByAudioURL(ctx context.Context, userID uuid.UUID, audioURL string) (*entities.Recording, error)
	FindAllByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Recording, error)
	UpdateTitle(ctx context.Context, userID, id uuid.UUID, title string) error
	Delete(ctx context.Context, userID, id uuid.UUID) error

	CreateHighlights(ctx context.Context, highlights []entities.Highlight) error
	FindHighlights(ctx context.Context, recordingID uuid.UUID) ([]entities.Highlight, error)
}
