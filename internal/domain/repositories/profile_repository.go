package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/echovault/echovault/internal/domain/entities"
)

// ProfileRepository defines persistence operations for user profiles
type ProfileRepository interface {
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*entities.Profile, error)
	Update(ctx context.Context, profile *entities.Profile) error
}
