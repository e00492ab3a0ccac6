package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/echovault/echovault/internal/domain/entities"
)

// ProfileRepository handles profile data operations
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetOrCreate fetches the profile for a user, creating an empty row on first
// access
func (r *ProfileRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*entities.Profile, error) {
	var profile entities.Profile
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&profile).Error
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created := entities.NewProfile(userID)
	if err := r.db.WithContext(ctx).Create(created).Error; err != nil {
		return nil, err
	}
	return created, nil
}

// Update saves profile changes
func (r *ProfileRepository) Update(ctx context.Context, profile *entities.Profile) error {
	if profile == nil {
		return errors.New("profile cannot be nil")
	}
	return r.db.WithContext(ctx).Save(profile).Error
}
