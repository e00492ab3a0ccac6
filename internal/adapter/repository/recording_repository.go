package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/echovault/echovault/internal/domain/entities"
)

// RecordingRepository handles recording data operations
type RecordingRepository struct {
	db *gorm.DB
}

// NewRecordingRepository creates a new recording repository
func NewRecordingRepository(db *gorm.DB) *RecordingRepository {
	return &RecordingRepository{db: db}
}

// Create inserts a recording in a single write
func (r *RecordingRepository) Create(ctx context.Context, recording *entities.Recording) error {
	if recording == nil {
		return errors.New("recording cannot be nil")
	}
	return r.db.WithContext(ctx).Create(recording).Error
}

// FindByID retrieves a recording by id, scoped to the owning user
func (r *RecordingRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*entities.Recording, error) {
	var recording entities.Recording
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&recording).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &recording, nil
}

// FindByAudioURL retrieves a recording by its unique audio location
func (r *RecordingRepository) FindByAudioURL(ctx context.Context, userID uuid.UUID, audioURL string) (*entities.Recording, error) {
	var recording entities.Recording
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND audio_url = ?", userID, audioURL).
		First(&recording).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &recording, nil
}

// FindAllByUser retrieves all recordings owned by the user, newest first
func (r *RecordingRepository) FindAllByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Recording, error) {
	var recordings []*entities.Recording
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&recordings).Error; err != nil {
		return nil, err
	}
	return recordings, nil
}

// UpdateTitle renames a recording owned by the user
func (r *RecordingRepository) UpdateTitle(ctx context.Context, userID, id uuid.UUID, title string) error {
	result := r.db.WithContext(ctx).
		Model(&entities.Recording{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("title", title)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entities.ErrRecordingNotFound
	}
	return nil
}

// Delete removes a recording and its highlights in one transaction
func (r *RecordingRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&entities.Recording{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return entities.ErrRecordingNotFound
		}
		// Explicit cascade in case the FK constraint is absent (sqlite in tests)
		return tx.Where("recording_id = ?", id).Delete(&entities.Highlight{}).Error
	})
}

// CreateHighlights inserts highlight rows as a single batch
func (r *RecordingRepository) CreateHighlights(ctx context.Context, highlights []entities.Highlight) error {
	if len(highlights) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&highlights).Error
}

// FindHighlights retrieves highlights for a recording ordered by offset
func (r *RecordingRepository) FindHighlights(ctx context.Context, recordingID uuid.UUID) ([]entities.Highlight, error) {
	var highlights []entities.Highlight
	if err := r.db.WithContext(ctx).
		Where("recording_id = ?", recordingID).
		Order("timestamp_seconds ASC").
		Find(&highlights).Error; err != nil {
		return nil, err
	}
	return highlights, nil
}
