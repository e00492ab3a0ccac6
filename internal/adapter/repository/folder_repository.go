package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/echovault/echovault/internal/domain/entities"
)

// FolderRepository handles folder data operations
type FolderRepository struct {
	db *gorm.DB
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(db *gorm.DB) *FolderRepository {
	return &FolderRepository{db: db}
}

// Create inserts a folder
func (r *FolderRepository) Create(ctx context.Context, folder *entities.Folder) error {
	if folder == nil {
		return errors.New("folder cannot be nil")
	}
	return r.db.WithContext(ctx).Create(folder).Error
}

// FindByID retrieves a folder by id, scoped to the owning user
func (r *FolderRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*entities.Folder, error) {
	var folder entities.Folder
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&folder).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &folder, nil
}

// FindAllByUser retrieves all folders owned by the user
func (r *FolderRepository) FindAllByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Folder, error) {
	var folders []*entities.Folder
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&folders).Error; err != nil {
		return nil, err
	}
	return folders, nil
}

// Delete removes a folder and its join rows
func (r *FolderRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&entities.Folder{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return entities.ErrFolderNotFound
		}
		return tx.Where("folder_id = ?", id).Delete(&entities.FolderRecording{}).Error
	})
}

// AddRecording links a recording into a folder
func (r *FolderRepository) AddRecording(ctx context.Context, folderID, recordingID uuid.UUID) error {
	join := &entities.FolderRecording{
		ID:          uuid.New(),
		FolderID:    folderID,
		RecordingID: recordingID,
	}
	if err := r.db.WithContext(ctx).Create(join).Error; err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") ||
			strings.Contains(strings.ToLower(err.Error()), "duplicate") {
			return entities.ErrRecordingAlreadyInFolder
		}
		return err
	}
	return nil
}

// RemoveRecording unlinks a recording from a folder
func (r *FolderRepository) RemoveRecording(ctx context.Context, folderID, recordingID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("folder_id = ? AND recording_id = ?", folderID, recordingID).
		Delete(&entities.FolderRecording{}).Error
}

// FindRecordings retrieves the recordings linked into a folder, still scoped
// to the owning user
func (r *FolderRepository) FindRecordings(ctx context.Context, userID, folderID uuid.UUID) ([]*entities.Recording, error) {
	var recordings []*entities.Recording
	if err := r.db.WithContext(ctx).
		Joins("JOIN folder_recordings ON folder_recordings.recording_id = recordings.id").
		Where("folder_recordings.folder_id = ? AND recordings.user_id = ?", folderID, userID).
		Order("recordings.created_at DESC").
		Find(&recordings).Error; err != nil {
		return nil, err
	}
	return recordings, nil
}
