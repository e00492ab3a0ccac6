package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/echovault/echovault/internal/domain/entities"
)

// KnowledgeGraphRepository handles authored knowledge graph entries
type KnowledgeGraphRepository struct {
	db *gorm.DB
}

// NewKnowledgeGraphRepository creates a new knowledge graph repository
func NewKnowledgeGraphRepository(db *gorm.DB) *KnowledgeGraphRepository {
	return &KnowledgeGraphRepository{db: db}
}

// FindAll retrieves every entry; the table is shared across users
func (r *KnowledgeGraphRepository) FindAll(ctx context.Context) ([]*entities.KnowledgeGraphEntry, error) {
	var entries []*entities.KnowledgeGraphEntry
	if err := r.db.WithContext(ctx).Order("tag ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Upsert inserts or updates an entry keyed by tag
func (r *KnowledgeGraphRepository) Upsert(ctx context.Context, entry *entities.KnowledgeGraphEntry) error {
	if entry == nil {
		return errors.New("entry cannot be nil")
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tag"}},
			DoUpdates: clause.AssignmentColumns([]string{"linked_tags", "updated_at"}),
		}).
		Create(entry).Error
}
