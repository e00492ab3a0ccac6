package repositories

import (
	"context"

	"github.com/echovault/echovault/internal/domain/entities"
)

// KnowledgeGraphRepository defines persistence operations for the authored
// knowledge graph table. Unlike the other tables it is shared across users.
type KnowledgeGraphRepository interface {
	FindAll(ctx context.Context) ([]*entities.KnowledgeGraphEntry, error)
	Upsert(ctx context.Context, entry *entities.KnowledgeGraphEntry) error
}
