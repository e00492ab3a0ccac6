package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// KnowledgeGraphEntry is an authored tag node with explicit linked tags.
// The table is readable and writable by any authenticated user and is never
// populated by the save pipeline; the tag co-occurrence graph served by the
// API is derived on demand from recordings instead.
type KnowledgeGraphEntry struct {
	ID         uuid.UUID                   `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Tag        string                      `json:"tag" gorm:"type:varchar(255);not null;uniqueIndex"`
	LinkedTags datatypes.JSONSlice[string] `json:"linked_tags" gorm:"type:jsonb"`
	CreatedAt  time.Time                   `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time                   `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (KnowledgeGraphEntry) TableName() string {
	return "knowledge_graph"
}
