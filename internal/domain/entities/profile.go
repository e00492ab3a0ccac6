package entities

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the one-to-one companion of a user account. Account creation
// itself is an external collaborator responsibility; the profile row is
// created lazily on first authenticated access.
type Profile struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	FullName  *string   `json:"full_name,omitempty" gorm:"type:varchar(255)"`
	AvatarURL *string   `json:"avatar_url,omitempty" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Profile) TableName() string {
	return "profiles"
}

// NewProfile creates an empty profile for the given user id
func NewProfile(userID uuid.UUID) *Profile {
	return &Profile{
		ID:        userID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}
