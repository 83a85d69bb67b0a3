package types

import (
	"time"

	"github.com/google/uuid"
)

// User is the minimal owner anchor for circuits. Account management and
// authentication live outside this service; the identity middleware
// resolves a token to one of these rows, creating it on first sight.
type User struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email       string    `gorm:"uniqueIndex;not null" json:"email"`
	DisplayName string    `gorm:"column:display_name" json:"display_name,omitempty"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (User) TableName() string { return "user" }
