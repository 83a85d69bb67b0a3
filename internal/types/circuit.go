package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Circuit is one teacher-configured tutoring unit: a subject plus a grade
// band plus the pedagogical settings the composer turns into directives.
// The set-valued settings are stored as JSON string arrays; each must be
// non-empty, enforced at the service edge rather than in the schema.
type Circuit struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OwnerUserID uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_user_id"`
	Owner       *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:OwnerUserID;references:ID" json:"owner,omitempty"`

	Name    string `gorm:"not null" json:"name"`
	Subject string `gorm:"not null" json:"subject"`
	// One of "K", "1".."12".
	Grade string `gorm:"not null" json:"grade"`

	TeachingStyles   datatypes.JSON `gorm:"column:teaching_styles" json:"teaching_styles"`
	HomeworkPolicies datatypes.JSON `gorm:"column:homework_policies" json:"homework_policies"`
	ResponseTypes    datatypes.JSON `gorm:"column:response_types" json:"response_types"`
	StateStandard    string         `gorm:"column:state_standard" json:"state_standard,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Circuit) TableName() string { return "circuit" }

// GradeBands is the closed list of valid grade values, in display order.
var GradeBands = []string{"K", "1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12"}

func ValidGrade(grade string) bool {
	for _, g := range GradeBands {
		if g == grade {
			return true
		}
	}
	return false
}
