package types

import (
	"time"

	"github.com/google/uuid"
)

// ContentKind is the declared media kind of a knowledge-base item.
type ContentKind string

const (
	ContentKindText       ContentKind = "text"
	ContentKindPDF        ContentKind = "pdf"
	ContentKindOffice     ContentKind = "office"
	ContentKindTranscript ContentKind = "transcript"
)

// ContentItem is one ingested knowledge-base artifact for a Circuit.
// Content holds the extracted plain text and may be empty when extraction
// degraded; the raw artifact stays downloadable via StorageKey. Archived
// items are excluded from composition but never hard-deleted individually;
// they go away only when the owning circuit is deleted.
type ContentItem struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CircuitID uuid.UUID `gorm:"type:uuid;not null;index" json:"circuit_id"`
	Circuit   *Circuit  `gorm:"constraint:OnDelete:CASCADE;foreignKey:CircuitID;references:ID" json:"circuit,omitempty"`

	Title       string      `gorm:"not null" json:"title"`
	Description string      `json:"description,omitempty"`
	Kind        ContentKind `gorm:"not null;index" json:"kind"`
	Content     string      `gorm:"type:text" json:"content"`
	// Object key of the raw upload in the bucket. Empty for transcripts,
	// which have no artifact beyond the extracted text.
	StorageKey string `gorm:"column:storage_key" json:"storage_key,omitempty"`

	Archived  bool      `gorm:"not null;default:false;index" json:"archived"`
	CreatedAt time.Time `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (ContentItem) TableName() string { return "content_item" }
