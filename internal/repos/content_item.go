package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/circuitboard-backend/internal/platform/logger"
	"github.com/yungbote/circuitboard-backend/internal/types"
)

// ContentItemRepo is the Content Store contract: append-only rows with a
// soft archive flag. Extracted text is never updated in place.
type ContentItemRepo interface {
	Append(ctx context.Context, tx *gorm.DB, item *types.ContentItem) (*types.ContentItem, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ContentItem, error)
	// ListActive returns unarchived items for a circuit in ascending
	// creation order (oldest material first).
	ListActive(ctx context.Context, tx *gorm.DB, circuitID uuid.UUID) ([]*types.ContentItem, error)
	Archive(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ContentItem, error)
	FullDeleteByCircuitID(ctx context.Context, tx *gorm.DB, circuitID uuid.UUID) error
}

type contentItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContentItemRepo(db *gorm.DB, baseLog *logger.Logger) ContentItemRepo {
	return &contentItemRepo{db: db, log: baseLog.With("repo", "ContentItemRepo")}
}

func (r *contentItemRepo) Append(ctx context.Context, tx *gorm.DB, item *types.ContentItem) (*types.ContentItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *contentItemRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ContentItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.ContentItem
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *contentItemRepo) ListActive(ctx context.Context, tx *gorm.DB, circuitID uuid.UUID) ([]*types.ContentItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.ContentItem
	if err := transaction.WithContext(ctx).
		Where("circuit_id = ? AND archived = ?", circuitID, false).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *contentItemRepo) Archive(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.ContentItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var item types.ContentItem
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&item).Error; err != nil {
		return nil, err
	}
	item.Archived = true
	if err := transaction.WithContext(ctx).Save(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *contentItemRepo) FullDeleteByCircuitID(ctx context.Context, tx *gorm.DB, circuitID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("circuit_id = ?", circuitID).
		Delete(&types.ContentItem{}).Error
}
