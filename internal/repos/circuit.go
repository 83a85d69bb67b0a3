package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/circuitboard-backend/internal/platform/logger"
	"github.com/yungbote/circuitboard-backend/internal/types"
)

type CircuitRepo interface {
	Create(ctx context.Context, tx *gorm.DB, circuit *types.Circuit) (*types.Circuit, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Circuit, error)
	GetByOwnerUserID(ctx context.Context, tx *gorm.DB, ownerUserID uuid.UUID) ([]*types.Circuit, error)
	Update(ctx context.Context, tx *gorm.DB, circuit *types.Circuit) (*types.Circuit, error)
	FullDeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type circuitRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCircuitRepo(db *gorm.DB, baseLog *logger.Logger) CircuitRepo {
	return &circuitRepo{db: db, log: baseLog.With("repo", "CircuitRepo")}
}

func (r *circuitRepo) Create(ctx context.Context, tx *gorm.DB, circuit *types.Circuit) (*types.Circuit, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(circuit).Error; err != nil {
		return nil, err
	}
	return circuit, nil
}

func (r *circuitRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Circuit, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.Circuit
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *circuitRepo) GetByOwnerUserID(ctx context.Context, tx *gorm.DB, ownerUserID uuid.UUID) ([]*types.Circuit, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Circuit
	if err := transaction.WithContext(ctx).
		Where("owner_user_id = ?", ownerUserID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *circuitRepo) Update(ctx context.Context, tx *gorm.DB, circuit *types.Circuit) (*types.Circuit, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Save(circuit).Error; err != nil {
		return nil, err
	}
	return circuit, nil
}

func (r *circuitRepo) FullDeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.Circuit{}).Error
}
