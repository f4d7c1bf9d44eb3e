package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/sdshc/tracker-backend/internal/logger"
	"github.com/sdshc/tracker-backend/internal/types"
)

type ContractRepo interface {
	Create(ctx context.Context, tx *gorm.DB, contracts []*types.Contract) ([]*types.Contract, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Contract, error)
	GetByProducerIDs(ctx context.Context, tx *gorm.DB, producerIDs []uint) ([]*types.Contract, error)
	Truncate(ctx context.Context, tx *gorm.DB) error
}

type contractRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContractRepo(db *gorm.DB, baseLog *logger.Logger) ContractRepo {
	return &contractRepo{db: db, log: baseLog.With("repo", "ContractRepo")}
}

func (r *contractRepo) Create(ctx context.Context, tx *gorm.DB, contracts []*types.Contract) ([]*types.Contract, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(contracts) == 0 {
		return []*types.Contract{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&contracts).Error; err != nil {
		return nil, err
	}
	return contracts, nil
}

func (r *contractRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Contract, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Contract
	if err := transaction.WithContext(ctx).Order("id").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *contractRepo) GetByProducerIDs(ctx context.Context, tx *gorm.DB, producerIDs []uint) ([]*types.Contract, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Contract
	if len(producerIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("producer_id IN ?", producerIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *contractRepo) Truncate(ctx context.Context, tx *gorm.DB) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&types.Contract{}).Error
}
