package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/sdshc/tracker-backend/internal/logger"
	"github.com/sdshc/tracker-backend/internal/types"
)

type BMPRepo interface {
	Create(ctx context.Context, tx *gorm.DB, bmps []*types.BMP) ([]*types.BMP, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.BMP, error)
	GetByContractIDs(ctx context.Context, tx *gorm.DB, contractIDs []uint) ([]*types.BMP, error)
	Truncate(ctx context.Context, tx *gorm.DB) error
}

type bmpRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBMPRepo(db *gorm.DB, baseLog *logger.Logger) BMPRepo {
	return &bmpRepo{db: db, log: baseLog.With("repo", "BMPRepo")}
}

func (r *bmpRepo) Create(ctx context.Context, tx *gorm.DB, bmps []*types.BMP) ([]*types.BMP, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(bmps) == 0 {
		return []*types.BMP{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&bmps).Error; err != nil {
		return nil, err
	}
	return bmps, nil
}

func (r *bmpRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.BMP, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.BMP
	if err := transaction.WithContext(ctx).Order("id").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *bmpRepo) GetByContractIDs(ctx context.Context, tx *gorm.DB, contractIDs []uint) ([]*types.BMP, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.BMP
	if len(contractIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("contract_id IN ?", contractIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *bmpRepo) Truncate(ctx context.Context, tx *gorm.DB) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&types.BMP{}).Error
}
