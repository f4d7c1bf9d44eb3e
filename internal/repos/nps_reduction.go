package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/sdshc/tracker-backend/internal/logger"
	"github.com/sdshc/tracker-backend/internal/types"
)

type NPSReductionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, reductions []*types.NPSReduction) ([]*types.NPSReduction, error)
	GetByPracticeIDs(ctx context.Context, tx *gorm.DB, practiceIDs []uint) ([]*types.NPSReduction, error)
	Truncate(ctx context.Context, tx *gorm.DB) error
}

type npsReductionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNPSReductionRepo(db *gorm.DB, baseLog *logger.Logger) NPSReductionRepo {
	return &npsReductionRepo{db: db, log: baseLog.With("repo", "NPSReductionRepo")}
}

func (r *npsReductionRepo) Create(ctx context.Context, tx *gorm.DB, reductions []*types.NPSReduction) ([]*types.NPSReduction, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(reductions) == 0 {
		return []*types.NPSReduction{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&reductions).Error; err != nil {
		return nil, err
	}
	return reductions, nil
}

func (r *npsReductionRepo) GetByPracticeIDs(ctx context.Context, tx *gorm.DB, practiceIDs []uint) ([]*types.NPSReduction, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.NPSReduction
	if len(practiceIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("practice_id IN ?", practiceIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *npsReductionRepo) Truncate(ctx context.Context, tx *gorm.DB) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&types.NPSReduction{}).Error
}

type NPSReductionCombinedRepo interface {
	Create(ctx context.Context, tx *gorm.DB, reductions []*types.NPSReductionCombined) ([]*types.NPSReductionCombined, error)
	CountByContractID(ctx context.Context, tx *gorm.DB, contractID uint) (int64, error)
	GetByContractIDs(ctx context.Context, tx *gorm.DB, contractIDs []uint) ([]*types.NPSReductionCombined, error)
	Truncate(ctx context.Context, tx *gorm.DB) error
}

type npsReductionCombinedRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNPSReductionCombinedRepo(db *gorm.DB, baseLog *logger.Logger) NPSReductionCombinedRepo {
	return &npsReductionCombinedRepo{db: db, log: baseLog.With("repo", "NPSReductionCombinedRepo")}
}

func (r *npsReductionCombinedRepo) Create(ctx context.Context, tx *gorm.DB, reductions []*types.NPSReductionCombined) ([]*types.NPSReductionCombined, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(reductions) == 0 {
		return []*types.NPSReductionCombined{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&reductions).Error; err != nil {
		return nil, err
	}
	return reductions, nil
}

func (r *npsReductionCombinedRepo) CountByContractID(ctx context.Context, tx *gorm.DB, contractID uint) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.NPSReductionCombined{}).
		Where("contract_id = ?", contractID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *npsReductionCombinedRepo) GetByContractIDs(ctx context.Context, tx *gorm.DB, contractIDs []uint) ([]*types.NPSReductionCombined, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.NPSReductionCombined
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

func (r *npsReductionCombinedRepo) Truncate(ctx context.Context, tx *gorm.DB) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&types.NPSReductionCombined{}).Error
}
