package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/sdshc/tracker-backend/internal/logger"
	"github.com/sdshc/tracker-backend/internal/types"
)

type BillRepo interface {
	Create(ctx context.Context, tx *gorm.DB, bills []*types.Bill) ([]*types.Bill, error)
	GetByPracticeIDs(ctx context.Context, tx *gorm.DB, practiceIDs []uint) ([]*types.Bill, error)
	Truncate(ctx context.Context, tx *gorm.DB) error
}

type billRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBillRepo(db *gorm.DB, baseLog *logger.Logger) BillRepo {
	return &billRepo{db: db, log: baseLog.With("repo", "BillRepo")}
}

func (r *billRepo) Create(ctx context.Context, tx *gorm.DB, bills []*types.Bill) ([]*types.Bill, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(bills) == 0 {
		return []*types.Bill{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&bills).Error; err != nil {
		return nil, err
	}
	return bills, nil
}

func (r *billRepo) GetByPracticeIDs(ctx context.Context, tx *gorm.DB, practiceIDs []uint) ([]*types.Bill, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Bill
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

func (r *billRepo) Truncate(ctx context.Context, tx *gorm.DB) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&types.Bill{}).Error
}

type FundRepo interface {
	Create(ctx context.Context, tx *gorm.DB, funds []*types.Fund) ([]*types.Fund, error)
	GetByBillIDs(ctx context.Context, tx *gorm.DB, billIDs []uint) ([]*types.Fund, error)
	Truncate(ctx context.Context, tx *gorm.DB) error
}

type fundRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFundRepo(db *gorm.DB, baseLog *logger.Logger) FundRepo {
	return &fundRepo{db: db, log: baseLog.With("repo", "FundRepo")}
}

func (r *fundRepo) Create(ctx context.Context, tx *gorm.DB, funds []*types.Fund) ([]*types.Fund, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(funds) == 0 {
		return []*types.Fund{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&funds).Error; err != nil {
		return nil, err
	}
	return funds, nil
}

func (r *fundRepo) GetByBillIDs(ctx context.Context, tx *gorm.DB, billIDs []uint) ([]*types.Fund, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Fund
	if len(billIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("bill_id IN ?", billIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *fundRepo) Truncate(ctx context.Context, tx *gorm.DB) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&types.Fund{}).Error
}
