package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/sdshc/tracker-backend/internal/logger"
	"github.com/sdshc/tracker-backend/internal/types"
)

type PracticeRepo interface {
	Create(ctx context.Context, tx *gorm.DB, practices []*types.Practice) ([]*types.Practice, error)
	GetByBMPIDs(ctx context.Context, tx *gorm.DB, bmpIDs []uint) ([]*types.Practice, error)
	Truncate(ctx context.Context, tx *gorm.DB) error
}

type practiceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPracticeRepo(db *gorm.DB, baseLog *logger.Logger) PracticeRepo {
	return &practiceRepo{db: db, log: baseLog.With("repo", "PracticeRepo")}
}

func (r *practiceRepo) Create(ctx context.Context, tx *gorm.DB, practices []*types.Practice) ([]*types.Practice, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(practices) == 0 {
		return []*types.Practice{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&practices).Error; err != nil {
		return nil, err
	}
	return practices, nil
}

func (r *practiceRepo) GetByBMPIDs(ctx context.Context, tx *gorm.DB, bmpIDs []uint) ([]*types.Practice, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Practice
	if len(bmpIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("bmp_id IN ?", bmpIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *practiceRepo) Truncate(ctx context.Context, tx *gorm.DB) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&types.Practice{}).Error
}
