package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/sdshc/tracker-backend/internal/logger"
	"github.com/sdshc/tracker-backend/internal/types"
)

type ImportRecordRepo interface {
	Create(ctx context.Context, tx *gorm.DB, records []*types.ImportRecord) ([]*types.ImportRecord, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.ImportRecord, error)
	Truncate(ctx context.Context, tx *gorm.DB) error
}

type importRecordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewImportRecordRepo(db *gorm.DB, baseLog *logger.Logger) ImportRecordRepo {
	return &importRecordRepo{db: db, log: baseLog.With("repo", "ImportRecordRepo")}
}

func (r *importRecordRepo) Create(ctx context.Context, tx *gorm.DB, records []*types.ImportRecord) ([]*types.ImportRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(records) == 0 {
		return []*types.ImportRecord{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *importRecordRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.ImportRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.ImportRecord
	if err := transaction.WithContext(ctx).Order("id desc").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *importRecordRepo) Truncate(ctx context.Context, tx *gorm.DB) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&types.ImportRecord{}).Error
}
