package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/sdshc/tracker-backend/internal/logger"
	"github.com/sdshc/tracker-backend/internal/types"
)

type ProducerRepo interface {
	Create(ctx context.Context, tx *gorm.DB, producers []*types.Producer) ([]*types.Producer, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Producer, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.Producer, error)
	Truncate(ctx context.Context, tx *gorm.DB) error
}

type producerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProducerRepo(db *gorm.DB, baseLog *logger.Logger) ProducerRepo {
	return &producerRepo{db: db, log: baseLog.With("repo", "ProducerRepo")}
}

func (r *producerRepo) Create(ctx context.Context, tx *gorm.DB, producers []*types.Producer) ([]*types.Producer, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(producers) == 0 {
		return []*types.Producer{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&producers).Error; err != nil {
		return nil, err
	}
	return producers, nil
}

func (r *producerRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Producer, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Producer
	if err := transaction.WithContext(ctx).
		Order("last_name, first_name").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *producerRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*types.Producer, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var result types.Producer
	if err := transaction.WithContext(ctx).First(&result, id).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *producerRepo) Truncate(ctx context.Context, tx *gorm.DB) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&types.Producer{}).Error
}
