package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/sdshc/tracker-backend/internal/logger"
	"github.com/sdshc/tracker-backend/internal/types"
)

type ProjectRepo interface {
	Create(ctx context.Context, tx *gorm.DB, projects []*types.Project) ([]*types.Project, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Project, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uint) ([]*types.Project, error)
	Truncate(ctx context.Context, tx *gorm.DB) error
}

type projectRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProjectRepo(db *gorm.DB, baseLog *logger.Logger) ProjectRepo {
	return &projectRepo{db: db, log: baseLog.With("repo", "ProjectRepo")}
}

func (r *projectRepo) Create(ctx context.Context, tx *gorm.DB, projects []*types.Project) ([]*types.Project, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(projects) == 0 {
		return []*types.Project{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *projectRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Project, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Project
	if err := transaction.WithContext(ctx).Order("id").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *projectRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uint) ([]*types.Project, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Project
	if len(ids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *projectRepo) Truncate(ctx context.Context, tx *gorm.DB) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&types.Project{}).Error
}
