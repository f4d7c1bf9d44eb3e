package db

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sdshc/tracker-backend/internal/logger"
	"github.com/sdshc/tracker-backend/internal/types"
)

// SqliteService owns the embedded database handle. The tracker runs entirely
// against a local file; there is no server-side store.
type SqliteService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSqliteService(path string, log *logger.Logger) (*SqliteService, error) {
	serviceLog := log.With("service", "SqliteService")

	serviceLog.Info("Opening sqlite database...", "path", path)
	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		serviceLog.Error("Failed to open sqlite database", "error", err)
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Writers queue behind one connection; the import transaction depends on
	// not interleaving with a second writer.
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return &SqliteService{db: gdb, log: serviceLog}, nil
}

func (s *SqliteService) AutoMigrateAll() error {
	s.log.Info("Auto migrating sqlite tables...")
	err := s.db.AutoMigrate(
		&types.Project{},
		&types.Producer{},
		&types.Contract{},
		&types.BMP{},
		&types.Practice{},
		&types.Bill{},
		&types.Fund{},
		&types.Photo{},
		&types.Milestone{},
		&types.NPSReduction{},
		&types.NPSReductionCombined{},
		&types.Voucher{},
		&types.VoucherItem{},
		&types.GRTSReport{},
		&types.ImportRecord{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for sqlite tables", "error", err)
		return err
	}
	return nil
}

func (s *SqliteService) DB() *gorm.DB {
	return s.db
}
