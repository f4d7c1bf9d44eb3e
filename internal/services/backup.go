package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/sdshc/tracker-backend/internal/logger"
	"github.com/sdshc/tracker-backend/internal/types"
)

// BackupVersion tags every export; restores refuse documents without one.
const BackupVersion = 1

var ErrBadBackup = errors.New("invalid backup file: missing version info")

// RestoreSummary reports a completed restore.
type RestoreSummary struct {
	TablesImported int `json:"tablesImported"`
	TotalRecords   int `json:"totalRecords"`
}

type BackupService interface {
	// Export serializes every table into one versioned JSON document.
	Export(ctx context.Context) ([]byte, error)
	// Import replaces the whole database with a previously exported
	// document. No deduplication or FK re-resolution happens; backup files
	// are assumed internally consistent.
	Import(ctx context.Context, data []byte) (*RestoreSummary, error)
}

type backupService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBackupService(db *gorm.DB, baseLog *logger.Logger) BackupService {
	return &backupService{db: db, log: baseLog.With("service", "BackupService")}
}

// backupTable binds one table name to typed load/restore/truncate closures so
// the codec can walk the whole schema as data.
type backupTable struct {
	name     string
	load     func(ctx context.Context, tx *gorm.DB) (any, int, error)
	restore  func(ctx context.Context, tx *gorm.DB, raw json.RawMessage) (int, error)
	truncate func(ctx context.Context, tx *gorm.DB) error
}

func tableCodec[T any](name string) backupTable {
	return backupTable{
		name: name,
		load: func(ctx context.Context, tx *gorm.DB) (any, int, error) {
			rows := []T{}
			if err := tx.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
				return nil, 0, err
			}
			return rows, len(rows), nil
		},
		restore: func(ctx context.Context, tx *gorm.DB, raw json.RawMessage) (int, error) {
			if len(raw) == 0 {
				return 0, nil
			}
			var rows []T
			if err := json.Unmarshal(raw, &rows); err != nil {
				return 0, fmt.Errorf("decode %s: %w", name, err)
			}
			if len(rows) == 0 {
				return 0, nil
			}
			// Identity values are inserted verbatim to keep the foreign
			// keys inside the document valid.
			if err := tx.WithContext(ctx).Create(&rows).Error; err != nil {
				return 0, fmt.Errorf("insert %s: %w", name, err)
			}
			return len(rows), nil
		},
		truncate: func(ctx context.Context, tx *gorm.DB) error {
			return tx.WithContext(ctx).
				Session(&gorm.Session{AllowGlobalUpdate: true}).
				Delete(new(T)).Error
		},
	}
}

// backupTables lists every table the codec round-trips, children before
// parents so truncation order respects foreign keys.
func backupTables() []backupTable {
	return []backupTable{
		tableCodec[types.VoucherItem]("voucherItems"),
		tableCodec[types.Voucher]("vouchers"),
		tableCodec[types.GRTSReport]("grtsReports"),
		tableCodec[types.NPSReductionCombined]("npsReductionsCombined"),
		tableCodec[types.NPSReduction]("npsReductions"),
		tableCodec[types.Fund]("funds"),
		tableCodec[types.Bill]("bills"),
		tableCodec[types.Photo]("photos"),
		tableCodec[types.Milestone]("milestones"),
		tableCodec[types.Practice]("practices"),
		tableCodec[types.BMP]("bmps"),
		tableCodec[types.Contract]("contracts"),
		tableCodec[types.Producer]("producers"),
		tableCodec[types.Project]("projects"),
		tableCodec[types.ImportRecord]("imports"),
	}
}

func (s *backupService) Export(ctx context.Context) ([]byte, error) {
	doc := make(map[string]any)
	for _, table := range backupTables() {
		rows, n, err := table.load(ctx, s.db)
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", table.name, err)
		}
		doc[table.name] = rows
		s.log.Debug("Exported table", "table", table.name, "records", n)
	}
	doc["_version"] = BackupVersion
	doc["_exportDate"] = time.Now().UTC().Format(time.RFC3339)
	return json.MarshalIndent(doc, "", "  ")
}

func (s *backupService) Import(ctx context.Context, data []byte) (*RestoreSummary, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse backup: %w", err)
	}
	// Validated before any table is touched.
	if _, ok := doc["_version"]; !ok {
		return nil, ErrBadBackup
	}

	summary := &RestoreSummary{}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		tables := backupTables()
		for _, table := range tables {
			if err := table.truncate(ctx, tx); err != nil {
				return fmt.Errorf("truncate %s: %w", table.name, err)
			}
		}
		// Insert parents first.
		for i := len(tables) - 1; i >= 0; i-- {
			table := tables[i]
			n, err := table.restore(ctx, tx, doc[table.name])
			if err != nil {
				return err
			}
			if n > 0 {
				summary.TablesImported++
				summary.TotalRecords += n
			}
		}
		return nil
	})
	if err != nil {
		s.log.Error("Restore failed, transaction rolled back", "error", err)
		return nil, err
	}
	s.log.Info("Restore complete", "tables", summary.TablesImported, "records", summary.TotalRecords)
	return summary, nil
}
