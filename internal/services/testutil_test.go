package services

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sdshc/tracker-backend/internal/logger"
	"github.com/sdshc/tracker-backend/internal/repos"
	"github.com/sdshc/tracker-backend/internal/types"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// One connection, or every pooled conn gets its own :memory: database.
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := gdb.AutoMigrate(
		&types.Project{}, &types.Producer{}, &types.Contract{}, &types.BMP{},
		&types.Practice{}, &types.Bill{}, &types.Fund{}, &types.Photo{},
		&types.Milestone{}, &types.NPSReduction{}, &types.NPSReductionCombined{},
		&types.Voucher{}, &types.VoucherItem{}, &types.GRTSReport{},
		&types.ImportRecord{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return gdb
}

func testImportConfig() ImportConfig {
	return ImportConfig{
		SourceLabel:  "Excel (Cost-share History)",
		ProjectName:  "Soil Health Improvement and Planning Project",
		Sponsor:      "South Dakota Soil Health Coalition",
		DefaultState: "SD",
	}
}

func newTestImportService(t *testing.T, gdb *gorm.DB) ImportService {
	t.Helper()
	log := newTestLogger(t)
	return NewImportService(
		gdb, log, testImportConfig(),
		repos.NewProjectRepo(gdb, log),
		repos.NewProducerRepo(gdb, log),
		repos.NewContractRepo(gdb, log),
		repos.NewBMPRepo(gdb, log),
		repos.NewPracticeRepo(gdb, log),
		repos.NewBillRepo(gdb, log),
		repos.NewFundRepo(gdb, log),
		repos.NewNPSReductionRepo(gdb, log),
		repos.NewNPSReductionCombinedRepo(gdb, log),
		repos.NewImportRecordRepo(gdb, log),
	)
}

type testSheet struct {
	name string
	rows [][]any
}

func buildWorkbook(t *testing.T, sheets ...testSheet) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet.name); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
		} else {
			if _, err := f.NewSheet(sheet.name); err != nil {
				t.Fatalf("new sheet: %v", err)
			}
		}
		for r, cells := range sheet.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			row := cells
			if err := f.SetSheetRow(sheet.name, cell, &row); err != nil {
				t.Fatalf("set row: %v", err)
			}
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

// Column order of the primary test sheet.
var primaryHeader = []any{
	"PersonID", "FullName", "Farm Name", "LifetimeCostshareTotal",
	"Lifetime Total Acres", "Contract ID", "BMP", "BMP Number", "BMP ID",
	"Practice Acres", "Practice Date", "Paid Date", "OData_319 Amount",
	"Other Amount", "Local Amount", "Total Amount", "N Reductions",
	"P Reductions", "S Reductions", "N Combined", "P Combined", "S Combined",
	"Lat", "Longitude", "Stream", "Project Year", "Project Segment",
}

// primaryRow builds one sheet row from header-keyed overrides, defaulting
// every other cell to blank.
func primaryRow(cells map[string]any) []any {
	row := make([]any, len(primaryHeader))
	for i := range row {
		row[i] = ""
	}
	for key, val := range cells {
		for i, header := range primaryHeader {
			if header == key {
				row[i] = val
			}
		}
	}
	return row
}

var contactHeader = []any{
	"PersonID", "Full Name", "Email", "Phone", "Alt Phone", "Address 1",
	"Address 2", "City", "State", "Zip", "Record URL", "Relationship",
}

func contactRow(cells map[string]any) []any {
	row := make([]any, len(contactHeader))
	for i := range row {
		row[i] = ""
	}
	for key, val := range cells {
		for i, header := range contactHeader {
			if header == key {
				row[i] = val
			}
		}
	}
	return row
}

func countRows(t *testing.T, gdb *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	if err := gdb.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}
