package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
	"gorm.io/gorm"

	"github.com/sdshc/tracker-backend/internal/logger"
	"github.com/sdshc/tracker-backend/internal/repos"
	"github.com/sdshc/tracker-backend/internal/types"
)

// Source-shape errors: raised before any database mutation, fully
// recoverable by fixing the workbook and retrying.
var (
	ErrPrimarySheetNotFound = errors.New("could not find Cost-share History sheet")
	ErrPrimarySheetEmpty    = errors.New("no data found in Cost-share History sheet")
)

type ImportConfig struct {
	SourceLabel  string
	ProjectName  string
	Sponsor      string
	DefaultState string
}

// ImportSummary reports what one completed run produced. Skipped rows are
// visible only as the gap between TotalRows and the entity counts.
type ImportSummary struct {
	RunID             uuid.UUID `json:"runId"`
	ProducersImported int       `json:"producersImported"`
	ContractsImported int       `json:"contractsImported"`
	BMPsImported      int       `json:"bmpsImported"`
	SegmentContacts   int       `json:"segmentContacts"`
	TotalRows         int       `json:"totalRows"`
}

type ImportService interface {
	// ImportSpreadsheet replaces the whole dataset from one workbook. The
	// operation is atomic and idempotent: re-importing the same file yields
	// the same final state.
	ImportSpreadsheet(ctx context.Context, r io.Reader) (*ImportSummary, error)
	History(ctx context.Context) ([]*types.ImportRecord, error)
}

type importService struct {
	db  *gorm.DB
	log *logger.Logger
	cfg ImportConfig
	mat *materializer
	// One import at a time. The UI disables its trigger while a run is in
	// flight, but a second caller must still serialize rather than race.
	sem              *semaphore.Weighted
	importRecordRepo repos.ImportRecordRepo
}

func NewImportService(
	db *gorm.DB,
	baseLog *logger.Logger,
	cfg ImportConfig,
	projectRepo repos.ProjectRepo,
	producerRepo repos.ProducerRepo,
	contractRepo repos.ContractRepo,
	bmpRepo repos.BMPRepo,
	practiceRepo repos.PracticeRepo,
	billRepo repos.BillRepo,
	fundRepo repos.FundRepo,
	npsRepo repos.NPSReductionRepo,
	npsCombinedRepo repos.NPSReductionCombinedRepo,
	importRecordRepo repos.ImportRecordRepo,
) ImportService {
	serviceLog := baseLog.With("service", "ImportService")
	return &importService{
		db:  db,
		log: serviceLog,
		cfg: cfg,
		mat: &materializer{
			log:              serviceLog,
			projectRepo:      projectRepo,
			producerRepo:     producerRepo,
			contractRepo:     contractRepo,
			bmpRepo:          bmpRepo,
			practiceRepo:     practiceRepo,
			billRepo:         billRepo,
			fundRepo:         fundRepo,
			npsRepo:          npsRepo,
			npsCombinedRepo:  npsCombinedRepo,
			importRecordRepo: importRecordRepo,
		},
		sem:              semaphore.NewWeighted(1),
		importRecordRepo: importRecordRepo,
	}
}

func (s *importService) ImportSpreadsheet(ctx context.Context, r io.Reader) (*ImportSummary, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.sem.Release(1)

	runID := uuid.New()
	log := s.log.With("run_id", runID.String())

	wb, err := OpenWorkbook(r)
	if err != nil {
		return nil, err
	}
	defer func() { _ = wb.Close() }()

	primary, ok := wb.PrimarySheetName()
	if !ok {
		return nil, ErrPrimarySheetNotFound
	}
	rawRows, err := wb.SheetRows(primary)
	if err != nil {
		return nil, err
	}
	if len(rawRows) == 0 {
		return nil, ErrPrimarySheetEmpty
	}
	log.Info("Parsed primary sheet", "sheet", primary, "rows", len(rawRows))

	// Auxiliary-sheet enrichment is an optional stage of the one pipeline,
	// not a separate code path. A nil lookup disables it everywhere.
	var contacts *contactLookup
	if contactSheet, ok := wb.ContactSheetName(); ok {
		contactRows, err := wb.SheetRows(contactSheet)
		if err != nil {
			return nil, err
		}
		contacts = buildContactLookup(contactRows)
		log.Info("Parsed contact sheet", "sheet", contactSheet, "rows", len(contactRows))
	} else {
		log.Debug("No master database sheet present, skipping contact enrichment")
	}

	normalized := make([]sourceRow, 0, len(rawRows))
	for _, raw := range rawRows {
		row := normalizeRow(raw)
		if !row.hasIdentity() {
			continue
		}
		normalized = append(normalized, row)
	}

	ded := dedupeRows(normalized, contacts)

	var counts materializeCounts
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		counts, txErr = s.mat.run(ctx, tx, ded, contacts, len(rawRows), s.cfg)
		return txErr
	})
	if err != nil {
		log.Error("Import failed, transaction rolled back", "error", err)
		return nil, fmt.Errorf("import spreadsheet: %w", err)
	}

	summary := &ImportSummary{
		RunID:             runID,
		ProducersImported: counts.Producers,
		ContractsImported: counts.Contracts,
		BMPsImported:      counts.BMPs,
		SegmentContacts:   counts.SegmentContacts,
		TotalRows:         counts.TotalRows,
	}
	log.Info("Import complete",
		"producers", summary.ProducersImported,
		"contracts", summary.ContractsImported,
		"bmps", summary.BMPsImported,
		"segment_contacts", summary.SegmentContacts,
		"total_rows", summary.TotalRows,
	)
	return summary, nil
}

func (s *importService) History(ctx context.Context) ([]*types.ImportRecord, error) {
	return s.importRecordRepo.GetAll(ctx, nil)
}
