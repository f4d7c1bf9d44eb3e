package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/sdshc/tracker-backend/internal/logger"
	"github.com/sdshc/tracker-backend/internal/repos"
	"github.com/sdshc/tracker-backend/internal/types"
)

type ExportService interface {
	// Spreadsheet flattens the relational data back into one row per
	// producer, contract, BMP and practice, mirroring the source extract's
	// shape.
	Spreadsheet(ctx context.Context) ([]byte, error)
}

type exportService struct {
	db              *gorm.DB
	log             *logger.Logger
	producerRepo    repos.ProducerRepo
	contractRepo    repos.ContractRepo
	bmpRepo         repos.BMPRepo
	practiceRepo    repos.PracticeRepo
	billRepo        repos.BillRepo
	fundRepo        repos.FundRepo
}

func NewExportService(
	db *gorm.DB,
	baseLog *logger.Logger,
	producerRepo repos.ProducerRepo,
	contractRepo repos.ContractRepo,
	bmpRepo repos.BMPRepo,
	practiceRepo repos.PracticeRepo,
	billRepo repos.BillRepo,
	fundRepo repos.FundRepo,
) ExportService {
	return &exportService{
		db:           db,
		log:          baseLog.With("service", "ExportService"),
		producerRepo: producerRepo,
		contractRepo: contractRepo,
		bmpRepo:      bmpRepo,
		practiceRepo: practiceRepo,
		billRepo:     billRepo,
		fundRepo:     fundRepo,
	}
}

var exportHeader = []any{
	"Producer", "Farm Name", "Contract", "BMP", "BMP Code", "Practice",
	"Acres", "Completion Date", "319 Amount", "Other Amount", "Local Amount",
	"Total", "Lat", "Long", "Stream",
}

func (s *exportService) Spreadsheet(ctx context.Context) ([]byte, error) {
	producers, err := s.producerRepo.GetAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("load producers: %w", err)
	}
	producerIDs := make([]uint, 0, len(producers))
	producerByID := make(map[uint]*types.Producer, len(producers))
	for _, p := range producers {
		producerIDs = append(producerIDs, p.ID)
		producerByID[p.ID] = p
	}

	contracts, err := s.contractRepo.GetByProducerIDs(ctx, nil, producerIDs)
	if err != nil {
		return nil, fmt.Errorf("load contracts: %w", err)
	}
	contractIDs := make([]uint, 0, len(contracts))
	contractByID := make(map[uint]*types.Contract, len(contracts))
	for _, c := range contracts {
		contractIDs = append(contractIDs, c.ID)
		contractByID[c.ID] = c
	}

	bmps, err := s.bmpRepo.GetByContractIDs(ctx, nil, contractIDs)
	if err != nil {
		return nil, fmt.Errorf("load bmps: %w", err)
	}
	bmpIDs := make([]uint, 0, len(bmps))
	bmpByID := make(map[uint]*types.BMP, len(bmps))
	for _, b := range bmps {
		bmpIDs = append(bmpIDs, b.ID)
		bmpByID[b.ID] = b
	}

	practices, err := s.practiceRepo.GetByBMPIDs(ctx, nil, bmpIDs)
	if err != nil {
		return nil, fmt.Errorf("load practices: %w", err)
	}
	practiceIDs := make([]uint, 0, len(practices))
	for _, p := range practices {
		practiceIDs = append(practiceIDs, p.ID)
	}

	bills, err := s.billRepo.GetByPracticeIDs(ctx, nil, practiceIDs)
	if err != nil {
		return nil, fmt.Errorf("load bills: %w", err)
	}
	billIDs := make([]uint, 0, len(bills))
	billPractice := make(map[uint]uint, len(bills))
	for _, b := range bills {
		billIDs = append(billIDs, b.ID)
		billPractice[b.ID] = b.PracticeID
	}

	funds, err := s.fundRepo.GetByBillIDs(ctx, nil, billIDs)
	if err != nil {
		return nil, fmt.Errorf("load funds: %w", err)
	}
	// Fund amounts rolled up per practice and category.
	amounts := make(map[uint]map[string]float64)
	for _, f := range funds {
		practiceID := billPractice[f.BillID]
		if amounts[practiceID] == nil {
			amounts[practiceID] = make(map[string]float64)
		}
		amounts[practiceID][f.FundName] += f.Amount
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	const sheet = "Data"
	f.SetSheetName(f.GetSheetName(0), sheet)
	if err := f.SetSheetRow(sheet, "A1", &exportHeader); err != nil {
		return nil, err
	}

	rowNum := 2
	for _, practice := range practices {
		bmp := bmpByID[practice.BMPID]
		if bmp == nil {
			continue
		}
		contract := contractByID[bmp.ContractID]
		if contract == nil {
			continue
		}
		producer := producerByID[contract.ProducerID]
		if producer == nil {
			continue
		}
		a := amounts[practice.ID]
		total := a[types.Fund319] + a[types.FundOther] + a[types.FundLocal]
		row := []any{
			producer.FirstName + " " + producer.LastName,
			producer.FarmName,
			contract.ContractNumber,
			bmp.Type,
			bmp.BMPCode,
			practice.PracticeType,
			practice.Acres,
			deref(practice.CompletionDate),
			a[types.Fund319],
			a[types.FundOther],
			a[types.FundLocal],
			total,
			derefFloat(bmp.Lat),
			derefFloat(bmp.Lng),
			bmp.StreamArea,
		}
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
		rowNum++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	s.log.Info("Spreadsheet export built", "rows", rowNum-2)
	return buf.Bytes(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefFloat(f *float64) any {
	if f == nil {
		return ""
	}
	return *f
}
