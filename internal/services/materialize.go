package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/sdshc/tracker-backend/internal/logger"
	"github.com/sdshc/tracker-backend/internal/repos"
	"github.com/sdshc/tracker-backend/internal/types"
)

// materializer owns the write phase of an import run. Every method here runs
// inside the single transaction opened by the import service; nothing is
// visible to readers until the whole run commits.
type materializer struct {
	log              *logger.Logger
	projectRepo      repos.ProjectRepo
	producerRepo     repos.ProducerRepo
	contractRepo     repos.ContractRepo
	bmpRepo          repos.BMPRepo
	practiceRepo     repos.PracticeRepo
	billRepo         repos.BillRepo
	fundRepo         repos.FundRepo
	npsRepo          repos.NPSReductionRepo
	npsCombinedRepo  repos.NPSReductionCombinedRepo
	importRecordRepo repos.ImportRecordRepo
}

const reductionUnit = "lbs/year"

type materializeCounts struct {
	Producers       int `json:"producers"`
	Contracts       int `json:"contracts"`
	BMPs            int `json:"bmps"`
	SegmentContacts int `json:"segmentContacts"`
	TotalRows       int `json:"totalRows"`
}

// run wipes prior data and rebuilds every table from the deduplicated
// structures. tx must be an open transaction spanning all target tables.
func (m *materializer) run(ctx context.Context, tx *gorm.DB, ded *dedupeResult, contacts *contactLookup, totalRows int, cfg ImportConfig) (materializeCounts, error) {
	var counts materializeCounts
	counts.TotalRows = totalRows

	if err := m.truncateAll(ctx, tx); err != nil {
		return counts, fmt.Errorf("truncate tables: %w", err)
	}

	projectIDs, err := m.insertProjects(ctx, tx, ded, cfg)
	if err != nil {
		return counts, fmt.Errorf("insert projects: %w", err)
	}

	producerIDs, err := m.insertProducers(ctx, tx, ded, projectIDs, cfg)
	if err != nil {
		return counts, fmt.Errorf("insert producers: %w", err)
	}
	counts.Producers = len(producerIDs)

	contractIDs, err := m.insertContracts(ctx, tx, ded, producerIDs)
	if err != nil {
		return counts, fmt.Errorf("insert contracts: %w", err)
	}
	counts.Contracts = len(contractIDs)

	bmps, err := m.insertRowEntities(ctx, tx, ded, contractIDs)
	if err != nil {
		return counts, err
	}
	counts.BMPs = bmps

	synthesized, err := m.synthesizeSegmentContacts(ctx, tx, ded, contacts, projectIDs, cfg)
	if err != nil {
		return counts, fmt.Errorf("synthesize segment contacts: %w", err)
	}
	counts.SegmentContacts = synthesized

	if err := m.recordImport(ctx, tx, cfg.SourceLabel, counts); err != nil {
		return counts, fmt.Errorf("record import: %w", err)
	}
	return counts, nil
}

func (m *materializer) truncateAll(ctx context.Context, tx *gorm.DB) error {
	truncates := []func(context.Context, *gorm.DB) error{
		m.npsCombinedRepo.Truncate,
		m.npsRepo.Truncate,
		m.fundRepo.Truncate,
		m.billRepo.Truncate,
		m.practiceRepo.Truncate,
		m.bmpRepo.Truncate,
		m.contractRepo.Truncate,
		m.producerRepo.Truncate,
		m.projectRepo.Truncate,
		m.importRecordRepo.Truncate,
	}
	for _, truncate := range truncates {
		if err := truncate(ctx, tx); err != nil {
			return err
		}
	}
	return nil
}

// insertProjects creates one project per distinct segment seen across the
// rows, plus the fallback project for rows without one. The returned map is
// keyed by segment value, with key 0 standing in for "no segment".
func (m *materializer) insertProjects(ctx context.Context, tx *gorm.DB, ded *dedupeResult, cfg ImportConfig) (map[int]uint, error) {
	var segments []int
	seen := make(map[int]bool)
	for _, row := range ded.Rows {
		if row.ProjectSegment == nil || seen[*row.ProjectSegment] {
			continue
		}
		seen[*row.ProjectSegment] = true
		segments = append(segments, *row.ProjectSegment)
	}

	ids := make(map[int]uint, len(segments)+1)
	for _, seg := range segments {
		segment := seg
		project := &types.Project{
			Name:    fmt.Sprintf("%s Seg %d", cfg.ProjectName, seg),
			Segment: &segment,
			Sponsor: cfg.Sponsor,
		}
		if _, err := m.projectRepo.Create(ctx, tx, []*types.Project{project}); err != nil {
			return nil, err
		}
		ids[seg] = project.ID
	}

	fallback := &types.Project{Name: cfg.ProjectName, Sponsor: cfg.Sponsor}
	if _, err := m.projectRepo.Create(ctx, tx, []*types.Project{fallback}); err != nil {
		return nil, err
	}
	ids[0] = fallback.ID
	return ids, nil
}

func projectFor(projectIDs map[int]uint, segment *int) uint {
	if segment != nil {
		if id, ok := projectIDs[*segment]; ok {
			return id
		}
	}
	return projectIDs[0]
}

func (m *materializer) insertProducers(ctx context.Context, tx *gorm.DB, ded *dedupeResult, projectIDs map[int]uint, cfg ImportConfig) (map[string]uint, error) {
	ids := make(map[string]uint, len(ded.ProducerOrder))
	for _, personID := range ded.ProducerOrder {
		seed := ded.Producers[personID]
		producer := &types.Producer{
			ProjectID:              projectFor(projectIDs, seed.Segment),
			PersonID:               seed.PersonID,
			FirstName:              seed.FirstName,
			LastName:               seed.LastName,
			FarmName:               seed.FarmName,
			LifetimeCostshareTotal: seed.LifetimeTotal,
			LifetimeTotalAcres:     seed.LifetimeAcres,
			State:                  cfg.DefaultState,
			IsImported:             true,
		}
		if c := seed.Contact; c != nil {
			producer.Email = c.Email
			producer.Phone = c.Phone
			producer.AltPhone = c.AltPhone
			producer.Address = c.Address
			producer.Address2 = c.Address2
			producer.City = c.City
			if c.State != "" {
				producer.State = c.State
			}
			producer.Zip = c.Zip
			producer.RecordURL = c.RecordURL
		}
		if _, err := m.producerRepo.Create(ctx, tx, []*types.Producer{producer}); err != nil {
			return nil, err
		}
		ids[personID] = producer.ID
	}
	return ids, nil
}

func (m *materializer) insertContracts(ctx context.Context, tx *gorm.DB, ded *dedupeResult, producerIDs map[string]uint) (map[string]uint, error) {
	ids := make(map[string]uint, len(ded.ContractOrder))
	for _, key := range ded.ContractOrder {
		seed := ded.Contracts[key]
		producerID, ok := producerIDs[seed.PersonID]
		if !ok {
			// Every contract seed comes from a row that also seeded a
			// producer, so this should not happen.
			m.log.Warn("Skipping contract without producer", "contract_number", seed.ContractNumber)
			continue
		}
		contract := &types.Contract{
			ProducerID:     producerID,
			ContractNumber: seed.ContractNumber,
		}
		if _, err := m.contractRepo.Create(ctx, tx, []*types.Contract{contract}); err != nil {
			return nil, err
		}
		ids[key] = contract.ID
	}
	return ids, nil
}

// insertRowEntities walks every source row and creates its BMP chain. Rows
// whose (identity, contract number) pair resolves to no contract are skipped
// outright; that loss is intentional and shows up only in the counts.
func (m *materializer) insertRowEntities(ctx context.Context, tx *gorm.DB, ded *dedupeResult, contractIDs map[string]uint) (int, error) {
	created := 0
	for _, row := range ded.Rows {
		contractID, ok := contractIDs[contractKey(row.PersonID, row.ContractNumber)]
		if !ok {
			continue
		}

		bmp := &types.BMP{
			ContractID:     contractID,
			Type:           row.BMPType,
			BMPCode:        row.BMPCode,
			CompletionDate: row.PracticeDate,
			Lat:            row.Lat,
			Lng:            row.Lng,
			StreamArea:     row.Stream,
		}
		if _, err := m.bmpRepo.Create(ctx, tx, []*types.BMP{bmp}); err != nil {
			return created, fmt.Errorf("insert bmp: %w", err)
		}
		created++

		practice := &types.Practice{
			BMPID:          bmp.ID,
			PracticeType:   row.BMPType,
			PracticeCode:   row.BMPNumber,
			Status:         "Completed",
			CompletionDate: row.PracticeDate,
			Acres:          row.PracticeAcres,
		}
		if _, err := m.practiceRepo.Create(ctx, tx, []*types.Practice{practice}); err != nil {
			return created, fmt.Errorf("insert practice: %w", err)
		}

		if err := m.insertBilling(ctx, tx, row, practice.ID); err != nil {
			return created, err
		}
		if err := m.insertReductions(ctx, tx, row, practice.ID, contractID); err != nil {
			return created, err
		}
	}
	return created, nil
}

func (m *materializer) insertBilling(ctx context.Context, tx *gorm.DB, row sourceRow, practiceID uint) error {
	if row.AmountTotal <= 0 && row.Amount319 <= 0 && row.AmountOther <= 0 && row.AmountLocal <= 0 {
		return nil
	}
	bill := &types.Bill{
		PracticeID:  practiceID,
		Description: row.BMPType,
		Quantity:    1,
		PaidDate:    row.PaidDate,
	}
	if _, err := m.billRepo.Create(ctx, tx, []*types.Bill{bill}); err != nil {
		return fmt.Errorf("insert bill: %w", err)
	}

	var funds []*types.Fund
	if row.Amount319 > 0 {
		funds = append(funds, &types.Fund{BillID: bill.ID, FundName: types.Fund319, Amount: row.Amount319})
	}
	if row.AmountOther > 0 {
		funds = append(funds, &types.Fund{BillID: bill.ID, FundName: types.FundOther, Amount: row.AmountOther})
	}
	if row.AmountLocal > 0 {
		funds = append(funds, &types.Fund{BillID: bill.ID, FundName: types.FundLocal, Amount: row.AmountLocal})
	}
	if _, err := m.fundRepo.Create(ctx, tx, funds); err != nil {
		return fmt.Errorf("insert funds: %w", err)
	}
	return nil
}

func (m *materializer) insertReductions(ctx context.Context, tx *gorm.DB, row sourceRow, practiceID, contractID uint) error {
	var perPractice []*types.NPSReduction
	for _, red := range []struct {
		pollutant string
		quantity  float64
	}{
		{types.PollutantN, row.NReduction},
		{types.PollutantP, row.PReduction},
		{types.PollutantS, row.SReduction},
	} {
		if red.quantity > 0 {
			perPractice = append(perPractice, &types.NPSReduction{
				PracticeID: practiceID,
				Pollutant:  red.pollutant,
				Quantity:   red.quantity,
				Unit:       reductionUnit,
			})
		}
	}
	if _, err := m.npsRepo.Create(ctx, tx, perPractice); err != nil {
		return fmt.Errorf("insert nps reductions: %w", err)
	}

	// Contract-level rollups are stored once per contract; the first row in
	// source order wins and later rows are ignored even when their combined
	// figures differ. The source sheet repeats the same totals on every row
	// of a contract.
	existing, err := m.npsCombinedRepo.CountByContractID(ctx, tx, contractID)
	if err != nil {
		return fmt.Errorf("count combined reductions: %w", err)
	}
	if existing > 0 {
		return nil
	}
	var combined []*types.NPSReductionCombined
	for _, red := range []struct {
		pollutant string
		quantity  float64
	}{
		{types.PollutantN, row.NCombined},
		{types.PollutantP, row.PCombined},
		{types.PollutantS, row.SCombined},
	} {
		if red.quantity > 0 {
			combined = append(combined, &types.NPSReductionCombined{
				ContractID: contractID,
				Pollutant:  red.pollutant,
				Quantity:   red.quantity,
				Unit:       reductionUnit,
			})
		}
	}
	if _, err := m.npsCombinedRepo.Create(ctx, tx, combined); err != nil {
		return fmt.Errorf("insert combined reductions: %w", err)
	}
	return nil
}

// synthesizeSegmentContacts creates producers for identities that appear only
// in the auxiliary sheet as administrative segment contacts. The matching
// segment project is created on demand when no primary-sheet row produced it.
func (m *materializer) synthesizeSegmentContacts(ctx context.Context, tx *gorm.DB, ded *dedupeResult, contacts *contactLookup, projectIDs map[int]uint, cfg ImportConfig) (int, error) {
	created := 0
	for _, personID := range contacts.ids() {
		if _, exists := ded.Producers[personID]; exists {
			continue
		}
		if contacts.isRecipient(personID) || !contacts.isSegmentContact(personID) {
			continue
		}

		segment := contacts.segmentHint(personID)
		projectID := projectFor(projectIDs, segment)
		if segment != nil {
			if _, ok := projectIDs[*segment]; !ok {
				seg := *segment
				project := &types.Project{
					Name:    fmt.Sprintf("%s Seg %d", cfg.ProjectName, seg),
					Segment: &seg,
					Sponsor: cfg.Sponsor,
				}
				if _, err := m.projectRepo.Create(ctx, tx, []*types.Project{project}); err != nil {
					return created, err
				}
				projectIDs[seg] = project.ID
				projectID = project.ID
			}
		}

		c, _ := contacts.contact(personID)
		first, last := splitFullName(c.FullName)
		producer := &types.Producer{
			ProjectID:        projectID,
			PersonID:         personID,
			FirstName:        first,
			LastName:         last,
			Email:            c.Email,
			Phone:            c.Phone,
			AltPhone:         c.AltPhone,
			Address:          c.Address,
			Address2:         c.Address2,
			City:             c.City,
			State:            c.State,
			Zip:              c.Zip,
			RecordURL:        c.RecordURL,
			IsImported:       true,
			IsSegmentContact: true,
		}
		if producer.State == "" {
			producer.State = cfg.DefaultState
		}
		if _, err := m.producerRepo.Create(ctx, tx, []*types.Producer{producer}); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

func (m *materializer) recordImport(ctx context.Context, tx *gorm.DB, source string, counts materializeCounts) error {
	summary, err := json.Marshal(counts)
	if err != nil {
		return err
	}
	record := &types.ImportRecord{
		Source:      source,
		ImportDate:  time.Now().UTC().Format(time.RFC3339),
		RecordCount: counts.TotalRows,
		Summary:     summary,
	}
	_, err = m.importRecordRepo.Create(ctx, tx, []*types.ImportRecord{record})
	return err
}
