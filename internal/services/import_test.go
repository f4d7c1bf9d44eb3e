package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sdshc/tracker-backend/internal/types"
)

func costShareSheet(rows ...[]any) testSheet {
	all := append([][]any{primaryHeader}, rows...)
	return testSheet{name: "Cost-share History", rows: all}
}

func masterSheet(rows ...[]any) testSheet {
	all := append([][]any{contactHeader}, rows...)
	return testSheet{name: "Master Database Expanded", rows: all}
}

func TestImportSpreadsheetFullPipeline(t *testing.T) {
	gdb := newTestDB(t)
	svc := newTestImportService(t, gdb)

	wb := buildWorkbook(t,
		costShareSheet(
			primaryRow(map[string]any{
				"PersonID": "P-1", "FullName": "Jo Smith", "Farm Name": "Smith Farm",
				"LifetimeCostshareTotal": 2500.0, "Lifetime Total Acres": 300.0,
				"Contract ID": "C-1", "BMP": "Cover Crop", "BMP Number": "340",
				"BMP ID": "CC-1", "Practice Acres": 120.0, "Practice Date": 44562,
				"Paid Date": "2022-02-15", "OData_319 Amount": 1000.0,
				"Local Amount": 250.0, "Total Amount": 1250.0,
				"N Reductions": 4.2, "P Reductions": 1.1,
				"N Combined": 9.0, "P Combined": 3.0,
				"Lat": 44.36, "Longitude": -100.35, "Stream": "Bad River",
				"Project Segment": 1,
			}),
			// Second row for the same producer and contract: another BMP.
			primaryRow(map[string]any{
				"PersonID": "P-1", "FullName": "Jo Smith",
				"Contract ID": "C-1", "BMP": "Grassed Waterway", "BMP ID": "GW-1",
				"Practice Acres":  15.0,
				"N Combined":      999.0, // differs, must be ignored
				"Project Segment": 1,
			}),
			// Orphan: identity but no contract number.
			primaryRow(map[string]any{
				"PersonID": "P-2", "FullName": "Lee Gray",
				"BMP": "Terrace",
			}),
			// No identity at all: dropped before dedup.
			primaryRow(map[string]any{"BMP": "Windbreak"}),
		),
		masterSheet(
			contactRow(map[string]any{
				"PersonID": "P-1", "Full Name": "Josephine Smith",
				"Email": "jo@example.com", "City": "Pierre", "State": "SD",
				"Relationship": "Cost-share Recipient",
			}),
			contactRow(map[string]any{
				"PersonID": "P-9", "Full Name": "Pat Doe",
				"Email":        "pat@example.com",
				"Relationship": "Segment 1 Contact",
			}),
		),
	)

	summary, err := svc.ImportSpreadsheet(context.Background(), wb)
	require.NoError(t, err)

	require.Equal(t, 2, summary.ProducersImported)
	require.Equal(t, 1, summary.ContractsImported)
	require.Equal(t, 2, summary.BMPsImported)
	require.Equal(t, 1, summary.SegmentContacts)
	require.Equal(t, 4, summary.TotalRows)

	// Producers: P-1 and P-2 from the sheet, P-9 synthesized.
	var producers []types.Producer
	require.NoError(t, gdb.Order("id").Find(&producers).Error)
	require.Len(t, producers, 3)

	byPerson := map[string]types.Producer{}
	for _, p := range producers {
		byPerson[p.PersonID] = p
	}

	p1 := byPerson["P-1"]
	require.Equal(t, "Josephine", p1.FirstName, "contact name overrides row name")
	require.Equal(t, "Smith", p1.LastName)
	require.Equal(t, "Smith Farm", p1.FarmName)
	require.Equal(t, 2500.0, p1.LifetimeCostshareTotal)
	require.Equal(t, "jo@example.com", p1.Email)
	require.True(t, p1.IsImported)
	require.False(t, p1.IsSegmentContact)

	p2 := byPerson["P-2"]
	require.Equal(t, "Lee", p2.FirstName)
	require.Equal(t, "Gray", p2.LastName)

	p9 := byPerson["P-9"]
	require.True(t, p9.IsSegmentContact)
	require.True(t, p9.IsImported)
	require.Zero(t, p9.LifetimeCostshareTotal)
	require.Zero(t, p9.LifetimeTotalAcres)

	// Projects: segment 1 plus the fallback.
	var projects []types.Project
	require.NoError(t, gdb.Order("id").Find(&projects).Error)
	require.Len(t, projects, 2)
	var segProject, fallback *types.Project
	for i := range projects {
		if projects[i].Segment != nil {
			segProject = &projects[i]
		} else {
			fallback = &projects[i]
		}
	}
	require.NotNil(t, segProject)
	require.NotNil(t, fallback)
	require.Equal(t, 1, *segProject.Segment)
	require.Contains(t, segProject.Name, "Seg 1")
	require.Equal(t, segProject.ID, p1.ProjectID, "P-1's first row is segment 1")
	require.Equal(t, fallback.ID, p2.ProjectID, "orphan row has no segment")
	require.Equal(t, segProject.ID, p9.ProjectID, "segment contact goes to segment 1")

	// Contract chain: one contract, two BMPs, two practices.
	require.EqualValues(t, 1, countRows(t, gdb, &types.Contract{}))
	require.EqualValues(t, 2, countRows(t, gdb, &types.BMP{}))
	require.EqualValues(t, 2, countRows(t, gdb, &types.Practice{}))

	var bmps []types.BMP
	require.NoError(t, gdb.Order("id").Find(&bmps).Error)
	require.NotNil(t, bmps[0].CompletionDate)
	require.Equal(t, "2022-01-01", *bmps[0].CompletionDate, "serial date")
	require.NotNil(t, bmps[0].Lat)
	require.Equal(t, 44.36, *bmps[0].Lat)

	// Billing: only the first row carried money.
	var bills []types.Bill
	require.NoError(t, gdb.Find(&bills).Error)
	require.Len(t, bills, 1)
	require.NotNil(t, bills[0].PaidDate)
	require.Equal(t, "2022-02-15", *bills[0].PaidDate)

	var funds []types.Fund
	require.NoError(t, gdb.Order("id").Find(&funds).Error)
	require.Len(t, funds, 2)
	require.Equal(t, types.Fund319, funds[0].FundName)
	require.Equal(t, 1000.0, funds[0].Amount)
	require.Equal(t, types.FundLocal, funds[1].FundName)

	// Per-practice reductions: N and P from row one only.
	require.EqualValues(t, 2, countRows(t, gdb, &types.NPSReduction{}))

	// Combined: first row wins, the 999 figure is discarded.
	var combined []types.NPSReductionCombined
	require.NoError(t, gdb.Order("id").Find(&combined).Error)
	require.Len(t, combined, 2)
	for _, c := range combined {
		if c.Pollutant == types.PollutantN {
			require.Equal(t, 9.0, c.Quantity)
		}
	}

	// Import record appended.
	var records []types.ImportRecord
	require.NoError(t, gdb.Find(&records).Error)
	require.Len(t, records, 1)
	require.Equal(t, 4, records[0].RecordCount)
	require.Equal(t, "Excel (Cost-share History)", records[0].Source)
}

func TestImportSpreadsheetIdempotent(t *testing.T) {
	gdb := newTestDB(t)
	svc := newTestImportService(t, gdb)

	sheet := costShareSheet(
		primaryRow(map[string]any{
			"PersonID": "P-1", "FullName": "Jo Smith", "Contract ID": "C-1",
			"BMP": "Cover Crop", "OData_319 Amount": 500.0, "N Combined": 2.0,
		}),
		primaryRow(map[string]any{
			"PersonID": "P-2", "FullName": "Lee Gray", "Contract ID": "C-2",
			"BMP": "Terrace",
		}),
	)

	first, err := svc.ImportSpreadsheet(context.Background(), buildWorkbook(t, sheet))
	require.NoError(t, err)
	second, err := svc.ImportSpreadsheet(context.Background(), buildWorkbook(t, sheet))
	require.NoError(t, err)

	require.Equal(t, first.ProducersImported, second.ProducersImported)
	require.Equal(t, first.ContractsImported, second.ContractsImported)
	require.Equal(t, first.BMPsImported, second.BMPsImported)

	require.EqualValues(t, 2, countRows(t, gdb, &types.Producer{}))
	require.EqualValues(t, 2, countRows(t, gdb, &types.Contract{}))
	require.EqualValues(t, 2, countRows(t, gdb, &types.BMP{}))
	require.EqualValues(t, 2, countRows(t, gdb, &types.Practice{}))
	require.EqualValues(t, 1, countRows(t, gdb, &types.Fund{}))
	require.EqualValues(t, 1, countRows(t, gdb, &types.NPSReductionCombined{}))
	// Import history is replaced along with everything else.
	require.EqualValues(t, 1, countRows(t, gdb, &types.ImportRecord{}))
}

func TestImportSpreadsheetCombinedFirstWins(t *testing.T) {
	gdb := newTestDB(t)
	svc := newTestImportService(t, gdb)

	wb := buildWorkbook(t, costShareSheet(
		primaryRow(map[string]any{
			"PersonID": "P-1", "FullName": "Jo Smith", "Contract ID": "C-1",
			"BMP": "Cover Crop", "N Combined": 5.0,
		}),
		primaryRow(map[string]any{
			"PersonID": "P-1", "FullName": "Jo Smith", "Contract ID": "C-1",
			"BMP": "Terrace", "N Combined": 7.0,
		}),
		primaryRow(map[string]any{
			"PersonID": "P-1", "FullName": "Jo Smith", "Contract ID": "C-1",
			"BMP": "Waterway", "N Combined": 11.0,
		}),
	))

	_, err := svc.ImportSpreadsheet(context.Background(), wb)
	require.NoError(t, err)

	var combined []types.NPSReductionCombined
	require.NoError(t, gdb.Find(&combined).Error)
	require.Len(t, combined, 1)
	require.Equal(t, types.PollutantN, combined[0].Pollutant)
	require.Equal(t, 5.0, combined[0].Quantity, "first row in source order wins")
}

func TestImportSpreadsheetOrphanContractDrop(t *testing.T) {
	gdb := newTestDB(t)
	svc := newTestImportService(t, gdb)

	wb := buildWorkbook(t, costShareSheet(
		primaryRow(map[string]any{
			"PersonID": "P-1", "FullName": "Jo Smith",
			"BMP": "Cover Crop", "OData_319 Amount": 500.0, "N Reductions": 3.0,
		}),
	))

	summary, err := svc.ImportSpreadsheet(context.Background(), wb)
	require.NoError(t, err)
	require.Equal(t, 1, summary.ProducersImported)
	require.Equal(t, 0, summary.ContractsImported)
	require.Equal(t, 0, summary.BMPsImported)
	require.Equal(t, 1, summary.TotalRows)

	require.EqualValues(t, 1, countRows(t, gdb, &types.Producer{}))
	require.EqualValues(t, 0, countRows(t, gdb, &types.Contract{}))
	require.EqualValues(t, 0, countRows(t, gdb, &types.BMP{}))
	require.EqualValues(t, 0, countRows(t, gdb, &types.Practice{}))
	require.EqualValues(t, 0, countRows(t, gdb, &types.Bill{}))
	require.EqualValues(t, 0, countRows(t, gdb, &types.NPSReduction{}))
}

func TestImportSpreadsheetMissingSheet(t *testing.T) {
	gdb := newTestDB(t)
	svc := newTestImportService(t, gdb)

	wb := buildWorkbook(t, testSheet{name: "Unrelated", rows: [][]any{{"A"}}})
	_, err := svc.ImportSpreadsheet(context.Background(), wb)
	require.ErrorIs(t, err, ErrPrimarySheetNotFound)
	require.EqualValues(t, 0, countRows(t, gdb, &types.ImportRecord{}))
}

func TestImportSpreadsheetEmptySheet(t *testing.T) {
	gdb := newTestDB(t)
	svc := newTestImportService(t, gdb)

	wb := buildWorkbook(t, testSheet{name: "Cost-share History", rows: [][]any{primaryHeader}})
	_, err := svc.ImportSpreadsheet(context.Background(), wb)
	require.ErrorIs(t, err, ErrPrimarySheetEmpty)
}

func TestImportSpreadsheetAtomicity(t *testing.T) {
	gdb := newTestDB(t)
	svc := newTestImportService(t, gdb)

	// Seed a known-good dataset first.
	seed := costShareSheet(
		primaryRow(map[string]any{
			"PersonID": "P-1", "FullName": "Jo Smith", "Contract ID": "C-1",
			"BMP": "Cover Crop",
		}),
	)
	_, err := svc.ImportSpreadsheet(context.Background(), buildWorkbook(t, seed))
	require.NoError(t, err)

	before := map[string]int64{
		"producers": countRows(t, gdb, &types.Producer{}),
		"contracts": countRows(t, gdb, &types.Contract{}),
		"bmps":      countRows(t, gdb, &types.BMP{}),
		"imports":   countRows(t, gdb, &types.ImportRecord{}),
	}
	var beforeProducer types.Producer
	require.NoError(t, gdb.First(&beforeProducer).Error)

	// Fail the next run partway through materialization, at the funds table.
	injected := errors.New("injected write failure")
	require.NoError(t, gdb.Callback().Create().Before("gorm:create").Register("test_fail_funds", func(d *gorm.DB) {
		if d.Statement != nil && d.Statement.Table == "funds" {
			_ = d.AddError(injected)
		}
	}))
	defer func() {
		require.NoError(t, gdb.Callback().Create().Remove("test_fail_funds"))
	}()

	replacement := costShareSheet(
		primaryRow(map[string]any{
			"PersonID": "P-2", "FullName": "Lee Gray", "Contract ID": "C-2",
			"BMP": "Terrace", "OData_319 Amount": 750.0,
		}),
	)
	_, err = svc.ImportSpreadsheet(context.Background(), buildWorkbook(t, replacement))
	require.Error(t, err)

	// The failed run must leave the prior dataset fully intact.
	require.Equal(t, before["producers"], countRows(t, gdb, &types.Producer{}))
	require.Equal(t, before["contracts"], countRows(t, gdb, &types.Contract{}))
	require.Equal(t, before["bmps"], countRows(t, gdb, &types.BMP{}))
	require.Equal(t, before["imports"], countRows(t, gdb, &types.ImportRecord{}))

	var afterProducer types.Producer
	require.NoError(t, gdb.First(&afterProducer).Error)
	require.Equal(t, beforeProducer.PersonID, afterProducer.PersonID)
}

func TestImportSpreadsheetNoContactSheet(t *testing.T) {
	gdb := newTestDB(t)
	svc := newTestImportService(t, gdb)

	wb := buildWorkbook(t, costShareSheet(
		primaryRow(map[string]any{
			"PersonID": "P-1", "FullName": "Jo Smith", "Contract ID": "C-1",
			"BMP": "Cover Crop",
		}),
	))

	summary, err := svc.ImportSpreadsheet(context.Background(), wb)
	require.NoError(t, err)
	require.Equal(t, 1, summary.ProducersImported)
	require.Equal(t, 0, summary.SegmentContacts)
	require.EqualValues(t, 1, countRows(t, gdb, &types.Producer{}))
}

func TestImportSpreadsheetSegmentContactProjectOnDemand(t *testing.T) {
	gdb := newTestDB(t)
	svc := newTestImportService(t, gdb)

	// No primary row mentions segment 2; the contact's project must be
	// created during synthesis.
	wb := buildWorkbook(t,
		costShareSheet(
			primaryRow(map[string]any{
				"PersonID": "P-1", "FullName": "Jo Smith", "Contract ID": "C-1",
				"BMP": "Cover Crop",
			}),
		),
		masterSheet(
			contactRow(map[string]any{
				"PersonID": "P-9", "Full Name": "Pat Doe",
				"Relationship": "Segment 2 Contact",
			}),
		),
	)

	summary, err := svc.ImportSpreadsheet(context.Background(), wb)
	require.NoError(t, err)
	require.Equal(t, 1, summary.SegmentContacts)

	var projects []types.Project
	require.NoError(t, gdb.Order("id").Find(&projects).Error)
	require.Len(t, projects, 2, "fallback plus on-demand segment 2")

	var seg2 *types.Project
	for i := range projects {
		if projects[i].Segment != nil && *projects[i].Segment == 2 {
			seg2 = &projects[i]
		}
	}
	require.NotNil(t, seg2)

	var contact types.Producer
	require.NoError(t, gdb.Where("person_id = ?", "P-9").First(&contact).Error)
	require.Equal(t, seg2.ID, contact.ProjectID)
	require.True(t, contact.IsSegmentContact)
}

// A recipient who also carries a segment-contact tag must not be synthesized
// twice or at all when already present from the primary sheet.
func TestImportSpreadsheetRecipientNotSynthesized(t *testing.T) {
	gdb := newTestDB(t)
	svc := newTestImportService(t, gdb)

	wb := buildWorkbook(t,
		costShareSheet(
			primaryRow(map[string]any{
				"PersonID": "P-1", "FullName": "Jo Smith", "Contract ID": "C-1",
				"BMP": "Cover Crop",
			}),
		),
		masterSheet(
			contactRow(map[string]any{
				"PersonID": "P-1", "Relationship": "Cost-share Recipient",
			}),
			contactRow(map[string]any{
				"PersonID": "P-1", "Relationship": "Segment 1 Contact",
			}),
			contactRow(map[string]any{
				"PersonID": "P-8", "Full Name": "Sam Hill",
				"Relationship": "Cost-share Recipient",
			}),
		),
	)

	summary, err := svc.ImportSpreadsheet(context.Background(), wb)
	require.NoError(t, err)
	require.Equal(t, 0, summary.SegmentContacts)
	// P-8 is a recipient absent from the primary sheet: not synthesized.
	require.EqualValues(t, 1, countRows(t, gdb, &types.Producer{}))
}
