package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sdshc/tracker-backend/internal/types"
)

func seedDataset(t *testing.T, svc ImportService) {
	t.Helper()
	wb := buildWorkbook(t, costShareSheet(
		primaryRow(map[string]any{
			"PersonID": "P-1", "FullName": "Jo Smith", "Contract ID": "C-1",
			"BMP": "Cover Crop", "OData_319 Amount": 500.0,
			"N Reductions": 2.0, "N Combined": 4.0, "Project Segment": 1,
		}),
		primaryRow(map[string]any{
			"PersonID": "P-2", "FullName": "Lee Gray", "Contract ID": "C-2",
			"BMP": "Terrace",
		}),
	))
	_, err := svc.ImportSpreadsheet(context.Background(), wb)
	require.NoError(t, err)
}

func TestBackupExportShape(t *testing.T) {
	gdb := newTestDB(t)
	seedDataset(t, newTestImportService(t, gdb))

	backup := NewBackupService(gdb, newTestLogger(t))
	data, err := backup.Export(context.Background())
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))

	require.Contains(t, doc, "_version")
	require.Contains(t, doc, "_exportDate")
	for _, table := range []string{
		"projects", "producers", "contracts", "bmps", "practices", "bills",
		"funds", "photos", "milestones", "npsReductions",
		"npsReductionsCombined", "vouchers", "voucherItems", "grtsReports",
		"imports",
	} {
		require.Contains(t, doc, table)
	}

	var producers []types.Producer
	require.NoError(t, json.Unmarshal(doc["producers"], &producers))
	require.Len(t, producers, 2)
}

func TestBackupRoundTrip(t *testing.T) {
	gdb := newTestDB(t)
	seedDataset(t, newTestImportService(t, gdb))

	backup := NewBackupService(gdb, newTestLogger(t))
	data, err := backup.Export(context.Background())
	require.NoError(t, err)

	counts := func() map[string]int64 {
		return map[string]int64{
			"projects":  countRows(t, gdb, &types.Project{}),
			"producers": countRows(t, gdb, &types.Producer{}),
			"contracts": countRows(t, gdb, &types.Contract{}),
			"bmps":      countRows(t, gdb, &types.BMP{}),
			"practices": countRows(t, gdb, &types.Practice{}),
			"bills":     countRows(t, gdb, &types.Bill{}),
			"funds":     countRows(t, gdb, &types.Fund{}),
			"nps":       countRows(t, gdb, &types.NPSReduction{}),
			"combined":  countRows(t, gdb, &types.NPSReductionCombined{}),
			"imports":   countRows(t, gdb, &types.ImportRecord{}),
		}
	}
	before := counts()

	summary, err := backup.Import(context.Background(), data)
	require.NoError(t, err)
	require.Equal(t, before, counts())
	require.Positive(t, summary.TablesImported)

	var total int64
	for _, n := range before {
		total += n
	}
	require.EqualValues(t, total, summary.TotalRecords)

	// Foreign keys survive verbatim: the contract still points at its
	// producer.
	var contract types.Contract
	require.NoError(t, gdb.Where("contract_number = ?", "C-1").First(&contract).Error)
	var producer types.Producer
	require.NoError(t, gdb.First(&producer, contract.ProducerID).Error)
	require.Equal(t, "P-1", producer.PersonID)
}

func TestBackupImportMissingVersion(t *testing.T) {
	gdb := newTestDB(t)
	seedDataset(t, newTestImportService(t, gdb))
	backup := NewBackupService(gdb, newTestLogger(t))

	before := countRows(t, gdb, &types.Producer{})

	_, err := backup.Import(context.Background(), []byte(`{"producers": []}`))
	require.ErrorIs(t, err, ErrBadBackup)

	// Validation happens before truncation.
	require.Equal(t, before, countRows(t, gdb, &types.Producer{}))
}

func TestBackupImportReplacesEverything(t *testing.T) {
	gdb := newTestDB(t)
	svc := newTestImportService(t, gdb)
	seedDataset(t, svc)

	backup := NewBackupService(gdb, newTestLogger(t))
	data, err := backup.Export(context.Background())
	require.NoError(t, err)

	// Replace the dataset with something else entirely, then restore.
	wb := buildWorkbook(t, costShareSheet(
		primaryRow(map[string]any{
			"PersonID": "P-99", "FullName": "Someone Else", "Contract ID": "C-99",
			"BMP": "Windbreak",
		}),
	))
	_, err = svc.ImportSpreadsheet(context.Background(), wb)
	require.NoError(t, err)
	require.EqualValues(t, 1, countRows(t, gdb, &types.Producer{}))

	_, err = backup.Import(context.Background(), data)
	require.NoError(t, err)

	require.EqualValues(t, 2, countRows(t, gdb, &types.Producer{}))
	var missing int64
	require.NoError(t, gdb.Model(&types.Producer{}).Where("person_id = ?", "P-99").Count(&missing).Error)
	require.Zero(t, missing, "restore is replace-all, not merge")
}
