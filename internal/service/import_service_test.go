package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abelkristv/magang-sub001/internal/dto"
	"github.com/abelkristv/magang-sub001/internal/models"
	appErrors "github.com/abelkristv/magang-sub001/pkg/errors"
	"github.com/abelkristv/magang-sub001/pkg/spreadsheet"
)

type mockBulkInserter struct {
	existing map[string]bool
	received []models.Student
	err      error
}

func (m *mockBulkInserter) BulkInsert(ctx context.Context, students []models.Student) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.received = students
	inserted := 0
	for _, s := range students {
		if !m.existing[s.NIM] {
			inserted++
		}
	}
	return inserted, nil
}

func enrichmentWorkbook() *spreadsheet.Workbook {
	return &spreadsheet.Workbook{Sheets: []spreadsheet.Sheet{
		{Name: "Update Data", Rows: [][]string{
			{"Nama", "NIM", "Email", "Jurusan", "No HP"},
			{"Alice", "2301", "alice@example.com", "Computer Science", "0812"},
			{"Bob", "2302", "bob@example.com", "Information Systems", "6.2812345e+10"},
		}},
		{Name: "Mapping FS", Rows: [][]string{
			{"Nama Mahasiswa", "FS"},
			{"Alice", "Dr. Faculty"},
			{"bob ", "Dr. Second"},
			{},
			{"Table6"},
			{"No", "Nama", "NIM"},
			{"1", "Alice", "2301.0"},
			{"2", "", ""},
			{"3", "Bob", ""},
			{"4", "Dan", ""},
		}},
		{Name: "LP", Rows: [][]string{
			{"Name", "Site Supervisor", "Organization"},
			{"ALICE", "Mr. Site", "Acme Corp"},
		}},
	}}
}

func TestImportServiceTransformBuildsRosterRecords(t *testing.T) {
	svc := NewImportService(&mockBulkInserter{}, nil, nil)

	result, err := svc.Transform(enrichmentWorkbook(), "Batch 12")
	require.NoError(t, err)
	require.Len(t, result.Records, 3)

	alice := result.Records[0]
	assert.Equal(t, 7, alice.Row)
	assert.Equal(t, models.Student{
		Name:              "Alice",
		NIM:               "2301",
		Email:             "alice@example.com",
		Major:             "Computer Science",
		Semester:          "6",
		Period:            "Batch 12",
		TempatMagang:      "Acme Corp",
		Phone:             "0812",
		Status:            models.StudentStatusActive,
		FacultySupervisor: "Dr. Faculty",
		SiteSupervisor:    "Mr. Site",
	}, alice.Student)

	bob := result.Records[1].Student
	assert.Equal(t, "2302", bob.NIM)
	assert.Equal(t, "62812345000", bob.Phone)
	assert.Equal(t, "Dr. Second", bob.FacultySupervisor)
	assert.Empty(t, bob.SiteSupervisor)

	assert.Equal(t, []dto.SkippedRow{{Sheet: "Mapping FS", Row: 8, Reason: "missing student name"}}, result.Skipped)
}

func TestImportServiceTransformMissingSheet(t *testing.T) {
	svc := NewImportService(&mockBulkInserter{}, nil, nil)
	wb := enrichmentWorkbook()
	wb.Sheets = wb.Sheets[:2]

	_, err := svc.Transform(wb, "Batch 12")
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrMissingSheet))
	assert.Contains(t, err.Error(), `"lp"`)
}

func TestImportServiceTransformWithoutMarkerReadsWholeSheet(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	svc := NewImportService(&mockBulkInserter{}, nil, zap.New(core))
	wb := enrichmentWorkbook()
	wb.Sheets[1].Rows = [][]string{
		{"Nama", "FS", "NIM", "Jurusan"},
		{"Alice", "Dr. Faculty", "2301", "Computer Science"},
	}

	result, err := svc.Transform(wb, "Batch 12")
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "Dr. Faculty", result.Records[0].Student.FacultySupervisor)
	assert.Equal(t, 1, logs.FilterMessage("roster marker not found, reading the whole sheet").Len())
}

func TestImportServiceSaveDropsIncompleteRecords(t *testing.T) {
	repo := &mockBulkInserter{existing: map[string]bool{"2302": true}}
	svc := NewImportService(repo, NewMetricsService(), nil)

	result, err := svc.Transform(enrichmentWorkbook(), "Batch 12")
	require.NoError(t, err)

	inserted, dropped, err := svc.Save(context.Background(), result.Records)
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)
	require.Len(t, repo.received, 2)
	require.Len(t, dropped, 1)
	assert.Equal(t, "Dan", dropped[0].Name)
	assert.Equal(t, 10, dropped[0].Row)
	assert.Equal(t, "missing nim, major", dropped[0].Reason)
}

func TestImportServiceImport(t *testing.T) {
	svc := NewImportService(&mockBulkInserter{}, nil, nil)

	_, err := svc.Import(context.Background(), enrichmentWorkbook(), " ")
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	resp, err := svc.Import(context.Background(), enrichmentWorkbook(), "Batch 12")
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Parsed)
	assert.Equal(t, 2, resp.Inserted)
	assert.Len(t, resp.Skipped, 2)
}

func TestImportServiceSaveRepositoryFailure(t *testing.T) {
	svc := NewImportService(&mockBulkInserter{err: errors.New("db down")}, nil, nil)
	_, _, err := svc.Save(context.Background(), []ImportRecord{{Student: models.Student{Name: "A", NIM: "1", Major: "CS"}}})
	assert.True(t, errors.Is(err, appErrors.ErrInternal))
}

func TestStringifyNumber(t *testing.T) {
	assert.Equal(t, "2301", stringifyNumber("2301.0"))
	assert.Equal(t, "0812", stringifyNumber("0812"))
	assert.Equal(t, "2301234567", stringifyNumber("2.301234567e+09"))
	assert.Equal(t, "12.5", stringifyNumber("12.5"))
	assert.Equal(t, "abc.def", stringifyNumber("abc.def"))
}
