package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/abelkristv/magang-sub001/pkg/spreadsheet"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "Students",
		Headers: []string{"Name", "NIM", "Period"},
		Rows: [][]string{
			{"Alice", "2501", "Batch 3"},
			{"Bob, Jr.", "2502"},
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	f, err = ParseFormat(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)
	assert.Equal(t, "application/pdf", f.ContentType())

	_, err = ParseFormat("docx")
	assert.Error(t, err)
}

func TestCSVExporterPadsShortRows(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)

	rows, err := spreadsheet.ParseCSV(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Name", "NIM", "Period"},
		{"Alice", "2501", "Batch 3"},
		{"Bob, Jr.", "2502", ""},
	}, rows)
}

func TestXLSXExporterWritesNamedSheet(t *testing.T) {
	out, err := Render(FormatXLSX, sampleDataset())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	assert.Equal(t, []string{"Students"}, f.GetSheetList())
	rows, err := f.GetRows("Students")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Name", "NIM", "Period"}, rows[0])
	assert.Equal(t, "Bob, Jr.", rows[2][0])
}

func TestPDFExporterProducesDocument(t *testing.T) {
	data := sampleDataset()
	for i := 0; i < 60; i++ {
		data.Rows = append(data.Rows, []string{"Student with a rather long name that will be truncated", "1", "Batch 1"})
	}
	out, err := Render(FormatPDF, data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderRequiresHeaders(t *testing.T) {
	for _, f := range []Format{FormatCSV, FormatXLSX, FormatPDF} {
		_, err := Render(f, Dataset{})
		assert.Error(t, err, string(f))
	}
}
