package spreadsheet

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseCSVIsLenient(t *testing.T) {
	rows, err := ParseCSV(strings.NewReader("name,nim\nAlice,1,extra\nBob \"the\" builder,2\n"))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Len(t, rows[1], 3)
	assert.Equal(t, `Bob "the" builder`, rows[2][0])
}

func TestSheetCellOutOfRange(t *testing.T) {
	s := Sheet{Rows: [][]string{{" a ", "b"}, {"c"}}}
	assert.Equal(t, "a", s.Cell(0, 0))
	assert.Equal(t, "", s.Cell(1, 1))
	assert.Equal(t, "", s.Cell(5, 0))
	assert.Equal(t, "", s.Cell(0, -1))
}

func TestWorkbookFindSheetIgnoresCase(t *testing.T) {
	wb := Workbook{Sheets: []Sheet{{Name: "Data Update 2024"}, {Name: "Mapping FS"}, {Name: "LP List"}}}

	s, ok := wb.FindSheet("mapping fs")
	require.True(t, ok)
	assert.Equal(t, "Mapping FS", s.Name)

	_, ok = wb.FindSheet("missing")
	assert.False(t, ok)
}

func TestReadCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.csv")
	require.NoError(t, os.WriteFile(path, []byte("name,nim\nAlice,1\n"), 0o600))

	wb, err := Read(path)
	require.NoError(t, err)
	require.Len(t, wb.Sheets, 1)
	assert.Equal(t, "roster", wb.Sheets[0].Name)
	assert.Equal(t, "Alice", wb.Sheets[0].Cell(1, 0))
}

func TestReadXLSXFile(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "Update"))
	_, err := f.NewSheet("LP")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Update", "A1", &[]string{"Nama", "NIM"}))
	require.NoError(t, f.SetSheetRow("Update", "A2", &[]string{"Alice", "2501"}))
	require.NoError(t, f.SetSheetRow("LP", "A1", &[]string{"Nama", "Site Supervisor"}))

	path := filepath.Join(t.TempDir(), "import.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	wb, err := Read(path)
	require.NoError(t, err)
	require.Len(t, wb.Sheets, 2)

	update, ok := wb.FindSheet("update")
	require.True(t, ok)
	assert.Equal(t, "2501", update.Cell(1, 1))
}

func TestReadRejectsUnknownExtension(t *testing.T) {
	_, err := Read("notes.txt")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	assert.False(t, SupportedExtension("notes.txt"))
	assert.True(t, SupportedExtension("DATA.XLSX"))
}
