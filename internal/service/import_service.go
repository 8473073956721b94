package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/abelkristv/magang-sub001/internal/dto"
	"github.com/abelkristv/magang-sub001/internal/models"
	appErrors "github.com/abelkristv/magang-sub001/pkg/errors"
	"github.com/abelkristv/magang-sub001/pkg/spreadsheet"
)

const (
	sheetUpdate  = "update"
	sheetMapping = "mapping fs"
	sheetLP      = "lp"

	rosterMarker     = "table6"
	importedSemester = "6"
)

// Header keywords, matched as lowercase substrings.
var (
	colName         = []string{"nama", "name"}
	colNIM          = []string{"nim"}
	colEmail        = []string{"email"}
	colMajor        = []string{"major", "jurusan", "prodi", "program"}
	colPhone        = []string{"phone", "telp", "no hp", "no. hp", "whatsapp"}
	colFS           = []string{"fs", "faculty supervisor", "dosen"}
	colSite         = []string{"site supervisor", "pembimbing lapangan", "supervisor"}
	colOrganization = []string{"organization", "organisasi", "perusahaan", "company", "tempat"}
)

type studentBulkInserter interface {
	BulkInsert(ctx context.Context, students []models.Student) (int, error)
}

// ImportRecord is a student built from a roster row, with its origin.
type ImportRecord struct {
	Sheet   string
	Row     int
	Student models.Student
}

// ImportResult is the outcome of Transform.
type ImportResult struct {
	Records []ImportRecord
	Skipped []dto.SkippedRow
}

// ImportService turns the enrichment office workbook into student rows.
type ImportService struct {
	repo    studentBulkInserter
	metrics *MetricsService
	logger  *zap.Logger
}

// NewImportService constructs the service.
func NewImportService(repo studentBulkInserter, metrics *MetricsService, logger *zap.Logger) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportService{repo: repo, metrics: metrics, logger: logger}
}

// Import transforms wb and saves the resulting records.
func (s *ImportService) Import(ctx context.Context, wb *spreadsheet.Workbook, period string) (*dto.ImportResponse, error) {
	period = strings.TrimSpace(period)
	if period == "" {
		return nil, appErrors.Validation("period is required")
	}
	result, err := s.Transform(wb, period)
	if err != nil {
		return nil, err
	}
	inserted, dropped, err := s.Save(ctx, result.Records)
	if err != nil {
		return nil, err
	}
	skipped := append(result.Skipped, dropped...)
	if skipped == nil {
		skipped = []dto.SkippedRow{}
	}
	return &dto.ImportResponse{Parsed: len(result.Records), Inserted: inserted, Skipped: skipped}, nil
}

// Transform builds one record per roster row. Rows without a student name
// are reported in Skipped instead of failing the import.
func (s *ImportService) Transform(wb *spreadsheet.Workbook, period string) (*ImportResult, error) {
	if wb == nil {
		return nil, appErrors.Validation("workbook is empty")
	}
	update, err := requireSheet(wb, sheetUpdate)
	if err != nil {
		return nil, err
	}
	mapping, err := requireSheet(wb, sheetMapping)
	if err != nil {
		return nil, err
	}
	lp, err := requireSheet(wb, sheetLP)
	if err != nil {
		return nil, err
	}

	marker := findMarker(mapping, rosterMarker)
	mappingEnd := len(mapping.Rows)
	if marker >= 0 {
		mappingEnd = marker
	}

	facultyByName := map[string]string{}
	if t, ok := locateTable(mapping, 0, mappingEnd); ok {
		fs := t.column(colFS)
		name := t.column(colName, fs)
		t.each(func(row int) {
			if key := normalizeName(t.cell(row, name)); key != "" {
				facultyByName[key] = t.cell(row, fs)
			}
		})
	}

	siteByName := map[string]string{}
	orgByName := map[string]string{}
	if t, ok := locateTable(lp, 0, len(lp.Rows)); ok {
		site := t.column(colSite)
		org := t.column(colOrganization, site)
		name := t.column(colName, site, org)
		t.each(func(row int) {
			key := normalizeName(t.cell(row, name))
			if key == "" {
				return
			}
			siteByName[key] = t.cell(row, site)
			orgByName[key] = t.cell(row, org)
		})
	}

	updates := map[string]contactValues{}
	if t, ok := locateTable(update, 0, len(update.Rows)); ok {
		cols := t.contactColumns()
		t.each(func(row int) {
			if key := normalizeName(t.cell(row, cols.name)); key != "" {
				updates[key] = cols.read(t, row)
			}
		})
	}

	rosterStart := 0
	if marker >= 0 {
		rosterStart = marker + 1
	} else {
		s.logger.Warn("roster marker not found, reading the whole sheet", zap.String("sheet", mapping.Name), zap.String("marker", rosterMarker))
	}

	result := &ImportResult{Records: []ImportRecord{}, Skipped: []dto.SkippedRow{}}
	roster, ok := locateTable(mapping, rosterStart, len(mapping.Rows))
	if !ok {
		return result, nil
	}
	cols := roster.contactColumns()
	fsCol := roster.column(colFS, cols.name)

	roster.each(func(row int) {
		line := row + 1
		name := roster.cell(row, cols.name)
		if name == "" {
			s.logger.Warn("skipping roster row without student name", zap.String("sheet", mapping.Name), zap.Int("row", line))
			result.Skipped = append(result.Skipped, dto.SkippedRow{Sheet: mapping.Name, Row: line, Reason: "missing student name"})
			return
		}
		key := normalizeName(name)
		own := cols.read(roster, row)
		fallback := updates[key]

		faculty := facultyByName[key]
		if faculty == "" {
			faculty = roster.cell(row, fsCol)
		}
		result.Records = append(result.Records, ImportRecord{
			Sheet: mapping.Name,
			Row:   line,
			Student: models.Student{
				Name:              name,
				Email:             firstNonEmpty(own.email, fallback.email),
				Major:             firstNonEmpty(own.major, fallback.major),
				NIM:               stringifyNumber(firstNonEmpty(own.nim, fallback.nim)),
				Semester:          importedSemester,
				Period:            period,
				TempatMagang:      orgByName[key],
				Phone:             stringifyNumber(firstNonEmpty(own.phone, fallback.phone)),
				Status:            models.StudentStatusActive,
				FacultySupervisor: faculty,
				SiteSupervisor:    siteByName[key],
			},
		})
	})
	return result, nil
}

// Save drops records still missing name, nim or major and bulk-inserts the
// rest. Students whose nim already exists are left untouched.
func (s *ImportService) Save(ctx context.Context, records []ImportRecord) (int, []dto.SkippedRow, error) {
	skipped := []dto.SkippedRow{}
	valid := make([]models.Student, 0, len(records))
	for _, r := range records {
		var missing []string
		if strings.TrimSpace(r.Student.Name) == "" {
			missing = append(missing, "name")
		}
		if strings.TrimSpace(r.Student.NIM) == "" {
			missing = append(missing, "nim")
		}
		if strings.TrimSpace(r.Student.Major) == "" {
			missing = append(missing, "major")
		}
		if len(missing) > 0 {
			reason := "missing " + strings.Join(missing, ", ")
			s.logger.Warn("dropping invalid student record", zap.String("name", r.Student.Name), zap.Int("row", r.Row), zap.String("reason", reason))
			skipped = append(skipped, dto.SkippedRow{Sheet: r.Sheet, Row: r.Row, Name: r.Student.Name, Reason: reason})
			continue
		}
		valid = append(valid, r.Student)
	}
	s.metrics.RecordImportRows("skipped", len(skipped))

	if len(valid) == 0 {
		return 0, skipped, nil
	}
	inserted, err := s.repo.BulkInsert(ctx, valid)
	if err != nil {
		return 0, nil, appErrors.Internal(err, "failed to save students")
	}
	s.metrics.RecordImportRows("inserted", inserted)
	s.metrics.RecordImportRows("duplicate", len(valid)-inserted)
	s.logger.Info("students imported", zap.Int("valid", len(valid)), zap.Int("inserted", inserted), zap.Int("skipped", len(skipped)))
	return inserted, skipped, nil
}

func requireSheet(wb *spreadsheet.Workbook, needle string) (spreadsheet.Sheet, error) {
	sheet, ok := wb.FindSheet(needle)
	if !ok {
		return sheet, appErrors.Clone(appErrors.ErrMissingSheet, fmt.Sprintf("sheet containing %q not found", needle))
	}
	return sheet, nil
}

// findMarker returns the index of the first row holding a cell equal to
// marker, ignoring case and spaces, or -1.
func findMarker(sheet spreadsheet.Sheet, marker string) int {
	for r, row := range sheet.Rows {
		for c := range row {
			if strings.ReplaceAll(strings.ToLower(sheet.Cell(r, c)), " ", "") == marker {
				return r
			}
		}
	}
	return -1
}

// table is a header row plus the data rows below it, bounded by end.
type table struct {
	sheet  spreadsheet.Sheet
	header []string
	first  int
	end    int
}

// locateTable uses the first non-empty row in [start, end) as header.
func locateTable(sheet spreadsheet.Sheet, start, end int) (table, bool) {
	if end > len(sheet.Rows) {
		end = len(sheet.Rows)
	}
	for r := start; r < end; r++ {
		if rowEmpty(sheet, r) {
			continue
		}
		header := make([]string, len(sheet.Rows[r]))
		for c := range header {
			header[c] = strings.ToLower(sheet.Cell(r, c))
		}
		return table{sheet: sheet, header: header, first: r + 1, end: end}, true
	}
	return table{}, false
}

// column returns the first header containing one of keywords, skipping the
// given indexes, or -1.
func (t table) column(keywords []string, skip ...int) int {
	for c, h := range t.header {
		if h == "" || containsInt(skip, c) {
			continue
		}
		for _, k := range keywords {
			if strings.Contains(h, k) {
				return c
			}
		}
	}
	return -1
}

func (t table) cell(row, col int) string {
	if col < 0 {
		return ""
	}
	return t.sheet.Cell(row, col)
}

// each calls fn with the sheet index of every non-empty data row.
func (t table) each(fn func(row int)) {
	for r := t.first; r < t.end; r++ {
		if rowEmpty(t.sheet, r) {
			continue
		}
		fn(r)
	}
}

type contactColumns struct {
	name, email, major, nim, phone int
}

type contactValues struct {
	email, major, nim, phone string
}

func (t table) contactColumns() contactColumns {
	cols := contactColumns{
		email: t.column(colEmail),
		nim:   t.column(colNIM),
		phone: t.column(colPhone),
	}
	cols.major = t.column(colMajor, cols.email)
	cols.name = t.column(colName, cols.email, cols.nim, cols.major, t.column(colFS), t.column(colSite))
	return cols
}

func (c contactColumns) read(t table, row int) contactValues {
	return contactValues{
		email: t.cell(row, c.email),
		major: t.cell(row, c.major),
		nim:   t.cell(row, c.nim),
		phone: t.cell(row, c.phone),
	}
}

func rowEmpty(sheet spreadsheet.Sheet, r int) bool {
	for c := range sheet.Rows[r] {
		if sheet.Cell(r, c) != "" {
			return false
		}
	}
	return true
}

func normalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// stringifyNumber undoes spreadsheet number formatting on identifiers such
// as "2301234567.0" or "2.301234567e+09".
func stringifyNumber(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || !strings.ContainsAny(v, ".eE") {
		return v
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f != float64(int64(f)) {
		return v
	}
	return strconv.FormatInt(int64(f), 10)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
