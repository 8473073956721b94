package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/abelkristv/magang-sub001/internal/models"
)

const reportColumns = `id, type, person, status, report, student_name, sentiment, timestamp, writer`

// ReportRepository persists student reports.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository constructs a ReportRepository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// List returns the reports of one student, newest first, bounded by the
// optional inclusive date range.
func (r *ReportRepository) List(ctx context.Context, filter models.ReportFilter) ([]models.StudentReport, error) {
	conditions := []string{"student_name = $1"}
	args := []interface{}{filter.StudentName}
	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("timestamp >= $%d", len(args)+1))
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		conditions = append(conditions, fmt.Sprintf("timestamp <= $%d", len(args)+1))
		args = append(args, *filter.EndDate)
	}
	query := fmt.Sprintf("SELECT %s FROM student_reports WHERE %s ORDER BY timestamp DESC", reportColumns, strings.Join(conditions, " AND "))

	var reports []models.StudentReport
	if err := r.db.SelectContext(ctx, &reports, query, args...); err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

// ListByType returns every report of the given type, newest first.
func (r *ReportRepository) ListByType(ctx context.Context, reportType models.ReportType) ([]models.StudentReport, error) {
	query := `SELECT ` + reportColumns + ` FROM student_reports WHERE type = $1 ORDER BY timestamp DESC`
	var reports []models.StudentReport
	if err := r.db.SelectContext(ctx, &reports, query, reportType); err != nil {
		return nil, fmt.Errorf("list reports by type: %w", err)
	}
	return reports, nil
}

// ListByStudentNames returns the reports written about any of the named students.
func (r *ReportRepository) ListByStudentNames(ctx context.Context, names []string) ([]models.StudentReport, error) {
	query := `SELECT ` + reportColumns + ` FROM student_reports WHERE student_name = ANY($1)`
	var reports []models.StudentReport
	if err := r.db.SelectContext(ctx, &reports, query, pq.Array(names)); err != nil {
		return nil, fmt.Errorf("list reports by students: %w", err)
	}
	return reports, nil
}

// CountByStudentName counts the reports linked to a student name.
func (r *ReportRepository) CountByStudentName(ctx context.Context, name string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM student_reports WHERE student_name = $1`, name); err != nil {
		return 0, fmt.Errorf("count reports: %w", err)
	}
	return count, nil
}

// FindByID fetches a report by ID.
func (r *ReportRepository) FindByID(ctx context.Context, id string) (*models.StudentReport, error) {
	query := `SELECT ` + reportColumns + ` FROM student_reports WHERE id = $1`
	var report models.StudentReport
	if err := r.db.GetContext(ctx, &report, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find report: %w", err)
	}
	return &report, nil
}

// Create inserts a report.
func (r *ReportRepository) Create(ctx context.Context, report *models.StudentReport) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	const query = `INSERT INTO student_reports (` + reportColumns + `)
        VALUES (:id, :type, :person, :status, :report, :student_name, :sentiment, :timestamp, :writer)`
	if _, err := r.db.NamedExecContext(ctx, query, report); err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	return nil
}

// Update overwrites the mutable fields of a report.
func (r *ReportRepository) Update(ctx context.Context, report *models.StudentReport) error {
	const query = `UPDATE student_reports SET type = :type, person = :person, status = :status, report = :report,
        student_name = :student_name, timestamp = :timestamp, writer = :writer WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, report)
	if err != nil {
		return fmt.Errorf("update report: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a report. It returns sql.ErrNoRows when nothing matched.
func (r *ReportRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM student_reports WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
