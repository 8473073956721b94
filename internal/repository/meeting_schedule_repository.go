package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/abelkristv/magang-sub001/internal/models"
)

const meetingColumns = `id, student_report_id, time_start, time_end, date, place, type, description, created_at`

// MeetingScheduleRepository persists follow-up meetings.
type MeetingScheduleRepository struct {
	db *sqlx.DB
}

// NewMeetingScheduleRepository constructs a MeetingScheduleRepository.
func NewMeetingScheduleRepository(db *sqlx.DB) *MeetingScheduleRepository {
	return &MeetingScheduleRepository{db: db}
}

// ListByReportIDs returns the schedules of the given reports joined with the
// writer of each parent report, oldest first.
func (r *MeetingScheduleRepository) ListByReportIDs(ctx context.Context, reportIDs []string) ([]models.MeetingScheduleWithWriter, error) {
	const query = `SELECT ms.id, ms.student_report_id, ms.time_start, ms.time_end, ms.date, ms.place, ms.type, ms.description, ms.created_at, sr.writer
        FROM meeting_schedules ms
        JOIN student_reports sr ON sr.id = ms.student_report_id
        WHERE ms.student_report_id = ANY($1)
        ORDER BY ms.created_at ASC`
	var schedules []models.MeetingScheduleWithWriter
	if err := r.db.SelectContext(ctx, &schedules, query, pq.Array(reportIDs)); err != nil {
		return nil, fmt.Errorf("list meeting schedules: %w", err)
	}
	return schedules, nil
}

// ListByReport returns the schedules of one report, oldest first.
func (r *MeetingScheduleRepository) ListByReport(ctx context.Context, reportID string) ([]models.MeetingSchedule, error) {
	query := `SELECT ` + meetingColumns + ` FROM meeting_schedules WHERE student_report_id = $1 ORDER BY created_at ASC`
	var schedules []models.MeetingSchedule
	if err := r.db.SelectContext(ctx, &schedules, query, reportID); err != nil {
		return nil, fmt.Errorf("list report schedules: %w", err)
	}
	return schedules, nil
}

// FindByID fetches a schedule by ID.
func (r *MeetingScheduleRepository) FindByID(ctx context.Context, id string) (*models.MeetingSchedule, error) {
	query := `SELECT ` + meetingColumns + ` FROM meeting_schedules WHERE id = $1`
	var schedule models.MeetingSchedule
	if err := r.db.GetContext(ctx, &schedule, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find meeting schedule: %w", err)
	}
	return &schedule, nil
}

// Create inserts a schedule.
func (r *MeetingScheduleRepository) Create(ctx context.Context, schedule *models.MeetingSchedule) error {
	if schedule.ID == "" {
		schedule.ID = uuid.NewString()
	}
	if schedule.CreatedAt.IsZero() {
		schedule.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO meeting_schedules (` + meetingColumns + `)
        VALUES (:id, :student_report_id, :time_start, :time_end, :date, :place, :type, :description, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, schedule); err != nil {
		return fmt.Errorf("create meeting schedule: %w", err)
	}
	return nil
}

// Update overwrites a schedule. It returns sql.ErrNoRows when nothing matched.
func (r *MeetingScheduleRepository) Update(ctx context.Context, schedule *models.MeetingSchedule) error {
	const query = `UPDATE meeting_schedules SET time_start = :time_start, time_end = :time_end, date = :date, place = :place,
        type = :type, description = :description WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, schedule)
	if err != nil {
		return fmt.Errorf("update meeting schedule: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a schedule. It returns sql.ErrNoRows when nothing matched.
func (r *MeetingScheduleRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM meeting_schedules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete meeting schedule: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
