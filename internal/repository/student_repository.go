package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/abelkristv/magang-sub001/internal/models"
	"github.com/abelkristv/magang-sub001/pkg/database"
)

const studentColumns = `id, name, nim, email, major, semester, period, tempat_magang, phone, image_url, status, faculty_supervisor, site_supervisor, notes, created_at, updated_at`

// StudentRepository manages persistence for intern records.
type StudentRepository struct {
	db *sqlx.DB
}

// likeEscaper makes LIKE wildcards in user input match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns the requested page of students matching the filter and the
// total number of matches. Period matches on the first run of digits of the
// stored period label.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	var (
		conditions = []string{"1=1"}
		args       []interface{}
	)
	if filter.Name != "" {
		conditions = append(conditions, fmt.Sprintf(`LOWER(name) LIKE $%d ESCAPE '\'`, len(args)+1))
		args = append(args, "%"+likeEscaper.Replace(strings.ToLower(filter.Name))+"%")
	}
	if filter.Period != "" {
		conditions = append(conditions, fmt.Sprintf("substring(period from '[0-9]+') = $%d", len(args)+1))
		args = append(args, filter.Period)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	where := strings.Join(conditions, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := (page - 1) * limit

	query := fmt.Sprintf(`SELECT %s FROM students WHERE %s ORDER BY name ASC LIMIT %d OFFSET %d`, studentColumns, where, limit, offset)
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) FROM students WHERE %s", where), args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// FindByID fetches a student by ID.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find student: %w", err)
	}
	return &student, nil
}

// UpdateNotes replaces the advisor notes of a student.
func (r *StudentRepository) UpdateNotes(ctx context.Context, id, notes string) error {
	const query = `UPDATE students SET notes = $2, updated_at = $3 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, notes, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update student notes: %w", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// BulkInsert inserts students in one transaction, skipping rows whose NIM
// already exists. It returns the number of rows inserted.
func (r *StudentRepository) BulkInsert(ctx context.Context, students []models.Student) (int, error) {
	if len(students) == 0 {
		return 0, nil
	}
	const query = `INSERT INTO students (` + studentColumns + `)
        VALUES (:id, :name, :nim, :email, :major, :semester, :period, :tempat_magang, :phone, :image_url, :status, :faculty_supervisor, :site_supervisor, :notes, :created_at, :updated_at)
        ON CONFLICT (nim) DO NOTHING`

	inserted := 0
	err := database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		now := time.Now().UTC()
		for i := range students {
			s := &students[i]
			if s.ID == "" {
				s.ID = uuid.NewString()
			}
			if s.CreatedAt.IsZero() {
				s.CreatedAt = now
			}
			s.UpdatedAt = now
			res, err := tx.NamedExecContext(ctx, query, s)
			if err != nil {
				return fmt.Errorf("insert student %s: %w", s.NIM, err)
			}
			if rows, err := res.RowsAffected(); err == nil {
				inserted += int(rows)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}
