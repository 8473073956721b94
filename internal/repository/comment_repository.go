package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/abelkristv/magang-sub001/internal/models"
)

// CommentRepository persists follow-up comments on reports.
type CommentRepository struct {
	db *sqlx.DB
}

// NewCommentRepository constructs a CommentRepository.
func NewCommentRepository(db *sqlx.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// ListByReport returns the comments of a report in creation order.
func (r *CommentRepository) ListByReport(ctx context.Context, reportID string) ([]models.Comment, error) {
	const query = `SELECT id, student_report_id, writer, content, created_at FROM report_comments WHERE student_report_id = $1 ORDER BY created_at ASC`
	var comments []models.Comment
	if err := r.db.SelectContext(ctx, &comments, query, reportID); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// Create inserts a comment.
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO report_comments (id, student_report_id, writer, content, created_at)
        VALUES (:id, :student_report_id, :writer, :content, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, comment); err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

// CountByReportIDs counts comments grouped by report. Reports without
// comments are absent from the result.
func (r *CommentRepository) CountByReportIDs(ctx context.Context, reportIDs []string) ([]models.ReportCommentCount, error) {
	if len(reportIDs) == 0 {
		return nil, nil
	}
	const query = `SELECT student_report_id, COUNT(*) AS count FROM report_comments WHERE student_report_id = ANY($1) GROUP BY student_report_id`
	var counts []models.ReportCommentCount
	if err := r.db.SelectContext(ctx, &counts, query, pq.Array(reportIDs)); err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}
	return counts, nil
}
