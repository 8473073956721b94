package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/abelkristv/magang-sub001/internal/models"
	"github.com/abelkristv/magang-sub001/pkg/database"
)

const (
	documentationColumns = `id, title, nomor_undangan, description, leader, place, time, timestamp, attendance_list, results, pictures, type, writer`
	detailColumns        = `id, documentation_id, discussion_title, person_responsible, further_actions, deadline`
)

// DocumentationRepository persists documentation entries and their
// discussion details. Parent and detail rows are always written together.
type DocumentationRepository struct {
	db *sqlx.DB
}

// NewDocumentationRepository constructs a DocumentationRepository.
func NewDocumentationRepository(db *sqlx.DB) *DocumentationRepository {
	return &DocumentationRepository{db: db}
}

// List returns every documentation entry, newest first.
func (r *DocumentationRepository) List(ctx context.Context) ([]models.Documentation, error) {
	query := `SELECT ` + documentationColumns + ` FROM documentations ORDER BY timestamp DESC`
	var docs []models.Documentation
	if err := r.db.SelectContext(ctx, &docs, query); err != nil {
		return nil, fmt.Errorf("list documentation: %w", err)
	}
	return docs, nil
}

// ListByWriter returns the entries written by the given email, newest first.
func (r *DocumentationRepository) ListByWriter(ctx context.Context, email string) ([]models.Documentation, error) {
	query := `SELECT ` + documentationColumns + ` FROM documentations WHERE writer = $1 ORDER BY timestamp DESC`
	var docs []models.Documentation
	if err := r.db.SelectContext(ctx, &docs, query, email); err != nil {
		return nil, fmt.Errorf("list documentation by writer: %w", err)
	}
	return docs, nil
}

// FindByID fetches a documentation entry by ID.
func (r *DocumentationRepository) FindByID(ctx context.Context, id string) (*models.Documentation, error) {
	query := `SELECT ` + documentationColumns + ` FROM documentations WHERE id = $1`
	var doc models.Documentation
	if err := r.db.GetContext(ctx, &doc, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find documentation: %w", err)
	}
	return &doc, nil
}

// ListDetails returns the discussion details of the given entries.
func (r *DocumentationRepository) ListDetails(ctx context.Context, documentationIDs []string) ([]models.DiscussionDetail, error) {
	if len(documentationIDs) == 0 {
		return nil, nil
	}
	query := `SELECT ` + detailColumns + ` FROM discussion_details WHERE documentation_id = ANY($1) ORDER BY deadline ASC`
	var details []models.DiscussionDetail
	if err := r.db.SelectContext(ctx, &details, query, pq.Array(documentationIDs)); err != nil {
		return nil, fmt.Errorf("list discussion details: %w", err)
	}
	return details, nil
}

// CreateWithDetails inserts an entry and its details in one transaction.
func (r *DocumentationRepository) CreateWithDetails(ctx context.Context, doc *models.Documentation, details []models.DiscussionDetail) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		const query = `INSERT INTO documentations (` + documentationColumns + `)
            VALUES (:id, :title, :nomor_undangan, :description, :leader, :place, :time, :timestamp, :attendance_list, :results, :pictures, :type, :writer)`
		if _, err := tx.NamedExecContext(ctx, query, doc); err != nil {
			return fmt.Errorf("create documentation: %w", err)
		}
		return insertDetails(ctx, tx, doc.ID, details)
	})
}

// UpdateWithDetails overwrites an entry and replaces all of its details in one
// transaction. Writer and timestamp are left as stored. It returns
// sql.ErrNoRows when the entry does not exist.
func (r *DocumentationRepository) UpdateWithDetails(ctx context.Context, doc *models.Documentation, details []models.DiscussionDetail) error {
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		const query = `UPDATE documentations SET title = :title, nomor_undangan = :nomor_undangan, description = :description,
            leader = :leader, place = :place, time = :time, attendance_list = :attendance_list,
            results = :results, pictures = :pictures, type = :type WHERE id = :id`
		res, err := tx.NamedExecContext(ctx, query, doc)
		if err != nil {
			return fmt.Errorf("update documentation: %w", err)
		}
		if rows, err := res.RowsAffected(); err == nil && rows == 0 {
			return sql.ErrNoRows
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM discussion_details WHERE documentation_id = $1`, doc.ID); err != nil {
			return fmt.Errorf("clear discussion details: %w", err)
		}
		return insertDetails(ctx, tx, doc.ID, details)
	})
}

// Delete removes an entry together with its details.
func (r *DocumentationRepository) Delete(ctx context.Context, id string) error {
	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM discussion_details WHERE documentation_id = $1`, id); err != nil {
			return fmt.Errorf("delete discussion details: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM documentations WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete documentation: %w", err)
		}
		if rows, err := res.RowsAffected(); err == nil && rows == 0 {
			return sql.ErrNoRows
		}
		return nil
	})
}

func insertDetails(ctx context.Context, tx *sqlx.Tx, documentationID string, details []models.DiscussionDetail) error {
	const query = `INSERT INTO discussion_details (` + detailColumns + `)
        VALUES (:id, :documentation_id, :discussion_title, :person_responsible, :further_actions, :deadline)`
	for i := range details {
		d := &details[i]
		if d.ID == "" {
			d.ID = uuid.NewString()
		}
		d.DocumentationID = documentationID
		if _, err := tx.NamedExecContext(ctx, query, d); err != nil {
			return fmt.Errorf("create discussion detail: %w", err)
		}
	}
	return nil
}
