package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/abelkristv/magang-sub001/internal/models"
)

// ReferenceRepository reads and writes the lookup tables.
type ReferenceRepository struct {
	db *sqlx.DB
}

// NewReferenceRepository constructs a ReferenceRepository.
func NewReferenceRepository(db *sqlx.DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

// ListCompanies returns all placement organisations ordered by name.
func (r *ReferenceRepository) ListCompanies(ctx context.Context) ([]models.Company, error) {
	var companies []models.Company
	if err := r.db.SelectContext(ctx, &companies, `SELECT id, name, address FROM companies ORDER BY name ASC`); err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	return companies, nil
}

// ListMajors returns all majors ordered by name.
func (r *ReferenceRepository) ListMajors(ctx context.Context) ([]models.Major, error) {
	var majors []models.Major
	if err := r.db.SelectContext(ctx, &majors, `SELECT id, name FROM majors ORDER BY name ASC`); err != nil {
		return nil, fmt.Errorf("list majors: %w", err)
	}
	return majors, nil
}

// CreateMajor inserts a major.
func (r *ReferenceRepository) CreateMajor(ctx context.Context, major *models.Major) error {
	if major.ID == "" {
		major.ID = uuid.NewString()
	}
	if _, err := r.db.NamedExecContext(ctx, `INSERT INTO majors (id, name) VALUES (:id, :name)`, major); err != nil {
		return fmt.Errorf("create major: %w", err)
	}
	return nil
}

// ListPeriods returns all periods ordered by name.
func (r *ReferenceRepository) ListPeriods(ctx context.Context) ([]models.Period, error) {
	var periods []models.Period
	if err := r.db.SelectContext(ctx, &periods, `SELECT id, name FROM periods ORDER BY name ASC`); err != nil {
		return nil, fmt.Errorf("list periods: %w", err)
	}
	return periods, nil
}

// CreatePeriod inserts a period.
func (r *ReferenceRepository) CreatePeriod(ctx context.Context, period *models.Period) error {
	if period.ID == "" {
		period.ID = uuid.NewString()
	}
	if _, err := r.db.NamedExecContext(ctx, `INSERT INTO periods (id, name) VALUES (:id, :name)`, period); err != nil {
		return fmt.Errorf("create period: %w", err)
	}
	return nil
}
