package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abelkristv/magang-sub001/internal/models"
)

func TestReferenceRepositoryLists(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReferenceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, address FROM companies ORDER BY name ASC")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "address"}).AddRow("c1", "Acme", "Jakarta"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM periods ORDER BY name ASC")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow("p1", "Batch 3"))

	companies, err := repo.ListCompanies(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Acme", companies[0].Name)

	periods, err := repo.ListPeriods(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Batch 3", periods[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReferenceRepositoryCreateMajor(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewReferenceRepository(db)

	mock.ExpectExec("INSERT INTO majors").WillReturnResult(sqlmock.NewResult(1, 1))

	major := &models.Major{Name: "Computer Science"}
	require.NoError(t, repo.CreateMajor(context.Background(), major))
	assert.NotEmpty(t, major.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
