package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abelkristv/magang-sub001/internal/models"
)

func sampleDocumentation() *models.Documentation {
	return &models.Documentation{
		Title:          "Kickoff",
		Time:           time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC),
		Timestamp:      time.Now().UTC(),
		AttendanceList: []string{"Alice", "Bob"},
		Results:        []string{"agreed"},
		Type:           models.DocumentationMeeting,
		Writer:         "adv@example.com",
	}
}

func TestDocumentationRepositoryCreateWithDetailsCommits(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewDocumentationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO documentations").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO discussion_details").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO discussion_details").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	doc := sampleDocumentation()
	details := []models.DiscussionDetail{{DiscussionTitle: "a"}, {DiscussionTitle: "b"}}
	require.NoError(t, repo.CreateWithDetails(context.Background(), doc, details))
	assert.NotEmpty(t, doc.ID)
	for _, d := range details {
		assert.Equal(t, doc.ID, d.DocumentationID)
		assert.NotEmpty(t, d.ID)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentationRepositoryCreateRollsBackOnDetailFailure(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewDocumentationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO documentations").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO discussion_details").WillReturnError(errors.New("constraint"))
	mock.ExpectRollback()

	err := repo.CreateWithDetails(context.Background(), sampleDocumentation(), []models.DiscussionDetail{{DiscussionTitle: "a"}})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentationRepositoryUpdateMissingRollsBack(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewDocumentationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE documentations SET").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	doc := sampleDocumentation()
	doc.ID = "missing"
	err := repo.UpdateWithDetails(context.Background(), doc, nil)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentationRepositoryUpdateReplacesDetails(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewDocumentationRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`(?s)UPDATE documentations SET .*time = \S+, attendance_list = .*type = \S+ WHERE id = `).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM discussion_details WHERE documentation_id = $1")).
		WithArgs("d1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO discussion_details").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	doc := sampleDocumentation()
	doc.ID = "d1"
	require.NoError(t, repo.UpdateWithDetails(context.Background(), doc, []models.DiscussionDetail{{DiscussionTitle: "new"}}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentationRepositoryListScansArrays(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewDocumentationRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "title", "nomor_undangan", "description", "leader", "place", "time", "timestamp", "attendance_list", "results", "pictures", "type", "writer"}).
		AddRow("d1", "Kickoff", "001/UND", "desc", "Dr. L", "Hall", now, now, []byte("{Alice,Bob}"), []byte("{done}"), []byte("{}"), "Meeting", "adv@example.com")
	mock.ExpectQuery(regexp.QuoteMeta("FROM documentations WHERE writer = $1 ORDER BY timestamp DESC")).
		WithArgs("adv@example.com").
		WillReturnRows(rows)

	docs, err := repo.ListByWriter(context.Background(), "adv@example.com")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, []string{"Alice", "Bob"}, []string(docs[0].AttendanceList))
	assert.Empty(t, docs[0].Pictures)
	assert.NoError(t, mock.ExpectationsWereMet())
}
