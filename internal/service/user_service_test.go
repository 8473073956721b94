package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/abelkristv/magang-sub001/internal/dto"
	"github.com/abelkristv/magang-sub001/internal/models"
	appErrors "github.com/abelkristv/magang-sub001/pkg/errors"
)

type mockUserRepo struct {
	users     map[string]*models.User
	updated   *models.User
	lastQuery []string
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByEmails(ctx context.Context, emails []string) ([]models.User, error) {
	m.lastQuery = emails
	var out []models.User
	for _, e := range emails {
		for _, u := range m.users {
			if u.Email == e {
				out = append(out, *u)
			}
		}
	}
	return out, nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	m.updated = user
	return nil
}

func newUserRepo() *mockUserRepo {
	return &mockUserRepo{users: map[string]*models.User{
		"u1": {ID: "u1", Name: "Advisor", Email: "advisor@example.com", PhoneNumber: "0811", PasswordHash: "old"},
		"u2": {ID: "u2", Name: "Acme HR", Email: "hr@acme.test"},
	}}
}

func TestUserServiceGetNotFound(t *testing.T) {
	svc := NewUserService(newUserRepo(), nil, nil)

	_, err := svc.Get(context.Background(), "missing")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	_, err = svc.GetByEmail(context.Background(), "nobody@example.com")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	user, err := svc.GetByEmail(context.Background(), "hr@acme.test")
	require.NoError(t, err)
	assert.Equal(t, "u2", user.ID)
}

func TestUserServiceUpdateKeepsEmptyFieldsAndHashesPassword(t *testing.T) {
	repo := newUserRepo()
	svc := NewUserService(repo, nil, nil)

	user, err := svc.Update(context.Background(), "u1", dto.UpdateUserRequest{Name: "New Name", Password: "s3cret!"})
	require.NoError(t, err)
	assert.Equal(t, "New Name", user.Name)
	assert.Equal(t, "0811", user.PhoneNumber)
	require.NotNil(t, repo.updated)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.updated.PasswordHash), []byte("s3cret!")))
}

func TestUserServiceUpdateRejectsShortPassword(t *testing.T) {
	repo := newUserRepo()
	svc := NewUserService(repo, nil, nil)

	_, err := svc.Update(context.Background(), "u1", dto.UpdateUserRequest{Password: "123"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.Nil(t, repo.updated)
}

func TestUserServiceNamesByEmails(t *testing.T) {
	repo := newUserRepo()
	svc := NewUserService(repo, nil, nil)

	names, err := svc.NamesByEmails(context.Background(), dto.UserNamesRequest{Emails: []string{"advisor@example.com", " advisor@example.com", "ghost@example.com", ""}})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"advisor@example.com": "Advisor"}, names)
	assert.Equal(t, []string{"advisor@example.com", "ghost@example.com"}, repo.lastQuery)

	_, err = svc.NamesByEmails(context.Background(), dto.UserNamesRequest{Emails: []string{" "}})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}
