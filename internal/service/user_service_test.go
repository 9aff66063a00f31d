package service

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"identity-api/internal/domain"
	"identity-api/internal/repository"
)

type fakeUserRepo struct {
	users map[uuid.UUID]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]domain.User)}
}

func (r *fakeUserRepo) ListAll(context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.users[user.ID] = *user
	stored := r.users[user.ID]
	return &stored, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := r.users[user.ID]; !ok {
		return nil, repository.ErrNotFound
	}
	r.users[user.ID] = *user
	stored := r.users[user.ID]
	return &stored, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	if _, ok := r.users[id]; !ok {
		return false, nil
	}
	delete(r.users, id)
	return true, nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestUserService() UserService {
	return NewUserService(newFakeUserRepo(), testLogger())
}

func strPtr(s string) *string { return &s }

func TestCreateUser(t *testing.T) {
	svc := newTestUserService()

	view, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Username:  "alice",
		Email:     "alice@example.com",
		Password:  "secret",
		FirstName: "Alice",
		LastName:  "Smith",
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, view.ID)
	assert.Equal(t, "alice", view.Username)
	assert.Equal(t, "alice@example.com", view.Email)
	assert.Equal(t, "Alice", view.FirstName)
	assert.Equal(t, "Smith", view.LastName)
	assert.True(t, view.IsActive)
	assert.False(t, view.CreatedAt.IsZero())
	assert.Nil(t, view.UpdatedAt)
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	svc := newTestUserService()

	_, err := svc.CreateUser(context.Background(), CreateUserRequest{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	_, err = svc.CreateUser(context.Background(), CreateUserRequest{Username: "alice", Email: "other@example.com"})
	assert.ErrorIs(t, err, ErrUsernameExists)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	svc := newTestUserService()

	_, err := svc.CreateUser(context.Background(), CreateUserRequest{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	_, err = svc.CreateUser(context.Background(), CreateUserRequest{Username: "bob", Email: "alice@example.com"})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestGetUserRoundTrip(t *testing.T) {
	svc := newTestUserService()

	created, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret",
	})
	require.NoError(t, err)

	got, err := svc.GetUser(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, *created, *got)
}

func TestGetUserAbsent(t *testing.T) {
	svc := newTestUserService()

	got, err := svc.GetUser(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUpdateUserNotFound(t *testing.T) {
	svc := newTestUserService()

	_, err := svc.UpdateUser(context.Background(), uuid.New(), UpdateUserRequest{Email: strPtr("new@example.com")})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateUserPartialEmail(t *testing.T) {
	svc := newTestUserService()

	created, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Username:  "alice",
		Email:     "alice@example.com",
		Password:  "secret",
		FirstName: "Alice",
		LastName:  "Smith",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateUser(context.Background(), created.ID, UpdateUserRequest{
		Email: strPtr("alice@new.example.com"),
	})
	require.NoError(t, err)

	assert.Equal(t, "alice@new.example.com", updated.Email)
	assert.Equal(t, "Alice", updated.FirstName)
	assert.Equal(t, "Smith", updated.LastName)
	assert.True(t, updated.IsActive)
	require.NotNil(t, updated.UpdatedAt)
}

func TestUpdateUserEmailConflict(t *testing.T) {
	svc := newTestUserService()

	_, err := svc.CreateUser(context.Background(), CreateUserRequest{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	bob, err := svc.CreateUser(context.Background(), CreateUserRequest{Username: "bob", Email: "bob@example.com"})
	require.NoError(t, err)

	_, err = svc.UpdateUser(context.Background(), bob.ID, UpdateUserRequest{Email: strPtr("alice@example.com")})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestUpdateUserKeepOwnEmail(t *testing.T) {
	svc := newTestUserService()

	created, err := svc.CreateUser(context.Background(), CreateUserRequest{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	updated, err := svc.UpdateUser(context.Background(), created.ID, UpdateUserRequest{Email: strPtr("alice@example.com")})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", updated.Email)
}

func TestUpdateUserDeactivate(t *testing.T) {
	svc := newTestUserService()

	created, err := svc.CreateUser(context.Background(), CreateUserRequest{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	inactive := false
	updated, err := svc.UpdateUser(context.Background(), created.ID, UpdateUserRequest{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, created.Email, updated.Email)
}

func TestDeleteUser(t *testing.T) {
	svc := newTestUserService()

	created, err := svc.CreateUser(context.Background(), CreateUserRequest{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	deleted, err := svc.DeleteUser(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	got, err := svc.GetUser(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDeleteUserUnknown(t *testing.T) {
	svc := newTestUserService()

	deleted, err := svc.DeleteUser(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestListUsers(t *testing.T) {
	svc := newTestUserService()

	_, err := svc.CreateUser(context.Background(), CreateUserRequest{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	_, err = svc.CreateUser(context.Background(), CreateUserRequest{Username: "bob", Email: "bob@example.com"})
	require.NoError(t, err)

	views, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, views, 2)
}
