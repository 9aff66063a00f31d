package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"identity-api/internal/domain"
	"identity-api/internal/repository"
)

var (
	// ErrUsernameExists is returned when creating a user with a taken username.
	ErrUsernameExists = errors.New("username already exists")
	// ErrEmailExists is returned when a create or update would duplicate an email.
	ErrEmailExists = errors.New("email already exists")
	// ErrUserNotFound is returned when an update targets a missing user.
	ErrUserNotFound = errors.New("user not found")
)

// CreateUserRequest carries the caller-supplied fields of a new user.
type CreateUserRequest struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// UpdateUserRequest carries a partial update; nil fields are left untouched.
type UpdateUserRequest struct {
	Email     *string
	Password  *string
	FirstName *string
	LastName  *string
	IsActive  *bool
}

// UserService describes user lifecycle operations.
type UserService interface {
	ListUsers(ctx context.Context) ([]domain.UserView, error)
	GetUser(ctx context.Context, id uuid.UUID) (*domain.UserView, error)
	CreateUser(ctx context.Context, req CreateUserRequest) (*domain.UserView, error)
	UpdateUser(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*domain.UserView, error)
	DeleteUser(ctx context.Context, id uuid.UUID) (bool, error)
}

type userService struct {
	users  repository.UserRepository
	logger *logrus.Logger
}

func NewUserService(users repository.UserRepository, logger *logrus.Logger) UserService {
	return &userService{users: users, logger: logger}
}

func (s *userService) ListUsers(ctx context.Context) ([]domain.UserView, error) {
	users, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]domain.UserView, len(users))
	for i := range users {
		views[i] = users[i].View()
	}
	return views, nil
}

// GetUser returns nil without an error when no user has the given id; the
// caller decides how to surface absence.
func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*domain.UserView, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	view := user.View()
	return &view, nil
}

// CreateUser inserts a new user after checking username and email are free.
// The in-process checks are a fast path; the database unique constraints are
// the authority under concurrent requests.
func (s *userService) CreateUser(ctx context.Context, req CreateUserRequest) (*domain.UserView, error) {
	existing, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("check username %q: %w", req.Username, err)
	}
	if existing != nil {
		return nil, ErrUsernameExists
	}

	existing, err = s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email %q: %w", req.Email, err)
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	user := &domain.User{
		ID:        uuid.New(),
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create user %s: %w", user.ID, err)
	}

	s.logger.Infof("created user %s (%s)", created.ID, created.Username)
	view := created.View()
	return &view, nil
}

// UpdateUser merges the present fields of req into the stored record. An
// email change is re-checked for uniqueness against other users; keeping the
// current email is always allowed.
func (s *userService) UpdateUser(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*domain.UserView, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load user %s: %w", id, err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if req.Email != nil {
		other, err := s.users.GetByEmail(ctx, *req.Email)
		if err != nil {
			return nil, fmt.Errorf("check email %q: %w", *req.Email, err)
		}
		if other != nil && other.ID != id {
			return nil, ErrEmailExists
		}
		user.Email = *req.Email
	}
	if req.Password != nil {
		user.Password = *req.Password
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	now := time.Now().UTC()
	user.UpdatedAt = &now

	updated, err := s.users.Update(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("update user %s: %w", id, err)
	}

	s.logger.Infof("updated user %s", updated.ID)
	view := updated.View()
	return &view, nil
}

// DeleteUser reports whether a row existed and was removed.
func (s *userService) DeleteUser(ctx context.Context, id uuid.UUID) (bool, error) {
	deleted, err := s.users.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete user %s: %w", id, err)
	}
	if deleted {
		s.logger.Infof("deleted user %s", id)
	}
	return deleted, nil
}
