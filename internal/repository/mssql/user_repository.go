package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	mssqldb "github.com/microsoft/go-mssqldb"
	"github.com/sirupsen/logrus"

	"identity-api/internal/database"
	"identity-api/internal/domain"
	"identity-api/internal/repository"
)

// Stored procedure names form a fixed contract with the database; the schema
// and procedure bodies are owned outside this service.
const (
	procGetAllUsers       = "sp_GetAllUsers"
	procGetUserByID       = "sp_GetUserById"
	procGetUserByUsername = "sp_GetUserByUsername"
	procGetUserByEmail    = "sp_GetUserByEmail"
	procCreateUser        = "sp_CreateUser"
	procUpdateUser        = "sp_UpdateUser"
	procDeleteUser        = "sp_DeleteUser"
)

// UserRepository is the stored-procedure-backed implementation of
// repository.UserRepository.
type UserRepository struct {
	executor *database.Executor
	logger   *logrus.Logger
}

func NewUserRepository(executor *database.Executor, logger *logrus.Logger) repository.UserRepository {
	return &UserRepository{executor: executor, logger: logger}
}

func (r *UserRepository) ListAll(ctx context.Context) ([]domain.User, error) {
	r.logger.Info("listing all users")

	var users []domain.User
	err := r.executor.Query(ctx, procGetAllUsers, nil, func(rows *database.Rows) error {
		for rows.Next() {
			user, err := scanUser(rows)
			if err != nil {
				return err
			}
			users = append(users, *user)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.logger.Infof("getting user by id: %s", id)

	params := []sql.NamedArg{
		database.MakeInputParameter("Id", mssqldb.UniqueIdentifier(id)),
	}
	return r.queryOne(ctx, procGetUserByID, params)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.logger.Infof("getting user by username: %s", username)

	params := []sql.NamedArg{
		database.MakeInputParameter("Username", username),
	}
	return r.queryOne(ctx, procGetUserByUsername, params)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.logger.Infof("getting user by email: %s", email)

	params := []sql.NamedArg{
		database.MakeInputParameter("Email", email),
	}
	return r.queryOne(ctx, procGetUserByEmail, params)
}

// Create persists the user and returns the row the procedure echoes back,
// which is treated as authoritative.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	r.logger.Infof("creating user with id: %s", user.ID)

	params := []sql.NamedArg{
		database.MakeInputParameter("Id", mssqldb.UniqueIdentifier(user.ID)),
		database.MakeInputParameter("Username", user.Username),
		database.MakeInputParameter("Email", user.Email),
		database.MakeInputParameter("PasswordHash", user.Password),
		database.MakeInputParameter("FirstName", user.FirstName),
		database.MakeInputParameter("LastName", user.LastName),
		database.MakeInputParameter("CreatedAt", user.CreatedAt),
		database.MakeInputParameter("UpdatedAt", nullableTime(user.UpdatedAt)),
	}

	created, err := r.queryOne(ctx, procCreateUser, params)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return nil, fmt.Errorf("create user %s: procedure returned no row", user.ID)
	}
	return created, nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	r.logger.Infof("updating user with id: %s", user.ID)

	params := []sql.NamedArg{
		database.MakeInputParameter("Id", mssqldb.UniqueIdentifier(user.ID)),
		database.MakeInputParameter("Username", user.Username),
		database.MakeInputParameter("Email", user.Email),
		database.MakeInputParameter("PasswordHash", user.Password),
		database.MakeInputParameter("FirstName", user.FirstName),
		database.MakeInputParameter("LastName", user.LastName),
		database.MakeInputParameter("UpdatedAt", nullableTime(user.UpdatedAt)),
	}

	updated, err := r.queryOne(ctx, procUpdateUser, params)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, fmt.Errorf("update user %s: %w", user.ID, repository.ErrNotFound)
	}
	return updated, nil
}

// Delete removes the user and reports the Success flag of the procedure's
// single result row.
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	r.logger.Infof("deleting user with id: %s", id)

	var success bool
	params := []sql.NamedArg{
		database.MakeInputParameter("Id", mssqldb.UniqueIdentifier(id)),
	}
	err := r.executor.Query(ctx, procDeleteUser, params, func(rows *database.Rows) error {
		if !rows.Next() {
			return fmt.Errorf("delete procedure returned no row")
		}
		return scanColumn(rows, "Success", &success)
	})
	if err != nil {
		return false, fmt.Errorf("delete user %s: %w", id, err)
	}
	return success, nil
}

func (r *UserRepository) queryOne(ctx context.Context, procedure string, params []sql.NamedArg) (*domain.User, error) {
	var user *domain.User
	err := r.executor.Query(ctx, procedure, params, func(rows *database.Rows) error {
		if !rows.Next() {
			return nil
		}
		scanned, err := scanUser(rows)
		if err != nil {
			return err
		}
		user = scanned
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", procedure, err)
	}
	return user, nil
}

// scanUser maps the current row into a User via fixed column-name lookups.
// Unknown columns are ignored so procedures may return extra data.
func scanUser(rows *database.Rows) (*domain.User, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	var (
		user      domain.User
		id        mssqldb.UniqueIdentifier
		updatedAt sql.NullTime
		discard   any
	)

	dest := make([]any, len(cols))
	for i, col := range cols {
		switch col {
		case "Id":
			dest[i] = &id
		case "Username":
			dest[i] = &user.Username
		case "Email":
			dest[i] = &user.Email
		case "PasswordHash":
			dest[i] = &user.Password
		case "FirstName":
			dest[i] = &user.FirstName
		case "LastName":
			dest[i] = &user.LastName
		case "IsActive":
			dest[i] = &user.IsActive
		case "CreatedAt":
			dest[i] = &user.CreatedAt
		case "UpdatedAt":
			dest[i] = &updatedAt
		default:
			dest[i] = &discard
		}
	}

	if err := rows.Scan(dest...); err != nil {
		return nil, fmt.Errorf("scan user row: %w", err)
	}

	user.ID = uuid.UUID(id)
	if updatedAt.Valid {
		t := updatedAt.Time
		user.UpdatedAt = &t
	}
	return &user, nil
}

// scanColumn reads a single named column from the current row.
func scanColumn(rows *database.Rows, name string, target any) error {
	cols, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("read columns: %w", err)
	}

	var discard any
	dest := make([]any, len(cols))
	found := false
	for i, col := range cols {
		if col == name {
			dest[i] = target
			found = true
		} else {
			dest[i] = &discard
		}
	}
	if !found {
		return fmt.Errorf("column %s not present in result", name)
	}
	return rows.Scan(dest...)
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
