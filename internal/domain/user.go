package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the persisted identity record. The password travels through the
// system as provided; hashing is owned by whatever identity backend replaces
// the demo credential check.
type User struct {
	ID        uuid.UUID
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// UserView is the externally safe projection of a User. It never carries the
// credential.
type UserView struct {
	ID        uuid.UUID
	Username  string
	Email     string
	FirstName string
	LastName  string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// View projects the entity into its public shape.
func (u *User) View() UserView {
	return UserView{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
