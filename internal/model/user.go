package model

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UserRole is the user's role
type UserRole = string

const (
	// RoleStaff can run the day-to-day stringing workflow
	RoleStaff UserRole = "staff"
	// RoleAdmin can additionally manage users and hard-delete records
	RoleAdmin UserRole = "admin"
)

// IsValidRole reports whether r names a known role.
func IsValidRole(r string) bool {
	switch UserRole(r) {
	case RoleStaff, RoleAdmin:
		return true
	default:
		return false
	}
}

// User is a shop staff member or administrator.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`

	ID           uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id"`
	Email        string    `bun:"email,notnull,unique" json:"email"`
	Username     string    `bun:"username,notnull,unique" json:"username"`
	PasswordHash string    `bun:"password_hash,notnull" json:"-"`
	FirstName    string    `bun:"first_name,notnull" json:"first_name"`
	LastName     string    `bun:"last_name,notnull" json:"last_name"`
	Role         UserRole  `bun:"user_role,notnull" json:"role"`
	IsActive     bool      `bun:"is_active,notnull" json:"is_active"`
	Phone        string    `bun:"phone_number" json:"phone_number,omitempty"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

var _ bun.BeforeAppendModelHook = (*User)(nil)

func (u *User) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.InsertQuery:
		if u.ID == uuid.Nil {
			u.ID = uuid.New()
		}
		if u.Role == "" {
			u.Role = RoleStaff
		}
		now := time.Now()
		u.CreatedAt = now
		u.UpdatedAt = now
	case *bun.UpdateQuery:
		u.UpdatedAt = time.Now()
	}
	return nil
}
