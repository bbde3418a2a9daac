package identity

import (
	"context"

	"github.com/erp/reorder/internal/domain/shared"
)

// User is the minimal identity record this subsystem needs: who can be
// notified and what role they act with. Session handling lives outside.
type User struct {
	shared.BaseEntity
	Username string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Role     string `gorm:"type:varchar(50);not null;index"`
	Email    string `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a new user
func NewUser(username, role string) (*User, error) {
	if username == "" {
		return nil, shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	}
	if role == "" {
		return nil, shared.NewDomainError("INVALID_ROLE", "Role cannot be empty")
	}
	return &User{
		BaseEntity: shared.NewBaseEntity(),
		Username:   username,
		Role:       role,
	}, nil
}

// UserRepository defines persistence operations for users
type UserRepository interface {
	Save(ctx context.Context, user *User) error
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByRole(ctx context.Context, role string) ([]User, error)
}
