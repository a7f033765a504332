package model

import (
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of access levels a user can hold.
type Role string

const (
	RoleShopper Role = "shopper"
	RoleAdmin   Role = "admin"
	RoleDev     Role = "dev"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleShopper || r == RoleAdmin || r == RoleDev
}

// Elevated reports whether r carries blanket access to every protected
// operation. Only the dev role has this operational override.
func (r Role) Elevated() bool { return r == RoleDev }

// User stores an authenticated account. Passwords are kept as bcrypt
// hashes, never plaintext. Users are created at registration and never
// deleted.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	Role         Role      `gorm:"type:varchar(20);not null;default:'shopper'"`
	CreatedAt    time.Time
}
