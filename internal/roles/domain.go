package roles

import "time"

// Role represents a named, mutable set of permissions.
type Role struct {
	ID          int64
	Name        string
	Permissions []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
