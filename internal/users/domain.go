package users

import "time"

// User represents a principal record in the directory. ExternalID is empty
// until the user completes a first sign-in with the external provider.
type User struct {
	ID         int64
	ExternalID string
	Email      string
	Name       string
	PhotoURL   string
	RoleID     int64
	RoleName   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
