// Package user implements a user directory on top of an entity store.
//
// Users are unique by email. Filter parameters can either be owned by the
// caller, who passes Filters to Derive, or held in a shared View that
// several consumers read and update.
package user

import (
	"slices"
	"time"
)

// Kind is the collection name used for persistence and logs.
const Kind = "users"

// Role grants a level of access.
type Role string

const (
	// RoleAdmin manages everything.
	RoleAdmin Role = "admin"
	// RoleEditor changes content.
	RoleEditor Role = "editor"
	// RoleViewer only reads.
	RoleViewer Role = "viewer"
)

// ValidRoles returns all valid roles.
func ValidRoles() []Role {
	return []Role{RoleAdmin, RoleEditor, RoleViewer}
}

// IsValid returns true if the role is a known value.
func (r Role) IsValid() bool {
	return slices.Contains(ValidRoles(), r)
}

// Status is the account state.
type Status string

const (
	// StatusActive is assigned on creation.
	StatusActive Status = "active"
	// StatusInactive marks dormant accounts.
	StatusInactive Status = "inactive"
	// StatusSuspended marks blocked accounts.
	StatusSuspended Status = "suspended"
)

// ValidStatuses returns all valid statuses.
func ValidStatuses() []Status {
	return []Status{StatusActive, StatusInactive, StatusSuspended}
}

// IsValid returns true if the status is a known value.
func (s Status) IsValid() bool {
	return slices.Contains(ValidStatuses(), s)
}

// User is a single directory entry.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	Status       Status    `json:"status"`
	Department   string    `json:"department"`
	Skills       []string  `json:"skills"`
	Avatar       string    `json:"avatar,omitempty"`
	JoinedAt     time.Time `json:"joinedAt"`
	LastActiveAt time.Time `json:"lastActiveAt"`
}

// Draft is the form data for a new user. The store assigns the id, status
// and timestamps.
type Draft struct {
	Email      string
	Name       string
	Role       Role
	Department string
	Skills     []string
	Avatar     string
}

func (d Draft) user() User {
	return User{
		Email:      d.Email,
		Name:       d.Name,
		Role:       d.Role,
		Department: d.Department,
		Skills:     slices.Clone(d.Skills),
		Avatar:     d.Avatar,
	}
}

// Patch lists the fields an update may change. Nil fields are left alone.
type Patch struct {
	Email      *string
	Name       *string
	Role       *Role
	Status     *Status
	Department *string
	Skills     *[]string
	Avatar     *string
}
