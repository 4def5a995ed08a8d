package user

import (
	"errors"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/amonks/flowstate/entity"
	internalstrings "github.com/amonks/flowstate/internal/strings"
	"github.com/amonks/flowstate/internal/validation"
)

var (
	// ErrInvalidRole indicates an unknown role.
	ErrInvalidRole = errors.New("invalid role")

	// ErrInvalidStatus indicates an unknown status.
	ErrInvalidStatus = errors.New("invalid status")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ParseRole normalizes a role name.
func ParseRole(value string) (Role, error) {
	role := Role(internalstrings.NormalizeLowerTrimSpace(value))
	if !role.IsValid() {
		return "", validation.FormatInvalidValueError(ErrInvalidRole, role, ValidRoles())
	}
	return role, nil
}

// ParseStatus normalizes a status name.
func ParseStatus(value string) (Status, error) {
	status := Status(internalstrings.NormalizeLowerTrimSpace(value))
	if !status.IsValid() {
		return "", validation.FormatInvalidValueError(ErrInvalidStatus, status, ValidStatuses())
	}
	return status, nil
}

// Rules returns the field rules every user must satisfy.
func Rules() validation.Rules[User] {
	return validation.Rules[User]{
		{
			Field:           "email",
			Value:           func(u User) string { return u.Email },
			Required:        true,
			RequiredMessage: "email is required",
			Pattern:         emailPattern,
			PatternMessage:  "email must look like name@example.com",
			Unique:          true,
			UniqueMessage:   "email is already registered",
			FoldCase:        true,
		},
		{
			Field:    "name",
			Value:    func(u User) string { return u.Name },
			Required: true,
		},
		{
			Field:    "department",
			Value:    func(u User) string { return u.Department },
			Required: true,
		},
		{
			Field: "role",
			Check: validation.OneOf("role", func(u User) Role { return u.Role }, ValidRoles()),
		},
		{
			Field: "status",
			Check: validation.OneOf("status", func(u User) Status { return u.Status }, ValidStatuses()),
		},
	}
}

// schema adapts User to entity.Store.
type schema struct{}

var _ entity.Schema[User, Patch] = schema{}

func (schema) Name() string { return Kind }

func (schema) ID(u User) string { return u.ID }

func (schema) Clone(u User) User {
	u.Skills = slices.Clone(u.Skills)
	return u
}

func (schema) Rules() validation.Rules[User] { return Rules() }

func (schema) Create(draft User, id string, now time.Time) User {
	draft.ID = id
	draft = normalize(draft)
	draft.Status = StatusActive
	draft.JoinedAt = now
	draft.LastActiveAt = now
	return draft
}

func (schema) Apply(current User, patch Patch, now time.Time) (User, error) {
	if patch.Email != nil {
		current.Email = *patch.Email
	}
	if patch.Name != nil {
		current.Name = *patch.Name
	}
	if patch.Role != nil {
		current.Role = *patch.Role
	}
	if patch.Status != nil {
		current.Status = *patch.Status
	}
	if patch.Department != nil {
		current.Department = *patch.Department
	}
	if patch.Skills != nil {
		current.Skills = slices.Clone(*patch.Skills)
	}
	if patch.Avatar != nil {
		current.Avatar = *patch.Avatar
	}
	current = normalize(current)
	current.LastActiveAt = now
	return current, nil
}

func (schema) Toggle(current User, field string, _ time.Time) (User, error) {
	return current, entity.NewConfigurationError("user toggle field", field, []string{})
}

func normalize(u User) User {
	u.Email = strings.TrimSpace(u.Email)
	u.Name = strings.TrimSpace(u.Name)
	u.Department = strings.TrimSpace(u.Department)
	u.Avatar = strings.TrimSpace(u.Avatar)
	u.Skills = internalstrings.UniqueTrimmed(u.Skills)
	if u.Skills == nil {
		u.Skills = []string{}
	}
	return u
}
