package user

import (
	"slices"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/amonks/flowstate/entity"
	internalstrings "github.com/amonks/flowstate/internal/strings"
)

// All is the categorical filter sentinel that matches every value.
const All = "all"

// SortKey orders a view.
type SortKey string

const (
	// SortName lists names in collation order.
	SortName SortKey = "name"
	// SortJoined lists the newest members first.
	SortJoined SortKey = "joined"
	// SortLastActive lists the most recently active first.
	SortLastActive SortKey = "last-active"
)

// ValidSortKeys returns all valid sort keys.
func ValidSortKeys() []SortKey {
	return []SortKey{SortName, SortJoined, SortLastActive}
}

// ParseSortKey normalizes a sort key. Empty keeps list order.
func ParseSortKey(value string) (SortKey, error) {
	key := SortKey(internalstrings.NormalizeLowerTrimSpace(value))
	if key == "" {
		return "", nil
	}
	for _, valid := range ValidSortKeys() {
		if key == valid {
			return key, nil
		}
	}
	return "", entity.NewConfigurationError("user sort key", key, ValidSortKeys())
}

// Filters parameterizes a derived user view. Empty categorical fields behave
// like All.
type Filters struct {
	Search     string   `json:"search"`
	Role       string   `json:"role"`
	Status     string   `json:"status"`
	Department string   `json:"department"`
	Skills     []string `json:"skills"`
	Sort       SortKey  `json:"sort"`

	// Locale drives name ordering. The zero tag means English.
	Locale language.Tag `json:"-"`
}

// DefaultFilters matches every user in list order.
func DefaultFilters() Filters {
	return Filters{Role: All, Status: All, Department: All}
}

// FilterPatch lists the filter fields SetFilters may change. Nil fields are
// left alone.
type FilterPatch struct {
	Search     *string
	Role       *string
	Status     *string
	Department *string
	Skills     *[]string
	Sort       *SortKey
	Locale     *language.Tag
}

func (f Filters) apply(patch FilterPatch) Filters {
	if patch.Search != nil {
		f.Search = *patch.Search
	}
	if patch.Role != nil {
		f.Role = *patch.Role
	}
	if patch.Status != nil {
		f.Status = *patch.Status
	}
	if patch.Department != nil {
		f.Department = *patch.Department
	}
	if patch.Skills != nil {
		f.Skills = slices.Clone(*patch.Skills)
	}
	if patch.Sort != nil {
		f.Sort = *patch.Sort
	}
	if patch.Locale != nil {
		f.Locale = *patch.Locale
	}
	return f
}

func (f Filters) clone() Filters {
	f.Skills = slices.Clone(f.Skills)
	return f
}

// equal compares filters field by field, including skill order.
func (f Filters) equal(other Filters) bool {
	if f.Search != other.Search || f.Role != other.Role || f.Status != other.Status ||
		f.Department != other.Department || f.Sort != other.Sort || f.Locale != other.Locale {
		return false
	}
	return slices.Equal(f.Skills, other.Skills)
}

func orAll(value string) string {
	if strings.TrimSpace(value) == "" {
		return All
	}
	return value
}

// Query builds the entity query for f. Unknown roles, statuses and sort keys
// are ConfigurationErrors; departments are free text.
func (f Filters) Query() (entity.Query[User], error) {
	var q entity.Query[User]

	role := Role(internalstrings.NormalizeLowerTrimSpace(orAll(f.Role)))
	if role != All && !role.IsValid() {
		return q, entity.NewConfigurationError("user role filter", role, append([]Role{All}, ValidRoles()...))
	}
	status := Status(internalstrings.NormalizeLowerTrimSpace(orAll(f.Status)))
	if status != All && !status.IsValid() {
		return q, entity.NewConfigurationError("user status filter", status, append([]Status{All}, ValidStatuses()...))
	}

	q.Predicates = append(q.Predicates,
		entity.MatchText(f.Search,
			func(u User) string { return u.Name },
			func(u User) string { return u.Email },
		),
		entity.MatchCategory(role, All, func(u User) Role { return u.Role }),
		entity.MatchCategory(status, All, func(u User) Status { return u.Status }),
		entity.MatchCategory(orAll(f.Department), All, func(u User) string { return u.Department }),
		entity.MatchAnyTag(f.Skills, func(u User) []string { return u.Skills }),
	)

	switch f.Sort {
	case "":
	case SortName:
		locale := f.Locale
		if locale == language.Und {
			locale = language.English
		}
		q.Compare = entity.ByCollated(locale, func(u User) string { return u.Name })
	case SortJoined:
		q.Compare = entity.ByTimeDesc(func(u User) time.Time { return u.JoinedAt })
	case SortLastActive:
		q.Compare = entity.ByTimeDesc(func(u User) time.Time { return u.LastActiveAt })
	default:
		return q, entity.NewConfigurationError("user sort key", f.Sort, ValidSortKeys())
	}

	return q, nil
}

// Derive returns the users in snapshot that match f, in f's order.
func Derive(snapshot []User, f Filters) ([]User, error) {
	q, err := f.Query()
	if err != nil {
		return nil, err
	}
	return entity.Derive(snapshot, q), nil
}
