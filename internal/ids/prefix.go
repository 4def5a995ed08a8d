package ids

import (
	"errors"
	"fmt"
	"strings"
)

// NormalizeUniqueIDs lowercases ids and drops empty values and duplicates,
// preserving first-seen order.
func NormalizeUniqueIDs(ids []string) []string {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		idLower := strings.ToLower(id)
		if idLower == "" || seen[idLower] {
			continue
		}
		seen[idLower] = true
		unique = append(unique, idLower)
	}
	return unique
}

// MatchPrefix finds the ID that starts with prefix. An exact match wins over
// longer IDs sharing the prefix. ids must already be normalized.
func MatchPrefix(ids []string, prefix string) (match string, found bool, ambiguous bool) {
	prefix = strings.ToLower(prefix)
	if prefix == "" {
		return "", false, false
	}
	for _, id := range ids {
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		if id == prefix {
			return id, true, false
		}
		if found {
			ambiguous = true
			continue
		}
		match = id
		found = true
	}
	if ambiguous {
		for _, id := range ids {
			if id == prefix {
				return id, true, false
			}
		}
		return "", true, true
	}
	return match, found, false
}

// UniquePrefixLengths returns the shortest unique prefix length for each ID.
func UniquePrefixLengths(ids []string) map[string]int {
	uniqueIDs := NormalizeUniqueIDs(ids)

	lengths := make(map[string]int, len(uniqueIDs))
	for _, id := range uniqueIDs {
		lengths[id] = uniquePrefixLength(id, uniqueIDs)
	}

	return lengths
}

func uniquePrefixLength(id string, ids []string) int {
	for length := 1; length <= len(id); length++ {
		prefix := id[:length]
		unique := true
		for _, other := range ids {
			if other == id {
				continue
			}
			if strings.HasPrefix(other, prefix) {
				unique = false
				break
			}
		}
		if unique {
			return length
		}
	}

	return len(id)
}

// ErrAmbiguousIDPrefix is returned when a prefix matches more than one ID.
var ErrAmbiguousIDPrefix = errors.New("ambiguous ID prefix")

// ErrUnknownIDPrefix is returned when a prefix matches no ID.
var ErrUnknownIDPrefix = errors.New("no ID matches prefix")

// Index resolves ID prefixes against a fixed set of IDs.
type Index struct {
	ids []string
}

// NewIndex builds an Index over ids.
func NewIndex(ids []string) Index {
	return Index{ids: NormalizeUniqueIDs(ids)}
}

// Resolve returns the full ID for prefix.
func (index Index) Resolve(prefix string) (string, error) {
	match, found, ambiguous := MatchPrefix(index.ids, strings.TrimSpace(prefix))
	if !found {
		return "", fmt.Errorf("%w: %q", ErrUnknownIDPrefix, prefix)
	}
	if ambiguous {
		return "", fmt.Errorf("%w: %s", ErrAmbiguousIDPrefix, prefix)
	}
	return match, nil
}

// PrefixLengths returns the shortest unique prefix length for each ID.
func (index Index) PrefixLengths() map[string]int {
	return UniquePrefixLengths(index.ids)
}
