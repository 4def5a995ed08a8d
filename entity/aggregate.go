package entity

import "slices"

// Count returns how many records satisfy pred. A nil pred counts every record.
func Count[R any](snapshot []R, pred Predicate[R]) int {
	if pred == nil {
		return len(snapshot)
	}
	count := 0
	for _, record := range snapshot {
		if pred(record) {
			count++
		}
	}
	return count
}

// Group is one category value and the records that carry it.
type Group[R any] struct {
	Key     string
	Records []R
}

// Groups lists groups in the order their key was first seen.
type Groups[R any] []Group[R]

// GroupBy partitions snapshot by key, preserving first-seen group order and
// the snapshot order within each group.
func GroupBy[R any](snapshot []R, key func(R) string) Groups[R] {
	var groups Groups[R]
	positions := make(map[string]int)
	for _, record := range snapshot {
		k := key(record)
		pos, ok := positions[k]
		if !ok {
			pos = len(groups)
			positions[k] = pos
			groups = append(groups, Group[R]{Key: k})
		}
		groups[pos].Records = append(groups[pos].Records, record)
	}
	return groups
}

// Map returns the groups keyed by category value.
func (groups Groups[R]) Map() map[string][]R {
	m := make(map[string][]R, len(groups))
	for _, group := range groups {
		m[group.Key] = group.Records
	}
	return m
}

// Get returns the records for key.
func (groups Groups[R]) Get(key string) ([]R, bool) {
	for _, group := range groups {
		if group.Key == key {
			return group.Records, true
		}
	}
	return nil, false
}

// Keys returns the group keys in first-seen order.
func (groups Groups[R]) Keys() []string {
	keys := make([]string, 0, len(groups))
	for _, group := range groups {
		keys = append(keys, group.Key)
	}
	return keys
}

// TopGroups returns up to n groups ordered by size, largest first. Groups of
// equal size keep their first-seen order. n <= 0 returns every group.
func TopGroups[R any](groups Groups[R], n int) Groups[R] {
	sorted := slices.Clone(groups)
	slices.SortStableFunc(sorted, func(a, b Group[R]) int {
		return len(b.Records) - len(a.Records)
	})
	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
