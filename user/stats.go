package user

import (
	"math"

	"github.com/amonks/flowstate/entity"
)

// TopDepartmentCount is how many departments Stats ranks.
const TopDepartmentCount = 3

// DepartmentCount is one department and its head count.
type DepartmentCount struct {
	Department string `json:"department"`
	Users      int    `json:"users"`
}

// Stats summarizes a user directory.
type Stats struct {
	Total     int `json:"total"`
	Active    int `json:"active"`
	Inactive  int `json:"inactive"`
	Suspended int `json:"suspended"`

	// ActivePercent is the rounded share of active users, 0 when empty.
	ActivePercent int `json:"activePercent"`

	Roles          map[Role]int      `json:"roles"`
	TopDepartments []DepartmentCount `json:"topDepartments"`
}

// ComputeStats aggregates snapshot.
func ComputeStats(snapshot []User) Stats {
	byStatus := func(status Status) entity.Predicate[User] {
		return func(u User) bool { return u.Status == status }
	}

	stats := Stats{
		Total:     len(snapshot),
		Active:    entity.Count(snapshot, byStatus(StatusActive)),
		Inactive:  entity.Count(snapshot, byStatus(StatusInactive)),
		Suspended: entity.Count(snapshot, byStatus(StatusSuspended)),
		Roles:     make(map[Role]int, len(ValidRoles())),
	}
	if stats.Total > 0 {
		stats.ActivePercent = int(math.Round(float64(stats.Active) / float64(stats.Total) * 100))
	}
	for _, role := range ValidRoles() {
		stats.Roles[role] = entity.Count(snapshot, func(u User) bool { return u.Role == role })
	}

	top := entity.TopGroups(ByDepartment(snapshot), TopDepartmentCount)
	stats.TopDepartments = make([]DepartmentCount, 0, len(top))
	for _, group := range top {
		stats.TopDepartments = append(stats.TopDepartments, DepartmentCount{Department: group.Key, Users: len(group.Records)})
	}
	return stats
}

// ByDepartment groups snapshot by department in first-seen order.
func ByDepartment(snapshot []User) entity.Groups[User] {
	return entity.GroupBy(snapshot, func(u User) string { return u.Department })
}

// Departments returns the distinct departments in first-seen order.
func Departments(snapshot []User) []string {
	return ByDepartment(snapshot).Keys()
}

// Skills returns the distinct skills in first-seen order.
func Skills(snapshot []User) []string {
	var skills []string
	seen := make(map[string]bool)
	for _, u := range snapshot {
		for _, skill := range u.Skills {
			if seen[skill] {
				continue
			}
			seen[skill] = true
			skills = append(skills, skill)
		}
	}
	return skills
}
