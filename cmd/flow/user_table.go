package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"

	"github.com/amonks/flowstate/internal/ui"
	"github.com/amonks/flowstate/user"
)

func formatUserTable(users []user.User, prefixLengths map[string]int, highlight func(string, int) string, now time.Time) string {
	builder := ui.NewTableBuilder([]string{"ID", "NAME", "EMAIL", "ROLE", "STATUS", "DEPARTMENT", "SKILLS", "ACTIVE"}, len(users))

	if prefixLengths == nil {
		ids := make([]string, 0, len(users))
		for _, u := range users {
			ids = append(ids, u.ID)
		}
		prefixLengths = ui.UniqueIDPrefixLengths(ids)
	}

	for _, u := range users {
		skills := "-"
		if len(u.Skills) > 0 {
			skills = strings.Join(u.Skills, ",")
		}
		builder.AddRow([]string{
			highlight(u.ID, ui.PrefixLength(prefixLengths, u.ID)),
			ui.TruncateTableCell(u.Name),
			ui.TruncateTableCell(u.Email),
			string(u.Role),
			string(u.Status),
			ui.TruncateTableCell(u.Department),
			ui.TruncateTableCell(skills),
			ui.FormatTimeAgo(u.LastActiveAt, now),
		})
	}

	return builder.String()
}

const (
	userDetailLineWidth = 72
	userDetailIndent    = 2
)

func formatUserDetail(u user.User, highlight func(string) string) string {
	pairs := [][2]string{
		{"ID", highlight(u.ID)},
		{"Name", u.Name},
		{"Email", u.Email},
		{"Role", string(u.Role)},
		{"Status", string(u.Status)},
		{"Department", u.Department},
	}
	if u.Avatar != "" {
		pairs = append(pairs, [2]string{"Avatar", u.Avatar})
	}
	pairs = append(pairs,
		[2]string{"Joined", u.JoinedAt.Format("2006-01-02 15:04:05")},
		[2]string{"Last active", u.LastActiveAt.Format("2006-01-02 15:04:05")},
	)

	var builder strings.Builder
	builder.WriteString(ui.FormatKeyValues(pairs))
	builder.WriteString("\nSkills:\n")
	builder.WriteString(formatSkillBlock(u.Skills))
	builder.WriteString("\n")
	return builder.String()
}

func formatSkillBlock(skills []string) string {
	if len(skills) == 0 {
		return strings.Repeat(" ", userDetailIndent) + "-"
	}
	wrapped := wordwrap.String(strings.Join(skills, ", "), userDetailLineWidth-userDetailIndent)
	return indent.String(wrapped, userDetailIndent)
}

func formatUserStats(stats user.Stats) string {
	var builder strings.Builder
	builder.WriteString(statsHeader("Users"))
	builder.WriteString("\n")
	builder.WriteString(ui.FormatKeyValues([][2]string{
		{"Total", strconv.Itoa(stats.Total)},
		{"Active", fmt.Sprintf("%d (%d%%)", stats.Active, stats.ActivePercent)},
		{"Inactive", strconv.Itoa(stats.Inactive)},
		{"Suspended", strconv.Itoa(stats.Suspended)},
	}))

	builder.WriteString("\n")
	builder.WriteString(statsHeader("Roles"))
	builder.WriteString("\n")
	roles := make([][2]string, 0, len(user.ValidRoles()))
	for _, role := range user.ValidRoles() {
		roles = append(roles, [2]string{string(role), strconv.Itoa(stats.Roles[role])})
	}
	builder.WriteString(ui.FormatKeyValues(roles))

	builder.WriteString("\n")
	builder.WriteString(statsHeader("Top departments"))
	builder.WriteString("\n")
	if len(stats.TopDepartments) == 0 {
		builder.WriteString("-\n")
		return builder.String()
	}
	departments := make([][2]string, 0, len(stats.TopDepartments))
	for _, department := range stats.TopDepartments {
		departments = append(departments, [2]string{department.Department, strconv.Itoa(department.Users)})
	}
	builder.WriteString(ui.FormatKeyValues(departments))
	return builder.String()
}
