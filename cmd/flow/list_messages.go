package main

import (
	"fmt"
	"strings"

	"github.com/amonks/flowstate/todo"
	"github.com/amonks/flowstate/user"
)

func todoEmptyListMessage(total int, filter todo.Filter) string {
	if total == 0 {
		return "No todos found."
	}

	hints := make([]string, 0, 2)
	if filter.Completion != "" && filter.Completion != todo.CompletionAll {
		hints = append(hints, fmt.Sprintf("Use --filter all to include %s todos.", otherCompletion(filter.Completion)))
	}
	if strings.TrimSpace(filter.Search) != "" {
		hints = append(hints, fmt.Sprintf("No title contains %q.", filter.Search))
	}
	if len(hints) > 0 {
		return fmt.Sprintf("No todos found. %s", strings.Join(hints, " "))
	}

	return "No todos found."
}

func otherCompletion(completion todo.Completion) todo.Completion {
	if completion == todo.CompletionActive {
		return todo.CompletionCompleted
	}
	return todo.CompletionActive
}

func userEmptyListMessage(total int, filters user.Filters) string {
	if total == 0 {
		return "No users found."
	}

	active := make([]string, 0, 5)
	if strings.TrimSpace(filters.Search) != "" {
		active = append(active, fmt.Sprintf("search %q", filters.Search))
	}
	for _, category := range [][2]string{
		{"role", filters.Role},
		{"status", filters.Status},
		{"department", filters.Department},
	} {
		value := strings.TrimSpace(category[1])
		if value != "" && value != user.All {
			active = append(active, fmt.Sprintf("%s %s", category[0], value))
		}
	}
	if len(filters.Skills) > 0 {
		active = append(active, fmt.Sprintf("skills %s", strings.Join(filters.Skills, ", ")))
	}
	if len(active) == 0 {
		return "No users found."
	}
	return fmt.Sprintf("No users found matching %s.", strings.Join(active, ", "))
}
