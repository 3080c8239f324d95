package mcp

import (
	"strings"

	"todoistmcp/internal/domain"
)

// findTaskByContent locates the first task whose content contains the
// fragment, case-insensitively, in the order the remote returned the
// collection. When several tasks contain the fragment the first hit wins;
// no ranking or fuzzy matching is attempted. The collection must have been
// fetched fresh within the same request.
func findTaskByContent(fragment string, tasks []domain.Task) (domain.Task, bool) {
	needle := strings.ToLower(fragment)
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Content), needle) {
			return t, true
		}
	}
	return domain.Task{}, false
}
