package mcp

import (
	"fmt"
	"strings"

	"todoistmcp/internal/domain"
)

// Sentinel strings rendered for empty collections.
const (
	noTasksSentinel    = "No tasks found matching the criteria"
	noProjectsSentinel = "No projects found"
)

// FormatTask renders one task in the fixed field layout. Optional fields
// whose values are absent are omitted entirely.
func FormatTask(t *domain.Task) string {
	var sb strings.Builder
	sb.WriteString("Title: " + t.Content)
	if t.Description != "" {
		sb.WriteString("\nDescription: " + t.Description)
	}
	if t.ProjectID != "" {
		sb.WriteString("\nProject: " + t.ProjectID)
	}
	if t.Due != nil {
		sb.WriteString("\nDue: " + t.Due.String)
	}
	if t.Priority > 0 {
		sb.WriteString(fmt.Sprintf("\nPriority: %d", t.Priority))
	}
	return sb.String()
}

// FormatTaskList renders each task in the single-task layout, separated by
// blank lines, or the no-results sentinel for an empty collection.
func FormatTaskList(tasks []domain.Task) string {
	if len(tasks) == 0 {
		return noTasksSentinel
	}
	entries := make([]string, len(tasks))
	for i := range tasks {
		entries[i] = FormatTask(&tasks[i])
	}
	return strings.Join(entries, "\n\n")
}

// FormatProject renders one project in the fixed field layout.
func FormatProject(p *domain.Project) string {
	var sb strings.Builder
	sb.WriteString("Name: " + p.Name)
	sb.WriteString("\nID: " + p.ID)
	if p.ParentID != "" {
		sb.WriteString("\nParent: " + p.ParentID)
	}
	if p.Color != "" {
		sb.WriteString("\nColor: " + p.Color)
	}
	if p.IsFavorite {
		sb.WriteString("\nFavorite: yes")
	}
	if p.ViewStyle != "" {
		sb.WriteString("\nView style: " + p.ViewStyle)
	}
	return sb.String()
}

// FormatProjectList renders each project in the single-project layout,
// separated by blank lines, or the no-results sentinel when empty.
func FormatProjectList(projects []domain.Project) string {
	if len(projects) == 0 {
		return noProjectsSentinel
	}
	entries := make([]string, len(projects))
	for i := range projects {
		entries[i] = FormatProject(&projects[i])
	}
	return strings.Join(entries, "\n\n")
}
