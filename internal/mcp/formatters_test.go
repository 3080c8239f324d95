package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"todoistmcp/internal/domain"
)

func TestFormatTask_AllFields(t *testing.T) {
	task := &domain.Task{
		ID:          "1",
		Content:     "Buy milk",
		Description: "Whole milk, two liters",
		ProjectID:   "321",
		Due:         &domain.Due{String: "tomorrow", Date: "2026-01-02"},
		Priority:    4,
	}

	expected := "Title: Buy milk\n" +
		"Description: Whole milk, two liters\n" +
		"Project: 321\n" +
		"Due: tomorrow\n" +
		"Priority: 4"
	assert.Equal(t, expected, FormatTask(task))
}

func TestFormatTask_OmitsAbsentFields(t *testing.T) {
	task := &domain.Task{ID: "1", Content: "Buy milk"}
	assert.Equal(t, "Title: Buy milk", FormatTask(task))
}

func TestFormatTaskList_JoinsWithBlankLine(t *testing.T) {
	tasks := []domain.Task{
		{ID: "1", Content: "First"},
		{ID: "2", Content: "Second"},
	}
	assert.Equal(t, "Title: First\n\nTitle: Second", FormatTaskList(tasks))
}

func TestFormatTaskList_EmptySentinel(t *testing.T) {
	assert.Equal(t, "No tasks found matching the criteria", FormatTaskList(nil))
}

func TestFormatProject_AllFields(t *testing.T) {
	project := &domain.Project{
		ID:         "123",
		Name:       "Work",
		ParentID:   "99",
		Color:      "charcoal",
		IsFavorite: true,
		ViewStyle:  "board",
	}

	expected := "Name: Work\n" +
		"ID: 123\n" +
		"Parent: 99\n" +
		"Color: charcoal\n" +
		"Favorite: yes\n" +
		"View style: board"
	assert.Equal(t, expected, FormatProject(project))
}

func TestFormatProject_Minimal(t *testing.T) {
	project := &domain.Project{ID: "123", Name: "Work"}
	assert.Equal(t, "Name: Work\nID: 123", FormatProject(project))
}

func TestFormatProjectList_EmptySentinel(t *testing.T) {
	assert.Equal(t, "No projects found", FormatProjectList(nil))
}

func TestFormatProjectList_JoinsWithBlankLine(t *testing.T) {
	projects := []domain.Project{
		{ID: "1", Name: "Inbox"},
		{ID: "2", Name: "Work"},
	}
	assert.Equal(t, "Name: Inbox\nID: 1\n\nName: Work\nID: 2", FormatProjectList(projects))
}
