package mcp

import "todoistmcp/internal/domain"

// ParamType enumerates the primitive argument types accepted by commands.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeNumber  ParamType = "number"
	TypeBoolean ParamType = "boolean"
)

// ParamSpec describes one argument accepted by a command: its primitive
// type, whether it is required, an optional value enumeration, and an
// optional default injected when the caller omits the field.
type ParamSpec struct {
	Name        string
	Type        ParamType
	Description string
	Required    bool
	Enum        []interface{}
	Default     interface{}
}

// CommandDescriptor is the static definition of one gateway command.
type CommandDescriptor struct {
	Name        string
	Description string
	Params      []ParamSpec
}

// InputSchema renders the descriptor's parameters as a JSON-Schema object
// suitable for the tools/list capability response.
func (d CommandDescriptor) InputSchema() map[string]interface{} {
	properties := map[string]interface{}{}
	var required []string
	for _, p := range d.Params {
		prop := map[string]interface{}{
			"type":        string(p.Type),
			"description": p.Description,
		}
		if len(p.Enum) > 0 {
			prop["enum"] = p.Enum
		}
		if p.Default != nil {
			prop["default"] = p.Default
		}
		properties[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// DefaultTaskLimit caps todoist_list_tasks results when the caller does not
// supply an explicit limit.
const DefaultTaskLimit = 10

var priorityEnum = []interface{}{1, 2, 3, 4}

var viewStyleEnum = []interface{}{domain.ViewStyleList, domain.ViewStyleBoard}

// Registry is the process-wide read-only catalog of command descriptors.
// It is built once at startup and queried on every request.
type Registry struct {
	order  []string
	byName map[string]CommandDescriptor
}

// NewRegistry builds the registry with all ten gateway commands.
func NewRegistry() *Registry {
	r := &Registry{byName: map[string]CommandDescriptor{}}

	r.add(CommandDescriptor{
		Name:        "todoist_create_task",
		Description: "Create a new task in Todoist with optional description, due date, and priority",
		Params: []ParamSpec{
			{Name: "content", Type: TypeString, Description: "The content/title of the task", Required: true},
			{Name: "description", Type: TypeString, Description: "Detailed description of the task"},
			{Name: "project_id", Type: TypeString, Description: "ID of the project to add the task to"},
			{Name: "due_string", Type: TypeString, Description: "Natural language due date like 'tomorrow', 'next Monday', 'Jan 23'"},
			{Name: "priority", Type: TypeNumber, Description: "Task priority from 1 (normal) to 4 (urgent)", Enum: priorityEnum},
		},
	})

	r.add(CommandDescriptor{
		Name:        "todoist_list_tasks",
		Description: "Get a list of tasks from Todoist with various filters",
		Params: []ParamSpec{
			{Name: "project_id", Type: TypeString, Description: "Filter tasks by project ID"},
			{Name: "filter", Type: TypeString, Description: "Natural language filter like 'today', 'overdue', 'next 7 days'"},
			{Name: "priority", Type: TypeNumber, Description: "Filter by priority level from 1 (normal) to 4 (urgent)", Enum: priorityEnum},
			{Name: "limit", Type: TypeNumber, Description: "Maximum number of tasks to return", Default: DefaultTaskLimit},
		},
	})

	r.add(CommandDescriptor{
		Name:        "todoist_update_task",
		Description: "Update an existing task in Todoist by searching for it by name and then updating it",
		Params: []ParamSpec{
			{Name: "task_name", Type: TypeString, Description: "Name/content of the task to search for and update", Required: true},
			{Name: "content", Type: TypeString, Description: "New content/title for the task"},
			{Name: "project_id", Type: TypeString, Description: "New project ID for the task"},
			{Name: "description", Type: TypeString, Description: "New description for the task"},
			{Name: "due_string", Type: TypeString, Description: "New due date in natural language like 'tomorrow', 'next Monday'"},
			{Name: "priority", Type: TypeNumber, Description: "New priority level from 1 (normal) to 4 (urgent)", Enum: priorityEnum},
		},
	})

	r.add(CommandDescriptor{
		Name:        "todoist_delete_task",
		Description: "Delete a task from Todoist by searching for it by name",
		Params: []ParamSpec{
			{Name: "task_name", Type: TypeString, Description: "Name/content of the task to search for and delete", Required: true},
		},
	})

	r.add(CommandDescriptor{
		Name:        "todoist_complete_task",
		Description: "Mark a task as complete by searching for it by name",
		Params: []ParamSpec{
			{Name: "task_name", Type: TypeString, Description: "Name/content of the task to search for and complete", Required: true},
		},
	})

	r.add(CommandDescriptor{
		Name:        "todoist_list_projects",
		Description: "Get a list of all projects in Todoist",
	})

	r.add(CommandDescriptor{
		Name:        "todoist_get_project",
		Description: "Get details of a specific project by its ID",
		Params: []ParamSpec{
			{Name: "project_id", Type: TypeString, Description: "ID of the project to retrieve", Required: true},
		},
	})

	r.add(CommandDescriptor{
		Name:        "todoist_create_project",
		Description: "Create a new project in Todoist",
		Params: []ParamSpec{
			{Name: "name", Type: TypeString, Description: "Name of the project", Required: true},
			{Name: "parent_id", Type: TypeString, Description: "ID of the parent project for nesting"},
			{Name: "color", Type: TypeString, Description: "Color of the project icon"},
			{Name: "is_favorite", Type: TypeBoolean, Description: "Whether the project is a favorite"},
			{Name: "view_style", Type: TypeString, Description: "Display style of the project", Enum: viewStyleEnum},
		},
	})

	r.add(CommandDescriptor{
		Name:        "todoist_update_project",
		Description: "Update an existing project in Todoist by its ID",
		Params: []ParamSpec{
			{Name: "project_id", Type: TypeString, Description: "ID of the project to update", Required: true},
			{Name: "name", Type: TypeString, Description: "New name for the project"},
			{Name: "color", Type: TypeString, Description: "New color for the project icon"},
			{Name: "is_favorite", Type: TypeBoolean, Description: "Whether the project is a favorite"},
			{Name: "view_style", Type: TypeString, Description: "New display style for the project", Enum: viewStyleEnum},
		},
	})

	r.add(CommandDescriptor{
		Name:        "todoist_delete_project",
		Description: "Delete a project from Todoist by its ID",
		Params: []ParamSpec{
			{Name: "project_id", Type: TypeString, Description: "ID of the project to delete", Required: true},
		},
	})

	return r
}

func (r *Registry) add(d CommandDescriptor) {
	r.order = append(r.order, d.Name)
	r.byName[d.Name] = d
}

// Describe looks up the descriptor for a command name.
func (r *Registry) Describe(name string) (CommandDescriptor, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// ListAll returns all descriptors in registration order.
func (r *Registry) ListAll() []CommandDescriptor {
	out := make([]CommandDescriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}
