package domain

// Task is a read-only view of a task owned by the remote service. Identifiers
// always originate from remote responses; nothing here is fabricated locally.
type Task struct {
	ID          string `json:"id"`
	Content     string `json:"content"`
	Description string `json:"description,omitempty"`
	ProjectID   string `json:"project_id,omitempty"`
	Due         *Due   `json:"due,omitempty"`
	Priority    int    `json:"priority,omitempty"`
	IsCompleted bool   `json:"is_completed,omitempty"`
}

// Due carries both the natural-language string the caller supplied and the
// structured form the remote service derived from it.
type Due struct {
	String      string `json:"string"`
	Date        string `json:"date,omitempty"`
	Datetime    string `json:"datetime,omitempty"`
	IsRecurring bool   `json:"is_recurring,omitempty"`
}

// TaskFilter holds the server-side filters supported by the remote list
// endpoint. Both fields are optional; empty means unfiltered.
type TaskFilter struct {
	ProjectID string
	Filter    string
}

// CreateTaskRequest is the outbound payload for task creation. Optional
// fields are pointers so that unset fields are never sent.
type CreateTaskRequest struct {
	Content     string  `json:"content"`
	Description *string `json:"description,omitempty"`
	ProjectID   *string `json:"project_id,omitempty"`
	DueString   *string `json:"due_string,omitempty"`
	Priority    *int    `json:"priority,omitempty"`
}

// TaskPatch is a sparse update payload: only fields the caller supplied are
// serialized, leaving everything else at its existing remote value.
type TaskPatch struct {
	Content     *string `json:"content,omitempty"`
	Description *string `json:"description,omitempty"`
	DueString   *string `json:"due_string,omitempty"`
	Priority    *int    `json:"priority,omitempty"`
	ProjectID   *string `json:"project_id,omitempty"`
}
