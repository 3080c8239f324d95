package todoist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"todoistmcp/internal/domain"
)

// DefaultBaseURL is the Todoist REST v2 endpoint.
const DefaultBaseURL = "https://api.todoist.com/rest/v2"

// Client is a typed client for the Todoist REST API. The remote service is
// authoritative for identifiers, list ordering, and natural-language
// due-date and filter interpretation; the client never retries.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a Client authenticating with the given bearer token.
// An empty baseURL selects DefaultBaseURL; a zero timeout defaults to 30s.
func NewClient(token, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// CreateTask creates a new task and returns the remote's view of it.
func (c *Client) CreateTask(ctx context.Context, req domain.CreateTaskRequest) (*domain.Task, error) {
	var task domain.Task
	if err := c.do(ctx, http.MethodPost, "/tasks", req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// ListTasks fetches active tasks, optionally scoped by project and filtered
// by the remote's natural-language filter string. Ordering is the remote's.
func (c *Client) ListTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error) {
	q := url.Values{}
	if filter.ProjectID != "" {
		q.Set("project_id", filter.ProjectID)
	}
	if filter.Filter != "" {
		q.Set("filter", filter.Filter)
	}
	path := "/tasks"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var tasks []domain.Task
	if err := c.do(ctx, http.MethodGet, path, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// UpdateTask applies a sparse patch to the task with the given id.
func (c *Client) UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	var task domain.Task
	if err := c.do(ctx, http.MethodPost, "/tasks/"+id, patch, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask permanently deletes the task with the given id.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/tasks/"+id, nil, nil)
}

// CloseTask marks the task with the given id as completed.
func (c *Client) CloseTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/tasks/"+id+"/close", nil, nil)
}

// ListProjects fetches all projects in the remote's order.
func (c *Client) ListProjects(ctx context.Context) ([]domain.Project, error) {
	var projects []domain.Project
	if err := c.do(ctx, http.MethodGet, "/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProject fetches a single project by id.
func (c *Client) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	var project domain.Project
	if err := c.do(ctx, http.MethodGet, "/projects/"+id, nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// CreateProject creates a new project.
func (c *Client) CreateProject(ctx context.Context, req domain.CreateProjectRequest) (*domain.Project, error) {
	var project domain.Project
	if err := c.do(ctx, http.MethodPost, "/projects", req, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// UpdateProject applies a sparse patch to the project with the given id.
// An empty patch is still sent; the remote returns the project unchanged.
func (c *Client) UpdateProject(ctx context.Context, id string, patch domain.ProjectPatch) (*domain.Project, error) {
	var project domain.Project
	if err := c.do(ctx, http.MethodPost, "/projects/"+id, patch, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// DeleteProject permanently deletes the project with the given id.
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/projects/"+id, nil, nil)
}

// do performs one HTTP round-trip. A nil body sends no payload; a nil out
// discards the response body (the remote answers 204 for deletes and close).
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("todoist: marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("todoist: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("todoist: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("todoist: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("todoist: %s %s: HTTP %d: %s", method, path, resp.StatusCode, string(respBody))
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("todoist: unmarshal response: %w", err)
	}
	return nil
}
