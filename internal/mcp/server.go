package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"todoistmcp/internal/domain"
)

// TaskService is the task-side surface the dispatcher needs from the remote
// service. *todoist.Client satisfies it.
type TaskService interface {
	CreateTask(ctx context.Context, req domain.CreateTaskRequest) (*domain.Task, error)
	ListTasks(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, error)
	UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error)
	DeleteTask(ctx context.Context, id string) error
	CloseTask(ctx context.Context, id string) error
}

// ProjectService is the project-side surface the dispatcher needs from the
// remote service. Projects are always addressed by identifier.
type ProjectService interface {
	ListProjects(ctx context.Context) ([]domain.Project, error)
	GetProject(ctx context.Context, id string) (*domain.Project, error)
	CreateProject(ctx context.Context, req domain.CreateProjectRequest) (*domain.Project, error)
	UpdateProject(ctx context.Context, id string, patch domain.ProjectPatch) (*domain.Project, error)
	DeleteProject(ctx context.Context, id string) error
}

// CommandResult is the normalized envelope for one handled command. It is
// constructed per request and consumed once by the transport.
type CommandResult struct {
	Text    string
	IsError bool
}

type handlerFunc func(ctx context.Context, args Args) (string, error)

// Server routes validated commands to remote-service operations. It holds
// no per-request state; the registry is the only shared (read-only) data.
type Server struct {
	registry *Registry
	tasks    TaskService
	projects ProjectService
	logger   *zap.Logger
	handlers map[string]handlerFunc
}

// NewServer builds the dispatcher with its handler table. The table is
// constructed once; dispatch is a map lookup, not a name switch.
func NewServer(registry *Registry, tasks TaskService, projects ProjectService, logger *zap.Logger) *Server {
	s := &Server{
		registry: registry,
		tasks:    tasks,
		projects: projects,
		logger:   logger,
	}
	s.handlers = map[string]handlerFunc{
		"todoist_create_task":    s.handleCreateTask,
		"todoist_list_tasks":     s.handleListTasks,
		"todoist_update_task":    s.handleUpdateTask,
		"todoist_delete_task":    s.handleDeleteTask,
		"todoist_complete_task":  s.handleCompleteTask,
		"todoist_list_projects":  s.handleListProjects,
		"todoist_get_project":    s.handleGetProject,
		"todoist_create_project": s.handleCreateProject,
		"todoist_update_project": s.handleUpdateProject,
		"todoist_delete_project": s.handleDeleteProject,
	}
	return s
}

// Commands exposes all registered descriptors for capability discovery.
func (s *Server) Commands() []CommandDescriptor {
	return s.registry.ListAll()
}

// Dispatch validates and executes one command invocation. It never returns
// an error: unknown commands, invalid arguments, and remote faults are all
// converted to error-flagged results, and a failed task-name resolution
// becomes a non-error informational result. One malformed request must
// never take down the request channel.
func (s *Server) Dispatch(ctx context.Context, name string, rawArgs map[string]interface{}) CommandResult {
	log := s.logger.With(
		zap.String("request_id", uuid.NewString()),
		zap.String("command", name),
	)

	handler, ok := s.handlers[name]
	if !ok {
		log.Warn("unknown command")
		return CommandResult{Text: fmt.Sprintf("Unknown command: %s", name), IsError: true}
	}

	desc, _ := s.registry.Describe(name)
	args, err := ValidateArgs(desc, rawArgs)
	if err != nil {
		log.Warn("argument validation failed", zap.Error(err))
		return CommandResult{Text: err.Error(), IsError: true}
	}

	text, err := handler(ctx, args)
	if err != nil {
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			log.Info("no task matched search text", zap.String("task_name", notFound.Fragment))
			return CommandResult{Text: fmt.Sprintf("Could not find a task matching %q", notFound.Fragment)}
		}
		log.Error("command failed", zap.Error(err))
		return CommandResult{Text: err.Error(), IsError: true}
	}

	log.Debug("command handled")
	return CommandResult{Text: text}
}

func (s *Server) handleCreateTask(ctx context.Context, args Args) (string, error) {
	content, _ := args.String("content")
	req := domain.CreateTaskRequest{Content: content}
	if v, ok := args.String("description"); ok {
		req.Description = &v
	}
	if v, ok := args.String("project_id"); ok {
		req.ProjectID = &v
	}
	if v, ok := args.String("due_string"); ok {
		req.DueString = &v
	}
	if v, ok := args.Int("priority"); ok {
		req.Priority = &v
	}

	task, err := s.tasks.CreateTask(ctx, req)
	if err != nil {
		return "", err
	}
	return "Task created:\n" + FormatTask(task), nil
}

func (s *Server) handleListTasks(ctx context.Context, args Args) (string, error) {
	var filter domain.TaskFilter
	if v, ok := args.String("project_id"); ok {
		filter.ProjectID = v
	}
	if v, ok := args.String("filter"); ok {
		filter.Filter = v
	}

	tasks, err := s.tasks.ListTasks(ctx, filter)
	if err != nil {
		return "", err
	}

	// The remote query cannot combine an exact-priority filter with the
	// natural-language filter, so priority is applied client-side.
	if priority, ok := args.Int("priority"); ok {
		matched := make([]domain.Task, 0, len(tasks))
		for _, t := range tasks {
			if t.Priority == priority {
				matched = append(matched, t)
			}
		}
		tasks = matched
	}

	// Truncate from the head of the already-filtered sequence, preserving
	// the remote's ordering. Negative limits disable truncation.
	limit, ok := args.Int("limit")
	if !ok {
		limit = DefaultTaskLimit
	}
	if limit >= 0 && len(tasks) > limit {
		tasks = tasks[:limit]
	}

	return FormatTaskList(tasks), nil
}

// resolveTask is phase 1 of the two-phase resolve-then-mutate flows: it
// fetches the full unfiltered collection and locates the target by
// approximate textual match. Phase 2 (the mutation) is skipped entirely
// when resolution fails.
func (s *Server) resolveTask(ctx context.Context, fragment string) (domain.Task, error) {
	tasks, err := s.tasks.ListTasks(ctx, domain.TaskFilter{})
	if err != nil {
		return domain.Task{}, err
	}
	task, ok := findTaskByContent(fragment, tasks)
	if !ok {
		return domain.Task{}, &NotFoundError{Fragment: fragment}
	}
	return task, nil
}

func (s *Server) handleUpdateTask(ctx context.Context, args Args) (string, error) {
	name, _ := args.String("task_name")
	task, err := s.resolveTask(ctx, name)
	if err != nil {
		return "", err
	}

	var patch domain.TaskPatch
	if v, ok := args.String("content"); ok {
		patch.Content = &v
	}
	if v, ok := args.String("description"); ok {
		patch.Description = &v
	}
	if v, ok := args.String("due_string"); ok {
		patch.DueString = &v
	}
	if v, ok := args.Int("priority"); ok {
		patch.Priority = &v
	}
	if v, ok := args.String("project_id"); ok {
		patch.ProjectID = &v
	}

	updated, err := s.tasks.UpdateTask(ctx, task.ID, patch)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Task %q updated:\n%s", task.Content, FormatTask(updated)), nil
}

func (s *Server) handleDeleteTask(ctx context.Context, args Args) (string, error) {
	name, _ := args.String("task_name")
	task, err := s.resolveTask(ctx, name)
	if err != nil {
		return "", err
	}
	if err := s.tasks.DeleteTask(ctx, task.ID); err != nil {
		return "", err
	}
	return fmt.Sprintf("Successfully deleted task: %q", task.Content), nil
}

func (s *Server) handleCompleteTask(ctx context.Context, args Args) (string, error) {
	name, _ := args.String("task_name")
	task, err := s.resolveTask(ctx, name)
	if err != nil {
		return "", err
	}
	if err := s.tasks.CloseTask(ctx, task.ID); err != nil {
		return "", err
	}
	return fmt.Sprintf("Successfully completed task: %q", task.Content), nil
}

func (s *Server) handleListProjects(ctx context.Context, _ Args) (string, error) {
	projects, err := s.projects.ListProjects(ctx)
	if err != nil {
		return "", err
	}
	return FormatProjectList(projects), nil
}

func (s *Server) handleGetProject(ctx context.Context, args Args) (string, error) {
	id, _ := args.String("project_id")
	project, err := s.projects.GetProject(ctx, id)
	if err != nil {
		return "", err
	}
	return FormatProject(project), nil
}

func (s *Server) handleCreateProject(ctx context.Context, args Args) (string, error) {
	name, _ := args.String("name")
	req := domain.CreateProjectRequest{Name: name}
	if v, ok := args.String("parent_id"); ok {
		req.ParentID = &v
	}
	if v, ok := args.String("color"); ok {
		req.Color = &v
	}
	if v, ok := args.Bool("is_favorite"); ok {
		req.IsFavorite = &v
	}
	if v, ok := args.String("view_style"); ok {
		req.ViewStyle = &v
	}

	project, err := s.projects.CreateProject(ctx, req)
	if err != nil {
		return "", err
	}
	return "Project created:\n" + FormatProject(project), nil
}

func (s *Server) handleUpdateProject(ctx context.Context, args Args) (string, error) {
	id, _ := args.String("project_id")

	var patch domain.ProjectPatch
	if v, ok := args.String("name"); ok {
		patch.Name = &v
	}
	if v, ok := args.String("color"); ok {
		patch.Color = &v
	}
	if v, ok := args.Bool("is_favorite"); ok {
		patch.IsFavorite = &v
	}
	if v, ok := args.String("view_style"); ok {
		patch.ViewStyle = &v
	}

	project, err := s.projects.UpdateProject(ctx, id, patch)
	if err != nil {
		return "", err
	}
	return "Project updated:\n" + FormatProject(project), nil
}

func (s *Server) handleDeleteProject(ctx context.Context, args Args) (string, error) {
	id, _ := args.String("project_id")
	if err := s.projects.DeleteProject(ctx, id); err != nil {
		return "", err
	}
	return fmt.Sprintf("Successfully deleted project: %s", id), nil
}
