package service

import (
	"context"
	"fmt"
	"strings"

	"go-gin-task-gateway/internal/domain"
)

type TaskService struct {
	tasks domain.TaskStore
	users domain.UserStore
}

func NewTaskService(tasks domain.TaskStore, users domain.UserStore) *TaskService {
	return &TaskService{tasks: tasks, users: users}
}

type CreateTaskInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Deadline    *string `json:"deadline"`
	Status      *string `json:"status"`
}

// UpdateTaskInput nil 表示未提供；Deadline 为空串表示清空
type UpdateTaskInput struct {
	Name        *string
	Description *string
	Status      *string
	Deadline    *string
}

type SystemInfo struct {
	System        string           `json:"system"`
	CurrentUser   string           `json:"current_user"`
	TotalUsers    int64            `json:"total_users"`
	TotalRoles    int              `json:"total_roles"`
	TotalTasks    int64            `json:"total_tasks"`
	TasksByStatus map[string]int64 `json:"tasks_by_status"`
}

// List 非 admin 在查询层按 owner 过滤
func (s *TaskService) List(ctx context.Context, id domain.Identity) ([]domain.Task, error) {
	if id.IsAdmin() {
		return s.tasks.ListAll(ctx)
	}
	return s.tasks.ListByOwner(ctx, id.ID)
}

func (s *TaskService) ListByStatus(ctx context.Context, id domain.Identity, slug string) (domain.TaskStatus, []domain.Task, error) {
	st, err := domain.StatusFromSlug(slug)
	if err != nil {
		return "", nil, err
	}
	var owner *uint
	if !id.IsAdmin() {
		owner = &id.ID
	}
	tasks, err := s.tasks.ListByStatusAndOwner(ctx, st, owner)
	return st, tasks, err
}

func (s *TaskService) Create(ctx context.Context, id domain.Identity, in CreateTaskInput) (*domain.Task, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: task name is required", domain.ErrMissingField)
	}
	t := &domain.Task{
		Name:        name,
		Description: in.Description,
		Status:      domain.StatusInProgress,
		CreatedBy:   id.ID,
	}
	if in.Deadline != nil && *in.Deadline != "" {
		d, err := domain.ParseDeadline(*in.Deadline)
		if err != nil {
			return nil, err
		}
		t.Deadline = &d
	}
	if in.Status != nil {
		st, err := domain.ParseStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		t.Status = st
	}
	if _, err := s.tasks.Create(ctx, t); err != nil {
		return nil, err
	}
	t.CreatedByUsername = id.Username
	return t, nil
}

// load 先判存在（404），再判权限（403）
func (s *TaskService) load(ctx context.Context, id domain.Identity, taskID uint, act Action) (*domain.Task, error) {
	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("%w: task %d", domain.ErrNotFound, taskID)
	}
	if !AuthorizeTaskAccess(id, t, act) {
		return nil, fmt.Errorf("%w: no permission to %s task %d", domain.ErrForbidden, act, taskID)
	}
	return t, nil
}

func (s *TaskService) Get(ctx context.Context, id domain.Identity, taskID uint) (*domain.Task, error) {
	return s.load(ctx, id, taskID, ActionRead)
}

func (s *TaskService) Update(ctx context.Context, id domain.Identity, taskID uint, in UpdateTaskInput) error {
	// 空补丁不查库，直接 400
	if in == (UpdateTaskInput{}) {
		return fmt.Errorf("%w: no fields to update", domain.ErrMissingField)
	}
	if _, err := s.load(ctx, id, taskID, ActionUpdate); err != nil {
		return err
	}
	patch, err := in.toPatch()
	if err != nil {
		return err
	}
	n, err := s.tasks.Update(ctx, taskID, patch)
	if err != nil {
		return err
	}
	if n == 0 {
		// 期间被软删
		return fmt.Errorf("%w: task %d", domain.ErrNotFound, taskID)
	}
	return nil
}

func (in UpdateTaskInput) toPatch() (domain.TaskPatch, error) {
	var p domain.TaskPatch
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return p, fmt.Errorf("%w: task name cannot be empty", domain.ErrMissingField)
		}
		p.Name = &name
	}
	p.Description = in.Description
	if in.Deadline != nil {
		if *in.Deadline == "" {
			p.ClearDeadline = true
		} else {
			d, err := domain.ParseDeadline(*in.Deadline)
			if err != nil {
				return p, err
			}
			p.Deadline = &d
		}
	}
	if in.Status != nil {
		st, err := domain.ParseStatus(*in.Status)
		if err != nil {
			return p, err
		}
		p.Status = &st
	}
	return p, nil
}

func (s *TaskService) Delete(ctx context.Context, id domain.Identity, taskID uint) error {
	if _, err := s.load(ctx, id, taskID, ActionDelete); err != nil {
		return err
	}
	_, err := s.tasks.SoftDelete(ctx, taskID)
	return err
}

func (s *TaskService) Info(ctx context.Context, id domain.Identity) (*SystemInfo, error) {
	users, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.tasks.CountsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	info := &SystemInfo{
		System:        "Task management API with JWT",
		CurrentUser:   id.Username,
		TotalUsers:    users,
		TotalRoles:    len(domain.Roles),
		TasksByStatus: make(map[string]int64, len(counts)),
	}
	for st, n := range counts {
		info.TotalTasks += n
		info.TasksByStatus[string(st)] = n
	}
	return info, nil
}
