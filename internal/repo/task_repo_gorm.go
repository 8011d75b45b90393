package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"go-gin-task-gateway/internal/domain"
)

type TaskRepo struct{ db *gorm.DB }

var _ domain.TaskStore = (*TaskRepo)(nil)

func NewTaskRepo(db *gorm.DB) *TaskRepo { return &TaskRepo{db: db} }

// withOwner 带上 created_by_username，只取存活任务
func (r *TaskRepo) withOwner(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&domain.Task{}).
		Select("tasks.*, users.username AS created_by_username").
		Joins("JOIN users ON users.id = tasks.created_by").
		Where("tasks.is_alive = ?", true)
}

func (r *TaskRepo) Create(ctx context.Context, t *domain.Task) (uint, error) {
	t.IsAlive = true
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return 0, storeErr("create task", err)
	}
	return t.ID, nil
}

func (r *TaskRepo) GetByID(ctx context.Context, id uint) (*domain.Task, error) {
	var t domain.Task
	err := r.withOwner(ctx).Where("tasks.id = ?", id).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("get task", err)
	}
	return &t, nil
}

func (r *TaskRepo) ListByOwner(ctx context.Context, ownerID uint) ([]domain.Task, error) {
	return r.list(ctx, r.withOwner(ctx).Where("tasks.created_by = ?", ownerID))
}

func (r *TaskRepo) ListAll(ctx context.Context) ([]domain.Task, error) {
	return r.list(ctx, r.withOwner(ctx))
}

// ListByStatusAndOwner ownerID 为 nil 表示不限归属（admin）
func (r *TaskRepo) ListByStatusAndOwner(ctx context.Context, status domain.TaskStatus, ownerID *uint) ([]domain.Task, error) {
	q := r.withOwner(ctx).Where("tasks.status = ?", status)
	if ownerID != nil {
		q = q.Where("tasks.created_by = ?", *ownerID)
	}
	return r.list(ctx, q)
}

func (r *TaskRepo) list(_ context.Context, q *gorm.DB) ([]domain.Task, error) {
	tasks := []domain.Task{}
	if err := q.Order("tasks.created_at DESC").Order("tasks.id DESC").Find(&tasks).Error; err != nil {
		return nil, storeErr("list tasks", err)
	}
	return tasks, nil
}

// Update 单条 UPDATE ... WHERE is_alive，已软删的行不会被写回
func (r *TaskRepo) Update(ctx context.Context, id uint, patch domain.TaskPatch) (int64, error) {
	if patch.Empty() {
		return 0, nil
	}
	updates := map[string]any{}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.Status != nil {
		updates["status"] = string(*patch.Status)
	}
	switch {
	case patch.ClearDeadline:
		updates["deadline"] = nil
	case patch.Deadline != nil:
		updates["deadline"] = *patch.Deadline
	}
	updates["updated_at"] = time.Now()

	res := r.db.WithContext(ctx).Model(&domain.Task{}).
		Where("id = ? AND is_alive = ?", id, true).
		Updates(updates)
	if res.Error != nil {
		return 0, storeErr("update task", res.Error)
	}
	return res.RowsAffected, nil
}

// SoftDelete 幂等：已删除的行再次调用影响 0 行且不报错
func (r *TaskRepo) SoftDelete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.Task{}).
		Where("id = ? AND is_alive = ?", id, true).
		Updates(map[string]any{"is_alive": false, "updated_at": time.Now()})
	if res.Error != nil {
		return 0, storeErr("delete task", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *TaskRepo) CountsByStatus(ctx context.Context) (map[domain.TaskStatus]int64, error) {
	var rows []struct {
		Status domain.TaskStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&domain.Task{}).
		Select("status, COUNT(*) AS count").
		Where("is_alive = ?", true).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, storeErr("count tasks", err)
	}
	out := make(map[domain.TaskStatus]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}
