package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type TaskStatus string

const (
	StatusInProgress TaskStatus = "In Progress"
	StatusRevision   TaskStatus = "Revision"
	StatusCompleted  TaskStatus = "Completed"
	StatusPaused     TaskStatus = "Paused"
)

// Statuses 写入时仅接受这四个值
var Statuses = []TaskStatus{StatusInProgress, StatusRevision, StatusCompleted, StatusPaused}

// DeadlineLayout YYYY-MM-DD HH:MM:SS
const DeadlineLayout = "2006-01-02 15:04:05"

func ParseStatus(s string) (TaskStatus, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: must be one of %s", ErrInvalidStatus, statusList())
}

// Slug URL 形式：In Progress → in_progress
func (s TaskStatus) Slug() string {
	return strings.ToLower(strings.ReplaceAll(string(s), " ", "_"))
}

func StatusFromSlug(slug string) (TaskStatus, error) {
	for _, st := range Statuses {
		if st.Slug() == slug {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: must be one of %s", ErrInvalidStatus, statusList())
}

func statusList() string {
	names := make([]string, len(Statuses))
	for i, st := range Statuses {
		names[i] = string(st)
	}
	return strings.Join(names, ", ")
}

func ParseDeadline(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DeadlineLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: use YYYY-MM-DD HH:MM:SS", ErrInvalidDeadlineFormat)
	}
	return t, nil
}

// Task IsAlive=false 即软删，所有读路径都排除
type Task struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	Name              string     `gorm:"size:255;not null" json:"name"`
	Description       string     `gorm:"type:text" json:"description"`
	CreatedAt         time.Time  `gorm:"index" json:"created_at"`
	Deadline          *time.Time `json:"deadline"`
	Status            TaskStatus `gorm:"size:16;not null;default:'In Progress';index" json:"status"`
	IsAlive           bool       `gorm:"not null;default:true;index" json:"is_alive"`
	CreatedBy         uint       `gorm:"not null;index" json:"created_by"`
	CreatedByUsername string     `gorm:"->;-:migration" json:"created_by_username,omitempty"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (Task) TableName() string { return "tasks" }

// TaskPatch nil 字段不更新；ClearDeadline 优先于 Deadline
type TaskPatch struct {
	Name          *string
	Description   *string
	Status        *TaskStatus
	Deadline      *time.Time
	ClearDeadline bool
}

func (p TaskPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Status == nil && p.Deadline == nil && !p.ClearDeadline
}

// TaskStore 所有读操作排除 is_alive=false；查不到返回 (nil, nil)
type TaskStore interface {
	Create(ctx context.Context, t *Task) (uint, error)
	GetByID(ctx context.Context, id uint) (*Task, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]Task, error)
	ListAll(ctx context.Context) ([]Task, error)
	ListByStatusAndOwner(ctx context.Context, status TaskStatus, ownerID *uint) ([]Task, error)
	Update(ctx context.Context, id uint, patch TaskPatch) (int64, error)
	SoftDelete(ctx context.Context, id uint) (int64, error)
	CountsByStatus(ctx context.Context) (map[TaskStatus]int64, error)
}
