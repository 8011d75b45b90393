package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Role uint

// 角色 id 固定：admin=1 user=2 manager=3
const (
	RoleAdmin   Role = 1
	RoleUser    Role = 2
	RoleManager Role = 3
)

var roleNames = map[Role]string{
	RoleAdmin:   "admin",
	RoleUser:    "user",
	RoleManager: "manager",
}

// Roles 固定枚举
var Roles = []Role{RoleAdmin, RoleUser, RoleManager}

func (r Role) String() string {
	if n, ok := roleNames[r]; ok {
		return n
	}
	return "unknown"
}

func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	PasswordHash string         `gorm:"size:255;not null" json:"-"`
	Email        *string        `gorm:"uniqueIndex;size:100" json:"email"`
	RoleID       Role           `gorm:"not null;default:2" json:"role_id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

// UserPatch nil 字段保持不变
type UserPatch struct {
	Username *string
	Email    *string
}

// UserStore 读操作不返回已删除用户；查不到返回 (nil, nil)
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, id uint) (*User, error)
	Insert(ctx context.Context, username, passwordHash string, email *string, role Role) (uint, error)
	List(ctx context.Context, offset, limit int) ([]User, int64, error)
	Update(ctx context.Context, id uint, patch UserPatch) (int64, error)
	Delete(ctx context.Context, id uint) (int64, error)
	Count(ctx context.Context) (int64, error)
}
