package database

import (
	"gorm.io/gorm"

	"go-gin-task-gateway/internal/domain"
)

// Migrate 建表；roles/permissions 不建表，角色是固定枚举
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.User{}, &domain.Task{})
}
