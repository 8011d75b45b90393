package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"go-gin-task-gateway/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

var _ domain.UserStore = (*UserRepo)(nil)

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

// usernameMax 与 users.username 列宽一致
const usernameMax = 50

// normEmail 空串按 NULL 存，否则会撞唯一索引
func normEmail(email *string) *string {
	if email == nil || strings.TrimSpace(*email) == "" {
		return nil
	}
	return email
}

func (r *UserRepo) Insert(ctx context.Context, username, passwordHash string, email *string, role domain.Role) (uint, error) {
	u := domain.User{Username: username, PasswordHash: passwordHash, Email: normEmail(email), RoleID: role}
	if err := r.db.WithContext(ctx).Create(&u).Error; err != nil {
		if isDupKey(err) {
			return 0, r.dupErr(ctx, 0, username)
		}
		return 0, storeErr("insert user", err)
	}
	return u.ID, nil
}

// dupErr 唯一约束冲突时判断是用户名还是邮箱
func (r *UserRepo) dupErr(ctx context.Context, self uint, username string) error {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("username = ? AND id <> ?", username, self).
		Count(&n).Error
	if err != nil || n > 0 {
		return domain.ErrDuplicateUsername
	}
	return domain.ErrDuplicateEmail
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.first(ctx, "get user", "username = ?", username)
}

func (r *UserRepo) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	return r.first(ctx, "get user", "id = ?", id)
}

func (r *UserRepo) first(ctx context.Context, op, cond string, arg any) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).Where(cond, arg).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr(op, err)
	}
	return &u, nil
}

func (r *UserRepo) List(ctx context.Context, offset, limit int) ([]domain.User, int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.User{})
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, storeErr("count users", err)
	}
	users := []domain.User{}
	if err := tx.Order("id ASC").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, storeErr("list users", err)
	}
	return users, total, nil
}

func (r *UserRepo) Update(ctx context.Context, id uint, patch domain.UserPatch) (int64, error) {
	updates := map[string]any{}
	if patch.Username != nil {
		updates["username"] = *patch.Username
	}
	if patch.Email != nil {
		updates["email"] = normEmail(patch.Email)
	}
	if len(updates) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		if isDupKey(res.Error) {
			if patch.Username == nil {
				return 0, domain.ErrDuplicateEmail
			}
			return 0, r.dupErr(ctx, id, *patch.Username)
		}
		return 0, storeErr("update user", res.Error)
	}
	return res.RowsAffected, nil
}

// Delete 软删（DeletedAt），之后 GetByUsername 查不到。
// 同一事务里把用户名改成墓碑名、邮箱置 NULL，释放唯一键供重新注册。
func (r *UserRepo) Delete(ctx context.Context, id uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u domain.User
		err := tx.Select("id", "username").Where("id = ?", id).First(&u).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		err = tx.Model(&domain.User{}).Where("id = ?", id).
			Updates(map[string]any{"username": tombstone(u.Username, id), "email": nil}).Error
		if err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&domain.User{})
		n = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, storeErr("delete user", err)
	}
	return n, nil
}

// tombstone 已删除用户的用户名：<原名>#deleted-<id>，超长时截断原名
func tombstone(username string, id uint) string {
	suffix := fmt.Sprintf("#deleted-%d", id)
	if keep := usernameMax - len(suffix); len(username) > keep {
		username = strings.ToValidUTF8(username[:keep], "")
	}
	return username + suffix
}

func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&domain.User{}).Count(&n).Error; err != nil {
		return 0, storeErr("count users", err)
	}
	return n, nil
}
