package service

import (
	"context"
	"fmt"
	"strings"

	"go-gin-task-gateway/internal/core/cache"
	"go-gin-task-gateway/internal/domain"
)

// UserService 用户目录：纯 CRUD，无鉴权
type UserService struct {
	users domain.UserStore
	cache *cache.Cache
}

func NewUserService(users domain.UserStore) *UserService { return &UserService{users: users} }

// WithCache 与 Authorizer 共用的身份缓存；c 为 nil 时不做失效
func (s *UserService) WithCache(c *cache.Cache) *UserService {
	s.cache = c
	return s
}

// forget 清掉 username 的身份缓存，之后的认证重新查库
func (s *UserService) forget(ctx context.Context, username string) error {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.Delete(ctx, identityKey(username)); err != nil {
		return fmt.Errorf("%w: invalidate identity %q: %v", domain.ErrStoreUnavailable, username, err)
	}
	return nil
}

type CreateUserInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type UpdateUserInput struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

func (s *UserService) List(ctx context.Context, offset, limit int) ([]domain.User, int64, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.users.List(ctx, offset, limit)
}

func (s *UserService) Get(ctx context.Context, id uint) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: user %d", domain.ErrNotFound, id)
	}
	return u, nil
}

// Create 目录用户没有密码，无法登录
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	username, email := strings.TrimSpace(in.Username), strings.TrimSpace(in.Email)
	if username == "" || email == "" {
		return nil, fmt.Errorf("%w: username and email are required", domain.ErrMissingField)
	}
	id, err := s.users.Insert(ctx, username, "", &email, domain.RoleUser)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *UserService) Update(ctx context.Context, id uint, in UpdateUserInput) (*domain.User, error) {
	old, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	patch := domain.UserPatch{Username: in.Username, Email: in.Email}
	if patch.Username != nil && strings.TrimSpace(*patch.Username) == "" {
		return nil, fmt.Errorf("%w: username cannot be empty", domain.ErrMissingField)
	}
	if _, err := s.users.Update(ctx, id, patch); err != nil {
		return nil, err
	}
	// 旧用户名签发的令牌随之失效
	if patch.Username != nil && *patch.Username != old.Username {
		if err := s.forget(ctx, old.Username); err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, id)
}

func (s *UserService) Delete(ctx context.Context, id uint) error {
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	n, err := s.users.Delete(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: user %d", domain.ErrNotFound, id)
	}
	return s.forget(ctx, u.Username)
}
