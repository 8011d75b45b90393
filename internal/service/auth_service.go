package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-gin-task-gateway/internal/domain"
	"go-gin-task-gateway/pkg/utils"
)

type AuthService struct {
	users  domain.UserStore
	tokens TokenCodec
}

func NewAuthService(users domain.UserStore, tokens TokenCodec) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

type RegisterInput struct {
	Username string  `json:"username"`
	Password string  `json:"password"`
	Email    *string `json:"email"`
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, fmt.Errorf("%w: username and password are required", domain.ErrMissingField)
	}
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return "", nil, err
	}
	if u == nil || !utils.CheckPassword(password, u.PasswordHash) {
		return "", nil, domain.ErrInvalidCredentials
	}
	tok, err := s.tokens.Issue(u.Username)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return tok, u, nil
}

// Register 新用户默认 user 角色
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (uint, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return 0, fmt.Errorf("%w: username and password are required", domain.ErrMissingField)
	}
	if len(in.Password) < utils.MinPasswordLen {
		return 0, fmt.Errorf("%w: password must be at least %d characters", domain.ErrWeakPassword, utils.MinPasswordLen)
	}
	email := in.Email
	if email != nil && strings.TrimSpace(*email) == "" {
		email = nil
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}
	return s.users.Insert(ctx, username, hash, email, domain.RoleUser)
}

// EnsureAdmin 启动时确保存在 admin 账号；已存在则不改动
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password, email string) (bool, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	if u != nil {
		return false, nil
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}
	var ep *string
	if email != "" {
		ep = &email
	}
	_, err = s.users.Insert(ctx, username, hash, ep, domain.RoleAdmin)
	if errors.Is(err, domain.ErrDuplicateUsername) {
		return false, nil
	}
	return err == nil, err
}
