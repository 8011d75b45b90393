package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-gin-task-gateway/internal/core/auth"
	"go-gin-task-gateway/internal/core/cache"
	"go-gin-task-gateway/internal/domain"
)

var ErrMissingToken = errors.New("token missing")

type TokenCodec interface {
	Issue(subject string) (string, error)
	Verify(token string) (string, error)
}

type Action string

const (
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Authorizer 令牌 → Identity，以及任务级权限判定
type Authorizer struct {
	codec    TokenCodec
	users    domain.UserStore
	cache    *cache.Cache
	cacheTTL time.Duration
}

func NewAuthorizer(codec TokenCodec, users domain.UserStore) *Authorizer {
	return &Authorizer{codec: codec, users: users}
}

// WithCache 身份解析结果缓存 ttl；删除、改名由 UserService 清除对应条目
func (a *Authorizer) WithCache(c *cache.Cache, ttl time.Duration) *Authorizer {
	a.cache = c
	a.cacheTTL = ttl
	return a
}

// BearerToken 从 Authorization 头取出令牌
func BearerToken(header string) (string, error) {
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", ErrMissingToken
	}
	tok := strings.TrimSpace(header[len(prefix):])
	if tok == "" {
		return "", ErrMissingToken
	}
	return tok, nil
}

func (a *Authorizer) Authenticate(ctx context.Context, token string) (domain.Identity, error) {
	subject, err := a.codec.Verify(token)
	if err != nil {
		return domain.Identity{}, err
	}
	id, err := a.resolve(ctx, subject)
	if err != nil {
		return domain.Identity{}, err
	}
	if id == nil {
		return domain.Identity{}, domain.ErrUnknownUser
	}
	return *id, nil
}

func (a *Authorizer) resolve(ctx context.Context, username string) (*domain.Identity, error) {
	load := func(ctx context.Context) (*domain.Identity, error) {
		u, err := a.users.GetByUsername(ctx, username)
		if err != nil || u == nil {
			return nil, err
		}
		return &domain.Identity{ID: u.ID, Username: u.Username, Role: u.RoleID}, nil
	}
	if a.cache == nil {
		return load(ctx)
	}
	return cache.GetOrLoadJSON(a.cache, ctx, identityKey(username), a.cacheTTL, load)
}

func identityKey(username string) string { return "identity:" + username }

// AuthorizeTaskAccess admin 全部放行；其他角色只能操作自己创建的任务
func AuthorizeTaskAccess(id domain.Identity, t *domain.Task, act Action) bool {
	if t == nil {
		return false
	}
	switch act {
	case ActionRead, ActionUpdate, ActionDelete:
	default:
		return false
	}
	if id.IsAdmin() {
		return true
	}
	return t.CreatedBy == id.ID
}

// IsUnauthenticated 对应 401 的错误
func IsUnauthenticated(err error) bool {
	return errors.Is(err, ErrMissingToken) || auth.IsBadToken(err)
}
