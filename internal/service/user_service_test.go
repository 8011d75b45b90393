package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-gin-task-gateway/internal/core/database/dbtest"
	"go-gin-task-gateway/internal/domain"
	"go-gin-task-gateway/internal/repo"
)

func TestUserService_CRUD(t *testing.T) {
	svc := NewUserService(repo.NewUserRepo(dbtest.Open(t)))
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateUserInput{Username: "u1"})
	assert.ErrorIs(t, err, domain.ErrMissingField)

	u, err := svc.Create(ctx, CreateUserInput{Username: "u1", Email: "u1@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "u1", u.Username)

	_, err = svc.Create(ctx, CreateUserInput{Username: "u1", Email: "other@example.com"})
	assert.ErrorIs(t, err, domain.ErrDuplicateUsername)

	email := "new@example.com"
	updated, err := svc.Update(ctx, u.ID, UpdateUserInput{Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "u1", updated.Username)
	require.NotNil(t, updated.Email)
	assert.Equal(t, email, *updated.Email)

	_, err = svc.Update(ctx, u.ID+99, UpdateUserInput{Email: &email})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, total, err := svc.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, u.ID))
	assert.ErrorIs(t, svc.Delete(ctx, u.ID), domain.ErrNotFound)
	_, err = svc.Get(ctx, u.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
