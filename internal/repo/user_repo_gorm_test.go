package repo

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-gin-task-gateway/internal/core/database/dbtest"
	"go-gin-task-gateway/internal/domain"
)

func TestUserRepo_InsertDuplicate(t *testing.T) {
	users := NewUserRepo(dbtest.Open(t))
	ctx := context.Background()

	id, err := users.Insert(ctx, "carol", "hash", nil, domain.RoleUser)
	require.NoError(t, err)
	assert.NotZero(t, id)

	_, err = users.Insert(ctx, "carol", "hash2", nil, domain.RoleUser)
	assert.ErrorIs(t, err, domain.ErrDuplicateUsername)

	// email 为空可以重复
	_, err = users.Insert(ctx, "dave", "hash", nil, domain.RoleUser)
	require.NoError(t, err)
}

func TestUserRepo_GetAndDelete(t *testing.T) {
	users := NewUserRepo(dbtest.Open(t))
	ctx := context.Background()
	email := "erin@example.com"

	id, err := users.Insert(ctx, "erin", "hash", &email, domain.RoleManager)
	require.NoError(t, err)

	u, err := users.GetByUsername(ctx, "erin")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, domain.RoleManager, u.RoleID)
	require.NotNil(t, u.Email)
	assert.Equal(t, email, *u.Email)

	n, err := users.Delete(ctx, id)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	u, err = users.GetByUsername(ctx, "erin")
	require.NoError(t, err)
	assert.Nil(t, u)

	total, err := users.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
}

func TestUserRepo_ListAndUpdate(t *testing.T) {
	users := NewUserRepo(dbtest.Open(t))
	ctx := context.Background()

	for _, name := range []string{"u1", "u2", "u3"} {
		_, err := users.Insert(ctx, name, "h", nil, domain.RoleUser)
		require.NoError(t, err)
	}

	page, total, err := users.List(ctx, 1, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, page, 1)
	assert.Equal(t, "u2", page[0].Username)

	newName := "u2-renamed"
	n, err := users.Update(ctx, page[0].ID, domain.UserPatch{Username: &newName})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	taken := "u1"
	_, err = users.Update(ctx, page[0].ID, domain.UserPatch{Username: &taken})
	assert.ErrorIs(t, err, domain.ErrDuplicateUsername)

	n, err = users.Update(ctx, 999, domain.UserPatch{Username: &newName})
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestUserRepo_DeleteReleasesUniqueKeys(t *testing.T) {
	users := NewUserRepo(dbtest.Open(t))
	ctx := context.Background()
	email := "frank@example.com"

	id, err := users.Insert(ctx, "frank", "hash", &email, domain.RoleUser)
	require.NoError(t, err)
	n, err := users.Delete(ctx, id)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	again, err := users.Insert(ctx, "frank", "hash", &email, domain.RoleUser)
	require.NoError(t, err)
	assert.NotEqual(t, id, again)

	u, err := users.GetByUsername(ctx, "frank")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, again, u.ID)

	n, err = users.Delete(ctx, id)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUserRepo_EmptyEmailStoredAsNull(t *testing.T) {
	users := NewUserRepo(dbtest.Open(t))
	ctx := context.Background()
	empty := ""

	a, err := users.Insert(ctx, "gina", "h", &empty, domain.RoleUser)
	require.NoError(t, err)
	b, err := users.Insert(ctx, "hank", "h", &empty, domain.RoleUser)
	require.NoError(t, err)

	u, err := users.GetByID(ctx, a)
	require.NoError(t, err)
	assert.Nil(t, u.Email)

	mail := "hank@example.com"
	_, err = users.Update(ctx, b, domain.UserPatch{Email: &mail})
	require.NoError(t, err)
	_, err = users.Update(ctx, b, domain.UserPatch{Email: &empty})
	require.NoError(t, err)
	u, err = users.GetByID(ctx, b)
	require.NoError(t, err)
	assert.Nil(t, u.Email)
}

func TestUserRepo_DuplicateEmail(t *testing.T) {
	users := NewUserRepo(dbtest.Open(t))
	ctx := context.Background()
	mail := "ivy@example.com"

	_, err := users.Insert(ctx, "ivy", "h", &mail, domain.RoleUser)
	require.NoError(t, err)
	_, err = users.Insert(ctx, "ivy2", "h", &mail, domain.RoleUser)
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	id, err := users.Insert(ctx, "jack", "h", nil, domain.RoleUser)
	require.NoError(t, err)
	_, err = users.Update(ctx, id, domain.UserPatch{Email: &mail})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestTombstone(t *testing.T) {
	assert.Equal(t, "erin#deleted-7", tombstone("erin", 7))

	long := strings.Repeat("x", usernameMax)
	got := tombstone(long, 12345)
	assert.Len(t, got, usernameMax)
	assert.True(t, strings.HasSuffix(got, "#deleted-12345"))
}
