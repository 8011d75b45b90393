package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-gin-task-gateway/internal/core/auth"
	"go-gin-task-gateway/internal/core/database/dbtest"
	"go-gin-task-gateway/internal/domain"
	"go-gin-task-gateway/internal/repo"
	"go-gin-task-gateway/internal/service"
)

func init() { gin.SetMode(gin.TestMode) }

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticate(t *testing.T) {
	db := dbtest.Open(t)
	users := repo.NewUserRepo(db)
	_, err := users.Insert(context.Background(), "alice", "x", nil, domain.RoleUser)
	require.NoError(t, err)

	codec := &auth.JWTer{Secret: []byte("k"), TTL: time.Minute}
	r := gin.New()
	r.GET("/me", Authenticate(service.NewAuthorizer(codec, users)), func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"username": id.Username})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	w := do(r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"token missing"}`, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, do(r, req).Code)

	tok, err := codec.Issue("alice")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w = do(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"username":"alice"}`, w.Body.String())

	ghost, err := codec.Issue("ghost")
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+ghost)
	assert.Equal(t, http.StatusNotFound, do(r, req).Code)
}

func TestSimpleRecovery(t *testing.T) {
	r := gin.New()
	r.Use(SimpleRecovery(zap.NewNop()))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := do(r, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, w.Body.String())
}

func TestTimeout(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(20 * time.Millisecond))
	r.GET("/slow", func(c *gin.Context) { <-c.Request.Context().Done() })

	w := do(r, httptest.NewRequest(http.MethodGet, "/slow", nil))
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.JSONEq(t, `{"error":"timeout"}`, w.Body.String())
}

func TestMaxBodyBytes(t *testing.T) {
	r := gin.New()
	r.Use(MaxBodyBytes(8))
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := do(r, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"name":"too long"}`)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = do(r, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) {
		c.String(http.StatusOK, c.Request.Header.Get(KeyRequestID))
	})

	w := do(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	rid := w.Header().Get(KeyRequestID)
	assert.NotEmpty(t, rid)
	assert.Equal(t, rid, w.Body.String(), "generated id is visible to downstream forwarding")

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(KeyRequestID, "fixed")
	w = do(r, req)
	assert.Equal(t, "fixed", w.Header().Get(KeyRequestID))
}

func TestConcurrencyLimit_ClientGone(t *testing.T) {
	r := gin.New()
	r.Use(ConcurrencyLimit(1))
	hold := make(chan struct{})
	entered := make(chan struct{})
	r.GET("/x", func(c *gin.Context) {
		close(entered)
		<-hold
		c.Status(http.StatusOK)
	})

	done := make(chan int)
	go func() { done <- do(r, httptest.NewRequest(http.MethodGet, "/x", nil)).Code }()
	<-entered

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := do(r, httptest.NewRequest(http.MethodGet, "/x", nil).WithContext(ctx))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	close(hold)
	assert.Equal(t, http.StatusOK, <-done)
}
