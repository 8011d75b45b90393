package response

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"go-gin-task-gateway/internal/core/auth"
	"go-gin-task-gateway/internal/domain"
	"go-gin-task-gateway/internal/gateway"
	"go-gin-task-gateway/internal/service"
)

func TestStatusOf(t *testing.T) {
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{service.ErrMissingToken, 401, "token missing"},
		{fmt.Errorf("%w: sig", auth.ErrInvalidSignature), 401, "invalid token"},
		{fmt.Errorf("%w: exp", auth.ErrExpired), 401, "token expired"},
		{domain.ErrInvalidCredentials, 401, domain.ErrInvalidCredentials.Error()},
		{domain.ErrUnknownUser, 404, "user not found"},
		{domain.ErrForbidden, 403, domain.ErrForbidden.Error()},
		{domain.ErrDuplicateEmail, 400, "email already exists"},
		{fmt.Errorf("%w: task 3", domain.ErrNotFound), 404, domain.ErrNotFound.Error() + ": task 3"},
		{fmt.Errorf("%w: Done", domain.ErrInvalidStatus), 400, domain.ErrInvalidStatus.Error() + ": Done"},
		{fmt.Errorf("%w: dial tcp", domain.ErrStoreUnavailable), 500, domain.ErrStoreUnavailable.Error()},
		{gateway.ErrRouteNotFound, 404, gateway.ErrRouteNotFound.Error()},
		{gateway.ErrMethodNotAllowed, 405, gateway.ErrMethodNotAllowed.Error()},
		{fmt.Errorf("%w: task_service: refused", gateway.ErrServiceUnavailable), 502, "service unavailable"},
		{fmt.Errorf("%w: task_service: deadline", gateway.ErrServiceTimeout), 504, "service timeout"},
		{gateway.ErrInvalidBody, 400, gateway.ErrInvalidBody.Error()},
		{BadRequest("invalid JSON body", errors.New("eof")), 400, "invalid JSON body"},
		{errors.New("boom"), 500, "internal error"},
	}
	for _, tc := range cases {
		status, msg := StatusOf(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.msg, msg, tc.err.Error())
	}
}

func TestError_WritesBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Error(c, fmt.Errorf("%w: x", domain.ErrStoreUnavailable))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"`+domain.ErrStoreUnavailable.Error()+`"}`, w.Body.String())
	assert.Len(t, c.Errors, 1)
	assert.True(t, c.IsAborted())
}
