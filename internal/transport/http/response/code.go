package response

import (
	"errors"
	"net/http"

	"go-gin-task-gateway/internal/core/auth"
	"go-gin-task-gateway/internal/domain"
	"go-gin-task-gateway/internal/gateway"
	"go-gin-task-gateway/internal/service"
)

// 错误 → HTTP 状态码，集中管理
var statusTable = []struct {
	err    error
	status int
}{
	{service.ErrMissingToken, http.StatusUnauthorized},
	{auth.ErrMalformed, http.StatusUnauthorized},
	{auth.ErrInvalidSignature, http.StatusUnauthorized},
	{auth.ErrExpired, http.StatusUnauthorized},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized},
	{domain.ErrUnknownUser, http.StatusNotFound},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrInvalidStatus, http.StatusBadRequest},
	{domain.ErrInvalidDeadlineFormat, http.StatusBadRequest},
	{domain.ErrMissingField, http.StatusBadRequest},
	{domain.ErrWeakPassword, http.StatusBadRequest},
	{domain.ErrDuplicateUsername, http.StatusBadRequest},
	{domain.ErrDuplicateEmail, http.StatusBadRequest},
	{domain.ErrStoreUnavailable, http.StatusInternalServerError},
	{gateway.ErrRouteNotFound, http.StatusNotFound},
	{gateway.ErrMethodNotAllowed, http.StatusMethodNotAllowed},
	{gateway.ErrInvalidBody, http.StatusBadRequest},
	{gateway.ErrServiceUnavailable, http.StatusBadGateway},
	{gateway.ErrServiceTimeout, http.StatusGatewayTimeout},
	{gateway.ErrProxy, http.StatusInternalServerError},
}

// 对外隐藏细节的消息
var publicMsg = map[error]string{
	auth.ErrMalformed:             "invalid token",
	auth.ErrInvalidSignature:      "invalid token",
	auth.ErrExpired:               "token expired",
	gateway.ErrProxy:              "proxy error",
	gateway.ErrServiceTimeout:     "service timeout",
	gateway.ErrServiceUnavailable: "service unavailable",
}

// StatusOf 返回状态码和写给客户端的消息；未识别的错误一律 500
func StatusOf(err error) (int, string) {
	var ae *AErr
	if errors.As(err, &ae) {
		return ae.Code, ae.Error()
	}
	for _, e := range statusTable {
		if errors.Is(err, e.err) {
			if msg, ok := publicMsg[e.err]; ok {
				return e.status, msg
			}
			if e.status == http.StatusInternalServerError {
				return e.status, e.err.Error()
			}
			return e.status, err.Error()
		}
	}
	return http.StatusInternalServerError, "internal error"
}
