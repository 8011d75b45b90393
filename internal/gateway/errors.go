package gateway

import "errors"

var (
	ErrRouteNotFound      = errors.New("route not found")
	ErrMethodNotAllowed   = errors.New("method not allowed")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrServiceTimeout     = errors.New("service timeout")
	ErrProxy              = errors.New("proxy request failed")
	ErrInvalidBody        = errors.New("invalid JSON body")
)
