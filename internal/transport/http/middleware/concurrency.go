package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	resp "go-gin-task-gateway/internal/transport/http/response"
)

// ConcurrencyLimit 限制同时在处理的请求数（保护 DB 下游）；排队直到客户端放弃
func ConcurrencyLimit(max int64) gin.HandlerFunc {
	sem := semaphore.NewWeighted(max)
	return func(c *gin.Context) {
		if err := sem.Acquire(c.Request.Context(), 1); err != nil {
			resp.Error(c, &resp.AErr{Code: http.StatusServiceUnavailable, Msg: "server busy", Err: err})
			return
		}
		defer sem.Release(1)
		c.Next()
	}
}
