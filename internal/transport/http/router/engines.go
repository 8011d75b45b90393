package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"go-gin-task-gateway/internal/core/server"
	"go-gin-task-gateway/internal/service"
	"go-gin-task-gateway/internal/transport/http/handler"
	mdw "go-gin-task-gateway/internal/transport/http/middleware"
)

const (
	maxBody        = 1 << 20
	maxInFlight    = 300
	requestTimeout = 10 * time.Second
)

// newServiceEngine 下游服务共用的中间件链与 /health /metrics
func newServiceEngine(l *zap.Logger, name string) *gin.Engine {
	r := gin.New()
	r.Use(
		mdw.RequestID(),
		mdw.AccessLog(l),
		mdw.SimpleRecovery(l),
		mdw.Metrics(name),
		mdw.ConcurrencyLimit(maxInFlight),
		mdw.MaxBodyBytes(maxBody),
		mdw.Timeout(requestTimeout),
	)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "service": name})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

// NewTaskEngine 任务服务：/login /register 公开，其余要求 Bearer 令牌
func NewTaskEngine(l *zap.Logger, authz *service.Authorizer, authSvc *service.AuthService, taskSvc *service.TaskService) *gin.Engine {
	r := newServiceEngine(l, "task_service")
	authed := r.Group("", mdw.Authenticate(authz))
	MountAll(r, authed,
		handler.NewAuthHandler(authSvc),
		handler.NewTaskHandler(taskSvc),
	)
	return r
}

func NewAuthEngine(l *zap.Logger, authSvc *service.AuthService) *gin.Engine {
	r := newServiceEngine(l, "auth_service")
	MountAll(r, r, handler.NewAuthHandler(authSvc))
	return r
}

func NewUserDirEngine(l *zap.Logger, userSvc *service.UserService) *gin.Engine {
	r := newServiceEngine(l, "user_service")
	MountAll(r, r, handler.NewUserHandler(userSvc))
	return r
}

// NewGatewayEngine 网关不做鉴权，也不加请求超时（由代理自身的超时兜底）
func NewGatewayEngine(l *zap.Logger, gh *handler.GatewayHandler) *gin.Engine {
	r := server.NewRouter(l)
	r.Use(
		mdw.RequestID(),
		mdw.SimpleRecovery(l),
		mdw.Metrics("gateway"),
	)
	r.GET("/", gh.Index)
	r.GET("/health", gh.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.NoRoute(gh.Proxy)
	return r
}
