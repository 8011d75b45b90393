package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-gin-task-gateway/internal/domain"
	"go-gin-task-gateway/internal/gateway"
	resp "go-gin-task-gateway/internal/transport/http/response"
)

// GatewayHandler 网关自身的 / 与 /health，其余路径走代理
type GatewayHandler struct {
	router    *gateway.Router
	proxy     *gateway.Proxy
	health    *gateway.HealthAggregator
	upstreams gateway.Upstreams
	port      int
	now       func() time.Time
}

func NewGatewayHandler(up gateway.Upstreams, proxy *gateway.Proxy, health *gateway.HealthAggregator, port int) *GatewayHandler {
	return &GatewayHandler{
		router:    gateway.NewRouter(up),
		proxy:     proxy,
		health:    health,
		upstreams: up,
		port:      port,
		now:       time.Now,
	}
}

func (h *GatewayHandler) Index(c *gin.Context) {
	statuses := make([]string, 0, len(domain.Statuses))
	for _, s := range domain.Statuses {
		statuses = append(statuses, string(s))
	}
	c.JSON(http.StatusOK, gin.H{
		"message":      "Task management API gateway with JWT",
		"version":      "2.0.0",
		"gateway_port": h.port,
		"services": gin.H{
			string(gateway.ServiceAuth): h.upstreams.Auth,
			string(gateway.ServiceUser): h.upstreams.User,
			string(gateway.ServiceTask): h.upstreams.Task,
		},
		"endpoints": gin.H{
			"authentication": gin.H{
				"login":    "POST /login",
				"register": "POST /register",
			},
			"tasks": gin.H{
				"list_all":  "GET /tasks",
				"create":    "POST /task",
				"get_one":   "GET /task/{id}",
				"update":    "PUT /task/{id}",
				"delete":    "DELETE /task/{id}",
				"by_status": "GET /tasks/status/{status}",
			},
			"system": gin.H{
				"health":  "GET /health",
				"info":    "GET /info (requires authentication)",
				"metrics": "GET /metrics",
			},
			"proxies": gin.H{
				"auth": "ANY /auth/{path}",
				"user": "ANY /user/{path}",
			},
		},
		"authentication": gin.H{
			"type":       "JWT Bearer Token",
			"header":     "Authorization: Bearer <token>",
			"expiration": "5 minutes",
			"note":       "token required for every endpoint except /login and /register",
		},
		"task_statuses": statuses,
	})
}

// Health 总是 200，降级信息放在 body 里
func (h *GatewayHandler) Health(c *gin.Context) {
	rep := h.health.CheckAll(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"status":       rep.Status,
		"services":     rep.Services,
		"gateway_port": h.port,
		"timestamp":    h.now().UTC().Format(time.RFC3339),
	})
}

// Proxy 挂在 NoRoute 上
func (h *GatewayHandler) Proxy(c *gin.Context) {
	target, err := h.router.Route(c.Request.URL.Path, c.Request.Method)
	if err != nil {
		resp.Error(c, err)
		return
	}
	out, err := h.proxy.Forward(c.Request.Context(), target, c.Request)
	if err != nil {
		resp.Error(c, err)
		return
	}
	if out.ContentEncoding != "" {
		c.Header("Content-Encoding", out.ContentEncoding)
	}
	ct := out.ContentType
	switch {
	case out.JSON:
		ct = "application/json; charset=utf-8"
	case ct == "":
		ct = "application/octet-stream"
	}
	c.Data(out.Status, ct, out.Body)
}
