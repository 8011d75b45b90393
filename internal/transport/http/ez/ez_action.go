package ez

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"go-gin-task-gateway/internal/domain"
	mdw "go-gin-task-gateway/internal/transport/http/middleware"
	resp "go-gin-task-gateway/internal/transport/http/response"
)

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param 取
)

// Action 一行注册一个接口：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string // "GET" | "POST" | "PUT" | "DELETE"
	Path    string // 例："/task/:id"
	Binder  Binder
	Auth    bool // 要求分组已挂 Authenticate 中间件
	Status  int  // 成功状态码，默认 200
	Handler func(c *gin.Context, in *I) (O, error)
}

// IdentityOf Auth=true 的 Action 中一定存在
func IdentityOf(c *gin.Context) domain.Identity {
	id, _ := mdw.IdentityFrom(c)
	return id
}

// RegisterAction 绑定 → 执行 → 统一错误映射
func RegisterAction[I any, O any](g gin.IRoutes, a Action[I, O]) {
	h := func(c *gin.Context) {
		if a.Auth {
			if _, ok := mdw.IdentityFrom(c); !ok {
				resp.Error(c, &resp.AErr{Code: http.StatusUnauthorized, Msg: "unauthorized"})
				return
			}
		}

		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		default:
		}
		if bindErr != nil {
			resp.Error(c, resp.BadRequest("invalid request body", bindErr))
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			resp.Error(c, err)
			return
		}
		status := a.Status
		if status == 0 {
			status = http.StatusOK
		}
		c.JSON(status, out)
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		g.GET(a.Path, h)
	case http.MethodPut:
		g.PUT(a.Path, h)
	case http.MethodDelete:
		g.DELETE(a.Path, h)
	case http.MethodPatch:
		g.PATCH(a.Path, h)
	default: // 默认 POST
		g.POST(a.Path, h)
	}
}

// UintParam 解析路径上的数字 id；非法按 404 处理，与路由不匹配一致
func UintParam(c *gin.Context, name string) (uint, error) {
	n, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q", domain.ErrNotFound, name, c.Param(name))
	}
	return uint(n), nil
}
