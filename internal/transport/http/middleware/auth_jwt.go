package middleware

import (
	"github.com/gin-gonic/gin"

	"go-gin-task-gateway/internal/domain"
	"go-gin-task-gateway/internal/service"
	resp "go-gin-task-gateway/internal/transport/http/response"
)

const keyIdentity = "identity"

// Authenticate Bearer 令牌 → Identity；失败直接中止（401 / 404 未知用户）
func Authenticate(authz *service.Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, err := service.BearerToken(c.GetHeader("Authorization"))
		if err != nil {
			resp.Error(c, err)
			return
		}
		id, err := authz.Authenticate(c.Request.Context(), tok)
		if err != nil {
			resp.Error(c, err)
			return
		}
		c.Set(keyIdentity, id)
		c.Next()
	}
}

func IdentityFrom(c *gin.Context) (domain.Identity, bool) {
	v, ok := c.Get(keyIdentity)
	if !ok {
		return domain.Identity{}, false
	}
	id, ok := v.(domain.Identity)
	return id, ok
}
