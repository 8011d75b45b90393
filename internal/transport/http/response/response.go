package response

import (
	"github.com/gin-gonic/gin"
)

// Body 所有失败响应都是 {"error": msg}
type Body struct {
	Error string `json:"error"`
}

// AErr 显式指定状态码的错误（绑定失败等）
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "request error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string, err error) error { return &AErr{Code: 400, Msg: msg, Err: err} }

// Error 写错误响应；5xx 记入 c.Errors 供访问日志输出
func Error(c *gin.Context, err error) {
	status, msg := StatusOf(err)
	if status >= 500 {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, Body{Error: msg})
}

func Message(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"message": msg})
}
