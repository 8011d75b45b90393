package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-gin-task-gateway/internal/domain"
	"go-gin-task-gateway/internal/service"
	"go-gin-task-gateway/internal/transport/http/ez"
)

// AuthHandler /login /register，无需鉴权
type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

func (h *AuthHandler) Priority() int { return 10 }

type loginIn struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginUser struct {
	ID       uint        `json:"id"`
	Username string      `json:"username"`
	RoleID   domain.Role `json:"role_id"`
}

type loginOut struct {
	Token   string    `json:"token"`
	Message string    `json:"message"`
	User    loginUser `json:"user"`
}

type registerOut struct {
	Message string `json:"message"`
	UserID  uint   `json:"user_id"`
}

func (h *AuthHandler) Mount(public, _ gin.IRouter) {
	ez.RegisterAction(public, ez.Action[loginIn, loginOut]{
		Method: http.MethodPost,
		Path:   "/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (loginOut, error) {
			tok, u, err := h.svc.Login(c.Request.Context(), in.Username, in.Password)
			if err != nil {
				return loginOut{}, err
			}
			return loginOut{
				Token:   tok,
				Message: "login successful",
				User:    loginUser{ID: u.ID, Username: u.Username, RoleID: u.RoleID},
			}, nil
		},
	})

	ez.RegisterAction(public, ez.Action[service.RegisterInput, registerOut]{
		Method: http.MethodPost,
		Path:   "/register",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *service.RegisterInput) (registerOut, error) {
			id, err := h.svc.Register(c.Request.Context(), *in)
			if err != nil {
				return registerOut{}, err
			}
			return registerOut{Message: "user created", UserID: id}, nil
		},
	})
}
