package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-gin-task-gateway/internal/domain"
	"go-gin-task-gateway/internal/service"
	"go-gin-task-gateway/internal/transport/http/ez"
)

// UserHandler 用户目录 CRUD，无鉴权
type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler { return &UserHandler{svc: svc} }

type listUsersQ struct {
	Offset int `form:"offset,default=0"`
	Limit  int `form:"limit,default=20"`
}

type usersOut struct {
	Users []domain.User `json:"users"`
	Total int64         `json:"total"`
}

type userOut struct {
	User *domain.User `json:"user"`
}

func (h *UserHandler) Mount(public, _ gin.IRouter) {
	ez.RegisterAction(public, ez.Action[listUsersQ, usersOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *listUsersQ) (usersOut, error) {
			us, total, err := h.svc.List(c.Request.Context(), in.Offset, in.Limit)
			if err != nil {
				return usersOut{}, err
			}
			if us == nil {
				us = []domain.User{}
			}
			return usersOut{Users: us, Total: total}, nil
		},
	})

	ez.RegisterAction(public, ez.Action[struct{}, userOut]{
		Method: http.MethodGet,
		Path:   "/users/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (userOut, error) {
			id, err := ez.UintParam(c, "id")
			if err != nil {
				return userOut{}, err
			}
			u, err := h.svc.Get(c.Request.Context(), id)
			return userOut{User: u}, err
		},
	})

	ez.RegisterAction(public, ez.Action[service.CreateUserInput, userOut]{
		Method: http.MethodPost,
		Path:   "/users",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *service.CreateUserInput) (userOut, error) {
			u, err := h.svc.Create(c.Request.Context(), *in)
			return userOut{User: u}, err
		},
	})

	ez.RegisterAction(public, ez.Action[service.UpdateUserInput, userOut]{
		Method: http.MethodPut,
		Path:   "/users/:id",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.UpdateUserInput) (userOut, error) {
			id, err := ez.UintParam(c, "id")
			if err != nil {
				return userOut{}, err
			}
			u, err := h.svc.Update(c.Request.Context(), id, *in)
			return userOut{User: u}, err
		},
	})

	ez.RegisterAction(public, ez.Action[struct{}, messageOut]{
		Method: http.MethodDelete,
		Path:   "/users/:id",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (messageOut, error) {
			id, err := ez.UintParam(c, "id")
			if err != nil {
				return messageOut{}, err
			}
			if err := h.svc.Delete(c.Request.Context(), id); err != nil {
				return messageOut{}, err
			}
			return messageOut{Message: "user deleted"}, nil
		},
	})
}
