package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-gin-task-gateway/internal/domain"
	"go-gin-task-gateway/internal/service"
	"go-gin-task-gateway/internal/transport/http/ez"
	resp "go-gin-task-gateway/internal/transport/http/response"
)

// TaskHandler 任务接口，全部挂在鉴权分组
type TaskHandler struct {
	svc *service.TaskService
}

func NewTaskHandler(svc *service.TaskService) *TaskHandler { return &TaskHandler{svc: svc} }

type tasksOut struct {
	Tasks  []domain.Task      `json:"tasks"`
	Status *domain.TaskStatus `json:"status,omitempty"`
	Count  int                `json:"count"`
}

type taskOut struct {
	Message string       `json:"message,omitempty"`
	Task    *domain.Task `json:"task"`
}

type messageOut struct {
	Message string `json:"message"`
}

func listOf(tasks []domain.Task) tasksOut {
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasksOut{Tasks: tasks, Count: len(tasks)}
}

func (h *TaskHandler) Mount(_, authed gin.IRouter) {
	ez.RegisterAction(authed, ez.Action[struct{}, tasksOut]{
		Method: http.MethodGet,
		Path:   "/tasks",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (tasksOut, error) {
			tasks, err := h.svc.List(c.Request.Context(), ez.IdentityOf(c))
			if err != nil {
				return tasksOut{}, err
			}
			return listOf(tasks), nil
		},
	})

	ez.RegisterAction(authed, ez.Action[struct{}, tasksOut]{
		Method: http.MethodGet,
		Path:   "/tasks/status/:status",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (tasksOut, error) {
			st, tasks, err := h.svc.ListByStatus(c.Request.Context(), ez.IdentityOf(c), c.Param("status"))
			if err != nil {
				return tasksOut{}, err
			}
			out := listOf(tasks)
			out.Status = &st
			return out, nil
		},
	})

	ez.RegisterAction(authed, ez.Action[service.CreateTaskInput, taskOut]{
		Method: http.MethodPost,
		Path:   "/task",
		Binder: ez.BindJSON,
		Auth:   true,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *service.CreateTaskInput) (taskOut, error) {
			t, err := h.svc.Create(c.Request.Context(), ez.IdentityOf(c), *in)
			if err != nil {
				return taskOut{}, err
			}
			return taskOut{Message: "task created", Task: t}, nil
		},
	})

	ez.RegisterAction(authed, ez.Action[struct{}, taskOut]{
		Method: http.MethodGet,
		Path:   "/task/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (taskOut, error) {
			id, err := ez.UintParam(c, "id")
			if err != nil {
				return taskOut{}, err
			}
			t, err := h.svc.Get(c.Request.Context(), ez.IdentityOf(c), id)
			if err != nil {
				return taskOut{}, err
			}
			return taskOut{Task: t}, nil
		},
	})

	ez.RegisterAction(authed, ez.Action[map[string]json.RawMessage, messageOut]{
		Method: http.MethodPut,
		Path:   "/task/:id",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *map[string]json.RawMessage) (messageOut, error) {
			id, err := ez.UintParam(c, "id")
			if err != nil {
				return messageOut{}, err
			}
			patch, err := decodeTaskPatch(*in)
			if err != nil {
				return messageOut{}, err
			}
			if err := h.svc.Update(c.Request.Context(), ez.IdentityOf(c), id, patch); err != nil {
				return messageOut{}, err
			}
			return messageOut{Message: "task updated"}, nil
		},
	})

	ez.RegisterAction(authed, ez.Action[struct{}, messageOut]{
		Method: http.MethodDelete,
		Path:   "/task/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (messageOut, error) {
			id, err := ez.UintParam(c, "id")
			if err != nil {
				return messageOut{}, err
			}
			if err := h.svc.Delete(c.Request.Context(), ez.IdentityOf(c), id); err != nil {
				return messageOut{}, err
			}
			return messageOut{Message: "task deleted"}, nil
		},
	})

	ez.RegisterAction(authed, ez.Action[struct{}, *service.SystemInfo]{
		Method: http.MethodGet,
		Path:   "/info",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*service.SystemInfo, error) {
			return h.svc.Info(c.Request.Context(), ez.IdentityOf(c))
		},
	})
}

// decodeTaskPatch 区分“未提供”和“提供了 null”：deadline 为 null 即清空
func decodeTaskPatch(raw map[string]json.RawMessage) (service.UpdateTaskInput, error) {
	var in service.UpdateTaskInput
	str := func(key string) (*string, error) {
		v, ok := raw[key]
		if !ok {
			return nil, nil
		}
		var s *string
		if err := json.Unmarshal(v, &s); err != nil {
			return nil, resp.BadRequest(key+" must be a string", err)
		}
		if s == nil {
			empty := ""
			s = &empty
		}
		return s, nil
	}
	var err error
	if in.Name, err = str("name"); err != nil {
		return in, err
	}
	if in.Description, err = str("description"); err != nil {
		return in, err
	}
	if in.Status, err = str("status"); err != nil {
		return in, err
	}
	if in.Deadline, err = str("deadline"); err != nil {
		return in, err
	}
	return in, nil
}
