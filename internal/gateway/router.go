package gateway

import (
	"net/http"
	"strings"
)

type Service string

const (
	ServiceAuth Service = "auth_service"
	ServiceUser Service = "user_service"
	ServiceTask Service = "task_service"
)

// Upstreams 下游 base URL
type Upstreams struct {
	Auth string
	User string
	Task string
}

func (u Upstreams) baseOf(s Service) string {
	switch s {
	case ServiceAuth:
		return u.Auth
	case ServiceUser:
		return u.User
	case ServiceTask:
		return u.Task
	}
	return ""
}

// List 固定顺序，供健康检查使用
func (u Upstreams) List() []Upstream {
	return []Upstream{
		{Name: ServiceAuth, BaseURL: u.Auth},
		{Name: ServiceUser, BaseURL: u.User},
		{Name: ServiceTask, BaseURL: u.Task},
	}
}

type Upstream struct {
	Name    Service
	BaseURL string
}

// Target Path 不带前导 /，如 "task/42"
type Target struct {
	Service Service
	BaseURL string
	Path    string
}

func (t Target) URL(rawQuery string) string {
	u := strings.TrimRight(t.BaseURL, "/") + "/" + t.Path
	if rawQuery != "" {
		u += "?" + rawQuery
	}
	return u
}

type segKind int

const (
	segLiteral segKind = iota
	segInt             // {id}
	segAny             // {status}
	segRest            // {*}，必须是最后一段
)

type segment struct {
	kind segKind
	lit  string
}

type route struct {
	segs    []segment
	methods []string // nil 表示任意方法
	service Service
	strip   int // 转发前去掉的前缀段数
}

var anyMethod []string

// routeTable 前缀代理 /auth、/user；其余都是任务服务的精确路径
var routeTable = []struct {
	pattern string
	methods []string
	service Service
	strip   int
}{
	{"/auth/{*}", anyMethod, ServiceAuth, 1},
	{"/user/{*}", anyMethod, ServiceUser, 1},
	{"/login", []string{http.MethodPost}, ServiceTask, 0},
	{"/register", []string{http.MethodPost}, ServiceTask, 0},
	{"/tasks", []string{http.MethodGet}, ServiceTask, 0},
	{"/task", []string{http.MethodPost}, ServiceTask, 0},
	{"/task/{id}", []string{http.MethodGet, http.MethodPut, http.MethodDelete}, ServiceTask, 0},
	{"/tasks/status/{status}", []string{http.MethodGet}, ServiceTask, 0},
	{"/info", []string{http.MethodGet}, ServiceTask, 0},
}

// Router 静态路由表：入站路径 → 下游服务 + 目标路径
type Router struct {
	upstreams Upstreams
	routes    []route
}

func NewRouter(up Upstreams) *Router {
	r := &Router{upstreams: up}
	for _, def := range routeTable {
		r.routes = append(r.routes, route{
			segs:    parsePattern(def.pattern),
			methods: def.methods,
			service: def.service,
			strip:   def.strip,
		})
	}
	return r
}

func parsePattern(p string) []segment {
	parts := strings.Split(strings.TrimPrefix(p, "/"), "/")
	segs := make([]segment, 0, len(parts))
	for _, part := range parts {
		switch part {
		case "{id}":
			segs = append(segs, segment{kind: segInt})
		case "{*}":
			segs = append(segs, segment{kind: segRest})
		default:
			if strings.HasPrefix(part, "{") {
				segs = append(segs, segment{kind: segAny})
			} else {
				segs = append(segs, segment{kind: segLiteral, lit: part})
			}
		}
	}
	return segs
}

// Route 路径不匹配 → ErrRouteNotFound；路径匹配但方法不在列表 → ErrMethodNotAllowed
func (r *Router) Route(path, method string) (Target, error) {
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	err := ErrRouteNotFound
	for _, rt := range r.routes {
		if !rt.match(parts) {
			continue
		}
		if !rt.allows(method) {
			err = ErrMethodNotAllowed
			continue
		}
		return Target{
			Service: rt.service,
			BaseURL: r.upstreams.baseOf(rt.service),
			Path:    strings.Join(parts[rt.strip:], "/"),
		}, nil
	}
	return Target{}, err
}

func (rt route) allows(method string) bool {
	if rt.methods == nil {
		return true
	}
	for _, m := range rt.methods {
		if m == method {
			return true
		}
	}
	return false
}

func (rt route) match(parts []string) bool {
	for i, s := range rt.segs {
		if s.kind == segRest {
			rest := parts[min(i, len(parts)):]
			return len(rest) > 0 && strings.Join(rest, "/") != ""
		}
		if i >= len(parts) {
			return false
		}
		p := parts[i]
		switch s.kind {
		case segLiteral:
			if p != s.lit {
				return false
			}
		case segInt:
			if !isDigits(p) {
				return false
			}
		case segAny:
			if p == "" {
				return false
			}
		}
	}
	return len(parts) == len(rt.segs)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
