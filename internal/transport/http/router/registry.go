package router

import (
	"sort"

	"github.com/gin-gonic/gin"
)

// Module 一组接口；公开与鉴权分组由 Mount 收到的参数区分
type Module interface {
	Mount(public, authed gin.IRouter)
}

// 可选：实现该接口可控制挂载顺序（数值越小越先挂）
// 不实现则默认 100
type prioritizer interface{ Priority() int }

// MountAll 按优先级挂载
func MountAll(public, authed gin.IRouter, mods ...Module) {
	mods = append([]Module(nil), mods...)
	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	for _, m := range mods {
		m.Mount(public, authed)
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
