package main

import (
	"time"

	_ "go.uber.org/automaxprocs"

	"go.uber.org/zap"

	"go-gin-task-gateway/internal/app"
	"go-gin-task-gateway/internal/gateway"
	"go-gin-task-gateway/internal/transport/http/handler"
	"go-gin-task-gateway/internal/transport/http/router"
)

// 网关不连数据库，只做路由转发和健康聚合
func main() {
	a := app.Init("gateway")
	defer a.Close()

	gc := a.Cfg.Gateway
	up := gateway.Upstreams{Auth: gc.Services.Auth, User: gc.Services.User, Task: gc.Services.Task}
	a.Log.Info("upstreams",
		zap.String("auth", up.Auth),
		zap.String("user", up.User),
		zap.String("task", up.Task),
	)

	proxy := gateway.NewProxy(time.Duration(gc.ProxyTimeoutSec)*time.Second, a.Log)
	health := gateway.NewHealthAggregator(up.List(), time.Duration(gc.HealthTimeoutSec)*time.Second)
	gh := handler.NewGatewayHandler(up, proxy, health, a.Cfg.App.Gateway.Port)

	a.Serve(a.Cfg.App.Gateway, router.NewGatewayEngine(a.Log, gh))
}
