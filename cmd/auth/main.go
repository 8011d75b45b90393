package main

import (
	_ "go.uber.org/automaxprocs"

	"go-gin-task-gateway/internal/app"
	"go-gin-task-gateway/internal/repo"
	"go-gin-task-gateway/internal/service"
	"go-gin-task-gateway/internal/transport/http/router"
)

// 独立认证服务：与任务服务共用用户表和签名密钥
func main() {
	a := app.Init("auth_service")
	defer a.Close()

	db := a.MustOpenDB()
	authSvc := service.NewAuthService(repo.NewUserRepo(db), a.JWTer())

	a.Serve(a.Cfg.App.Auth, router.NewAuthEngine(a.Log, authSvc))
}
