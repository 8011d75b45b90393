package main

import (
	_ "go.uber.org/automaxprocs"

	"go-gin-task-gateway/internal/app"
	"go-gin-task-gateway/internal/repo"
	"go-gin-task-gateway/internal/service"
	"go-gin-task-gateway/internal/transport/http/router"
)

func main() {
	a := app.Init("user_service")
	defer a.Close()

	db := a.MustOpenDB()
	// 删除、改名时清掉 task 服务里缓存的身份
	userSvc := service.NewUserService(repo.NewUserRepo(db)).WithCache(a.IdentityCache())

	a.Serve(a.Cfg.App.UserDir, router.NewUserDirEngine(a.Log, userSvc))
}
