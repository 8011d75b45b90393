package main

import (
	"context"
	"time"

	_ "go.uber.org/automaxprocs"

	"go.uber.org/zap"

	"go-gin-task-gateway/internal/app"
	"go-gin-task-gateway/internal/repo"
	"go-gin-task-gateway/internal/service"
	"go-gin-task-gateway/internal/transport/http/router"
)

func main() {
	a := app.Init("task_service")
	defer a.Close()

	db := a.MustOpenDB()
	users := repo.NewUserRepo(db)
	tasks := repo.NewTaskRepo(db)

	jwter := a.JWTer()
	authSvc := service.NewAuthService(users, jwter)
	taskSvc := service.NewTaskService(tasks, users)
	authz := a.Authorizer(jwter, users)

	// 确保 admin 账号存在
	bs := a.Cfg.Bootstrap
	if bs.AdminUsername != "" && bs.AdminPassword != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		created, err := authSvc.EnsureAdmin(ctx, bs.AdminUsername, bs.AdminPassword, bs.AdminEmail)
		cancel()
		if err != nil {
			a.Log.Fatal("bootstrap admin", zap.Error(err))
		}
		if created {
			a.Log.Warn("bootstrap admin created, change its password", zap.String("username", bs.AdminUsername))
		}
	}

	r := router.NewTaskEngine(a.Log, authz, authSvc, taskSvc)
	a.Serve(a.Cfg.App.Task, r)
}
