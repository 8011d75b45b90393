// Package app 四个进程共用的启动流程
package app

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"go-gin-task-gateway/internal/core/auth"
	"go-gin-task-gateway/internal/core/cache"
	"go-gin-task-gateway/internal/core/config"
	"go-gin-task-gateway/internal/core/database"
	"go-gin-task-gateway/internal/core/logger"
	"go-gin-task-gateway/internal/core/server"
	"go-gin-task-gateway/internal/domain"
	"go-gin-task-gateway/internal/service"
)

type Base struct {
	Name    string
	Cfg     *config.Config
	Log     *zap.Logger
	closers []func()

	identity      *cache.Cache
	identityTried bool
}

// Init .env → 配置 → 日志；失败直接退出
func Init(name string) *Base {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	if cfg.App.GinMode != "" {
		gin.SetMode(cfg.App.GinMode)
	}
	l, sync := logger.FromConfig(cfg.Log)
	l = l.With(zap.String("service", name), zap.String("env", cfg.App.Env))
	undo := logger.RedirectStdLog(l, zapcore.InfoLevel)
	gin.DefaultWriter = logger.ToWriter(l, zapcore.DebugLevel)
	gin.DefaultErrorWriter = logger.ToWriter(l, zapcore.ErrorLevel)
	return &Base{Name: name, Cfg: cfg, Log: l, closers: []func(){sync, undo}}
}

func (b *Base) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// MustOpenDB 打开数据库；autoMigrate 打开时同步表结构
func (b *Base) MustOpenDB() *gorm.DB {
	c := b.Cfg.DB
	db, err := database.NewGorm(database.Opts{
		Driver:             c.Driver,
		DSN:                c.DSN,
		Username:           c.Username,
		Password:           c.Password,
		MaxOpenConns:       c.MaxOpenConns,
		MaxIdleConns:       c.MaxIdleConns,
		ConnMaxLifetimeMin: c.ConnMaxLifetimeMin,
		LogLevel:           c.LogLevel,
	})
	if err != nil {
		b.Log.Fatal("db open", zap.String("driver", c.Driver), zap.String("dsn", database.MaskDSN(c.DSN)), zap.Error(err))
	}
	b.closers = append(b.closers, func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	b.Log.Info("database connected", zap.String("driver", c.Driver), zap.String("dsn", database.MaskDSN(c.DSN)))

	if c.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			b.Log.Fatal("automigrate failed", zap.Error(err))
		}
		b.Log.Info("automigrate done")
	}
	return db
}

func (b *Base) JWTer() *auth.JWTer {
	return &auth.JWTer{
		Secret: []byte(b.Cfg.JWT.Secret),
		Issuer: b.Cfg.JWT.Issuer,
		TTL:    b.Cfg.JWT.TTL(),
	}
}

// IdentityCache redis 未启用或连不上时返回 nil，调用方退化为直接查库
func (b *Base) IdentityCache() *cache.Cache {
	if b.identityTried {
		return b.identity
	}
	b.identityTried = true
	rc := b.Cfg.Redis
	if !rc.Enable {
		return nil
	}
	c := cache.New(rc.Addr, rc.Password, rc.DB)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := c.Ping(ctx); err != nil {
		b.Log.Warn("redis unavailable, identity cache disabled", zap.String("addr", rc.Addr), zap.Error(err))
		_ = c.Close()
		return nil
	}
	b.closers = append(b.closers, func() { _ = c.Close() })
	b.identity = c
	return c
}

// Authorizer 有身份缓存时按 identityTTLSec 缓存解析结果
func (b *Base) Authorizer(codec service.TokenCodec, users domain.UserStore) *service.Authorizer {
	authz := service.NewAuthorizer(codec, users)
	c := b.IdentityCache()
	if c == nil {
		return authz
	}
	ttl := time.Duration(b.Cfg.Redis.IdentityTTLSec) * time.Second
	b.Log.Info("identity cache enabled", zap.String("addr", b.Cfg.Redis.Addr), zap.Duration("ttl", ttl))
	return authz.WithCache(c, ttl)
}

// Serve 阻塞到收到退出信号
func (b *Base) Serve(h config.HTTP, handler http.Handler) {
	addr := server.Addr(h.Host, h.Port)
	srv := server.BuildServer(addr, handler, h.ReadTimeout(), h.WriteTimeout(), h.IdleTimeout())
	if el, err := logger.ToStdLogger(b.Log, zapcore.WarnLevel); err == nil {
		srv.ErrorLog = el
	}
	base := server.HumanURL(h.Host, h.Port)
	b.Log.Info(b.Name+" starting",
		zap.String("addr", addr),
		zap.String("open", base),
		zap.String("health", base+"/health"),
	)
	server.Run(srv, b.Name, b.Log)
}
