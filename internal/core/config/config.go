package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DevJWTSecret 仅用于本地开发；非 dev 环境使用会被 Validate 拒绝
const DevJWTSecret = "dev-secret-change-me"

// DevAdminPassword 本地 bootstrap 默认口令；非 dev 环境同样拒绝
const DevAdminPassword = "admin123"

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

func (h HTTP) ReadTimeout() time.Duration  { return time.Duration(h.ReadTimeoutSec) * time.Second }
func (h HTTP) WriteTimeout() time.Duration { return time.Duration(h.WriteTimeoutSec) * time.Second }
func (h HTTP) IdleTimeout() time.Duration  { return time.Duration(h.IdleTimeoutSec) * time.Second }

type App struct {
	Name    string
	Env     string
	GinMode string
	Gateway HTTP
	Auth    HTTP
	UserDir HTTP
	Task    HTTP
}

type FileLog struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level string
	JSON  bool
	File  FileLog
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
}

func (j JWT) TTL() time.Duration { return time.Duration(j.AccessTokenTTLMin) * time.Minute }

type Redis struct {
	Enable         bool   `mapstructure:"enable"`
	Addr           string `mapstructure:"addr"`
	Password       string `mapstructure:"password"`
	DB             int    `mapstructure:"db"`
	IdentityTTLSec int    `mapstructure:"identityTTLSec"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

// Services 下游服务的 base URL
type Services struct {
	Auth string
	User string
	Task string
}

type Gateway struct {
	ProxyTimeoutSec  int
	HealthTimeoutSec int
	Services         Services
}

type Bootstrap struct {
	AdminUsername string
	AdminPassword string
	AdminEmail    string
}

type Config struct {
	App       App
	Log       Log
	JWT       JWT
	DB        DB
	Redis     Redis `mapstructure:"redis"`
	Gateway   Gateway
	Bootstrap Bootstrap
}

// Load 读取配置，失败直接退出
func Load(path string) *Config {
	c, err := Read(path)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := c.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	return c
}

func Read(path string) (*Config, error) {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		// dev 下允许没有配置文件，全部走默认值 + 环境变量
		if _, statErr := os.Stat(path); !errors.Is(statErr, os.ErrNotExist) || v.GetString("app.env") != "dev" {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Validate 非 dev 环境必须显式配置签名密钥和 admin 口令（口令为空则跳过 bootstrap）
func (c *Config) Validate() error {
	if c.App.Env != "dev" && (c.JWT.Secret == "" || c.JWT.Secret == DevJWTSecret) {
		return fmt.Errorf("jwt.secret must be set when app.env=%q", c.App.Env)
	}
	if c.App.Env != "dev" && c.Bootstrap.AdminPassword == DevAdminPassword {
		return fmt.Errorf("bootstrap.adminPassword must be changed when app.env=%q", c.App.Env)
	}
	if c.JWT.AccessTokenTTLMin <= 0 {
		return errors.New("jwt.accessTokenTTLMin must be positive")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "task-platform")
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.ginMode", "release")
	for svc, port := range map[string]int{"gateway": 4000, "auth": 5001, "userdir": 5002, "task": 5003} {
		v.SetDefault("app."+svc+".host", "0.0.0.0")
		v.SetDefault("app."+svc+".port", port)
		v.SetDefault("app."+svc+".readTimeoutSec", 10)
		v.SetDefault("app."+svc+".writeTimeoutSec", 40)
		v.SetDefault("app."+svc+".idleTimeoutSec", 60)
	}

	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)
	v.SetDefault("log.file.enable", false)
	v.SetDefault("log.file.filename", "logs/app.log")
	v.SetDefault("log.file.maxSizeMB", 100)
	v.SetDefault("log.file.maxBackups", 5)
	v.SetDefault("log.file.maxAgeDays", 14)
	v.SetDefault("log.file.compress", true)

	v.SetDefault("jwt.secret", DevJWTSecret)
	v.SetDefault("jwt.issuer", "task-platform")
	v.SetDefault("jwt.accessTokenTTLMin", 5)

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "file:task_management.db")
	v.SetDefault("db.username", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.maxOpenConns", 50)
	v.SetDefault("db.maxIdleConns", 10)
	v.SetDefault("db.connMaxLifetimeMin", 30)
	v.SetDefault("db.autoMigrate", true)
	v.SetDefault("db.logLevel", "warn")

	v.SetDefault("redis.enable", false)
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.identityTTLSec", 30)

	v.SetDefault("gateway.proxyTimeoutSec", 30)
	v.SetDefault("gateway.healthTimeoutSec", 5)
	v.SetDefault("gateway.services.auth", "http://localhost:5001")
	v.SetDefault("gateway.services.user", "http://localhost:5002")
	v.SetDefault("gateway.services.task", "http://localhost:5003")

	v.SetDefault("bootstrap.adminUsername", "admin")
	v.SetDefault("bootstrap.adminPassword", DevAdminPassword)
	v.SetDefault("bootstrap.adminEmail", "admin@example.com")
}
