package logger

import (
	"io"
	"log"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"go-gin-task-gateway/internal/core/config"
)

// FromConfig stdout 始终输出；log.file.enable 时再写一份滚动文件。
// 返回的 cleanup 负责 Sync 并关闭文件。
func FromConfig(c config.Log) (*zap.Logger, func()) {
	lvl := zapcore.InfoLevel
	if c.Level != "" {
		if parsed, err := zapcore.ParseLevel(c.Level); err == nil {
			lvl = parsed
		}
	}
	enc := encoder(c.JSON)

	cores := []zapcore.Core{zapcore.NewCore(enc, zapcore.Lock(os.Stdout), lvl)}
	var file *lumberjack.Logger
	if c.File.Enable && c.File.Filename != "" {
		file = rotating(c.File)
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(file), lvl))
	}

	// 同一条消息每秒前 100 条全记，之后每 100 条取 1
	core := zapcore.NewSamplerWithOptions(zapcore.NewTee(cores...), time.Second, 100, 100)
	opts := []zap.Option{zap.AddCaller()}
	if !c.JSON {
		opts = append(opts, zap.Development())
	}
	l := zap.New(core, opts...)
	return l, func() {
		_ = l.Sync()
		if file != nil {
			_ = file.Close()
		}
	}
}

func encoder(json bool) zapcore.Encoder {
	if json {
		cfg := zap.NewProductionEncoderConfig()
		cfg.TimeKey = "ts"
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.EncodeCaller = zapcore.ShortCallerEncoder
		return zapcore.NewJSONEncoder(cfg)
	}
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	return zapcore.NewConsoleEncoder(cfg)
}

func rotating(f config.FileLog) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   f.Filename,
		MaxSize:    max(1, f.MaxSizeMB),
		MaxBackups: max(0, f.MaxBackups),
		MaxAge:     max(0, f.MaxAgeDays),
		Compress:   f.Compress,
	}
}

// levelWriter 每次 Write 记为一条日志，去掉行尾换行
type levelWriter struct {
	l     *zap.Logger
	level zapcore.Level
}

func (w levelWriter) Write(p []byte) (int, error) {
	if ce := w.l.Check(w.level, strings.TrimRight(string(p), "\r\n")); ce != nil {
		ce.Write()
	}
	return len(p), nil
}

// ToWriter 给 gin.DefaultWriter / DefaultErrorWriter 用
func ToWriter(l *zap.Logger, level zapcore.Level) io.Writer {
	return levelWriter{l: l, level: level}
}

// ToStdLogger 给 http.Server.ErrorLog 用
func ToStdLogger(l *zap.Logger, level zapcore.Level) (*log.Logger, error) {
	return zap.NewStdLogAt(l, level)
}

// RedirectStdLog 标准库 log 包的输出改走 zap，返回还原函数
func RedirectStdLog(l *zap.Logger, level zapcore.Level) func() {
	undo, err := zap.RedirectStdLogAt(l, level)
	if err != nil {
		return func() {}
	}
	return undo
}
