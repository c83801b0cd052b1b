package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogOption 日志初始化参数，由 config.LogConfig 转换而来
type LogOption struct {
	Format   string // "console" 或 "json"
	LogDir   string // 日志目录，为空时只输出到 stderr
	Level    string // debug / info / warn / error
	Compress bool   // 是否压缩轮转后的旧日志
}

const logFileName = "app.log"

var sugar atomic.Pointer[zap.SugaredLogger]

func init() {
	// 未调用 Init 时使用 nop，保证解析库在测试中可直接使用
	sugar.Store(zap.NewNop().Sugar())
}

// Init 按 LogOption 构造全局 logger，可重复调用（后一次覆盖前一次）
func Init(opt LogOption) error {
	level, err := zapcore.ParseLevel(defaultString(opt.Level, "info"))
	if err != nil {
		return fmt.Errorf("logger: invalid level %q: %w", opt.Level, err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	switch defaultString(opt.Format, "console") {
	case "console":
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	case "json":
		encoder = zapcore.NewJSONEncoder(encCfg)
	default:
		return fmt.Errorf("logger: unsupported format %q", opt.Format)
	}

	sinks := []zapcore.WriteSyncer{zapcore.Lock(os.Stderr)}
	if opt.LogDir != "" {
		if err := os.MkdirAll(opt.LogDir, 0o755); err != nil {
			return fmt.Errorf("logger: create log dir %q: %w", opt.LogDir, err)
		}
		sinks = append(sinks, zapcore.AddSync(&lumberjack.Logger{
			Filename:   filepath.Join(opt.LogDir, logFileName),
			MaxSize:    100, // MB
			MaxBackups: 7,
			MaxAge:     30, // 天
			Compress:   opt.Compress,
		}))
	}

	core := zapcore.NewCore(encoder, zapcore.NewMultiWriteSyncer(sinks...), level)
	sugar.Store(zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar())
	return nil
}

// SetLogger 替换全局 logger，主要用于测试中注入 observer
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	sugar.Store(l.WithOptions(zap.AddCallerSkip(1)).Sugar())
}

func Debugf(template string, args ...interface{}) {
	sugar.Load().Debugf(template, args...)
}

func Infof(template string, args ...interface{}) {
	sugar.Load().Infof(template, args...)
}

func Warnf(template string, args ...interface{}) {
	sugar.Load().Warnf(template, args...)
}

func Errorf(template string, args ...interface{}) {
	sugar.Load().Errorf(template, args...)
}

func Sync() {
	_ = sugar.Load().Sync()
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
