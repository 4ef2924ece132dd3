package logger

import (
	"os"

	"github.com/Adda-Baaj/storefront-apitest/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured logging surface shared by the runtime packages.
type Logger interface {
	InfoObj(msg, key string, obj interface{})
	DebugObj(msg, key string, obj interface{})
	WarnObj(msg, key string, obj interface{})
	ErrorObj(msg, key string, obj interface{})
}

// Package-level logger used by the helpers below after Init. It skips one
// caller frame so entries point at the helper's caller.
var S *zap.SugaredLogger

// Zap implements Logger on top of a zap logger.
type Zap struct {
	sugar *zap.SugaredLogger
	// obj skips the wrapper frame so caller points at the call site.
	obj *zap.Logger
}

func newZap(sugar *zap.SugaredLogger) *Zap {
	return &Zap{sugar: sugar, obj: sugar.Desugar().WithOptions(zap.AddCallerSkip(1))}
}

// Init initializes a zap SugaredLogger using settings from config.
func Init(cfg *config.Config) (*Zap, error) {
	var level zapcore.Level
	switch cfg.LogLevel {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn", "warning":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(zapcore.Lock(os.Stdout)),
		level,
	)

	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)).
		With(zap.String("app", cfg.AppName), zap.String("env", cfg.Env))
	sugar := logger.Sugar()
	S = sugar.WithOptions(zap.AddCallerSkip(1))
	return newZap(sugar), nil
}

// NewZap wraps an existing sugared logger, e.g. zaptest loggers.
func NewZap(sugar *zap.SugaredLogger) *Zap {
	if sugar == nil {
		sugar = zap.NewNop().Sugar()
	}
	return newZap(sugar)
}

// Sugar exposes the sugared logger (it satisfies resty.Logger).
func (z *Zap) Sugar() *zap.SugaredLogger { return z.sugar }

func (z *Zap) InfoObj(msg, key string, obj interface{}) {
	z.obj.Info(msg, zap.Any(key, obj))
}

func (z *Zap) DebugObj(msg, key string, obj interface{}) {
	z.obj.Debug(msg, zap.Any(key, obj))
}

func (z *Zap) WarnObj(msg, key string, obj interface{}) {
	z.obj.Warn(msg, zap.Any(key, obj))
}

func (z *Zap) ErrorObj(msg, key string, obj interface{}) {
	z.obj.Error(msg, zap.Any(key, obj))
}

// Ensure returns log, or a NopLogger when log is nil.
func Ensure(log Logger) Logger {
	if log == nil {
		return &NopLogger{}
	}
	return log
}

// NopLogger discards everything.
type NopLogger struct{}

func (*NopLogger) InfoObj(string, string, interface{})  {}
func (*NopLogger) DebugObj(string, string, interface{}) {}
func (*NopLogger) WarnObj(string, string, interface{})  {}
func (*NopLogger) ErrorObj(string, string, interface{}) {}

// Close flushes any buffered loggers.
func Close() error {
	if S == nil {
		return nil
	}
	return S.Sync()
}

// Minimal object logging helpers -------------------------------------------------
// These log through the package-level logger and are no-ops before Init.
func InfoObj(msg, key string, obj interface{}) {
	if S == nil {
		return
	}
	S.Desugar().Info(msg, zap.Any(key, obj))
}

func DebugObj(msg, key string, obj interface{}) {
	if S == nil {
		return
	}
	S.Desugar().Debug(msg, zap.Any(key, obj))
}

func WarnObj(msg, key string, obj interface{}) {
	if S == nil {
		return
	}
	S.Desugar().Warn(msg, zap.Any(key, obj))
}

func ErrorObj(msg, key string, obj interface{}) {
	if S == nil {
		return
	}
	S.Desugar().Error(msg, zap.Any(key, obj))
}
