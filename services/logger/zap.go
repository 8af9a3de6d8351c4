package logsvc

import (
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/trezcool/classwork/core"
	"github.com/trezcool/classwork/core/user"
)

// ZapLogger writes structured logs to stderr.
type ZapLogger struct {
	zl *zap.Logger
}

var _ core.Logger = (*ZapLogger)(nil)

// NewZapLogger builds a logger from conf.Log: "console" is the colored
// development encoder, anything else is JSON.
func NewZapLogger(conf *core.Config) (*ZapLogger, error) {
	var zapCfg zap.Config
	switch conf.Log.Format {
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		zapCfg = zap.NewProductionConfig()
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(conf.Log.Level)); err != nil {
		return nil, errors.Wrapf(err, "invalid log level %q", conf.Log.Level)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.OutputPaths = []string{"stderr"}
	zapCfg.InitialFields = map[string]interface{}{"app": conf.AppName, "env": conf.Env}

	zl, err := zapCfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, errors.Wrap(err, "building zap logger")
	}
	return &ZapLogger{zl: zl}, nil
}

// NewZapLoggerFrom wraps an existing *zap.Logger (e.g. zap.NewNop() in tests).
func NewZapLoggerFrom(zl *zap.Logger) *ZapLogger {
	return &ZapLogger{zl: zl.WithOptions(zap.AddCallerSkip(1))}
}

// expected args: error | map[string]interface{} | user.User
func fields(args []interface{}) []zap.Field {
	flds := make([]zap.Field, 0, len(args))
	for _, arg := range args {
		switch a := arg.(type) {
		case error:
			flds = append(flds, zap.Error(a))
		case map[string]interface{}:
			for k, v := range a {
				flds = append(flds, zap.Any(k, v))
			}
		case user.User:
			flds = append(flds, zap.String("user.id", a.ID), zap.String("user.role", string(a.Role)))
		default:
			flds = append(flds, zap.Any("arg", a))
		}
	}
	return flds
}

func (l *ZapLogger) Debug(msg string, args ...interface{}) { l.zl.Debug(msg, fields(args)...) }
func (l *ZapLogger) Info(msg string, args ...interface{})  { l.zl.Info(msg, fields(args)...) }
func (l *ZapLogger) Warn(msg string, args ...interface{})  { l.zl.Warn(msg, fields(args)...) }
func (l *ZapLogger) Error(msg string, args ...interface{}) { l.zl.Error(msg, fields(args)...) }

func (l *ZapLogger) Fatal(msg string, args ...interface{}) {
	l.zl.Error(msg, fields(args)...)
	_ = l.zl.Sync()
	os.Exit(1)
}

func (l *ZapLogger) Sync() error {
	return l.zl.Sync()
}
