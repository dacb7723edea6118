package log

import (
	"go.uber.org/zap"
)

// Init builds the process logger and installs it as the zap global.
// Production mode emits JSON, otherwise a colored console encoder is used.
func Init(prod bool) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if prod {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(l)
	return l, nil
}

// L returns the global logger installed by Init (a no-op logger before that).
func L() *zap.Logger { return zap.L() }

func Infof(format string, args ...any)  { zap.S().Infof(format, args...) }
func Warnf(format string, args ...any)  { zap.S().Warnf(format, args...) }
func Errorf(format string, args ...any) { zap.S().Errorf(format, args...) }
