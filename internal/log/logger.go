package log

import "go.uber.org/zap"

var base *zap.Logger

// Init builds the process logger. prod=false gives the dev console encoder.
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
	base = l
	return l, nil
}

func L() *zap.Logger {
	if base == nil {
		return zap.NewNop()
	}
	return base
}

func Sync() {
	if base != nil {
		_ = base.Sync()
	}
}
