// pkg/logger/logger.go
package logger

import (
	"go.uber.org/zap"
)

type Sugared = *zap.SugaredLogger

// New returns a production logger for env "prod" and a development logger otherwise.
func New(env string) Sugared {
	var z *zap.Logger
	var err error
	if env == "prod" {
		z, err = zap.NewProduction()
	} else {
		z, err = zap.NewDevelopment()
	}
	if err != nil {
		z = zap.NewExample()
	}
	return z.Sugar().With("service", "paysieve")
}

// Named tags a logger with a component name.
func Named(log Sugared, name string) Sugared {
	if log == nil {
		return Nop()
	}
	return log.Named(name)
}

func Nop() Sugared { return zap.NewNop().Sugar() }
