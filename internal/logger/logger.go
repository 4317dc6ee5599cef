package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// Init installs the global zap logger. Production gets JSON sampling config,
// everything else gets the human-readable development config.
func Init(environment string) error {
	var (
		l   *zap.Logger
		err error
	)

	if environment == "production" {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return fmt.Errorf("zap.New -> %w", err)
	}

	zap.ReplaceGlobals(l)

	return nil
}
