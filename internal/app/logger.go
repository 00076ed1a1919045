package app

import (
	"fmt"

	"go.uber.org/zap"
)

// initLogger собирает zap-логгер. В production режиме — JSON на уровне
// info, иначе человекочитаемый вывод с debug.
func initLogger(logLevel string) (*zap.Logger, error) {
	build := zap.NewDevelopment
	if logLevel == "production" {
		build = zap.NewProduction
	}

	logger, err := build()
	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}

	return logger, nil
}
