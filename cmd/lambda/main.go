package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"coach-agent/handler"
	"coach-agent/internal/app"
	"coach-agent/internal/config"
)

func main() {
	ctx := context.Background()

	// ---- Configuration (read only here) ----
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := app.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	svc, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Errorw("failed to build chat service", "error", err)
		os.Exit(1)
	}

	h, err := handler.NewHandler(svc, logger)
	if err != nil {
		logger.Errorw("failed to create handler", "error", err)
		os.Exit(1)
	}

	lambda.Start(h.Handle)
}
