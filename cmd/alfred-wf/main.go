package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/halfyak/alfred-workflows/cmd/alfred-wf/cmd"
	"github.com/halfyak/alfred-workflows/internal/logger"
	"github.com/halfyak/alfred-workflows/internal/report"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.Execute(ctx)
	stop()
	logger.Sync()
	os.Exit(report.ExitCode(err))
}
