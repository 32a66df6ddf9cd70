package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/host/terminal"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/infrastructure/config"
	"github.com/GriffinCanCode/AgentOS/spatialnav/internal/infrastructure/logging"
)

func main() {
	logFile := flag.String("log", "", "Write logs to this file (the terminal is the screen)")
	dev := flag.Bool("dev", false, "Debug level logs, overriding the configured level")
	flag.Parse()

	if err := run(*logFile, *dev); err != nil {
		fmt.Fprintln(os.Stderr, "navdemo:", err)
		os.Exit(1)
	}
}

func run(logFile string, dev bool) error {
	cfg := config.LoadOrDefault()

	logger := logging.NewNop()
	if logFile != "" {
		logCfg := logging.FromConfig(cfg.Logging, logFile)
		if dev {
			logCfg.Development = true
			logCfg.Level = "debug"
		}

		var err error
		logger, err = logging.New(logCfg)
		if err != nil {
			return err
		}
	}
	defer func() { _ = logger.Sync() }()

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	host, err := terminal.New(screen, terminal.Options{
		Config: cfg,
		Logger: logger.Named("navdemo"),
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting terminal demo", zap.String("home_group", cfg.Navigation.HomeGroup))
	return host.Run(ctx)
}
