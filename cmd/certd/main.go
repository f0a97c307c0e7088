package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/automaxprocs/maxprocs"

	"xdao.co/certlife/internal/config"
)

const programName = "certd"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errOut)
	configFile := fs.String("config", "", "path to config file to load")
	listen := fs.String("listen", "", "gRPC listen address (overrides config)")
	metricsAddr := fs.String("metrics", "", "metrics listen address, 'off' to disable (overrides config)")
	debug := fs.Bool("debug", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(errOut, "%s: %v\n", programName, err)
		return 2
	}
	if *listen != "" {
		cfg.ListenAddr = *listen
	}
	switch *metricsAddr {
	case "":
	case "off":
		cfg.MetricsAddr = ""
	default:
		cfg.MetricsAddr = *metricsAddr
	}
	level, _ := cfg.Level()
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
		AddSource: *debug,
		Level:     level,
	}))
	slog.SetDefault(logger)
	if _, err := maxprocs.Set(maxprocs.Logger(func(format string, v ...any) {
		logger.Info(fmt.Sprintf(format, v...), "component", programName)
	})); err != nil {
		logger.Warn("failed to set GOMAXPROCS", "component", programName, "error", err)
	}

	d, err := newDaemon(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "component", programName, "error", err)
		return 1
	}
	lis, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		_ = d.Close()
		logger.Error("listen failed", "component", programName, "error", err)
		return 1
	}
	var metricsLis net.Listener
	if cfg.MetricsAddr != "" {
		metricsLis, err = net.Listen("tcp", cfg.MetricsAddr)
		if err != nil {
			_ = lis.Close()
			_ = d.Close()
			logger.Error("metrics listen failed", "component", programName, "error", err)
			return 1
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := d.Serve(ctx, lis, metricsLis); err != nil {
		logger.Error("server failed", "component", programName, "error", err)
		return 1
	}
	return 0
}
