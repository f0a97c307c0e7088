package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"xdao.co/certlife/internal/config"
	"xdao.co/certlife/internal/metrics"
	"xdao.co/certlife/ledger"
	"xdao.co/certlife/ledger/badgerstore"
	"xdao.co/certlife/ledgerrpc"
	"xdao.co/certlife/program"
	"xdao.co/certlife/storage"
	"xdao.co/certlife/storage/localfs"
	"xdao.co/certlife/storage/memcas"
)

type daemon struct {
	logger          *slog.Logger
	runtime         *ledger.Runtime
	metrics         *metrics.Ledger
	shutdownTimeout time.Duration
}

func newDaemon(cfg *config.Config, logger *slog.Logger) (*daemon, error) {
	programID, err := cfg.Program()
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := cfg.Shutdown()
	if err != nil {
		return nil, err
	}
	archive, err := openArchive(cfg.ArchiveDirs)
	if err != nil {
		return nil, err
	}
	store, err := openStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	m := metrics.New(prometheus.NewRegistry())
	rt, err := ledger.NewRuntime(ledger.Options{
		Store:    store,
		Archive:  archive,
		Logger:   logger.With("component", "ledger"),
		Observer: m,
		Programs: []ledger.Program{program.New(programID)},
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	logger.Info("ledger ready",
		"component", programName,
		"program", programID.String(),
		"store", cfg.StorePlugin,
		"archive_dirs", len(cfg.ArchiveDirs),
	)
	return &daemon{
		logger:          logger,
		runtime:         rt,
		metrics:         m,
		shutdownTimeout: shutdownTimeout,
	}, nil
}

func openStore(cfg *config.Config, logger *slog.Logger) (ledger.Store, error) {
	switch cfg.StorePlugin {
	case config.StorePluginBadger:
		s, err := badgerstore.Open(badgerstore.Options{Dir: cfg.DatabasePath, Logger: logger})
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.StorePluginMemory, "":
		return ledger.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store plugin %q", cfg.StorePlugin)
	}
}

// openArchive keeps transactions in memory when dirs is empty and mirrors
// them across every directory otherwise.
func openArchive(dirs []string) (storage.CAS, error) {
	switch len(dirs) {
	case 0:
		return memcas.New(), nil
	case 1:
		return localfs.New(dirs[0])
	}
	backends := make([]storage.CAS, 0, len(dirs))
	for _, dir := range dirs {
		c, err := localfs.New(dir)
		if err != nil {
			return nil, err
		}
		backends = append(backends, c)
	}
	return storage.Mirror{Backends: backends}, nil
}

// countingBackend counts rejected submissions; executed ones reach the
// metrics through the runtime observer.
type countingBackend struct {
	*ledger.Runtime
	metrics *metrics.Ledger
}

func (b countingBackend) SubmitBytes(raw []byte) (ledger.Receipt, error) {
	rec, err := b.Runtime.SubmitBytes(raw)
	if err != nil {
		b.metrics.Reject()
	}
	return rec, err
}

// Serve runs the gRPC server on lis, and the metrics endpoint on metricsLis
// when it is non-nil, until ctx is done or a server fails. The runtime is
// closed before Serve returns.
func (d *daemon) Serve(ctx context.Context, lis net.Listener, metricsLis net.Listener) error {
	srv := grpc.NewServer()
	ledgerrpc.RegisterLedgerServer(srv, &ledgerrpc.Server{
		Backend: countingBackend{Runtime: d.runtime, metrics: d.metrics},
		Logger:  d.logger,
	})
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(srv, healthSrv)
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthSrv.SetServingStatus(ledgerrpc.Ledger_ServiceDesc.ServiceName, healthpb.HealthCheckResponse_SERVING)

	errChan := make(chan error, 2)
	go func() {
		d.logger.Info("serving ledger gRPC on "+lis.Addr().String(), "component", programName)
		if err := srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errChan <- fmt.Errorf("grpc: %w", err)
		}
	}()

	var metricsServer *http.Server
	if metricsLis != nil {
		mux := http.NewServeMux()
		mux.Handle("/metrics", d.metrics.Handler())
		metricsServer = &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: 60 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		}
		go func() {
			d.logger.Info("serving prometheus metrics on "+metricsLis.Addr().String(), "component", programName)
			if err := metricsServer.Serve(metricsLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- fmt.Errorf("metrics: %w", err)
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		d.logger.Info("signal received, initiating graceful shutdown", "component", programName)
	case runErr = <-errChan:
	}

	healthSrv.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), d.shutdownTimeout)
	defer cancel()
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			d.logger.Error("metrics server shutdown error", "component", programName, "error", err)
		}
	}
	stopped := make(chan struct{})
	go func() {
		srv.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-shutdownCtx.Done():
		d.logger.Warn("graceful stop timed out, forcing", "component", programName)
		srv.Stop()
		<-stopped
	}
	if err := d.Close(); err != nil && runErr == nil {
		runErr = err
	}
	d.logger.Info("shutdown complete", "component", programName)
	return runErr
}

func (d *daemon) Close() error {
	return d.runtime.Close()
}
