package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/your-org/upfsim/internal/simulator/config"
	"github.com/your-org/upfsim/internal/simulator/engine"
	"github.com/your-org/upfsim/internal/simulator/metrics"
	"github.com/your-org/upfsim/internal/simulator/server"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config/upfsim.yaml", "Path to configuration file")
	flag.Parse()

	logger := initLogger()
	defer logger.Sync()

	logger.Info("starting upfsim", zap.String("version", Version), zap.String("build_time", BuildTime))

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}
	logger.Info("configuration loaded",
		zap.Int("run_id", cfg.RunID),
		zap.Int("upf_case", cfg.UPFCase),
		zap.Int("migration_case", cfg.MigrationCase),
		zap.Int64("simulation_time_ms", cfg.SimulationTimeMS))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := server.NewStore()

	var metricsServer *metrics.Server
	if cfg.Observability.Metrics.Enabled {
		metricsServer = metrics.NewServer(cfg.Observability.Metrics.Port, logger)
		go func() {
			if err := metricsServer.Start(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server error", zap.Error(err))
			}
		}()
	}

	var adminServer *server.Server
	httpErrChan := make(chan error, 1)
	if cfg.Observability.Admin.Enabled {
		adminServer = server.NewServer(store, logger)
		go func() {
			addr := fmt.Sprintf(":%d", cfg.Observability.Admin.Port)
			if err := adminServer.Start(addr); err != nil && err != http.ErrServerClosed {
				httpErrChan <- fmt.Errorf("admin server error: %w", err)
			}
		}()
	}

	runDone := make(chan error, 1)
	go func() {
		res, err := engine.New(logger).Run(ctx, cfg)
		if err != nil {
			runDone <- err
			return
		}
		store.Put(cfg, res)
		logger.Info("run complete",
			zap.Int("run_id", res.RunID),
			zap.Int("total", res.Summary.Total),
			zap.Int("accepted", res.Summary.Accepted),
			zap.Int("rejected", res.Summary.Rejected),
			zap.Int("deployed", res.Summary.Deployed))
		runDone <- nil
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-runDone:
		if err != nil {
			logger.Fatal("simulation run failed", zap.Error(err))
		}
		if adminServer != nil || metricsServer != nil {
			select {
			case sig := <-sigChan:
				logger.Info("received shutdown signal", zap.String("signal", sig.String()))
			case err := <-httpErrChan:
				logger.Error("admin server failed", zap.Error(err))
			}
		}
	case sig := <-sigChan:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
		cancel()
		<-runDone
	case err := <-httpErrChan:
		logger.Error("admin server failed", zap.Error(err))
		cancel()
		<-runDone
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if adminServer != nil {
		if err := adminServer.Stop(shutdownCtx); err != nil {
			logger.Error("error stopping admin server", zap.Error(err))
		}
	}
	if metricsServer != nil {
		if err := metricsServer.Stop(shutdownCtx); err != nil {
			logger.Error("error stopping metrics server", zap.Error(err))
		}
	}

	logger.Info("upfsim shutdown complete")
}

func initLogger() *zap.Logger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(zap.InfoLevel),
		Development:      false,
		Encoding:         "json",
		EncoderConfig:    encoderConfig,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, _ := cfg.Build()
	return logger
}
