package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"codeberg.org/mutker/aidasensors/internal/config"
	"codeberg.org/mutker/aidasensors/internal/errors"
	"codeberg.org/mutker/aidasensors/internal/logger"
	"codeberg.org/mutker/aidasensors/internal/metrics"
	"codeberg.org/mutker/aidasensors/internal/pid"
	"codeberg.org/mutker/aidasensors/internal/poll"
	"codeberg.org/mutker/aidasensors/internal/present"
	"codeberg.org/mutker/aidasensors/internal/source"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/pflag"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.LogLevel.String(), logger.IsService()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.Debug().Msg("Config loaded")

	log := logger.Default()

	src, err := source.New(cfg.Source, log)
	if err != nil {
		fatal(err, "Failed to initialize sensor source")
	}

	presenter, err := present.New(cfg.Output, os.Stdout, cfg.NoClear)
	if err != nil {
		fatal(err, "Failed to initialize output")
	}

	reg := prometheus.NewRegistry()
	recorder, err := metrics.NewRecorder(cfg.Metrics(), reg, log)
	if err != nil {
		fatal(err, "Failed to initialize metrics")
	}
	if cfg.Metrics().Enabled() {
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	if cfg.PIDFile != "" {
		if err := pid.Write(cfg.PIDFile); err != nil {
			fatal(err, "Failed to write PID file")
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	go func() {
		if err := metrics.Serve(ctx, cfg.Metrics(), reg, log); err != nil {
			logError(err, "Metrics endpoint stopped")
		}
	}()

	loop := poll.New(src, presenter,
		poll.WithInterval(cfg.Interval),
		poll.WithMaxCycles(cfg.Cycles),
		poll.WithLogger(log),
		poll.WithRecorder(recorder),
	)

	if err := loop.Run(ctx); err != nil {
		logError(err, "error in main loop")
	}
	cleanup(src, cfg.PIDFile)
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}

func cleanup(src source.Source, pidFile string) {
	if err := src.Close(); err != nil {
		logError(err, "failed to close sensor source")
	}
	if pidFile != "" {
		if err := pid.Remove(pidFile); err != nil {
			logError(err, "failed to remove PID file")
		}
	}
	logger.Info().Msg("Exiting...")
}

func logError(err error, msg string) {
	var appErr errors.Error
	if errors.As(err, &appErr) {
		logger.ErrorWithCode(appErr).Msg(msg)
		return
	}
	logger.Error().Err(err).Msg(msg)
}

func fatal(err error, msg string) {
	var appErr errors.Error
	if errors.As(err, &appErr) {
		logger.FatalWithCode(appErr).Msg(msg)
	}
	logger.Fatal().Err(err).Msg(msg)
}
