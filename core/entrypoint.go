package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	"github.com/encodeous/dvsim/state"
	"github.com/encodeous/tint"
	slogmulti "github.com/samber/slog-multi"
)

type Options struct {
	LogLevel slog.Level
	LogPath  string    // if not empty, logs are also written to this file
	Out      io.Writer // receives the routing table reports
	Quiet    bool      // only report the final tables
	Debug    bool      // serve metrics on state.DebugListenAddr until interrupted
}

// NewLogger builds the process logger. The returned func closes the log file, if any.
func NewLogger(level slog.Level, logPath string) (*slog.Logger, func() error, error) {
	handlers := make([]slog.Handler, 0)
	handlers = append(handlers,
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:        level,
			AddSource:    false,
			CustomPrefix: state.LogPrefix,
			ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
				if attr.Key == "time" {
					return slog.Attr{}
				}
				return attr
			},
		}))

	closer := func() error { return nil }
	if logPath != "" {
		err := os.MkdirAll(path.Dir(logPath), 0700)
		if err != nil {
			return nil, nil, err
		}
		f, err := os.OpenFile(logPath, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0600)
		if err != nil {
			return nil, nil, err
		}
		handlers = append(handlers, slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
		closer = f.Close
	}

	return slog.New(slogmulti.Fanout(handlers...)), closer, nil
}

// Start builds the network described by cfg, runs it to convergence and reports the tables.
func Start(parent context.Context, cfg *state.TopologyCfg, opts Options) (*Network, Result, error) {
	ctx, cancel := context.WithCancelCause(parent)
	defer cancel(context.Canceled)

	logger, closeLog, err := NewLogger(opts.LogLevel, opts.LogPath)
	if err != nil {
		return nil, Result{}, err
	}
	defer closeLog()

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(c)
	go func() {
		select {
		case <-c:
			cancel(errors.New("received shutdown signal"))
		case <-ctx.Done():
			return
		}
	}()

	net, err := NewNetwork(cfg)
	if err != nil {
		return nil, Result{}, fmt.Errorf("invalid topology: %w", err)
	}
	logger.Info("network constructed", "nodes", net.Len())

	r := &SimRouter{
		Logger: logger,
		Out:    opts.Out,
		Quiet:  opts.Quiet,
	}

	start := time.Now()
	var res Result
	switch {
	case cfg.Concurrent:
		res, err = ConvergeConcurrent(ctx, net, cfg.Rounds, cfg.UntilStable, r)
	case cfg.UntilStable:
		res, err = ConvergeUntilStable(ctx, net, cfg.Rounds, r)
	default:
		res, err = Converge(ctx, net, cfg.Rounds, r)
	}
	if err != nil {
		if cause := context.Cause(ctx); cause != nil {
			err = cause
		}
		return net, res, fmt.Errorf("simulation stopped after %d rounds: %w", res.Rounds, err)
	}
	logger.Info("simulation complete", "rounds", res.Rounds, "changes", res.Changes, "stable", res.Stable, "elapsed", time.Since(start))
	if !res.Stable {
		logger.Warn("routing tables were still changing in the last round, consider more rounds or until_stable")
	}

	if opts.Quiet && opts.Out != nil {
		err = WriteRound(opts.Out, res.Rounds, net)
		if err != nil {
			return net, res, err
		}
	}

	if opts.Debug {
		err = serveDebug(ctx, logger)
		if err != nil {
			return net, res, err
		}
	}
	return net, res, nil
}

// serveDebug exposes /debug/metrics and /debug/vars until ctx is done
func serveDebug(ctx context.Context, logger *slog.Logger) error {
	srv := &http.Server{Addr: state.DebugListenAddr}
	errs := make(chan error, 1)
	go func() {
		errs <- srv.ListenAndServe()
	}()
	logger.Info("serving metrics, send SIGINT or Ctrl+C to exit", "addr", "http://"+state.DebugListenAddr+"/debug/metrics")
	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		logger.Info("stopping metrics server", "reason", context.Cause(ctx).Error())
		return srv.Shutdown(context.Background())
	}
}
