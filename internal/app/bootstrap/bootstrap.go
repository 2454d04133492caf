package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	approvalports "contentflow/contexts/content-studio/approval-service/ports"
	mediaoptimizer "contentflow/contexts/content-studio/media-optimizer"
	dispatchadapter "contentflow/contexts/content-studio/media-optimizer/adapters/dispatch"
	ffmpegadapter "contentflow/contexts/content-studio/media-optimizer/adapters/ffmpeg"
	scratchadapter "contentflow/contexts/content-studio/media-optimizer/adapters/scratch"
	sqsadapter "contentflow/contexts/content-studio/media-optimizer/adapters/sqs"
	optimizercommands "contentflow/contexts/content-studio/media-optimizer/application/commands"
	"contentflow/internal/app/studio"
	"contentflow/internal/platform/config"
	"contentflow/internal/platform/health"
	"contentflow/internal/platform/httpserver"
	"contentflow/internal/platform/logging"
	"contentflow/internal/platform/messaging"
	"contentflow/internal/platform/tracing"

	"golang.org/x/sync/errgroup"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

const shutdownTimeout = 15 * time.Second

type APIApp struct {
	cfg        config.Config
	server     *httpserver.Server
	checker    *health.Checker
	bridge     *messaging.RedisBridge
	dispatcher *dispatchadapter.InProcess
	shutdown   tracing.ShutdownFunc
	closers    []func() error
	logger     *slog.Logger
}

type WorkerApp struct {
	cfg      config.Config
	studio   studio.Studio
	consumer *sqsadapter.Consumer
	sweeper  scratchadapter.Sweeper
	checker  *health.Checker
	bridge   *messaging.RedisBridge
	shutdown tracing.ShutdownFunc
	closers  []func() error
	logger   *slog.Logger
}

// fanout is the hub plus, when REDIS_URL is set, the bridge to other replicas.
type fanout struct {
	hub       *messaging.Hub
	bridge    *messaging.RedisBridge
	publisher approvalports.EventPublisher
	checks    []health.NamedCheck
	closers   []func() error
}

func openFanout(cfg config.Config, logger *slog.Logger) (fanout, error) {
	hub := messaging.NewHub(64, logger)
	out := fanout{hub: hub, publisher: hub}
	if strings.TrimSpace(cfg.RedisURL) == "" {
		return out, nil
	}
	client, err := messaging.NewRedisClient(cfg.RedisURL)
	if err != nil {
		return fanout{}, err
	}
	bridge := messaging.NewRedisBridge(client, hub, logger)
	out.bridge = bridge
	out.publisher = bridge
	out.checks = []health.NamedCheck{{Name: "redis", Check: bridge}}
	out.closers = []func() error{client.Close}
	return out, nil
}

// base is what both processes share: config, logging, tracing and storage.
type base struct {
	cfg      config.Config
	logger   *slog.Logger
	shutdown tracing.ShutdownFunc
	stores   stores
	objects  objectStorage
	fanout   fanout
}

func (b base) checks() []health.NamedCheck {
	checks := append([]health.NamedCheck{}, b.stores.checks...)
	checks = append(checks, health.NamedCheck{Name: "objectstore", Check: b.objects})
	return append(checks, b.fanout.checks...)
}

func (b base) closers() []func() error {
	closers := append([]func() error{}, b.stores.closers...)
	return append(closers, b.fanout.closers...)
}

func openBase(ctx context.Context, process string) (base, error) {
	cfg, err := config.Load()
	if err != nil {
		return base{}, err
	}
	logger := logging.New(cfg.ServiceName, cfg.LogLevel).With("process", process)
	slog.SetDefault(logger)

	shutdown, err := tracing.Init(ctx, cfg.TracingEnabled, cfg.ServiceName+"-"+process, cfg.OTLPEndpoint)
	if err != nil {
		return base{}, err
	}
	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		_ = shutdown(ctx)
		return base{}, err
	}
	objects, err := openObjects(ctx, cfg, logger)
	if err != nil {
		_ = closeAll(st.closers)
		_ = shutdown(ctx)
		return base{}, err
	}
	fan, err := openFanout(cfg, logger)
	if err != nil {
		_ = closeAll(st.closers)
		_ = shutdown(ctx)
		return base{}, err
	}
	return base{
		cfg:      cfg,
		logger:   logger,
		shutdown: shutdown,
		stores:   st,
		objects:  objects,
		fanout:   fan,
	}, nil
}

func (b base) studioDependencies() studio.Dependencies {
	return studio.Dependencies{
		Sessions:      b.stores.sessions,
		UploadClock:   b.stores.uploadClock,
		UploadIDGen:   b.stores.uploadIDGen,
		Contents:      b.stores.contents,
		Directory:     b.stores.directory,
		ContentClock:  b.stores.contentClock,
		ContentIDGen:  b.stores.contentIDGen,
		Objects:       b.objects,
		Publisher:     b.fanout.publisher,
		Transcoder:    newTranscoder(b.cfg, b.logger),
		PartURLTTL:    b.cfg.PartURLTTL,
		SessionMaxAge: b.cfg.SessionMaxAge,
		JobTimeout:    b.cfg.OptimizerJobTimeout,
		ScratchDir:    b.cfg.ScratchDir,
		Logger:        b.logger,
	}
}

func newTranscoder(cfg config.Config, logger *slog.Logger) *ffmpegadapter.Transcoder {
	return ffmpegadapter.New(
		ffmpegadapter.WithBinary(cfg.FFmpegBinary),
		ffmpegadapter.WithVideoBitrate(cfg.FFmpegVideoBitrate),
		ffmpegadapter.WithLogger(logger),
	)
}

func BuildAPI(ctx context.Context) (*APIApp, error) {
	b, err := openBase(ctx, "api")
	if err != nil {
		return nil, err
	}
	app := &APIApp{
		cfg:      b.cfg,
		bridge:   b.fanout.bridge,
		shutdown: b.shutdown,
		closers:  b.closers(),
		logger:   b.logger,
	}

	deps := b.studioDependencies()
	switch b.cfg.DispatchDriver {
	case config.DispatchSQS:
		client, err := newSQSClient(ctx, b.cfg)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		deps.Dispatch = func(mediaoptimizer.Module) studio.JobDispatcher {
			return sqsadapter.NewDispatcher(client, b.cfg.SQSQueueURL)
		}
	default:
		deps.Dispatch = func(optimizer mediaoptimizer.Module) studio.JobDispatcher {
			app.dispatcher = dispatchadapter.NewInProcess(optimizer.Runner, b.cfg.OptimizerConcurrency, b.logger)
			return app.dispatcher
		}
	}
	s := studio.Build(deps)

	app.checker = health.NewChecker(b.checks(), b.logger)
	app.server = httpserver.New(s.Uploads, s.Approval, b.fanout.hub, app.checker, b.logger, normalizeAddr(b.cfg.HTTPPort))
	return app, nil
}

func BuildWorker(ctx context.Context) (*WorkerApp, error) {
	b, err := openBase(ctx, "worker")
	if err != nil {
		return nil, err
	}
	app := &WorkerApp{
		cfg:      b.cfg,
		bridge:   b.fanout.bridge,
		shutdown: b.shutdown,
		closers:  b.closers(),
		logger:   b.logger,
		sweeper: scratchadapter.Sweeper{
			Dir:     b.cfg.ScratchDir,
			Pattern: optimizercommands.ScratchPattern,
			MaxAge:  b.cfg.ScratchMaxAge,
			Logger:  b.logger,
		},
	}
	// The worker never accepts uploads, so it has no dispatcher of its own.
	app.studio = studio.Build(b.studioDependencies())

	if b.cfg.DispatchDriver == config.DispatchSQS {
		client, err := newSQSClient(ctx, b.cfg)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		app.consumer = sqsadapter.NewConsumer(ctx, client, b.cfg.SQSQueueURL, app.studio.Optimizer.Runner, b.cfg.OptimizerJobTimeout, b.logger)
	}
	app.checker = health.NewChecker(b.checks(), b.logger)
	return app, nil
}

func (a *APIApp) Run(ctx context.Context) error {
	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"http_port", a.cfg.HTTPPort,
		"health_port", a.cfg.HealthPort,
		"store", a.cfg.StoreDriver,
		"storage", a.cfg.StorageDriver,
		"dispatch", a.cfg.DispatchDriver,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(a.server.Start)
	g.Go(func() error {
		return a.checker.Serve(gctx, normalizeAddr(a.cfg.HealthPort))
	})
	g.Go(func() error {
		a.checker.Run(gctx)
		return nil
	})
	if a.bridge != nil {
		g.Go(func() error {
			return a.bridge.Run(gctx)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		err := a.server.Shutdown(shutdownCtx)
		if a.dispatcher != nil {
			if dispatchErr := a.dispatcher.Shutdown(shutdownCtx); dispatchErr != nil {
				a.logger.Warn("optimization jobs cancelled on shutdown",
					"event", "bootstrap_dispatcher_shutdown_timeout",
					"module", "internal/app/bootstrap",
					"layer", "platform",
					"error", dispatchErr.Error(),
				)
			}
		}
		return err
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (a *APIApp) Close() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := closeAll(a.closers)
	if a.shutdown != nil {
		if traceErr := a.shutdown(shutdownCtx); traceErr != nil && err == nil {
			err = traceErr
		}
	}
	return err
}

func (w *WorkerApp) Run(ctx context.Context) error {
	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"dispatch", w.cfg.DispatchDriver,
		"reaper_interval", w.cfg.ReaperInterval.String(),
		"scratch_dir", w.cfg.ScratchDir,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.checker.Serve(gctx, normalizeAddr(w.cfg.HealthPort))
	})
	g.Go(func() error {
		w.checker.Run(gctx)
		return nil
	})
	if w.bridge != nil {
		g.Go(func() error {
			return w.bridge.Run(gctx)
		})
	}
	if w.consumer != nil {
		w.consumer.Start()
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return w.consumer.Shutdown(shutdownCtx)
		})
	}
	g.Go(func() error {
		return w.runMaintenance(gctx)
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// runMaintenance reaps abandoned upload sessions and sweeps optimizer scratch files.
func (w *WorkerApp) runMaintenance(ctx context.Context) error {
	ticker := time.NewTicker(w.cfg.ReaperInterval)
	defer ticker.Stop()
	for {
		if reaped, err := w.studio.Uploads.Reaper.RunOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			w.logger.Error("session reaper pass failed",
				"event", "bootstrap_reaper_failed",
				"module", "internal/app/bootstrap",
				"layer", "platform",
				"error", err.Error(),
			)
		} else if reaped > 0 {
			w.logger.Info("abandoned upload sessions reaped",
				"event", "bootstrap_reaper_completed",
				"module", "internal/app/bootstrap",
				"layer", "platform",
				"reaped", reaped,
			)
		}
		if _, err := w.sweeper.SweepOnce(ctx); err != nil && ctx.Err() == nil {
			w.logger.Warn("scratch sweep failed",
				"event", "bootstrap_scratch_sweep_failed",
				"module", "internal/app/bootstrap",
				"layer", "platform",
				"error", err.Error(),
			)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := closeAll(w.closers)
	if w.shutdown != nil {
		if traceErr := w.shutdown(shutdownCtx); traceErr != nil && err == nil {
			err = traceErr
		}
	}
	return err
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") || strings.Contains(value, ":") {
		return value
	}
	return ":" + value
}

func describeStore(cfg config.Config) string {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		return "postgres"
	case config.StoreSQLite:
		return fmt.Sprintf("sqlite (%s)", cfg.SQLitePath)
	default:
		return "memory"
	}
}
