// Package health serves grpc.health.v1 driven by readiness probes.
package health

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ReadinessCheck is satisfied by stores, object storage and the fan-out bridge.
type ReadinessCheck interface {
	IsReady(ctx context.Context) error
}

type CheckFunc func(ctx context.Context) error

func (f CheckFunc) IsReady(ctx context.Context) error {
	return f(ctx)
}

type NamedCheck struct {
	Name  string
	Check ReadinessCheck
}

// Checker starts pessimistic and flips to SERVING only when every check passes.
type Checker struct {
	checks   []NamedCheck
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger

	server *grpchealth.Server

	mu       sync.RWMutex
	failures map[string]string
}

func NewChecker(checks []NamedCheck, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	server := grpchealth.NewServer()
	server.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	return &Checker{
		checks:   checks,
		interval: 5 * time.Second,
		timeout:  500 * time.Millisecond,
		logger:   logger,
		server:   server,
		failures: map[string]string{"startup": "not probed yet"},
	}
}

// Probe runs every check once and publishes the resulting status.
func (c *Checker) Probe(ctx context.Context) bool {
	failures := make(map[string]string)
	for _, item := range c.checks {
		cctx, cancel := context.WithTimeout(ctx, c.timeout)
		err := item.Check.IsReady(cctx)
		cancel()
		if err != nil {
			failures[item.Name] = err.Error()
		}
	}

	c.mu.Lock()
	changed := len(failures) != len(c.failures)
	c.failures = failures
	c.mu.Unlock()

	status := healthpb.HealthCheckResponse_SERVING
	if len(failures) > 0 {
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	c.server.SetServingStatus("", status)
	if changed && len(failures) > 0 {
		c.logger.Warn("readiness degraded",
			"event", "readiness_degraded",
			"module", "internal/platform/health",
			"layer", "platform",
			"failures", failures,
		)
	}
	return len(failures) == 0
}

// Failures is the last probe's failing checks, empty when ready.
func (c *Checker) Failures() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]string, len(c.failures))
	for name, reason := range c.failures {
		out[name] = reason
	}
	return out
}

func (c *Checker) Run(ctx context.Context) {
	c.Probe(ctx)
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			c.server.Shutdown()
			return
		case <-ticker.C:
			c.Probe(ctx)
		}
	}
}

// Serve exposes the health service on addr until ctx ends.
func (c *Checker) Serve(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen health %s: %w", addr, err)
	}
	server := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	healthpb.RegisterHealthServer(server, c.server)

	go func() {
		<-ctx.Done()
		done := make(chan struct{})
		go func() {
			server.GracefulStop()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			server.Stop()
		}
	}()

	if err := server.Serve(listener); err != nil && err != grpc.ErrServerStopped {
		return err
	}
	return nil
}
