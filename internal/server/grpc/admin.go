// Package grpcserver runs the admin gRPC endpoint: standard health checking
// driven by store reachability, plus reflection in dev mode.
package grpcserver

import (
	"context"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the health service name reported next to the overall ("") status.
const ServiceName = "regolith.RecordStore"

const maxPingTimeout = 5 * time.Second

// Pinger reports whether the record store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Admin owns the gRPC server and its health state.
type Admin struct {
	srv    *grpc.Server
	health *health.Server
	log    *zap.Logger
}

// NewAdmin builds the server with recover and logging interceptors. The
// store starts as NOT_SERVING until the first successful ping.
func NewAdmin(log *zap.Logger, dev bool) *Admin {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			RecoverUnary(log),
			LoggingUnary(log),
		),
		grpc.ChainStreamInterceptor(
			RecoverStream(log),
			LoggingStream(log),
		),
	)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	if dev {
		reflection.Register(srv)
	}
	a := &Admin{srv: srv, health: hs, log: log}
	a.SetServing(false)
	return a
}

// Server exposes the underlying gRPC server.
func (a *Admin) Server() *grpc.Server { return a.srv }

// SetServing updates both the overall and the named service status.
func (a *Admin) SetServing(ok bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if ok {
		st = healthpb.HealthCheckResponse_SERVING
	}
	a.health.SetServingStatus("", st)
	a.health.SetServingStatus(ServiceName, st)
}

// Monitor pings p immediately and then every interval, flipping the health
// status on each transition. It returns when ctx is done.
func (a *Admin) Monitor(ctx context.Context, p Pinger, interval time.Duration) {
	timeout := min(interval, maxPingTimeout)
	serving := false
	check := func() {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		err := p.Ping(pctx)
		cancel()
		ok := err == nil
		if ok == serving {
			return
		}
		serving = ok
		a.SetServing(ok)
		if ok {
			a.log.Info("store reachable")
		} else {
			a.log.Warn("store unreachable", zap.Error(err))
		}
	}

	check()
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			check()
		}
	}
}

// Serve blocks serving lis.
func (a *Admin) Serve(lis net.Listener) error { return a.srv.Serve(lis) }

// Stop marks everything NOT_SERVING and stops gracefully, forcing the stop
// after timeout.
func (a *Admin) Stop(timeout time.Duration) {
	a.health.Shutdown()
	done := make(chan struct{})
	go func() {
		a.srv.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		a.srv.Stop()
	}
}
