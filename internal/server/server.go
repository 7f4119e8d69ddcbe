package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/netutil"
	"golang.org/x/time/rate"

	"github.com/GriffinCanCode/simple-nfs/internal/infrastructure/config"
	"github.com/GriffinCanCode/simple-nfs/internal/infrastructure/logging"
	"github.com/GriffinCanCode/simple-nfs/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/simple-nfs/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/simple-nfs/internal/protocol"
	"github.com/GriffinCanCode/simple-nfs/internal/providers/filesystem"
	"github.com/GriffinCanCode/simple-nfs/internal/shared/id"
)

// ErrServerClosed is returned by Serve after Close.
var ErrServerClosed = errors.New("server closed")

// breakerPause is the wait used when the breaker rejects an accept without
// reporting a remaining open time (half-open probe already in flight).
const breakerPause = 10 * time.Millisecond

// Server serves file requests one connection at a time
type Server struct {
	cfg      *config.Config
	resolver *filesystem.Resolver
	logger   *logging.Logger
	metrics  *monitoring.Metrics
	limiter  *rate.Limiter
	breaker  *resilience.Breaker

	mu     sync.Mutex
	ln     net.Listener
	closed bool
}

// New creates a server exporting the tree behind resolver. A nil logger or
// metrics gets a no-op logger or a private registry.
func New(cfg *config.Config, resolver *filesystem.Resolver, logger *logging.Logger, metrics *monitoring.Metrics) *Server {
	if logger == nil {
		logger = logging.Nop()
	}
	if metrics == nil {
		metrics = monitoring.NewMetrics(nil)
	}

	s := &Server{
		cfg:      cfg,
		resolver: resolver,
		logger:   logger,
		metrics:  metrics,
	}

	if cfg.RateLimit.Enabled {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit.ConnectionsPerSecond), cfg.RateLimit.Burst)
		logger.Info("Connection rate limiting enabled",
			zap.Int("cps", cfg.RateLimit.ConnectionsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
	}

	s.breaker = resilience.New("accept", resilience.Settings{
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Warn("Accept breaker state changed",
				zap.String("breaker", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to),
			)
			metrics.SetBreakerOpen(to == resilience.StateOpen)
		},
	})

	return s
}

// ListenAndServe binds the configured address and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Addr())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Server.Addr(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln and handles each to completion before
// accepting the next: the listener admits a single open connection, so
// Accept blocks until the previous one is closed. It returns nil once ctx
// is cancelled and ErrServerClosed after Close, in both cases after the
// connection in progress has finished. Failures of a single connection,
// accept errors included, never end the loop.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	ln = netutil.LimitListener(ln, 1)

	var wg sync.WaitGroup
	defer wg.Wait()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		ln.Close()
		return ErrServerClosed
	}
	s.ln = ln
	s.mu.Unlock()

	stop := context.AfterFunc(ctx, func() { ln.Close() })
	defer stop()

	s.logger.Info("Listening",
		zap.String("addr", ln.Addr().String()),
		zap.String("root", s.resolver.Root()),
		zap.Bool("contain", s.resolver.Contained()),
	)

	for {
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return s.exitErr(ctx)
			}
		}

		var conn net.Conn
		err := s.breaker.Execute(func() error {
			c, err := ln.Accept()
			conn = c
			return err
		})
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return s.exitErr(ctx)
			}
			if errors.Is(err, resilience.ErrCircuitOpen) || errors.Is(err, resilience.ErrTooManyRequests) {
				if !s.pause(ctx) {
					return s.exitErr(ctx)
				}
				continue
			}
			s.metrics.RecordConnectionError("accept")
			s.logger.Error("Accept failed", zap.Error(err))
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			s.handle(ctx, conn)
		}()
	}
}

// pause waits out an open breaker. It reports false if ctx ended first.
func (s *Server) pause(ctx context.Context) bool {
	wait := s.breaker.Remaining()
	if wait <= 0 {
		wait = breakerPause
	}
	t := time.NewTimer(wait)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (s *Server) exitErr(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.Info("Server stopped", zap.Error(ctx.Err()))
		return nil
	}
	return ErrServerClosed
}

// Addr returns the listening address, or nil before Serve.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Breaker exposes the accept loop breaker.
func (s *Server) Breaker() *resilience.Breaker {
	return s.breaker
}

// Close stops the accept loop. A connection in progress is finished first.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if s.ln == nil {
		return nil
	}
	return s.ln.Close()
}

// handle performs the request/response cycle of one connection and closes it.
func (s *Server) handle(ctx context.Context, conn net.Conn) {
	connID := id.NewConnectionID()
	log := s.logger.ForConnection(connID.String(), conn.RemoteAddr())
	s.metrics.IncConnections()
	log.Info("New connection")

	defer func() {
		if err := conn.Close(); err != nil {
			log.Debug("Close failed", zap.Error(err))
		}
		log.Info("Connection closed")
	}()

	if timeout := s.cfg.Server.ConnTimeout; timeout > 0 {
		if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
			log.Debug("Set deadline failed", zap.Error(err))
		}
	}
	stop := context.AfterFunc(ctx, func() {
		if err := conn.SetDeadline(time.Unix(1, 0)); err != nil {
			log.Debug("Interrupt failed", zap.Error(err))
		}
	})
	defer stop()

	frame := make([]byte, protocol.FrameSize)
	n, err := protocol.ReadFrame(conn, frame)
	if err != nil || n == 0 {
		s.metrics.RecordConnectionError("read")
		log.Warn("Failed to read request", zap.Int("bytes", n), zap.Error(err))
		return
	}

	resp := s.dispatch(conn, log, frame[:n])

	out, err := resp.Encode()
	if err != nil {
		log.Error("Failed to encode response", zap.Error(err))
		out, _ = protocol.Failed(nil).Encode()
	}
	if _, err := conn.Write(out); err != nil {
		s.metrics.RecordConnectionError("write")
		log.Warn("Failed to send response", zap.Error(err))
	}
}
