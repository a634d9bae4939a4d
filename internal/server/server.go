package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/arpsweep/internal/discovery"
	"github.com/muurk/arpsweep/internal/logging"
)

// shutdownTimeout bounds graceful shutdown when the caller gives no deadline.
const shutdownTimeout = 10 * time.Second

// Engine is the part of discovery.Engine the server drives.
type Engine interface {
	Discover(ctx context.Context, refIP string) ([]discovery.HostRecord, error)
	ResolveSelf(ctx context.Context) (discovery.SelfInfo, error)
	SearchByIP(ctx context.Context, ips []string, refIP string) (discovery.SearchResult, error)
	SearchByMAC(ctx context.Context, fragments []string, refIP string) (discovery.SearchResult, error)
	SearchByType(ctx context.Context, vendorType, refIP string) ([]discovery.HostRecord, error)
	LastSweep() discovery.SweepInfo
	Invalidate()
}

// Config holds the server configuration
type Config struct {
	// Listen is the TCP address to serve on.
	// Default: 127.0.0.1:8680
	Listen string

	// RefreshInterval is the period of background sweeps pushed to
	// WebSocket clients. Zero disables the refresh loop.
	// Default: 60 seconds
	RefreshInterval time.Duration

	// RefIP selects the subnet of background sweeps. Empty sweeps the
	// local subnet.
	RefIP string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Listen:          "127.0.0.1:8680",
		RefreshInterval: 60 * time.Second,
	}
}

// Server exposes a discovery engine over HTTP and pushes sweep results to
// WebSocket clients.
type Server struct {
	config Config
	logger *zap.Logger

	// engineMu serializes every engine call; the engine itself is not safe
	// for concurrent use.
	engineMu sync.Mutex
	engine   Engine

	hub        *hub
	httpServer *http.Server
	listener   net.Listener
	wg         sync.WaitGroup
}

// New creates a server around engine.
func New(config Config, engine Engine, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		config: config,
		logger: logger,
		engine: engine,
		hub:    newHub(logger),
	}
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Start listens on the configured address and serves until ctx is cancelled,
// SIGINT or SIGTERM arrives, or serving fails.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.config.Listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Listen, err)
	}
	return s.Serve(ctx, listener)
}

// Serve is Start over an existing listener.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	s.listener = listener
	s.logger.Info("Server listening",
		zap.String("addr", listener.Addr().String()),
		zap.Duration("refresh_interval", s.config.RefreshInterval),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	loopCtx, stopLoop := context.WithCancel(ctx)
	defer stopLoop()
	if s.config.RefreshInterval > 0 {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.refreshLoop(loopCtx)
		}()
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.httpServer.Serve(listener)
	}()

	select {
	case <-sigChan:
		s.logger.Info("Shutdown signal received, stopping server...")
	case <-ctx.Done():
		s.logger.Info("Context cancelled, stopping server...")
	case err := <-errChan:
		stopLoop()
		s.wg.Wait()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}

	stopLoop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

// Shutdown stops accepting requests, closes WebSocket clients and waits for
// the refresh loop to exit.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	err := s.httpServer.Shutdown(ctx)
	s.hub.closeAll()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Server stopped")
	case <-ctx.Done():
		s.logger.Warn("Shutdown timeout, forcing close")
	}

	logging.Sync()
	return err
}

// Addr returns the listening address, or nil before Serve.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// ClientCount returns the number of connected WebSocket clients.
func (s *Server) ClientCount() int {
	return s.hub.count()
}

// refreshLoop sweeps once immediately and then every RefreshInterval.
func (s *Server) refreshLoop(ctx context.Context) {
	ticker := time.NewTicker(s.config.RefreshInterval)
	defer ticker.Stop()

	for {
		if err := s.Refresh(ctx); err != nil && ctx.Err() == nil {
			s.logger.Warn("Background sweep failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Refresh runs a sweep that bypasses the cache and broadcasts the result to
// every WebSocket client.
func (s *Server) Refresh(ctx context.Context) error {
	start := time.Now()

	s.engineMu.Lock()
	s.engine.Invalidate()
	hosts, err := s.engine.Discover(ctx, s.config.RefIP)
	info := s.engine.LastSweep()
	s.engineMu.Unlock()

	if err != nil {
		return err
	}

	logging.LogSweep(info.ID, info.RefIP, info.Probed, info.Reachable, len(hosts), time.Since(start))
	s.hub.broadcast(newSnapshot(info, hosts))
	return nil
}

// withEngine runs fn while holding the engine lock.
func (s *Server) withEngine(fn func(Engine) error) error {
	s.engineMu.Lock()
	defer s.engineMu.Unlock()
	return fn(s.engine)
}
