// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Hearsay Contributors

package httpapi

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/samber/oops"

	"github.com/hearsay-chat/hearsay/internal/observability"
)

// Server owns the API listener lifecycle.
type Server struct {
	addr       string
	handler    *Handler
	metrics    *observability.Metrics
	log        *slog.Logger
	listener   net.Listener
	httpServer *http.Server
	running    atomic.Bool
}

// NewServer creates an API server listening on addr in "host:port" format.
func NewServer(addr string, handler *Handler, metrics *observability.Metrics, logger *slog.Logger) (*Server, error) {
	if handler == nil {
		return nil, oops.Code("API_INVALID_DEPENDENCY").Errorf("handler is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		addr:    addr,
		handler: handler,
		metrics: metrics,
		log:     logger,
	}, nil
}

// Start begins serving the API. It returns an error channel that receives
// any error from the HTTP server after it starts; the channel closes on
// graceful stop.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Errorf("api server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.With("addr", s.addr).Wrap(err)
	}
	s.listener = listener

	mux := http.NewServeMux()
	s.handler.Register(mux)

	httpSrv := &http.Server{
		Handler:           WithRequestLogging(mux, s.log, s.metrics),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = httpSrv

	errCh := make(chan error, 1)

	go func() {
		defer close(errCh)
		// Local httpSrv avoids a race with subsequent Start() calls.
		if serveErr := httpSrv.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			s.log.Error("api server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	s.log.Info("api server started", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop gracefully shuts down the API server.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			// Restore running state so the server can be stopped again.
			s.running.Store(true)
			return oops.With("operation", "shutdown_api_server").Wrap(err)
		}
	}

	s.log.Info("api server stopped")
	return nil
}

// Addr returns the bound listen address, useful when addr was ":0".
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}
