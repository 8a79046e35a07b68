package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"f0oster/sheetaudit/audit"
	"f0oster/sheetaudit/sink"
	"f0oster/sheetaudit/trigger"

	"github.com/sirupsen/logrus"
)

// Dispatcher delivers inbound notifications to their subscriptions.
type Dispatcher interface {
	DispatchEdit(ctx context.Context, n audit.EditNotification) ([]trigger.Delivery, error)
	DispatchChange(ctx context.Context, n audit.ChangeNotification) ([]trigger.Delivery, error)
	DispatchOpen(ctx context.Context, n audit.OpenNotification) ([]trigger.Delivery, error)
}

// LogReader opens a configured log destination by name for the viewer.
// The bool is false for destinations that are not configured.
type LogReader interface {
	Lookup(ctx context.Context, destination string) (sink.Sink, bool, error)
}

// Server handles notification delivery and log viewing over HTTP.
type Server struct {
	dispatcher Dispatcher
	logs       LogReader
	logger     logrus.FieldLogger
	mux        *http.ServeMux
	addr       string
}

// NewServer creates a new web server instance.
func NewServer(dispatcher Dispatcher, logs LogReader, logger logrus.FieldLogger, addr string) *Server {
	s := &Server{
		dispatcher: dispatcher,
		logs:       logs,
		logger:     logger,
		mux:        http.NewServeMux(),
		addr:       addr,
	}
	s.registerRoutes()
	return s
}

// registerRoutes sets up all HTTP routes.
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /api/notifications/edit", s.handleEdit)
	s.mux.HandleFunc("POST /api/notifications/change", s.handleChange)
	s.mux.HandleFunc("POST /api/notifications/open", s.handleOpen)
	s.mux.HandleFunc("GET /api/logs/{destination}", s.handleListLogs)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
}

// Start listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", s.addr).Info("starting web server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Handler returns the HTTP handler for use with custom servers.
func (s *Server) Handler() http.Handler {
	return s.mux
}
