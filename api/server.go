// Package api exposes the ledger as a local JSON over HTTP service.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/etnz/moneymanager"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Options configures a Server.
type Options struct {
	Currency   string   // display currency, moneymanager.DefaultCurrency if empty
	Categories []string // categories offered to clients, moneymanager.DefaultCategories() if nil
	Log        *logrus.Logger
}

// Server serves the ledger operations.
type Server struct {
	ledger     *moneymanager.Ledger
	currency   string
	categories []string
	log        *logrus.Logger
	router     *mux.Router
}

// NewServer returns a server for l.
func NewServer(l *moneymanager.Ledger, opts Options) *Server {
	s := &Server{
		ledger:     l,
		currency:   opts.Currency,
		categories: opts.Categories,
		log:        opts.Log,
	}
	if s.currency == "" {
		s.currency = moneymanager.DefaultCurrency
	}
	if s.categories == nil {
		s.categories = moneymanager.DefaultCategories()
	}
	if s.log == nil {
		s.log = logrus.StandardLogger()
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)
	r.HandleFunc("/health", s.health).Methods(http.MethodGet)
	r.HandleFunc("/overview", s.overview).Methods(http.MethodGet)
	r.HandleFunc("/categories", s.listCategories).Methods(http.MethodGet)
	r.HandleFunc("/debit", s.record(moneymanager.Debit)).Methods(http.MethodPost)
	r.HandleFunc("/credit", s.record(moneymanager.Credit)).Methods(http.MethodPost)
	r.HandleFunc("/transfer", s.record(moneymanager.Transfer)).Methods(http.MethodPost)
	r.HandleFunc("/statement", s.statement).Methods(http.MethodGet)
	r.HandleFunc("/records/{kind}", s.records).Methods(http.MethodGet)
	r.HandleFunc("/reset", s.reset).Methods(http.MethodPost)
	r.HandleFunc("/chart.png", s.chart).Methods(http.MethodGet)
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Infof("Starting server on %s", addr)
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("Shutting down server")
		return server.Shutdown(shutdownCtx)
	}
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start),
		}).Debug("request served")
	})
}
