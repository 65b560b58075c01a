package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gensquad/talentbase/internal/db"
	"github.com/gensquad/talentbase/internal/version"
	"github.com/jmoiron/sqlx"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	config *Config
	server *http.Server
	db     *sqlx.DB
	svc    *Services
}

func New(config *Config) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	opts := []db.SqliteOption{
		db.WithPath(config.DBPath),
		db.WithMigrations(),
	}
	if config.DBPath == memoryDB {
		opts = append(opts, db.WithMaxOpenConns(1))
	}

	sqliteDB, err := db.NewSqliteDB(opts...)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	svc, err := NewServices(config, sqliteDB)
	if err != nil {
		sqliteDB.Close()
		return nil, err
	}

	return &Server{
		config: config,
		db:     sqliteDB,
		svc:    svc,
		server: &http.Server{
			Addr:              config.HTTP.Addr,
			Handler:           SetupRoutes(config, svc),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Start runs the server until ctx is cancelled or the listener fails
func (s *Server) Start(ctx context.Context) error {
	slog.Info("server start", "version", version.DetailedWithApp())
	defer slog.Info("server stop")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := s.svc.Start(ctx); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.runHttpServer(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		slog.Info("server shutdown signal")
	case err := <-errCh:
		if err != nil {
			slog.Error("http server", "error", err)
			runErr = err
		}
	}

	// stops the sync scheduler before services are shut down
	cancel()
	return errors.Join(runErr, s.Stop(context.Background()))
}

// Stop drains http connections, waits for background work and closes the db
func (s *Server) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	var errs []error
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	if err := s.svc.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	if err := s.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close db: %w", err))
	}
	return errors.Join(errs...)
}

func (s *Server) runHttpServer() error {
	if s.config.HTTP.TLSEnabled() {
		slog.Info("server start https", "addr", s.config.HTTP.Addr, "cert", s.config.HTTP.CertFile, "key", s.config.HTTP.KeyFile)
		return s.server.ListenAndServeTLS(s.config.HTTP.CertFile, s.config.HTTP.KeyFile)
	}
	slog.Info("server start http", "addr", s.config.HTTP.Addr)
	return s.server.ListenAndServe()
}
