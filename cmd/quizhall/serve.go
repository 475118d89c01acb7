package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"

	"github.com/sagarc03/quizhall"
	"github.com/sagarc03/quizhall/config"
	"github.com/sagarc03/quizhall/contract"
	"github.com/sagarc03/quizhall/database"
	quizhttp "github.com/sagarc03/quizhall/http"
)

// metricsPath is served next to the route table when metrics are enabled.
const metricsPath = "/metrics"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the quizhall HTTP server.

The database tables are created if missing and their schema is checked
before the server accepts any request.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", config.DefaultPort, "HTTP server port (env: QUIZHALL_SERVER_PORT)")
	serveCmd.Flags().Bool("metrics", true, "serve Prometheus metrics at /metrics")
	serveCmd.Flags().String("realm", "", "basic auth realm of the quiz API (default: kfp-quiz)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	slog.Info("connected to database", "type", cfg.Database.Type)

	handler, err := buildHandler(cfg, db)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		slog.Info("shutting down server...")
		timeout := time.Duration(cfg.Server.ShutdownTimeout) * time.Second
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "err", err)
		}
	}()

	slog.Info("starting server", "addr", addr, "docs", cfg.Docs.Path, "metrics", cfg.Server.Metrics)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// buildHandler wires services, route groups and the request pipeline on
// top of an opened database.
func buildHandler(cfg *config.Config, db database.Database) (http.Handler, error) {
	users, err := quizhall.NewUserService(db.UserRepo(), cfg.Auth.PasswordCost)
	if err != nil {
		return nil, fmt.Errorf("create user service: %w", err)
	}

	quizzes, err := quizhall.NewQuizService(db.QuizRepo(), db.UserRepo())
	if err != nil {
		return nil, fmt.Errorf("create quiz service: %w", err)
	}

	auth := quizhttp.BasicAuth(cfg.Auth.Realm, users)

	docs := contract.Docs{Path: cfg.Docs.Path, Title: cfg.Docs.Title}
	if cfg.Server.Metrics {
		docs.Reserved = []string{metricsPath}
	}

	table, err := contract.Compose([]contract.Group{
		quizhttp.NewUserHandler(users).Group(),
		quizhttp.NewQuizHandler(quizzes, auth).Group(),
	}, docs)
	if err != nil {
		return nil, fmt.Errorf("compose routes: %w", err)
	}

	for _, ep := range table.Endpoints() {
		slog.Debug("route mounted", "group", ep.Group, "method", ep.Method, "path", ep.Path)
	}

	pipeline := quizhttp.Pipeline(table, quizhttp.PipelineConfig{
		Logger: slog.Default(),
		CORS:   cfg.CORS,
	})

	if !cfg.Server.Metrics {
		return pipeline, nil
	}

	r := chi.NewRouter()
	r.Handle(metricsPath, quizhttp.MetricsHandler())
	r.Mount("/", pipeline)
	return r, nil
}
