package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/cors"
)

type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type PipelineConfig struct {
	Logger *slog.Logger
	CORS   CORSConfig
}

// Pipeline wraps the routing table with the filters every request passes
// through, outermost first: request logging, request context, failure
// translation and, when enabled, CORS.
func Pipeline(table http.Handler, cfg PipelineConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	filters := []Filter{
		RequestLogger(logger),
		InitRequestContext(),
		CatchBindingFailure(),
	}

	if cfg.CORS.Enabled {
		filters = append(filters, FromMiddleware(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORS.AllowedOrigins,
			AllowedMethods:   cfg.CORS.AllowedMethods,
			AllowedHeaders:   cfg.CORS.AllowedHeaders,
			ExposedHeaders:   cfg.CORS.ExposedHeaders,
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           cfg.CORS.MaxAge,
		})))
	}

	return Chain(table, filters...)
}

// FromMiddleware adapts chi style middleware to a Filter.
func FromMiddleware(mw func(http.Handler) http.Handler) Filter {
	return FilterFunc(func(w http.ResponseWriter, r *http.Request, next http.Handler) {
		mw(next).ServeHTTP(w, r)
	})
}
