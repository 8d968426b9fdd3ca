package server

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/lemu/seamless-sea-sub000/pkg/application"
	"github.com/lemu/seamless-sea-sub000/pkg/configuration"
	"github.com/lemu/seamless-sea-sub000/pkg/httpapi"
	"github.com/lemu/seamless-sea-sub000/pkg/middleware"
	"github.com/lemu/seamless-sea-sub000/pkg/server"
)

type DefaultOptions struct {
	Logger        *logrus.Logger
	Configuration *configuration.Configuration
	Application   application.Application
	Pool          *pgxpool.Pool
}

// Default assembles the standard middleware stack and wires the JSON
// fallback handlers every API route shares.
func Default(options *DefaultOptions) (*server.HTTPServer, error) {
	app := options.Application

	middlewares := []mux.MiddlewareFunc{
		middleware.LogRequests(options.Logger),
		middleware.ProvidePool(options.Pool),
		middleware.Cors(splitOrigins(options.Configuration.AllowedOrigins)),
		middleware.Authorize(),
	}
	app.RegisterMiddleware(middlewares...)

	notFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = httpapi.WriteNotFound(w, "route not found")
	})
	methodNotAllowed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = httpapi.WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", nil)
	})
	return server.NewHTTPServer(app, notFound, methodNotAllowed), nil
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
