// Package httpapi exposes the HTTP/JSON surface of the service: the auth
// endpoints, the protected record CRUD endpoints, and the middleware
// enforcing bearer-token authentication on the latter.
package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/alexskv/prodviz/internal/logging"
	"github.com/alexskv/prodviz/internal/server/services"
)

type Server struct {
	address   string
	users     *services.UserService
	records   *services.RecordService
	logger    logging.Logger
	jwtSecret []byte
}

func NewServer(a string, l logging.Logger, us *services.UserService, rs *services.RecordService, secretKey string) (*Server, error) {
	return &Server{
		address:   a,
		logger:    l.With("module", "http_server"),
		users:     us,
		records:   rs,
		jwtSecret: []byte(secretKey),
	}, nil
}

// Handler builds the route table. Every record route sits behind the
// auth middleware; the auth endpoints themselves are open.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/register", s.handleRegister)
	mux.HandleFunc("POST /api/v1/login", s.handleLogin)
	mux.HandleFunc("POST /api/v1/reset", s.handleReset)

	mux.Handle("GET /api/v1/records", s.requireAuth(http.HandlerFunc(s.handleListRecords)))
	mux.Handle("POST /api/v1/records", s.requireAuth(http.HandlerFunc(s.handleCreateRecord)))
	mux.Handle("PUT /api/v1/records/{id}", s.requireAuth(http.HandlerFunc(s.handleUpdateRecord)))
	mux.Handle("DELETE /api/v1/records/{id}", s.requireAuth(http.HandlerFunc(s.handleDeleteRecord)))

	return s.withCORS(s.withRequestLog(mux))
}

func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		_ = srv.Shutdown(context.Background())
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
