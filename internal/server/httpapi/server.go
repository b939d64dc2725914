// Package httpapi exposes the application over HTTP/JSON: typed request and
// response structs per endpoint, a common response envelope, bearer-token
// auth middleware, multipart upload, and static mounts for images.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/akarpovs/contacthub/internal/logging"
	"github.com/akarpovs/contacthub/internal/server/config"
	"github.com/akarpovs/contacthub/internal/server/services"
)

type Server struct {
	addr      string
	logger    logging.Logger
	users     *services.UserService
	contacts  *services.ContactService
	jwtSecret []byte
	uploadDir string
	qrDir     string
	devMode   bool
}

func NewServer(cfg *config.Config, l logging.Logger, us *services.UserService, cs *services.ContactService) *Server {
	return &Server{
		addr:      cfg.EndpointAddr,
		logger:    l.With("module", "httpapi"),
		users:     us,
		contacts:  cs,
		jwtSecret: []byte(cfg.SecretKey),
		uploadDir: cfg.UploadDir,
		qrDir:     cfg.QRCodeDir,
		devMode:   cfg.DevMode,
	}
}

// Router builds the chi router with all routes and middleware attached.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	// Order: request-id -> logging -> recoverer -> CORS -> timeout
	r.Use(middleware.RequestID)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(s.corsMiddleware)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, http.StatusOK, envelope{Code: http.StatusOK, Remark: "ok"})
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Post("/", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.With(s.requireAuth).Put("/", s.handleUpdateProfile)
	})

	r.Route("/api/contacts", func(r chi.Router) {
		r.Get("/", s.handleListContacts)
		r.With(s.requireAuth).Post("/", s.handleCreateContact)

		r.Route("/{contactId}", func(r chi.Router) {
			r.Get("/", s.handleGetContact)
			r.With(s.requireAuth).Put("/", s.handleEditContact)
			r.With(s.requireAuth).Delete("/", s.handleDeleteContact)
			r.With(s.requireAuth).Post("/qrcode", s.handleReprovision)
		})
	})

	r.Post("/file", s.handleUploadFile)

	// static mounts for uploaded images and generated QR artifacts
	r.Get("/images/*", http.StripPrefix("/images/", http.FileServer(http.Dir(s.uploadDir))).ServeHTTP)
	r.Get("/qrcodes/*", http.StripPrefix("/qrcodes/", http.FileServer(http.Dir(s.qrDir))).ServeHTTP)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeErrorStatus(w, http.StatusNotFound, "Not Found - "+r.URL.Path)
	})

	return r
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.addr)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
