package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/projeto-canaa/cadastro/pkg/audit"
	"github.com/projeto-canaa/cadastro/pkg/config"
	"github.com/projeto-canaa/cadastro/pkg/documents"
	"github.com/projeto-canaa/cadastro/pkg/lookup"
	"github.com/projeto-canaa/cadastro/pkg/metrics"
	"github.com/projeto-canaa/cadastro/pkg/protocol"
	"github.com/projeto-canaa/cadastro/pkg/server/middleware"
	"github.com/projeto-canaa/cadastro/pkg/server/store"
	gormstore "github.com/projeto-canaa/cadastro/pkg/server/store/gorm"
)

type Server struct {
	Router *mux.Router
	DB     *gorm.DB
	Config config.Provider
	Logger *slog.Logger

	CadastrosStore store.CadastrosStore
	HealthStore    store.HealthStore

	Documents *documents.Intake
	Lookup    *lookup.Generator
	Metrics   *metrics.Metrics
	Audit     *audit.Auditor

	// Protocols returns the generator used for new registrations. It is
	// called per request so prefix changes apply without a restart.
	Protocols func() *protocol.Generator

	srv *http.Server
}

func NewServer(
	db *gorm.DB,
	cfg config.Provider,
	intake *documents.Intake,
	logger *slog.Logger,
	host string,
	port string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		DB:        db,
		Config:    cfg,
		Logger:    logger,
		Documents: intake,
		Lookup: lookup.NewGenerator(func() string {
			return cfg.Current().LookupBaseURL
		}),
		Metrics: metrics.New(nil),
		Audit:   audit.Disabled(),
		Protocols: func() *protocol.Generator {
			return protocol.NewGenerator(cfg.Current().ProtocolPrefix)
		},
	}
	if db != nil {
		s.CadastrosStore = gormstore.NewCadastrosStore(db)
		s.HealthStore = gormstore.NewHealthStore(db)
	}

	router := mux.NewRouter().UseEncodedPath()
	router.Use(middleware.RequestID)
	router.Use(middleware.Instrument(s.Metrics))
	s.Router = router

	s.srv = &http.Server{
		Handler:           s.Handler(),
		Addr:              net.JoinHostPort(host, port),
		ReadHeaderTimeout: 10 * time.Second,
		// uploads can be large, so the body timeouts are generous
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	return s
}

// Handler wraps the router with access logging, CORS and panic recovery.
func (s *Server) Handler() http.Handler {
	origins := []string{"*"}
	if cfg := s.Config.Current(); len(cfg.CORSAllowedOrigins) > 0 {
		origins = cfg.CORSAllowedOrigins
	}

	cors := handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", middleware.RequestIDHeader}),
		handlers.ExposedHeaders([]string{middleware.RequestIDHeader, "Content-Disposition"}),
	)
	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(slog.NewLogLogger(s.Logger.Handler(), slog.LevelError)),
	)

	return recovery(cors(handlers.LoggingHandler(os.Stdout, s.Router)))
}

// Start listens on the configured address until Shutdown is called.
func (s *Server) Start() error {
	err := s.srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// StartWithListener serves on an existing listener. Tests use it with
// port 0 to get a free port.
func (s *Server) StartWithListener(l net.Listener) error {
	err := s.srv.Serve(l)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// Addr is the configured listen address.
func (s *Server) Addr() string {
	return s.srv.Addr
}
