package http

// this is entry point of the http request handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"

	"gitlab.com/examcore-2026.net/internal/config"
	"gitlab.com/examcore-2026.net/internal/core/ports/primary"
	"gitlab.com/examcore-2026.net/internal/core/ports/secondary"
	"gitlab.com/examcore-2026.net/internal/core/services/admission"
	attempt2 "gitlab.com/examcore-2026.net/internal/core/services/attempt"
	"gitlab.com/examcore-2026.net/internal/core/services/grading"
	"gitlab.com/examcore-2026.net/internal/handlers"
	"gitlab.com/examcore-2026.net/internal/handlers/attempts"
	"gitlab.com/examcore-2026.net/internal/handlers/execution"
)

type ServiceProvider struct {
	admissionService admission.IAdmissionService
	gradingService   grading.IGradingService
	attemptService   attempt2.IAttemptService
	executor         secondary.CodeExecutor
}

func NewServiceProvider(
	admissionService admission.IAdmissionService,
	gradingService grading.IGradingService,
	attemptService attempt2.IAttemptService,
	executor secondary.CodeExecutor,
) *ServiceProvider {
	return &ServiceProvider{
		admissionService: admissionService,
		gradingService:   gradingService,
		attemptService:   attemptService,
		executor:         executor,
	}
}

type Server struct {
	router          *mux.Router
	srv             *http.Server
	Port            int
	ServiceName     string
	ServiceProvider ServiceProvider
	jwtConfig       *config.JwtConfig
	logger          primary.Logger
}

func NewServer(port int, serviceName string, serviceProvider ServiceProvider, jwtConfig *config.JwtConfig, logger primary.Logger) *Server {
	return &Server{
		Port:            port,
		ServiceName:     serviceName,
		ServiceProvider: serviceProvider,
		jwtConfig:       jwtConfig,
		logger:          logger,
	}
}

func (s *Server) Init() error {
	r := mux.NewRouter()

	executionHandler := execution.NewExecutionHandler(
		s.ServiceProvider.admissionService,
		s.ServiceProvider.gradingService,
		s.ServiceProvider.executor,
		s.logger,
	)

	// The probe stays outside the auth boundary so monitors can hit it.
	executionHandler.RegisterHealthRoute(r)

	middleware := handlers.New(s.jwtConfig)
	authed := r.NewRoute().Subrouter()
	authed.Use(middleware.JWTMiddleware)

	executionHandler.RegisterRoutes(authed)
	attempts.NewAttemptHandler(s.ServiceProvider.attemptService, s.logger).RegisterRoutes(authed)

	s.router = r
	return nil
}

func (s *Server) Start(ctx context.Context) {
	s.srv = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.logger.Info("Server listening", "addr", s.srv.Addr, "service", s.ServiceName)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()
}

func (s *Server) Stop(ctx context.Context) {
	s.logger.Info("Shutting down http server...")
	if s.srv != nil {
		if err := s.srv.Shutdown(ctx); err != nil {
			s.logger.Error("Server forced to shutdown", "error", err)
		}
	}
}
