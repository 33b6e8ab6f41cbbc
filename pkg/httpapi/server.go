// Package httpapi is the HTTP surface of the configuration server: the
// router, middleware chain, and request handlers for environment
// resolution and the encryption endpoint, plus health and metrics.
package httpapi

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"configserver/pkg/config"
	"configserver/pkg/encryption"
	"configserver/pkg/gitrepo"
	"configserver/pkg/httpapi/middleware"
	securitytls "configserver/pkg/security/tls"
	"configserver/pkg/telemetry/health"
	"configserver/pkg/telemetry/logging"
	"configserver/pkg/telemetry/metrics"
)

// Server is the configuration server's HTTP server: it serves the
// environment-resolution, encryption, health, and metrics surface.
type Server struct {
	cfg        *config.Config
	repo       *gitrepo.Repository
	encryption *encryption.Service
	metrics    *metrics.Collector
	health     *health.Checker
	log        *logging.Logger

	httpServer   *http.Server
	tlsReloader  *securitytls.CertificateReloader
	tlsCancel    context.CancelFunc
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer builds a Server wiring the git repository, encryption
// service, metrics collector, and health checker into the HTTP surface
// described by cfg.
func NewServer(cfg *config.Config, repo *gitrepo.Repository, enc *encryption.Service, collector *metrics.Collector, checker *health.Checker, log *logging.Logger) *Server {
	return &Server{
		cfg:          cfg,
		repo:         repo,
		encryption:   enc,
		metrics:      collector,
		health:       checker,
		log:          log,
		shutdownChan: make(chan struct{}),
	}
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	handler := s.Handler()

	s.httpServer = &http.Server{
		Addr:           s.cfg.Server.ListenAddress,
		Handler:        handler,
		ReadTimeout:    s.cfg.Server.ReadTimeout,
		WriteTimeout:   s.cfg.Server.WriteTimeout,
		IdleTimeout:    s.cfg.Server.IdleTimeout,
		MaxHeaderBytes: s.cfg.Server.MaxHeaderBytes,
	}

	if s.cfg.Server.TLS.Enabled {
		tlsCtx, cancel := context.WithCancel(ctx)
		tlsConfig, err := s.configureTLS(tlsCtx)
		if err != nil {
			cancel()
			return fmt.Errorf("failed to configure TLS: %w", err)
		}
		s.tlsCancel = cancel
		s.httpServer.TLSConfig = tlsConfig
	}

	errChan := make(chan error, 1)
	go func() {
		s.log.Info("starting configuration server",
			"address", s.cfg.Server.ListenAddress,
			"tls_enabled", s.cfg.Server.TLS.Enabled,
		)

		var err error
		if s.cfg.Server.TLS.Enabled {
			// configureTLS already populated TLSConfig.GetCertificate via
			// the reloader; passing empty paths here keeps ListenAndServeTLS
			// from loading a second, static copy of the certificate.
			err = s.httpServer.ListenAndServeTLS("", "")
		} else {
			err = s.httpServer.ListenAndServe()
		}

		if err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-ctx.Done():
		s.log.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		s.log.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	case <-s.shutdownChan:
		s.log.Info("shutdown requested")
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		shutdownCtx, cancel := context.WithTimeout(ctx, s.cfg.Server.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				s.log.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		if s.tlsCancel != nil {
			s.tlsCancel()
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.log.Info("configuration server stopped")
	})

	return shutdownErr
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the fully wired HTTP handler, for tests and for Start.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /key", s.handleGetKey)
	mux.HandleFunc("GET /key/{name}/{profiles}", s.handleGetKey)
	mux.HandleFunc("PUT /key", s.handlePutKey)

	mux.HandleFunc("POST /encrypt", s.handleEncrypt)
	mux.HandleFunc("POST /encrypt/{name}/{profiles}", s.handleEncrypt)
	mux.HandleFunc("GET /encrypt/status", s.handleEncryptStatus)

	mux.HandleFunc("POST /decrypt", s.handleDecrypt)
	mux.HandleFunc("POST /decrypt/{name}/{profiles}", s.handleDecrypt)

	if s.health != nil {
		mux.HandleFunc("GET /health", s.health.LivenessHandler())
		mux.HandleFunc("GET /ready", s.health.ReadinessHandler())
	}
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}

	mux.HandleFunc("GET /{application}/{profile}", s.handleEnvironment)
	mux.HandleFunc("GET /{application}/{profile}/{label}", s.handleEnvironment)

	var handler http.Handler = mux
	handler = middleware.TimeoutMiddleware(s.cfg.Server.WriteTimeout)(handler)
	handler = middleware.CORSMiddleware(s.convertCORSConfig())(handler)
	handler = middleware.RequestIDMiddleware(handler)
	handler = middleware.LoggingMiddleware(s.log, s.cfg.Server.TLS.MTLS.IdentitySource)(handler)
	handler = middleware.RecoveryMiddleware(handler)

	return handler
}

// configureTLS builds the HTTP listener's tls.Config, wiring mTLS client
// authentication (when enabled) and swapping in a CertificateReloader so
// certificate renewal does not require a server restart. ctx bounds the
// reloader's background watch loop; Shutdown cancels it.
func (s *Server) configureTLS(ctx context.Context) (*tls.Config, error) {
	secCfg := &securitytls.Config{
		Enabled:        s.cfg.Server.TLS.Enabled,
		CertFile:       s.cfg.Server.TLS.CertFile,
		KeyFile:        s.cfg.Server.TLS.KeyFile,
		MinVersion:     s.cfg.Server.TLS.MinVersion,
		CipherSuites:   s.cfg.Server.TLS.CipherSuites,
		ReloadInterval: s.cfg.Server.TLS.ReloadInterval,
		MTLS: securitytls.MTLSConfig{
			Enabled:          s.cfg.Server.TLS.MTLS.Enabled,
			ClientCAFile:     s.cfg.Server.TLS.MTLS.ClientCAFile,
			ClientAuthType:   s.cfg.Server.TLS.MTLS.ClientAuthType,
			VerifyClientCert: s.cfg.Server.TLS.MTLS.Enabled,
			IdentitySource:   s.cfg.Server.TLS.MTLS.IdentitySource,
		},
	}

	tlsConfig, err := secCfg.ToTLSConfig()
	if err != nil {
		return nil, err
	}

	reloader := securitytls.NewCertificateReloader(secCfg.CertFile, secCfg.KeyFile, secCfg.ParseReloadInterval())
	if err := reloader.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start certificate reloader: %w", err)
	}
	s.tlsReloader = reloader

	// Drop the statically loaded certificate in favour of GetCertificate,
	// which always returns whatever the reloader last picked up from disk.
	tlsConfig.Certificates = nil
	tlsConfig.GetCertificate = reloader.GetCertificateFunc()

	return tlsConfig, nil
}

func (s *Server) convertCORSConfig() *middleware.CORSConfig {
	return &middleware.CORSConfig{
		Enabled:          s.cfg.Server.CORS.Enabled,
		AllowedOrigins:   s.cfg.Server.CORS.AllowedOrigins,
		AllowedMethods:   s.cfg.Server.CORS.AllowedMethods,
		AllowedHeaders:   s.cfg.Server.CORS.AllowedHeaders,
		ExposedHeaders:   s.cfg.Server.CORS.ExposedHeaders,
		MaxAge:           s.cfg.Server.CORS.MaxAge,
		AllowCredentials: s.cfg.Server.CORS.AllowCredentials,
	}
}
