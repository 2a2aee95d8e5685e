// Package api exposes the shipment operations over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"net/http"
	"time"
)

// NewRouter builds the gin engine with middleware and all routes.
func NewRouter(logger *zap.Logger, operations ShipmentOperations) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(AccessLog(logger.Named("http")))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	NewShipmentHandler(logger, operations).Register(router)

	return router
}

type Server struct {
	logger     *zap.Logger
	httpServer *http.Server
}

func NewServer(logger *zap.Logger, address string, handler http.Handler) *Server {
	return &Server{
		logger: logger,
		httpServer: &http.Server{
			Addr:         address,
			Handler:      handler,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Start listens in the background. Listener failures are sent on the returned channel.
func (s *Server) Start() <-chan error {
	errChan := make(chan error, 1)

	go func() {
		s.logger.Info("Server listening", zap.String("address", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
		close(errChan)
	}()

	return errChan
}

// Shutdown stops accepting requests and waits for in-flight ones until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	s.logger.Info("Server stopped gracefully")
	return nil
}
