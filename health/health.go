package health

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// StatusMessage is the body served on GET /
const StatusMessage = "🌌 MXaura bot is online!"

// NewHandler serves the status message on GET / and nothing else
func NewHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, StatusMessage)
	})
	return mux
}

// Server is the HTTP health endpoint
type Server struct {
	server *http.Server
}

func NewServer(addr string) *Server {
	return &Server{
		server: &http.Server{
			Addr:              addr,
			Handler:           NewHandler(),
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Infof("Health server starting on %s", s.server.Addr)
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("health server error: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down health server: %w", err)
	}
	<-errCh
	log.Info("Health server stopped")
	return nil
}
