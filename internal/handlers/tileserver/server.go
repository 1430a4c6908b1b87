package tileserver

import (
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"knp-timelapse/internal/site"
)

// Server serves the overlay tile images under /static/KNP/{date}/{tileName}.png
type Server struct {
	staticDir     string
	handler       http.Handler
	log           *log.Entry
	mu            sync.Mutex
	httpServer    *http.Server
	tileServerURL string
}

// NewServer creates a tile server reading images from staticDir
func NewServer(staticDir string) *Server {
	s := &Server{
		staticDir: staticDir,
		log:       log.WithField("component", "tileserver"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc(site.AssetPrefix, s.handleStaticTile)
	s.handler = accessLog(s.log, corsMiddleware(mux))
	return s
}

// ServeHTTP lets the server be mounted as the Wails asset-server fallback,
// so the relative asset paths used by image sources resolve in the webview
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// GetTileServerURL returns the tile server URL once started
func (s *Server) GetTileServerURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tileServerURL
}

// corsMiddleware adds CORS headers to allow requests from Wails frontend
// On macOS/Linux, Wails uses wails://wails origin which requires CORS headers
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, HEAD, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")

		// Handle preflight OPTIONS request
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Start listens on addr and serves in the background. An empty addr picks a
// random local port.
func (s *Server) Start(addr string) error {
	if addr == "" {
		addr = "127.0.0.1:0"
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to start tile server: %w", err)
	}

	server := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.mu.Lock()
	s.httpServer = server
	s.tileServerURL = "http://" + listener.Addr().String()
	s.mu.Unlock()

	s.log.WithField("url", s.tileServerURL).Info("tile server started")

	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.WithError(err).Error("tile server stopped")
		}
	}()

	return nil
}

// Close stops a started server
func (s *Server) Close() error {
	s.mu.Lock()
	server := s.httpServer
	s.httpServer = nil
	s.mu.Unlock()

	if server == nil {
		return nil
	}
	return server.Close()
}
