package tileserver

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"

	"knp-timelapse/internal/site"
)

// handleStaticTile serves one overlay image
// URL format: /static/KNP/{date}/{tileName}.png
func (s *Server) handleStaticTile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	date, tileName, ok := site.ParseAssetPath(r.URL.Path)
	if !ok {
		http.Error(w, "Invalid URL format. Expected: /static/KNP/{date}/{tileName}.png", http.StatusBadRequest)
		return
	}

	path := filepath.Join(s.staticDir, date, tileName+".png")
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.log.WithFields(log.Fields{"date": date, "tile": tileName}).Debug("tile not found")
			http.NotFound(w, r)
			return
		}
		s.log.WithError(err).WithField("path", path).Error("failed to open tile")
		http.Error(w, "Failed to read tile", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

// statusWriter captures the status code and bytes written
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// accessLog logs every request at debug level
func accessLog(l *log.Entry, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(sw, r)
		l.WithFields(log.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      sw.status,
			"bytes":       sw.bytes,
			"duration_ms": time.Since(start).Milliseconds(),
			"ip":          r.RemoteAddr,
		}).Debug("http_access")
	})
}
