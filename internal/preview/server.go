// Package preview serves a built site locally and rebuilds it on source
// changes. Every change triggers a full deterministic build; there is no
// incremental rendering.
package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/site"
)

// buildStatus tracks the current build state for the health endpoint.
type buildStatus struct {
	mu           sync.RWMutex
	lastError    error
	hasGoodBuild bool
}

func (bs *buildStatus) setError(err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = err
}

func (bs *buildStatus) setSuccess() {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = nil
	bs.hasGoodBuild = true
}

func (bs *buildStatus) get() (lastError error, hasGoodBuild bool) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.lastError, bs.hasGoodBuild
}

// Options configures a preview server.
type Options struct {
	Port          int
	EnableMetrics bool
}

// Server watches a source directory and serves the built output.
type Server struct {
	cfg     *config.Config
	source  string
	dest    string
	opts    Options
	builder *site.Builder
	status  buildStatus

	metricsRegistry *prom.Registry
}

// NewServer creates a preview server over one source/destination pair.
func NewServer(cfg *config.Config, sourceDir, destDir string, opts Options) *Server {
	s := &Server{
		cfg:    cfg,
		source: sourceDir,
		dest:   destDir,
		opts:   opts,
	}
	s.builder = site.NewBuilder(cfg, sourceDir, destDir)
	if opts.EnableMetrics {
		reg := prom.NewRegistry()
		s.builder.SetRecorder(metrics.NewPrometheusRecorder(reg))
		s.metricsRegistry = reg
	}
	return s
}

// Run performs an initial build, then serves the destination over HTTP while
// watching the source for changes. It blocks until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	absSource, err := filepath.Abs(s.source)
	if err != nil {
		return fmt.Errorf("resolve source dir: %w", err)
	}
	if st, statErr := os.Stat(absSource); statErr != nil || !st.IsDir() {
		return fmt.Errorf("source dir not found or not a directory: %s", absSource)
	}

	// Initial build. A failure is logged, not fatal: the watcher keeps
	// running so the next edit can produce a good build.
	if _, err := s.builder.Build(ctx); err != nil {
		slog.Error("initial build failed", "error", err)
		s.status.setError(err)
	} else {
		s.status.setSuccess()
	}

	httpServer := s.startHTTPServer()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = watcher.Close() }()
	if err := addDirsRecursive(watcher, absSource); err != nil {
		return err
	}

	rebuildReq, trigger := setupRebuildDebouncer()
	s.startRebuildWorker(ctx, rebuildReq)

	slog.Info("Preview server listening",
		"port", s.opts.Port,
		"url", fmt.Sprintf("http://localhost:%d", s.opts.Port),
		"source", absSource)

	return s.runLoop(ctx, watcher, trigger, httpServer)
}

func (s *Server) startHTTPServer() *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(s.dest)))
	mux.HandleFunc("/healthz", s.healthHandler)
	if s.opts.EnableMetrics && s.metricsRegistry != nil {
		mux.Handle("/metrics", metrics.HTTPHandler(s.metricsRegistry))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.opts.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("preview server error", "error", err)
		}
	}()
	return srv
}

// healthHandler reports 503 until at least one build has succeeded; after
// that the last good output keeps serving even if a rebuild fails.
func (s *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	lastErr, good := s.status.get()
	if lastErr != nil && !good {
		http.Error(w, fmt.Sprintf("build failing: %v", lastErr), http.StatusServiceUnavailable)
		return
	}
	_, _ = w.Write([]byte("ok"))
}

// setupRebuildDebouncer creates the rebuild channel and a trigger function
// that coalesces bursts of filesystem events into one rebuild. The channel is
// never closed: a timer that fires after shutdown parks its send in the
// buffer, where it is simply never consumed.
func setupRebuildDebouncer() (chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	rebuildReq := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(300*time.Millisecond, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}

	return rebuildReq, trigger
}

// startRebuildWorker consumes rebuild requests sequentially; a request that
// arrives mid-build queues exactly one follow-up build.
func (s *Server) startRebuildWorker(ctx context.Context, rebuildReq chan struct{}) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-rebuildReq:
				slog.Info("Change detected; rebuilding site")
				if _, err := s.builder.Build(ctx); err != nil {
					slog.Warn("rebuild failed", "error", err)
					s.status.setError(err)
				} else {
					s.status.setSuccess()
				}
			}
		}
	}()
}

func (s *Server) runLoop(ctx context.Context, watcher *fsnotify.Watcher, trigger func(), httpServer *http.Server) error {
	for {
		select {
		case <-ctx.Done():
			slog.Info("Shutting down preview server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				slog.Warn("HTTP server shutdown error", "error", err)
			}
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			handleFileEvent(watcher, ev, trigger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", "error", err)
		}
	}
}

// handleFileEvent processes a filesystem event and triggers a rebuild.
func handleFileEvent(watcher *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if shouldIgnoreEvent(ev.Name) {
		return
	}
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(watcher, ev.Name)
		}
	}
	slog.Debug("File change detected", "path", ev.Name, "op", ev.Op.String())
	trigger()
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := w.Add(path); err != nil {
				slog.Warn("watch add failed", "dir", path, "error", err)
			}
		}
		return nil
	})
}

// shouldIgnoreEvent returns true for filesystem events that should not
// trigger rebuilds (hidden files, editor swap and temp files).
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return true
	}
	for _, suffix := range []string{".swp", ".swx", "~", ".tmp"} {
		if strings.HasSuffix(base, suffix) {
			return true
		}
	}
	return false
}
