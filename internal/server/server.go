// Package server serves queries against a gaddag index over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/milden6/gaddag"
)

// Options configures a Server.
type Options struct {
	// Path is the index file used by Reload and Watch. It may be empty
	// when the index never changes.
	Path string
	// MaxResults caps the number of words in one response.
	MaxResults int
	Logger     *slog.Logger
}

// Server answers queries from the current index. The index can be replaced
// while requests are running; each request sees exactly one index.
type Server struct {
	index      atomic.Pointer[gaddag.Index]
	path       string
	maxResults int
	logger     *slog.Logger
	engine     *gin.Engine
}

// New creates a server for idx. idx may be nil, in which case queries fail
// with 503 until an index is installed with Swap or Reload.
func New(idx *gaddag.Index, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.MaxResults < 1 {
		opts.MaxResults = 1000
	}

	s := &Server{
		path:       opts.Path,
		maxResults: opts.MaxResults,
		logger:     opts.Logger,
	}
	s.Swap(idx)

	gin.SetMode(gin.ReleaseMode)
	s.engine = gin.New()
	s.engine.Use(gin.Recovery())
	s.registerRoutes(s.engine)
	return s
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Index returns the index currently being served, or nil.
func (s *Server) Index() *gaddag.Index {
	return s.index.Load()
}

// Swap replaces the served index and returns the previous one.
func (s *Server) Swap(idx *gaddag.Index) *gaddag.Index {
	old := s.index.Swap(idx)
	indexWords.Set(float64(wordsOf(idx)))
	return old
}

// Reload loads the index file again. On failure the current index is kept.
func (s *Server) Reload() error {
	if s.path == "" {
		return errors.New("server: no index path to reload from")
	}

	idx, err := gaddag.Load(s.path)
	RecordReload(err, wordsOf(idx))
	if err != nil {
		s.logger.Error("index reload failed", "path", s.path, "error", err)
		return err
	}

	old := s.Swap(idx)
	args := []any{"path", s.path, "id", idx.ID(), "words", idx.NumWords()}
	if old != nil {
		args = append(args, "previous_id", old.ID())
	}
	s.logger.Info("index reloaded", args...)
	return nil
}

func wordsOf(idx *gaddag.Index) int {
	if idx == nil {
		return 0
	}
	return idx.NumWords()
}

// Watch reloads the index whenever its file is written or replaced. It
// watches the containing directory so that files renamed into place are
// seen. Blocks until ctx is cancelled.
func (s *Server) Watch(ctx context.Context) error {
	if s.path == "" {
		return errors.New("server: no index path to watch")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	target := filepath.Clean(s.path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(target), err)
	}
	s.logger.Debug("watching index file", "path", target)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				_ = s.Reload()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("index watcher error", "error", err)

		case <-ctx.Done():
			return nil
		}
	}
}

// Run serves HTTP on addr until ctx is cancelled, then shuts down, giving
// running requests up to shutdownTimeout to finish.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("serving queries", "addr", addr, "words", wordsOf(s.Index()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down", "addr", addr)
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
