package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"sync"
)

var ErrAssetType = errors.New("assets: handle already loaded with another type")

type LoadState int

const (
	NotLoaded LoadState = iota
	Loading
	Loaded
	Failed
)

func (s LoadState) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	}
	return "not_loaded"
}

// Handle is a typed reference to an asset that may still be loading.
type Handle[T any] struct {
	path string

	mu    sync.RWMutex
	state LoadState
	value T
	err   error
}

func (h *Handle[T]) Path() string {
	return h.path
}

func (h *Handle[T]) State() LoadState {
	if h == nil {
		return NotLoaded
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state
}

// Get returns the asset once it is Loaded.
func (h *Handle[T]) Get() (T, bool) {
	var zero T
	if h == nil {
		return zero, false
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.state != Loaded {
		return zero, false
	}
	return h.value, true
}

func (h *Handle[T]) Err() error {
	if h == nil {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.err
}

func (h *Handle[T]) finish(v T, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err != nil {
		h.state, h.err = Failed, err
		return
	}
	h.state, h.value = Loaded, v
}

type Decoder[T any] func(fsys fs.FS, name string) (T, error)

// Server loads assets from a file system in background goroutines. Each
// path is loaded once; later requests share the first handle.
type Server struct {
	fsys fs.FS
	log  *slog.Logger

	mu      sync.Mutex
	handles map[string]any
	wg      sync.WaitGroup
}

func NewServer(fsys fs.FS, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{fsys: fsys, log: log, handles: make(map[string]any)}
}

func (s *Server) FS() fs.FS {
	return s.fsys
}

// Load starts decoding name unless a handle for it already exists.
func Load[T any](s *Server, name string, decode Decoder[T]) *Handle[T] {
	clean := cleanAssetPath(name)

	s.mu.Lock()
	if existing, ok := s.handles[clean]; ok {
		s.mu.Unlock()
		if h, ok := existing.(*Handle[T]); ok {
			return h
		}
		h := &Handle[T]{path: clean}
		h.finish(*new(T), fmt.Errorf("%w: %s", ErrAssetType, clean))
		return h
	}
	h := &Handle[T]{path: clean, state: Loading}
	s.handles[clean] = h
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		v, err := decode(s.fsys, clean)
		if err != nil {
			err = fmt.Errorf("assets: load %s: %w", clean, err)
			s.log.Error("asset failed", "path", clean, "err", err)
		} else {
			s.log.Debug("asset loaded", "path", clean)
		}
		h.finish(v, err)
	}()
	return h
}

// Wait blocks until every started load has finished.
func (s *Server) Wait() {
	s.wg.Wait()
}

func cleanAssetPath(p string) string {
	if p == "" {
		return ""
	}
	s := filepath.ToSlash(p)
	if after, ok := strings.CutPrefix(s, "assets/"); ok {
		s = after
	}
	return path.Clean(strings.TrimPrefix(s, "/"))
}
