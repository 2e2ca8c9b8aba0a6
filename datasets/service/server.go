package service

import "context"
import "math/rand"
import "net"
import "net/http"
import "time"

import "github.com/go-logr/logr"
import "github.com/gorilla/websocket"
import lru "github.com/hashicorp/golang-lru/v2"
import "github.com/pkg/errors"
import "golang.org/x/sync/errgroup"

import "github.com/neurlang/svvit/datasets"

// Server builds datasets on request and streams them to clients.
type Server struct {
	logger   logr.Logger
	cache    *lru.Cache[string, *datasets.Dataset]
	upgrader websocket.Upgrader

	// WriteTimeout bounds every frame write.
	WriteTimeout time.Duration
}

// NewServer creates a server caching up to cacheSize built datasets.
func NewServer(logger logr.Logger, cacheSize int) (*Server, error) {
	cache, err := lru.New[string, *datasets.Dataset](cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "create dataset cache")
	}
	return &Server{
		logger:       logger.WithName("dataset-service"),
		cache:        cache,
		upgrader:     websocket.Upgrader{ReadBufferSize: 1 << 12, WriteBufferSize: 1 << 16},
		WriteTimeout: 30 * time.Second,
	}, nil
}

// Handler returns the http handler serving Path.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(Path, s.serveDatasets)
	return mux
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "serve datasets")
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Build returns the dataset for req, building it on a cache miss.
func (s *Server) Build(ctx context.Context, req Request) (*datasets.Dataset, error) {
	key := req.cacheKey()
	if d, ok := s.cache.Get(key); ok {
		s.logger.V(1).Info("cache hit", "dataset", req.Name)
		return d, nil
	}
	builder, err := datasets.Lookup(req.Name)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	d, err := builder(ctx, req.Configs, rand.New(rand.NewSource(int64(req.Seed))))
	if err != nil {
		return nil, errors.Wrapf(err, "build dataset %s", req.Name)
	}
	s.cache.Add(key, d)
	s.logger.Info("built dataset", "dataset", req.Name, "train", d.Meta.NumTrainExamples, "took", time.Since(start))
	return d, nil
}

func (s *Server) serveDatasets(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error(err, "upgrade")
		return
	}
	defer conn.Close()

	var req Request
	if err := conn.ReadJSON(&req); err != nil {
		s.logger.Error(err, "read request")
		return
	}
	if err := s.stream(r.Context(), conn, req); err != nil {
		s.logger.Error(err, "stream dataset", "dataset", req.Name)
		s.write(conn, Frame{Type: FrameError, Error: err.Error()})
		return
	}
	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
}

func (s *Server) stream(ctx context.Context, conn *websocket.Conn, req Request) error {
	d, err := s.Build(ctx, req)
	if err != nil {
		return err
	}
	meta := d.Meta
	if err := s.write(conn, Frame{Type: FrameMeta, Meta: &meta}); err != nil {
		return err
	}
	for _, split := range datasets.SplitNames {
		examples, _ := d.Split(split)
		for i := range examples {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := s.write(conn, Frame{Type: FrameExample, Split: split, Example: &examples[i]}); err != nil {
				return err
			}
		}
	}
	return s.write(conn, Frame{Type: FrameEnd})
}

func (s *Server) write(conn *websocket.Conn, f Frame) error {
	conn.SetWriteDeadline(time.Now().Add(s.WriteTimeout))
	return errors.Wrapf(conn.WriteJSON(f), "write %s frame", f.Type)
}
