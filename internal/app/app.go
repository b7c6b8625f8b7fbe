package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/felixbrock/ponygp/internal/domain"
	"github.com/klauspost/compress/gzhttp"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

type ComponentBuilder struct {
	Index  func() templ.Component
	PonyGP func(filePath string, summary *domain.DatasetSummary) templ.Component
	Error  func(code int, title string, msg string) templ.Component
}

type App struct {
	FileStore        FileStore
	SessionRepo      SessionRepo
	InspectDataset   func(path string, reader io.ReadCloser) (*domain.DatasetSummary, error)
	ComponentBuilder ComponentBuilder
	Config           Config
}

func (a App) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /static/",
		http.StripPrefix("/static/", http.FileServer(http.Dir(a.Config.StaticDir))))

	var upload http.Handler = AppHandler(a.upload)
	if a.Config.RateLimit.PerSecond > 0 {
		upload = newRateLimiter(a.Config.RateLimit).middleware(upload)
	}

	mux.Handle("GET /{$}", ComponentHandler(a.index))
	mux.Handle("POST /upload", upload)
	mux.Handle("GET /"+strings.TrimPrefix(a.Config.FollowUpPage, "/"), ComponentHandler(a.ponyGP))
	mux.Handle("POST /api/fitness", AppHandler(a.fitness))
	mux.Handle("POST /api/fitness/chart", AppHandler(a.fitnessChart))
	mux.HandleFunc("GET /health", health)
	mux.Handle("/", ComponentHandler(a.notFound))

	return gzhttp.GzipHandler(logRequests(mux))
}

// Start serves the app until ctx is done, then shuts the server down
// gracefully.
func (a App) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", ":"+a.Config.Port)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.Config.Port, err)
	}

	return a.serve(ctx, listener)
}

func (a App) serve(ctx context.Context, listener net.Listener) error {
	server := &http.Server{
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info(fmt.Sprintf("App running on %s...", listener.Addr()))

		err := server.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		slog.Info("App shutting down...")
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
