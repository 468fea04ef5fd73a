package cli

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tether/pkg/buildinfo"
	"github.com/matzehuels/tether/pkg/cache"
	"github.com/matzehuels/tether/pkg/errors"
	"github.com/matzehuels/tether/pkg/observability"
	"github.com/matzehuels/tether/pkg/scenario"
)

const (
	maxScenarioBytes = 1 << 20
	shutdownTimeout  = 5 * time.Second
	requestIDHeader  = "X-Request-ID"
)

type serveOpts struct {
	addr     string
	redisURL string
	prefix   string
	noCache  bool
}

func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve placements over HTTP",
		Long: `Serve placements over HTTP. POST a JSON scenario to /v1/place to get its
report back. With --redis, reports are shared between replicas.`,
		Example: `  tether serve --addr :8080
  tether serve --redis redis://localhost:6379/0 --prefix staging:`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.addr, "addr", ":8080", "listen address")
	f.StringVar(&opts.redisURL, "redis", "", "Redis URL for the shared report cache")
	f.StringVar(&opts.prefix, "prefix", "tether:", "Redis key prefix")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the report cache")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, opts serveOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	runner, err := c.serverRunner(cmd, opts)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           newRouter(runner, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", opts.addr, "version", buildinfo.Short())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// serverRunner picks the report cache: Redis when configured, else the
// local file cache.
func (c *CLI) serverRunner(cmd *cobra.Command, opts serveOpts) (*scenario.Runner, error) {
	if opts.redisURL == "" || opts.noCache {
		return c.newRunner(opts.noCache)
	}
	if err := errors.ValidateURL(opts.redisURL, "redis", "rediss"); err != nil {
		return nil, err
	}

	spinner := newSpinner(cmd.Context(), cmd.ErrOrStderr(), "Connecting to Redis...")
	spinner.Start()
	rc, err := cache.NewRedisCache(cmd.Context(), opts.redisURL)
	if err != nil {
		spinner.StopWithError("Redis unavailable")
		return nil, err
	}
	spinner.StopWithSuccess("Connected to Redis")

	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), opts.prefix)
	return scenario.NewRunner(rc, keyer, c.Logger), nil
}

// =============================================================================
// Router
// =============================================================================

func newRouter(runner *scenario.Runner, logger *log.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(logRequests(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"version": buildinfo.Short(),
		})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/place", placeHandler(runner))
	})

	return r
}

func placeHandler(runner *scenario.Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxScenarioBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if stderrors.As(err, &tooLarge) {
				writeError(w, http.StatusRequestEntityTooLarge, errors.New(errors.ErrCodeInvalidInput, "scenario exceeds %d bytes", tooLarge.Limit))
				return
			}
			writeError(w, http.StatusBadRequest, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
			return
		}

		sc, err := scenario.ParseJSON(body)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		res, err := runner.Run(r.Context(), sc, scenario.RunOptions{
			Refresh: r.URL.Query().Get("refresh") == "true",
		})
		if err != nil {
			status := http.StatusInternalServerError
			if errors.IsConfiguration(err) {
				status = http.StatusBadRequest
			}
			writeError(w, status, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// =============================================================================
// Middleware
// =============================================================================

type reqIDKey struct{}

// requestID tags each request with an ID, reusing the caller's
// X-Request-ID when present.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), reqIDKey{}, id)))
	})
}

// logRequests logs every request and reports it to the HTTP hooks.
func logRequests(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			hooks := observability.HTTP()
			hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			dur := time.Since(start)
			hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, dur)

			id, _ := r.Context().Value(reqIDKey{}).(string)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", dur,
				"request_id", id,
				"remote", r.RemoteAddr)
		})
	}
}

// =============================================================================
// Responses
// =============================================================================

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, errorBody{Error: err.Error(), Code: string(code)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
