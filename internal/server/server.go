package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mohammad-safakhou/learnmap/internal/learnmap"
	"github.com/mohammad-safakhou/learnmap/internal/platform/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options holds the server's collaborators.
type Options struct {
	Generator *learnmap.Generator
	Logger    *logger.Logger
	// Metrics serves /metrics. Defaults to the prometheus default registry.
	Metrics http.Handler
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// New builds the echo instance with middleware and routes.
func New(opts Options) *echo.Echo {
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = promhttp.Handler()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.BodyLimit("1M"))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogMethod:    true,
		LogURIPath:   true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Debug("request", "method", v.Method, "path", v.URIPath, "status", v.Status, "latency", v.Latency, "request_id", v.RequestID)
			return nil
		},
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAccept, echo.HeaderXRequestID},
	}))
	e.HTTPErrorHandler = errorHandler(log)

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "message": "Learning Map API"})
	})
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/metrics", echo.WrapHandler(metrics))

	h := &MapsHandler{Generator: opts.Generator}
	h.Register(e.Group(""))
	h.Register(e.Group("/api"))
	return e
}

// errorHandler maps domain errors onto status codes and the errorBody
// shape, and logs every failure.
func errorHandler(log *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		code, body := classifyError(err)
		req := c.Request()
		log.Warn("request failed",
			"status", code,
			"method", req.Method,
			"path", req.URL.Path,
			"remote", c.RealIP(),
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			"error", err,
		)
		if c.Response().Committed {
			return
		}
		if req.Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func classifyError(err error) (int, errorBody) {
	var upstream *learnmap.UpstreamError
	var he *echo.HTTPError
	switch {
	case errors.Is(err, learnmap.ErrMissingTopic):
		return http.StatusBadRequest, errorBody{Error: "Missing 'topic' in request body."}
	case errors.Is(err, learnmap.ErrInvalidJSON):
		return http.StatusInternalServerError, errorBody{Error: "Model returned invalid JSON. Please try again."}
	case errors.Is(err, learnmap.ErrMissingNodes):
		return http.StatusInternalServerError, errorBody{Error: "Invalid structure: missing nodes[] in response."}
	case errors.As(err, &upstream):
		return http.StatusInternalServerError, errorBody{Error: "Failed to generate learning map.", Details: upstream.Err.Error()}
	case errors.As(err, &he):
		msg := http.StatusText(he.Code)
		if he.Message != nil {
			msg = fmt.Sprint(he.Message)
		}
		return he.Code, errorBody{Error: msg}
	default:
		return http.StatusInternalServerError, errorBody{Error: err.Error()}
	}
}

// Run serves e on addr until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, e *echo.Echo, addr string, log *logger.Logger) error {
	if log == nil {
		log = logger.NewNop()
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info("shutting down http server")
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
