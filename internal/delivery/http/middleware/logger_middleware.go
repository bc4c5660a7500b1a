package middleware

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"folio/config"
	deliverycontext "folio/internal/delivery/context"
)

// LoggerMiddleware attaches a request-scoped logger carrying a request
// id, and logs request summaries when debug logging is on.
type LoggerMiddleware struct {
	logger *slog.Logger
	debug  bool
}

// NewLoggerMiddleware creates a new logger middleware.
func NewLoggerMiddleware(logger *slog.Logger, cfg *config.Config) *LoggerMiddleware {
	return &LoggerMiddleware{
		logger: logger,
		debug:  cfg.Env.Debug,
	}
}

// Handle processes request logging.
func (m *LoggerMiddleware) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestLogger := m.logger.With(slog.String("requestID", uuid.NewString()))
		ctx := deliverycontext.WithLogger(c.Request().Context(), requestLogger)
		c.SetRequest(c.Request().WithContext(ctx))

		var err error
		if m.debug {
			start := time.Now()
			defer func() {
				m.logRequest(c, requestLogger, start, err)
			}()
		}

		err = next(c)

		return err
	}
}

// logRequest logs request details.
func (m *LoggerMiddleware) logRequest(c echo.Context, logger *slog.Logger, start time.Time, err error) {
	req := c.Request()
	res := c.Response()
	latency := time.Since(start)

	fields := []any{
		slog.String("method", req.Method),
		slog.String("uri", req.URL.Path),
		slog.Int("status", res.Status),
		slog.Duration("latency", latency),
		slog.String("remote_ip", c.RealIP()),
	}
	if len(req.URL.RawQuery) > 0 {
		fields = append(fields, slog.String("query", req.URL.RawQuery))
	}
	if err != nil {
		fields = append(fields, slog.String("error", err.Error()))
	}

	switch {
	case res.Status >= 500:
		logger.Error("HTTP request", fields...)
	case res.Status >= 400:
		logger.Warn("HTTP request", fields...)
	default:
		logger.Info("HTTP request", fields...)
	}
}
