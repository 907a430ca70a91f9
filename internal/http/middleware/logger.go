package middleware

import (
	"errors"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"propapi/internal/logging"
)

// Logger logs each HTTP request as one JSON line with request_id, method,
// path, status and latency in milliseconds. request_id is taken from the
// locals set by RequestID, so RequestID must run first. The request-scoped
// logger is also attached to the user context for zerolog.Ctx.
func Logger(logger zerolog.Logger) fiber.Handler {
	log := logging.Component(logger, "http")

	return func(c *fiber.Ctx) error {
		start := time.Now()
		rid := RequestIDFrom(c)
		reqLog := log.With().Str("request_id", rid).Logger()
		c.SetUserContext(reqLog.WithContext(c.UserContext()))

		err := c.Next()

		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}

		log.Info().
			Str("request_id", rid).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Float64("latency", float64(time.Since(start).Microseconds())/1000).
			Msg("")

		return err
	}
}

// LoggerWithWriter is Logger over a fresh JSON logger writing to w with
// timestamps in loc.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	return Logger(logging.New(w, loc, "info"))
}
