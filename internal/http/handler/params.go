package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"propapi/internal/auth"
	"propapi/internal/http/middleware"
)

var (
	errInvalidLimit  = errors.New("invalid limit")
	errInvalidOffset = errors.New("invalid offset")
)

// principal returns the caller authenticated by middleware.Auth. Without Auth
// the zero Principal is returned, which every service rejects as forbidden.
func principal(c *fiber.Ctx) auth.Principal {
	p, _ := middleware.PrincipalFrom(c)
	return p
}

// pathID reads a UUID route parameter.
func pathID(c *fiber.Ctx, name string) (string, bool) {
	id := c.Params(name)
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

// optionalUUID validates an optional UUID query parameter.
func optionalUUID(c *fiber.Ctx, name string) (string, bool) {
	v := c.Query(name)
	if v == "" {
		return "", true
	}
	if _, err := uuid.Parse(v); err != nil {
		return "", false
	}
	return v, true
}

func pagination(c *fiber.Ctx) (limit, offset int, err error) {
	limit, err = strconv.Atoi(c.Query("limit", "10"))
	if err != nil {
		return 0, 0, errInvalidLimit
	}
	offset, err = strconv.Atoi(c.Query("offset", "0"))
	if err != nil {
		return 0, 0, errInvalidOffset
	}
	return limit, offset, nil
}

func writePaginationError(c *fiber.Ctx, err error) error {
	if errors.Is(err, errInvalidOffset) {
		return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
	}
	return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
}

func writeInvalidID(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
}

func writeInvalidBody(c *fiber.Ctx) error {
	return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
}

// date accepts either a calendar date (2006-01-02) or an RFC 3339 timestamp.
type date struct {
	time.Time
}

func (d *date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}
