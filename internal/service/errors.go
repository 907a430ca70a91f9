package service

import (
	"database/sql"
	"errors"
	"fmt"

	"propapi/internal/exchange"
	"propapi/internal/model"
	"propapi/internal/money"
	"propapi/internal/repository"
)

var (
	ErrIDRequired        = errors.New("id is required")
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrConflict          = errors.New("conflict")
	ErrReaderNil         = errors.New("reader is nil")

	// ErrInvalidInput matches every validation failure, including *model.ValidationError.
	ErrInvalidInput = model.ErrValidation
	// ErrUnsupportedCurrency matches unknown or unquoted ISO 4217 codes.
	ErrUnsupportedCurrency = money.ErrUnsupportedCurrency
	// ErrAmountOutOfRange matches amounts beyond money.MaxAmount.
	ErrAmountOutOfRange = money.ErrAmountOutOfRange
	// ErrUpstream matches failures of external providers.
	ErrUpstream = exchange.ErrUpstream

	ErrDocumentMissing = fmt.Errorf("%w: no document uploaded", ErrNotFound)
)

// translate maps repository sentinels onto service errors.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return ErrNotFound
	case errors.Is(err, repository.ErrStaleState):
		return fmt.Errorf("%w: state changed concurrently", ErrConflict)
	case errors.Is(err, repository.ErrDuplicate):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	default:
		return err
	}
}

// ListResult is the service-level DTO for paginated listings.
type ListResult[T any] struct {
	Items []T `json:"data"`
	Total int `json:"total"`
}

const (
	defaultLimit = 10
	maxLimit     = 100
)

func pageQuery(limit, offset int) repository.PageQuery {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return repository.PageQuery{Limit: limit, Offset: offset}
}

func listResult[T any](res *repository.PageResult[T]) *ListResult[T] {
	return &ListResult[T]{Items: res.Items, Total: res.Total}
}
