package service

import (
	"context"

	"propapi/internal/exchange"
)

// ExchangeService looks up and applies currency exchange rates.
// *exchange.Client satisfies it.
type ExchangeService interface {
	Rate(ctx context.Context, base, target string) (exchange.Rate, error)
	Convert(ctx context.Context, amountMinor int64, base, target string) (exchange.Conversion, error)
}

var _ ExchangeService = (*exchange.Client)(nil)
