package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"propapi/internal/cache"
	"propapi/internal/config"
	"propapi/internal/money"
)

var (
	// ErrUpstream wraps failures talking to the rate provider.
	ErrUpstream = errors.New("exchange rate upstream error")
)

// Source says where a rate came from.
type Source string

const (
	SourceCache  Source = "cache"
	SourceRemote Source = "remote"
)

// Rate is the value of one unit of Base expressed in Target.
type Rate struct {
	Base      string    `json:"base"`
	Target    string    `json:"target"`
	Value     float64   `json:"rate"`
	FetchedAt time.Time `json:"fetched_at"`
	Source    Source    `json:"source"`
}

// Conversion is the result of converting an amount in minor units.
type Conversion struct {
	Rate
	Amount    int64 `json:"amount"`
	Converted int64 `json:"converted"`
}

// Table is all rates for a base currency at one point in time.
type Table struct {
	Base      string             `json:"base"`
	Rates     map[string]float64 `json:"rates"`
	FetchedAt time.Time          `json:"fetched_at"`
}

type apiResponse struct {
	Result    string             `json:"result"`
	BaseCode  string             `json:"base_code"`
	Rates     map[string]float64 `json:"rates"`
	ErrorType string             `json:"error-type"`
}

// Client fetches rate tables from an open.er-api.com compatible endpoint.
type Client struct {
	baseURL string
	http    *http.Client
	cache   cache.Cache
	ttl     time.Duration
	logger  zerolog.Logger
	now     func() time.Time
}

// NewClient builds a Client. cache may be nil, in which case every lookup goes upstream.
func NewClient(cfg config.ExchangeRateConfig, c cache.Cache, logger zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		cache:  c,
		ttl:    cfg.CacheTTL,
		logger: logger.With().Str("component", "exchange").Logger(),
		now:    time.Now,
	}
}

// Rate returns the Base→Target rate, serving from cache when possible.
func (c *Client) Rate(ctx context.Context, base, target string) (Rate, error) {
	bu, err := money.ParseCurrency(base)
	if err != nil {
		return Rate{}, err
	}
	tu, err := money.ParseCurrency(target)
	if err != nil {
		return Rate{}, err
	}
	base, target = bu.String(), tu.String()

	if base == target {
		return Rate{Base: base, Target: target, Value: 1, FetchedAt: c.now().UTC(), Source: SourceCache}, nil
	}

	table, src, err := c.table(ctx, base)
	if err != nil {
		return Rate{}, err
	}
	v, ok := table.Rates[target]
	if !ok {
		return Rate{}, fmt.Errorf("%w: %s not quoted against %s", money.ErrUnsupportedCurrency, target, base)
	}
	return Rate{Base: base, Target: target, Value: v, FetchedAt: table.FetchedAt, Source: src}, nil
}

// Convert converts amountMinor of base into target minor units, honouring each currency's scale.
func (c *Client) Convert(ctx context.Context, amountMinor int64, base, target string) (Conversion, error) {
	r, err := c.Rate(ctx, base, target)
	if err != nil {
		return Conversion{}, err
	}
	major, err := money.FromMinor(amountMinor, r.Base)
	if err != nil {
		return Conversion{}, err
	}
	converted, err := money.ToMinor(major*r.Value, r.Target)
	if err != nil {
		return Conversion{}, err
	}
	return Conversion{Rate: r, Amount: amountMinor, Converted: converted}, nil
}

func (c *Client) table(ctx context.Context, base string) (*Table, Source, error) {
	key := "fx:" + base
	if c.cache != nil {
		b, err := c.cache.Get(ctx, key)
		switch {
		case err == nil:
			var t Table
			if jerr := json.Unmarshal(b, &t); jerr == nil {
				return &t, SourceCache, nil
			}
			c.logger.Warn().Str("event", "fx_cache_corrupt").Str("base", base).Msg("")
		case !errors.Is(err, cache.ErrCacheMiss):
			c.logger.Warn().Str("event", "fx_cache_error").Str("base", base).Err(err).Msg("")
		}
	}

	t, err := c.fetch(ctx, base)
	if err != nil {
		return nil, "", err
	}

	if c.cache != nil && c.ttl > 0 {
		if b, err := json.Marshal(t); err == nil {
			if err := c.cache.Set(ctx, key, b, c.ttl); err != nil {
				c.logger.Warn().Str("event", "fx_cache_error").Str("base", base).Err(err).Msg("")
			}
		}
	}
	return t, SourceRemote, nil
}

func (c *Client) fetch(ctx context.Context, base string) (*Table, error) {
	start := time.Now()
	url := fmt.Sprintf("%s/latest/%s", c.baseURL, base)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var body apiResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrUpstream, err)
	}
	if body.Result != "success" {
		if body.ErrorType == "unsupported-code" {
			return nil, fmt.Errorf("%w: %s", money.ErrUnsupportedCurrency, base)
		}
		return nil, fmt.Errorf("%w: result %q %s", ErrUpstream, body.Result, body.ErrorType)
	}

	rates := make(map[string]float64, len(body.Rates))
	for code, v := range body.Rates {
		if v > 0 && !math.IsInf(v, 0) {
			rates[strings.ToUpper(code)] = v
		}
	}

	c.logger.Debug().Str("event", "fx_fetch").Str("base", base).
		Int("rates", len(rates)).
		Int64("duration_ms", time.Since(start).Milliseconds()).Msg("")

	return &Table{Base: base, Rates: rates, FetchedAt: c.now().UTC()}, nil
}
