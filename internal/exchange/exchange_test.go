package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"propapi/internal/cache"
	cacheMocks "propapi/internal/cache/mocks"
	"propapi/internal/config"
	"propapi/internal/money"
)

func newUpstream(t *testing.T, hits *int32, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		assert.Equal(t, "/latest/USD", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

const usdTable = `{"result":"success","base_code":"USD","rates":{"USD":1,"EUR":0.9,"JPY":150.25}}`

func TestClient_Rate_Remote(t *testing.T) {
	var hits int32
	srv := newUpstream(t, &hits, http.StatusOK, usdTable)
	c := NewClient(config.ExchangeRateConfig{BaseURL: srv.URL + "/"}, nil, zerolog.Nop())

	r, err := c.Rate(context.Background(), "usd", "EUR")
	require.NoError(t, err)
	assert.Equal(t, "USD", r.Base)
	assert.Equal(t, "EUR", r.Target)
	assert.InDelta(t, 0.9, r.Value, 1e-9)
	assert.Equal(t, SourceRemote, r.Source)
	assert.Equal(t, int32(1), hits)
}

func TestClient_Rate_CacheHitSkipsUpstream(t *testing.T) {
	var hits int32
	srv := newUpstream(t, &hits, http.StatusOK, usdTable)
	mCache := new(cacheMocks.MockCache)
	cached, _ := json.Marshal(Table{Base: "USD", Rates: map[string]float64{"EUR": 0.8}, FetchedAt: time.Now().UTC()})
	mCache.On("Get", mock.Anything, "fx:USD").Return(cached, nil)

	c := NewClient(config.ExchangeRateConfig{BaseURL: srv.URL, CacheTTL: time.Hour}, mCache, zerolog.Nop())
	r, err := c.Rate(context.Background(), "USD", "EUR")
	require.NoError(t, err)
	assert.Equal(t, SourceCache, r.Source)
	assert.InDelta(t, 0.8, r.Value, 1e-9)
	assert.Equal(t, int32(0), hits)
	mCache.AssertExpectations(t)
}

func TestClient_Rate_CacheMissPopulates(t *testing.T) {
	var hits int32
	srv := newUpstream(t, &hits, http.StatusOK, usdTable)
	mCache := new(cacheMocks.MockCache)
	mCache.On("Get", mock.Anything, "fx:USD").Return(nil, cache.ErrCacheMiss)
	mCache.On("Set", mock.Anything, "fx:USD", mock.Anything, time.Hour).Return(nil)

	c := NewClient(config.ExchangeRateConfig{BaseURL: srv.URL, CacheTTL: time.Hour}, mCache, zerolog.Nop())
	r, err := c.Rate(context.Background(), "USD", "JPY")
	require.NoError(t, err)
	assert.Equal(t, SourceRemote, r.Source)
	assert.InDelta(t, 150.25, r.Value, 1e-9)
	mCache.AssertExpectations(t)
}

func TestClient_Rate_CacheErrorFallsThrough(t *testing.T) {
	var hits int32
	srv := newUpstream(t, &hits, http.StatusOK, usdTable)
	mCache := new(cacheMocks.MockCache)
	mCache.On("Get", mock.Anything, "fx:USD").Return(nil, errors.New("redis down"))
	mCache.On("Set", mock.Anything, "fx:USD", mock.Anything, time.Hour).Return(errors.New("redis down"))

	c := NewClient(config.ExchangeRateConfig{BaseURL: srv.URL, CacheTTL: time.Hour}, mCache, zerolog.Nop())
	_, err := c.Rate(context.Background(), "USD", "EUR")
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits)
}

func TestClient_Rate_Errors(t *testing.T) {
	t.Run("unknown target", func(t *testing.T) {
		var hits int32
		srv := newUpstream(t, &hits, http.StatusOK, usdTable)
		c := NewClient(config.ExchangeRateConfig{BaseURL: srv.URL}, nil, zerolog.Nop())
		_, err := c.Rate(context.Background(), "USD", "GBP")
		assert.ErrorIs(t, err, money.ErrUnsupportedCurrency)
	})

	t.Run("invalid code", func(t *testing.T) {
		c := NewClient(config.ExchangeRateConfig{BaseURL: "http://unused"}, nil, zerolog.Nop())
		_, err := c.Rate(context.Background(), "US", "EUR")
		assert.ErrorIs(t, err, money.ErrUnsupportedCurrency)
	})

	t.Run("upstream 500", func(t *testing.T) {
		var hits int32
		srv := newUpstream(t, &hits, http.StatusInternalServerError, `oops`)
		c := NewClient(config.ExchangeRateConfig{BaseURL: srv.URL}, nil, zerolog.Nop())
		_, err := c.Rate(context.Background(), "USD", "EUR")
		assert.ErrorIs(t, err, ErrUpstream)
	})

	t.Run("upstream error result", func(t *testing.T) {
		var hits int32
		srv := newUpstream(t, &hits, http.StatusOK, `{"result":"error","error-type":"unsupported-code"}`)
		c := NewClient(config.ExchangeRateConfig{BaseURL: srv.URL}, nil, zerolog.Nop())
		_, err := c.Rate(context.Background(), "USD", "EUR")
		assert.ErrorIs(t, err, money.ErrUnsupportedCurrency)
	})

	t.Run("malformed body", func(t *testing.T) {
		var hits int32
		srv := newUpstream(t, &hits, http.StatusOK, `{`)
		c := NewClient(config.ExchangeRateConfig{BaseURL: srv.URL}, nil, zerolog.Nop())
		_, err := c.Rate(context.Background(), "USD", "EUR")
		assert.ErrorIs(t, err, ErrUpstream)
	})
}

func TestClient_SameCurrency(t *testing.T) {
	c := NewClient(config.ExchangeRateConfig{BaseURL: "http://unused"}, nil, zerolog.Nop())
	r, err := c.Rate(context.Background(), "EUR", "eur")
	require.NoError(t, err)
	assert.Equal(t, 1.0, r.Value)
}

func TestClient_Convert(t *testing.T) {
	var hits int32
	srv := newUpstream(t, &hits, http.StatusOK, usdTable)
	c := NewClient(config.ExchangeRateConfig{BaseURL: srv.URL}, nil, zerolog.Nop())

	conv, err := c.Convert(context.Background(), 10000, "USD", "JPY")
	require.NoError(t, err)
	assert.Equal(t, int64(10000), conv.Amount)
	assert.Equal(t, int64(15025), conv.Converted)

	conv, err = c.Convert(context.Background(), 10000, "USD", "EUR")
	require.NoError(t, err)
	assert.Equal(t, int64(9000), conv.Converted)
}

func TestClient_Convert_OutOfRange(t *testing.T) {
	var hits int32
	srv := newUpstream(t, &hits, http.StatusOK, usdTable)
	c := NewClient(config.ExchangeRateConfig{BaseURL: srv.URL}, nil, zerolog.Nop())

	_, err := c.Convert(context.Background(), money.MaxAmount+1, "USD", "EUR")
	assert.ErrorIs(t, err, money.ErrAmountOutOfRange)

	// In range on the way in, but the JPY result exceeds the bound.
	_, err = c.Convert(context.Background(), money.MaxAmount, "USD", "JPY")
	assert.ErrorIs(t, err, money.ErrAmountOutOfRange)
}
