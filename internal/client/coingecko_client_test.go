package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"activity_checker/internal/config"
	"activity_checker/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testCoinGeckoClient(baseURL string) PriceClient {
	return NewCoinGeckoClient(config.CoinGeckoConfig{
		BaseURL:              baseURL,
		RequestTimeoutMillis: 2000,
	}, zap.NewNop())
}

func TestReferencePrice(t *testing.T) {
	t.Parallel()

	chain := entity.Chain{ID: 1, NativeSymbol: "ETH", CoinGeckoID: "ethereum"}

	t.Run("returns the quoted price", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v3/simple/price", r.URL.Path)
			assert.Equal(t, "ethereum", r.URL.Query().Get("ids"))
			assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
			_, _ = w.Write([]byte(`{"ethereum":{"usd":1852.34}}`))
		}))
		defer srv.Close()

		price, ok := testCoinGeckoClient(srv.URL).ReferencePrice(context.Background(), chain)
		require.True(t, ok)
		assert.Equal(t, 1852.34, price)
	})

	t.Run("chain without oracle key skips the request", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			t.Error("no request expected for a chain without an oracle key")
		}))
		defer srv.Close()

		_, ok := testCoinGeckoClient(srv.URL).ReferencePrice(context.Background(), entity.Chain{ID: 31337})
		assert.False(t, ok)
	})

	t.Run("non-success status degrades to unknown", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		_, ok := testCoinGeckoClient(srv.URL).ReferencePrice(context.Background(), chain)
		assert.False(t, ok)
	})

	t.Run("malformed body degrades to unknown", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`garbage`))
		}))
		defer srv.Close()

		_, ok := testCoinGeckoClient(srv.URL).ReferencePrice(context.Background(), chain)
		assert.False(t, ok)
	})

	t.Run("oracle key absent from body degrades to unknown", func(t *testing.T) {
		t.Parallel()
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"bitcoin":{"usd":64000}}`))
		}))
		defer srv.Close()

		_, ok := testCoinGeckoClient(srv.URL).ReferencePrice(context.Background(), chain)
		assert.False(t, ok)
	})

	t.Run("unreachable host degrades to unknown", func(t *testing.T) {
		t.Parallel()
		_, ok := testCoinGeckoClient("http://127.0.0.1:1").ReferencePrice(context.Background(), chain)
		assert.False(t, ok)
	})
}
