package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"activity_checker/internal/config"
	"activity_checker/internal/domain/entity"
	wire "activity_checker/internal/entity"
	"activity_checker/pkg/metrics"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// PriceClient defines the interface for fetching a best-effort USD spot price
// for a chain's reference asset. Failures are absorbed, never propagated:
// callers get ok=false and carry on without valuation.
type PriceClient interface {
	ReferencePrice(ctx context.Context, chain entity.Chain) (float64, bool)
}

// coinGeckoClientImpl is the implementation of PriceClient.
type coinGeckoClientImpl struct {
	client  *fasthttp.Client
	baseURL string
	timeout time.Duration
	logger  *zap.Logger
}

// NewCoinGeckoClient creates a new instance of coinGeckoClientImpl.
func NewCoinGeckoClient(cfg config.CoinGeckoConfig, logger *zap.Logger) PriceClient {
	return &coinGeckoClientImpl{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: time.Duration(cfg.RequestTimeoutMillis) * time.Millisecond,
		logger:  logger.Named("CoinGeckoClient"),
	}
}

// ReferencePrice implements the PriceClient interface.
func (c *coinGeckoClientImpl) ReferencePrice(ctx context.Context, chain entity.Chain) (float64, bool) {
	id := chain.CoinGeckoID
	if id == "" {
		c.logger.Debug("Chain has no price oracle key, skipping price fetch", zap.Int64("chainID", chain.ID))
		return 0, false
	}

	requestURL := fmt.Sprintf("%s/api/v3/simple/price?ids=%s&vs_currencies=usd", c.baseURL, url.QueryEscape(id))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	start := time.Now()
	var err error
	deadline, ok := ctx.Deadline()
	if ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.DoTimeout(req, resp, c.timeout)
	}
	metrics.UpstreamRequestDuration.WithLabelValues("coingecko").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues("coingecko", "transport_error").Inc()
		c.logger.Warn("Price request failed, continuing without USD valuation",
			zap.String("coingeckoID", id), zap.Error(err))
		return 0, false
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		metrics.UpstreamRequestsTotal.WithLabelValues("coingecko", "http_error").Inc()
		c.logger.Warn("Price request returned non-success status, continuing without USD valuation",
			zap.String("coingeckoID", id), zap.Int("statusCode", resp.StatusCode()))
		return 0, false
	}

	var prices wire.SimplePriceResponse
	if err := json.Unmarshal(resp.Body(), &prices); err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues("coingecko", "decode_error").Inc()
		c.logger.Warn("Failed to unmarshal price response, continuing without USD valuation",
			zap.String("coingeckoID", id), zap.Error(err))
		return 0, false
	}

	quote, found := prices[id]
	if !found {
		metrics.UpstreamRequestsTotal.WithLabelValues("coingecko", "missing_key").Inc()
		c.logger.Warn("Price oracle key absent from response, continuing without USD valuation",
			zap.String("coingeckoID", id))
		return 0, false
	}

	metrics.UpstreamRequestsTotal.WithLabelValues("coingecko", "ok").Inc()
	return quote.USD, true
}
