package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"activity_checker/internal/config"
	"activity_checker/internal/domain/entity"
	wire "activity_checker/internal/entity"
	"activity_checker/pkg/metrics"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const transfersMethod = "alchemy_getAssetTransfers"

// TransferClient defines the interface for querying raw transfer pages from
// the upstream transfer service, one call per direction.
type TransferClient interface {
	FetchOutgoing(ctx context.Context, address string, chain entity.Chain) ([]wire.AssetTransfer, error)
	FetchIncoming(ctx context.Context, address string, chain entity.Chain) ([]wire.AssetTransfer, error)
}

// alchemyClientImpl is the implementation of TransferClient.
type alchemyClientImpl struct {
	client          *fasthttp.Client
	baseURLTemplate string
	apiKey          string
	timeout         time.Duration
	limiter         *rate.Limiter
	logger          *zap.Logger
}

// NewAlchemyClient creates a new instance of alchemyClientImpl. The API key
// is a hard precondition; without it no transfer query can be issued.
func NewAlchemyClient(cfg config.AlchemyConfig, logger *zap.Logger) (TransferClient, error) {
	if cfg.APIKey == "" {
		return nil, entity.ErrMissingCredential
	}
	return &alchemyClientImpl{
		client:          &fasthttp.Client{},
		baseURLTemplate: strings.TrimRight(cfg.BaseURLTemplate, "/"),
		apiKey:          cfg.APIKey,
		timeout:         time.Duration(cfg.RequestTimeoutMillis) * time.Millisecond,
		limiter:         rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.BurstLimit),
		logger:          logger.Named("AlchemyClient"),
	}, nil
}

// FetchOutgoing implements the TransferClient interface.
func (c *alchemyClientImpl) FetchOutgoing(ctx context.Context, address string, chain entity.Chain) ([]wire.AssetTransfer, error) {
	filter := baseTransferFilter()
	filter.FromAddress = address
	return c.fetchTransfers(ctx, chain, filter)
}

// FetchIncoming implements the TransferClient interface.
func (c *alchemyClientImpl) FetchIncoming(ctx context.Context, address string, chain entity.Chain) ([]wire.AssetTransfer, error) {
	filter := baseTransferFilter()
	filter.ToAddress = address
	return c.fetchTransfers(ctx, chain, filter)
}

func baseTransferFilter() wire.TransferFilter {
	return wire.TransferFilter{
		FromBlock:        "0x0",
		ToBlock:          "latest",
		Category:         []string{"external", "erc20"},
		WithMetadata:     true,
		MaxCount:         fmt.Sprintf("0x%x", entity.MaxFeedItems),
		Order:            "desc",
		ExcludeZeroValue: true,
	}
}

func (c *alchemyClientImpl) endpoint(chain entity.Chain) string {
	base := strings.ReplaceAll(c.baseURLTemplate, "{network}", chain.AlchemyNetwork)
	return base + "/" + c.apiKey
}

func (c *alchemyClientImpl) fetchTransfers(ctx context.Context, chain entity.Chain, filter wire.TransferFilter) ([]wire.AssetTransfer, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	payload := wire.TransfersRequest{
		ID:      1,
		JSONRPC: "2.0",
		Method:  transfersMethod,
		Params:  []wire.TransferFilter{filter},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transfers request: %w", err)
	}

	requestURL := c.endpoint(chain)
	c.logger.Debug("Requesting asset transfers",
		zap.String("network", chain.AlchemyNetwork),
		zap.Bool("outgoing", filter.FromAddress != ""))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	start := time.Now()
	deadline, ok := ctx.Deadline()
	if ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.DoTimeout(req, resp, c.timeout)
	}
	metrics.UpstreamRequestDuration.WithLabelValues("alchemy").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues("alchemy", "transport_error").Inc()
		c.logger.Error("Failed to execute transfers request", zap.String("network", chain.AlchemyNetwork), zap.Error(err))
		return nil, &entity.UpstreamError{StatusCode: 0, Message: err.Error()}
	}

	rawBody := resp.Body()

	if resp.StatusCode() != fasthttp.StatusOK {
		metrics.UpstreamRequestsTotal.WithLabelValues("alchemy", "http_error").Inc()
		c.logger.Error("Transfers request failed",
			zap.String("network", chain.AlchemyNetwork),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", rawBody))
		return nil, &entity.UpstreamError{StatusCode: resp.StatusCode(), Message: string(rawBody)}
	}

	var rpcResp wire.TransfersResponse
	if err := json.Unmarshal(rawBody, &rpcResp); err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues("alchemy", "decode_error").Inc()
		c.logger.Error("Failed to unmarshal transfers response",
			zap.String("network", chain.AlchemyNetwork),
			zap.ByteString("responseBody", rawBody),
			zap.Error(err))
		return nil, &entity.UpstreamError{StatusCode: resp.StatusCode(), Message: fmt.Sprintf("malformed response body: %v", err)}
	}
	if rpcResp.Error != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues("alchemy", "rpc_error").Inc()
		c.logger.Error("Transfers response carried an error object",
			zap.String("network", chain.AlchemyNetwork),
			zap.Int("code", rpcResp.Error.Code),
			zap.String("message", rpcResp.Error.Message))
		return nil, &entity.UpstreamError{StatusCode: resp.StatusCode(), Message: rpcResp.Error.Message}
	}

	metrics.UpstreamRequestsTotal.WithLabelValues("alchemy", "ok").Inc()
	if rpcResp.Result == nil {
		return []wire.AssetTransfer{}, nil
	}
	c.logger.Debug("Fetched asset transfers",
		zap.String("network", chain.AlchemyNetwork),
		zap.Int("count", len(rpcResp.Result.Transfers)))
	return rpcResp.Result.Transfers, nil
}
