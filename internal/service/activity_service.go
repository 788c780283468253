package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"activity_checker/internal/client"
	"activity_checker/internal/config"
	"activity_checker/internal/domain/entity"
	wire "activity_checker/internal/entity"
	"activity_checker/internal/pkg/utils"
	"activity_checker/internal/port"
	"activity_checker/pkg/metrics"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const nativeAssetDecimals = 18

// activityServiceImpl implements the ActivityService interface. It owns the
// TTL cache of shaped feeds; the final output is cached (not raw upstream
// pages), so repeated reads within the TTL cost zero upstream calls and are
// insensitive to price drift during the window.
type activityServiceImpl struct {
	logger    *zap.Logger
	transfers client.TransferClient
	prices    client.PriceClient
	feedCache *cache.Cache // key "address_chainID" -> []entity.ActivityRecord
}

// NewActivityService creates a new instance of ActivityService.
func NewActivityService(
	logger *zap.Logger,
	cfg *config.Config,
	transfers client.TransferClient,
	prices client.PriceClient,
) port.ActivityService {
	ttl := time.Duration(cfg.Activity.CacheTTLSeconds) * time.Second
	return &activityServiceImpl{
		logger:    logger.Named("ActivityService"),
		transfers: transfers,
		prices:    prices,
		feedCache: cache.New(ttl, 10*time.Minute),
	}
}

func feedCacheKey(address string, chainID int64) string {
	return fmt.Sprintf("%s_%d", strings.ToLower(address), chainID)
}

// GetRecentActivity implements the ActivityService interface.
func (s *activityServiceImpl) GetRecentActivity(ctx context.Context, address string, chain entity.Chain) ([]entity.ActivityRecord, error) {
	key := feedCacheKey(address, chain.ID)
	if cached, found := s.feedCache.Get(key); found {
		if records, ok := cached.([]entity.ActivityRecord); ok {
			metrics.ActivityRequestsTotal.WithLabelValues("cache_hit").Inc()
			s.logger.Debug("Serving activity feed from cache",
				zap.String("address", address), zap.Int64("chainID", chain.ID))
			return records, nil
		}
	}

	var (
		outgoing  []wire.AssetTransfer
		incoming  []wire.AssetTransfer
		price     float64
		havePrice bool
	)

	// Fan-out: both transfer directions plus the price, joined before merging.
	// Either transfer failure aborts the call; the price fetch never does.
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		outgoing, err = s.transfers.FetchOutgoing(egCtx, address, chain)
		return err
	})
	eg.Go(func() error {
		var err error
		incoming, err = s.transfers.FetchIncoming(egCtx, address, chain)
		return err
	})
	eg.Go(func() error {
		price, havePrice = s.prices.ReferencePrice(egCtx, chain)
		return nil
	})

	if err := eg.Wait(); err != nil {
		metrics.ActivityRequestsTotal.WithLabelValues("error").Inc()
		s.logger.Error("Failed to fetch transfers",
			zap.String("address", address), zap.Int64("chainID", chain.ID), zap.Error(err))
		// A failed fetch leaves any prior cache entry untouched.
		return nil, &entity.ActivityError{Address: address, ChainID: chain.ID, Err: err}
	}

	// Dedupe by tx hash before normalization. A transfer showing up in both
	// direction queries (a self-transfer) collapses to one record;
	// last-write-wins since duplicates carry identical payloads.
	merged := make(map[string]wire.AssetTransfer, len(outgoing)+len(incoming))
	for _, t := range outgoing {
		merged[t.Hash] = t
	}
	for _, t := range incoming {
		merged[t.Hash] = t
	}

	records := make([]entity.ActivityRecord, 0, len(merged))
	for _, t := range merged {
		records = append(records, normalizeTransfer(t, address, chain, price, havePrice))
	}

	// Descending lexicographic ISO-8601 order equals chronological order;
	// missing timestamps sort last, ties break on tx hash for determinism.
	sort.Slice(records, func(i, j int) bool {
		if records[i].Timestamp != records[j].Timestamp {
			return records[i].Timestamp > records[j].Timestamp
		}
		return records[i].TxHash > records[j].TxHash
	})

	if len(records) > entity.MaxFeedItems {
		records = records[:entity.MaxFeedItems]
	}

	s.feedCache.SetDefault(key, records)
	metrics.ActivityRequestsTotal.WithLabelValues("fetched").Inc()
	s.logger.Info("Assembled activity feed",
		zap.String("address", address),
		zap.Int64("chainID", chain.ID),
		zap.Int("records", len(records)),
		zap.Bool("priced", havePrice))
	return records, nil
}

// normalizeTransfer shapes one raw upstream transfer into an ActivityRecord.
func normalizeTransfer(t wire.AssetTransfer, address string, chain entity.Chain, price float64, havePrice bool) entity.ActivityRecord {
	decimals := nativeAssetDecimals
	if t.RawContract != nil && t.RawContract.Decimals != nil {
		decimals = *t.RawContract.Decimals
	}
	amount := utils.RoundTo(utils.ScaleRawValue(string(t.Value), decimals), 6)

	direction := entity.DirectionReceived
	if strings.EqualFold(t.From, address) {
		direction = entity.DirectionSent
	}

	var usdValue *float64
	if havePrice {
		v := utils.RoundTo(amount*price, 2)
		usdValue = &v
	}

	symbol := t.Asset
	if symbol == "" {
		symbol = chain.NativeSymbol
	}

	var timestamp string
	if t.Metadata != nil {
		timestamp = t.Metadata.BlockTimestamp
	}

	return entity.ActivityRecord{
		TxHash:    t.Hash,
		Timestamp: timestamp,
		Direction: direction,
		Amount:    amount,
		Symbol:    symbol,
		USDValue:  usdValue,
		From:      t.From,
		To:        t.To,
		Status:    entity.StatusConfirmed,
		Chain:     chain,
	}
}
