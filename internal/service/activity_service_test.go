package service

import (
	"context"
	"testing"
	"time"

	"activity_checker/internal/config"
	"activity_checker/internal/domain/entity"
	wire "activity_checker/internal/entity"

	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeTransferClient struct {
	outgoing []wire.AssetTransfer
	incoming []wire.AssetTransfer
	outErr   error
	inErr    error
	outCalls int
	inCalls  int
}

func (f *fakeTransferClient) FetchOutgoing(_ context.Context, _ string, _ entity.Chain) ([]wire.AssetTransfer, error) {
	f.outCalls++
	return f.outgoing, f.outErr
}

func (f *fakeTransferClient) FetchIncoming(_ context.Context, _ string, _ entity.Chain) ([]wire.AssetTransfer, error) {
	f.inCalls++
	return f.incoming, f.inErr
}

type fakePriceClient struct {
	price float64
	ok    bool
	calls int
}

func (f *fakePriceClient) ReferencePrice(_ context.Context, _ entity.Chain) (float64, bool) {
	f.calls++
	return f.price, f.ok
}

var testChain = entity.Chain{
	ID:             1,
	HexID:          "0x1",
	Name:           "Ethereum",
	NativeSymbol:   "ETH",
	AlchemyNetwork: "eth-mainnet",
	CoinGeckoID:    "ethereum",
}

const testAddress = "0xAbCd35Cc6634C0532925a3b844Bc454e4438AbCd"

func intPtr(v int) *int { return &v }

func makeTransfer(hash, from, to, value, timestamp string) wire.AssetTransfer {
	t := wire.AssetTransfer{
		From:  from,
		To:    to,
		Value: wire.RawValue(value),
		Hash:  hash,
		Asset: "ETH",
	}
	if timestamp != "" {
		t.Metadata = &wire.TransferMetadata{BlockTimestamp: timestamp}
	}
	return t
}

func newTestService(transfers *fakeTransferClient, prices *fakePriceClient) *activityServiceImpl {
	cfg := &config.Config{Activity: config.ActivityConfig{CacheTTLSeconds: 60}}
	svc := NewActivityService(zap.NewNop(), cfg, transfers, prices)
	return svc.(*activityServiceImpl)
}

func TestGetRecentActivityDedup(t *testing.T) {
	t.Parallel()

	// A self-transfer shows up in both direction queries under the same hash.
	self := makeTransfer("0xself", testAddress, testAddress, "1000000000000000000", "2024-05-01T10:00:00Z")
	transfers := &fakeTransferClient{
		outgoing: []wire.AssetTransfer{self, makeTransfer("0xout", testAddress, "0xother", "1000000000000000000", "2024-05-01T09:00:00Z")},
		incoming: []wire.AssetTransfer{self, makeTransfer("0xin", "0xother", testAddress, "1000000000000000000", "2024-05-01T08:00:00Z")},
	}
	svc := newTestService(transfers, &fakePriceClient{})

	records, err := svc.GetRecentActivity(context.Background(), testAddress, testChain)
	require.NoError(t, err)
	require.Len(t, records, 3)

	seen := make(map[string]int)
	for _, r := range records {
		seen[r.TxHash]++
	}
	assert.Equal(t, 1, seen["0xself"])
	assert.Equal(t, 1, seen["0xout"])
	assert.Equal(t, 1, seen["0xin"])
}

func TestGetRecentActivityOrderingAndTruncation(t *testing.T) {
	t.Parallel()

	// 15 distinct transfers across both directions; expect the 10 most recent.
	var outgoing, incoming []wire.AssetTransfer
	timestamps := []string{
		"2024-05-15T10:00:00Z", "2024-05-14T10:00:00Z", "2024-05-13T10:00:00Z",
		"2024-05-12T10:00:00Z", "2024-05-11T10:00:00Z", "2024-05-10T10:00:00Z",
		"2024-05-09T10:00:00Z", "2024-05-08T10:00:00Z", "2024-05-07T10:00:00Z",
		"2024-05-06T10:00:00Z", "2024-05-05T10:00:00Z", "2024-05-04T10:00:00Z",
		"2024-05-03T10:00:00Z", "2024-05-02T10:00:00Z", "2024-05-01T10:00:00Z",
	}
	for i, ts := range timestamps {
		tx := makeTransfer("0xhash"+string(rune('a'+i)), testAddress, "0xother", "1000000000000000000", ts)
		if i%2 == 0 {
			outgoing = append(outgoing, tx)
		} else {
			incoming = append(incoming, tx)
		}
	}
	svc := newTestService(&fakeTransferClient{outgoing: outgoing, incoming: incoming}, &fakePriceClient{})

	records, err := svc.GetRecentActivity(context.Background(), testAddress, testChain)
	require.NoError(t, err)
	require.Len(t, records, entity.MaxFeedItems)

	for i := 1; i < len(records); i++ {
		assert.GreaterOrEqual(t, records[i-1].Timestamp, records[i].Timestamp,
			"records must be non-increasing by timestamp")
	}
	assert.Equal(t, "2024-05-15T10:00:00Z", records[0].Timestamp)
	assert.Equal(t, "2024-05-06T10:00:00Z", records[len(records)-1].Timestamp)
}

func TestGetRecentActivityMissingTimestampsSortLast(t *testing.T) {
	t.Parallel()

	transfers := &fakeTransferClient{
		outgoing: []wire.AssetTransfer{
			makeTransfer("0xnots", testAddress, "0xother", "1000000000000000000", ""),
			makeTransfer("0xold", testAddress, "0xother", "1000000000000000000", "2024-01-01T00:00:00Z"),
		},
		incoming: []wire.AssetTransfer{
			makeTransfer("0xnew", "0xother", testAddress, "1000000000000000000", "2024-06-01T00:00:00Z"),
		},
	}
	svc := newTestService(transfers, &fakePriceClient{})

	records, err := svc.GetRecentActivity(context.Background(), testAddress, testChain)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "0xnew", records[0].TxHash)
	assert.Equal(t, "0xold", records[1].TxHash)
	assert.Equal(t, "0xnots", records[2].TxHash, "record without timestamp must sort last")
}

func TestGetRecentActivityDirection(t *testing.T) {
	t.Parallel()

	transfers := &fakeTransferClient{
		outgoing: []wire.AssetTransfer{
			// Case differs from the queried address on purpose.
			makeTransfer("0xsent", "0xabcd35cc6634c0532925a3b844bc454e4438abcd", "0xother", "1000000000000000000", "2024-05-01T10:00:00Z"),
		},
		incoming: []wire.AssetTransfer{
			makeTransfer("0xrecv", "0xother", testAddress, "1000000000000000000", "2024-05-01T09:00:00Z"),
		},
	}
	svc := newTestService(transfers, &fakePriceClient{})

	records, err := svc.GetRecentActivity(context.Background(), testAddress, testChain)
	require.NoError(t, err)
	require.Len(t, records, 2)

	byHash := make(map[string]entity.ActivityRecord)
	for _, r := range records {
		byHash[r.TxHash] = r
	}
	assert.Equal(t, entity.DirectionSent, byHash["0xsent"].Direction)
	assert.Equal(t, entity.DirectionReceived, byHash["0xrecv"].Direction)
}

func TestGetRecentActivityNormalization(t *testing.T) {
	t.Parallel()

	usdc := makeTransfer("0xusdc", "0xother", testAddress, "2500000", "2024-05-01T09:00:00Z")
	usdc.Asset = "USDC"
	usdc.RawContract = &wire.RawContract{Decimals: intPtr(6)}

	noSymbol := makeTransfer("0xnative", testAddress, "0xother", "1000000000000000000", "2024-05-01T10:00:00Z")
	noSymbol.Asset = ""

	transfers := &fakeTransferClient{outgoing: []wire.AssetTransfer{noSymbol}, incoming: []wire.AssetTransfer{usdc}}
	svc := newTestService(transfers, &fakePriceClient{price: 2000, ok: true})

	records, err := svc.GetRecentActivity(context.Background(), testAddress, testChain)
	require.NoError(t, err)
	require.Len(t, records, 2)

	byHash := make(map[string]entity.ActivityRecord)
	for _, r := range records {
		byHash[r.TxHash] = r
	}

	native := byHash["0xnative"]
	assert.Equal(t, 1.0, native.Amount, "18 decimals scale wei to whole units")
	assert.Equal(t, "ETH", native.Symbol, "missing asset symbol falls back to chain native symbol")
	require.NotNil(t, native.USDValue)
	assert.Equal(t, 2000.0, *native.USDValue)
	assert.Equal(t, entity.StatusConfirmed, native.Status)

	token := byHash["0xusdc"]
	assert.Equal(t, 2.5, token.Amount)
	assert.Equal(t, "USDC", token.Symbol)
}

func TestGetRecentActivityPriceDegradation(t *testing.T) {
	t.Parallel()

	transfers := &fakeTransferClient{
		outgoing: []wire.AssetTransfer{makeTransfer("0xa", testAddress, "0xother", "1000000000000000000", "2024-05-01T10:00:00Z")},
	}
	svc := newTestService(transfers, &fakePriceClient{ok: false})

	records, err := svc.GetRecentActivity(context.Background(), testAddress, testChain)
	require.NoError(t, err, "oracle failure must never surface as an error")
	require.Len(t, records, 1)
	assert.Nil(t, records[0].USDValue)
}

func TestGetRecentActivityTransferFailureAborts(t *testing.T) {
	t.Parallel()

	upstreamErr := &entity.UpstreamError{StatusCode: 500, Message: "boom"}
	transfers := &fakeTransferClient{
		outgoing: []wire.AssetTransfer{makeTransfer("0xa", testAddress, "0xother", "1", "2024-05-01T10:00:00Z")},
		inErr:    upstreamErr,
	}
	svc := newTestService(transfers, &fakePriceClient{})

	_, err := svc.GetRecentActivity(context.Background(), testAddress, testChain)
	require.Error(t, err)

	var activityErr *entity.ActivityError
	require.ErrorAs(t, err, &activityErr)
	assert.Equal(t, testAddress, activityErr.Address)
	assert.Equal(t, testChain.ID, activityErr.ChainID)

	var upstream *entity.UpstreamError
	assert.ErrorAs(t, err, &upstream)
}

func TestGetRecentActivityCacheFreshness(t *testing.T) {
	t.Parallel()

	transfers := &fakeTransferClient{
		outgoing: []wire.AssetTransfer{makeTransfer("0xa", testAddress, "0xother", "1000000000000000000", "2024-05-01T10:00:00Z")},
	}
	prices := &fakePriceClient{price: 1800, ok: true}
	svc := newTestService(transfers, prices)

	first, err := svc.GetRecentActivity(context.Background(), testAddress, testChain)
	require.NoError(t, err)
	second, err := svc.GetRecentActivity(context.Background(), testAddress, testChain)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, transfers.outCalls, "second call within TTL must not re-fetch")
	assert.Equal(t, 1, transfers.inCalls)
	assert.Equal(t, 1, prices.calls)
}

func TestGetRecentActivityCacheExpiry(t *testing.T) {
	t.Parallel()

	transfers := &fakeTransferClient{
		outgoing: []wire.AssetTransfer{makeTransfer("0xa", testAddress, "0xother", "1000000000000000000", "2024-05-01T10:00:00Z")},
	}
	svc := &activityServiceImpl{
		logger:    zap.NewNop(),
		transfers: transfers,
		prices:    &fakePriceClient{},
		feedCache: cache.New(30*time.Millisecond, time.Minute),
	}

	_, err := svc.GetRecentActivity(context.Background(), testAddress, testChain)
	require.NoError(t, err)

	time.Sleep(60 * time.Millisecond)

	_, err = svc.GetRecentActivity(context.Background(), testAddress, testChain)
	require.NoError(t, err)
	assert.Equal(t, 2, transfers.outCalls, "expired entry must trigger a fresh fetch")
}

func TestGetRecentActivityFailureKeepsPriorCacheEntry(t *testing.T) {
	t.Parallel()

	transfers := &fakeTransferClient{
		outgoing: []wire.AssetTransfer{makeTransfer("0xa", testAddress, "0xother", "1000000000000000000", "2024-05-01T10:00:00Z")},
	}
	svc := &activityServiceImpl{
		logger:    zap.NewNop(),
		transfers: transfers,
		prices:    &fakePriceClient{},
		feedCache: cache.New(30*time.Millisecond, time.Minute),
	}

	first, err := svc.GetRecentActivity(context.Background(), testAddress, testChain)
	require.NoError(t, err)
	require.Len(t, first, 1)

	time.Sleep(60 * time.Millisecond)
	transfers.outErr = &entity.UpstreamError{StatusCode: 503, Message: "down"}

	_, err = svc.GetRecentActivity(context.Background(), testAddress, testChain)
	require.Error(t, err)

	// The failed fetch must not write anything to the cache.
	_, found := svc.feedCache.Get(feedCacheKey(testAddress, testChain.ID))
	assert.False(t, found)
}

func TestFeedCacheKeyIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		feedCacheKey("0xABCdef", 137),
		feedCacheKey("0xabcDEF", 137))
	assert.NotEqual(t,
		feedCacheKey("0xabcdef", 1),
		feedCacheKey("0xabcdef", 137))
}
