package registry

import (
	"strings"

	"activity_checker/internal/domain/entity"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Predefined chain definitions
var ( //nolint:gochecknoglobals // Global for definitions
	Ethereum = entity.Chain{
		ID:             1,
		HexID:          "0x1",
		Name:           "Ethereum",
		NativeSymbol:   "ETH",
		AlchemyNetwork: "eth-mainnet",
		RPCTemplate:    "https://eth-mainnet.g.alchemy.com/v2/" + entity.APIKeyPlaceholder,
		BlockExplorer:  "https://etherscan.io",
		CoinGeckoID:    "ethereum",
	}
	Polygon = entity.Chain{
		ID:             137,
		HexID:          "0x89",
		Name:           "Polygon",
		NativeSymbol:   "MATIC",
		AlchemyNetwork: "polygon-mainnet",
		RPCTemplate:    "https://polygon-mainnet.g.alchemy.com/v2/" + entity.APIKeyPlaceholder,
		BlockExplorer:  "https://polygonscan.com",
		CoinGeckoID:    "matic-network",
	}
	Arbitrum = entity.Chain{
		ID:             42161,
		HexID:          "0xa4b1",
		Name:           "Arbitrum",
		NativeSymbol:   "ETH",
		AlchemyNetwork: "arb-mainnet",
		RPCTemplate:    "https://arb-mainnet.g.alchemy.com/v2/" + entity.APIKeyPlaceholder,
		BlockExplorer:  "https://arbiscan.io",
		CoinGeckoID:    "ethereum",
	}
)

// Defaults returns the built-in chain catalog, used when the config does not
// declare its own chains.
func Defaults() []entity.Chain {
	return []entity.Chain{Ethereum, Polygon, Arbitrum}
}

// Registry is the static catalog of supported chains. It is built once at
// startup and is read-only afterwards, so lookups need no locking.
type Registry struct {
	chains []entity.Chain
	byID   map[int64]entity.Chain
	byHex  map[string]entity.Chain
}

// New builds a registry from the given chains, falling back to Defaults when
// the slice is empty. Missing hex ids are derived from the numeric id.
func New(chains []entity.Chain) *Registry {
	if len(chains) == 0 {
		chains = Defaults()
	}
	r := &Registry{
		chains: make([]entity.Chain, 0, len(chains)),
		byID:   make(map[int64]entity.Chain, len(chains)),
		byHex:  make(map[string]entity.Chain, len(chains)),
	}
	for _, c := range chains {
		if c.HexID == "" {
			c.HexID = hexutil.EncodeUint64(uint64(c.ID))
		}
		r.chains = append(r.chains, c)
		r.byID[c.ID] = c
		r.byHex[strings.ToLower(c.HexID)] = c
	}
	return r
}

// All returns a copy of the catalog in declaration order.
func (r *Registry) All() []entity.Chain {
	out := make([]entity.Chain, len(r.chains))
	copy(out, r.chains)
	return out
}

// ByID looks up a chain by its numeric chain id.
func (r *Registry) ByID(chainID int64) (entity.Chain, bool) {
	c, ok := r.byID[chainID]
	return c, ok
}

// ByHexID looks up a chain by its hex-encoded chain id (case-insensitive).
func (r *Registry) ByHexID(hexID string) (entity.Chain, bool) {
	c, ok := r.byHex[strings.ToLower(hexID)]
	return c, ok
}

// Default returns the first catalog entry. The registry is never empty.
func (r *Registry) Default() entity.Chain {
	return r.chains[0]
}
