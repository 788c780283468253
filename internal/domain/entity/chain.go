package entity

import "strings"

// APIKeyPlaceholder is the token inside RPCTemplate that stands in for the
// upstream API key. It is never expanded when the URL leaves the process.
const APIKeyPlaceholder = "${API_KEY}"

// Chain describes a supported blockchain network. Instances are loaded once
// at startup (built-in defaults or config) and never mutated afterwards.
type Chain struct {
	ID             int64  `json:"chainId" yaml:"chainId"`
	HexID          string `json:"hexChainId" yaml:"hexChainId"`
	Name           string `json:"name" yaml:"name"`
	NativeSymbol   string `json:"nativeSymbol" yaml:"nativeSymbol"`
	AlchemyNetwork string `json:"alchemyNetwork" yaml:"alchemyNetwork"`
	RPCTemplate    string `json:"rpcUrl" yaml:"rpcUrl"`
	BlockExplorer  string `json:"blockExplorer" yaml:"blockExplorer"`
	CoinGeckoID    string `json:"coingeckoId,omitempty" yaml:"coingeckoId,omitempty"`
}

// RedactedRPCURL returns the chain's RPC URL with the API key placeholder
// replaced by a non-secret marker, suitable for handing to a wallet provider.
func (c Chain) RedactedRPCURL() string {
	return strings.ReplaceAll(c.RPCTemplate, APIKeyPlaceholder, "<your-key>")
}
