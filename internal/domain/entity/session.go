package entity

// WalletStatus is the connection state of the wallet session.
type WalletStatus string

const (
	WalletIdle       WalletStatus = "idle"
	WalletConnecting WalletStatus = "connecting"
	WalletConnected  WalletStatus = "connected"
)

// NetworkInfo is the network a wallet provider reports itself to be on.
// It is only ever populated from a provider response, never fabricated.
type NetworkInfo struct {
	ChainID int64  `json:"chainId"`
	Name    string `json:"name,omitempty"`
}

// SessionView is a read-only snapshot of the wallet session as exposed to
// callers. The live provider and signer handles stay inside the manager.
type SessionView struct {
	Status          WalletStatus `json:"status"`
	Address         string       `json:"address,omitempty"`
	ActiveNetwork   *NetworkInfo `json:"activeNetwork,omitempty"`
	SelectedChainID int64        `json:"selectedChainId"`
	LastError       string       `json:"lastError,omitempty"`
	// ChainMismatch is set while connected when the provider's reported
	// network differs from the user's selected chain. It is informational,
	// never auto-resolved.
	ChainMismatch bool `json:"chainMismatch"`
}
