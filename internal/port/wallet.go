package port

import (
	"context"

	"activity_checker/internal/domain/entity"
)

// WalletProvider is the host-supplied wallet interface. Implementations are
// not part of this module; the wallet service only drives them.
type WalletProvider interface {
	// RequestAccounts asks the provider for account access and returns the
	// authorized addresses.
	RequestAccounts(ctx context.Context) ([]string, error)

	// Signer returns a signer handle for the active account.
	Signer(ctx context.Context) (Signer, error)

	// Network returns the network the provider currently reports.
	Network(ctx context.Context) (entity.NetworkInfo, error)

	// Send issues a raw provider request, e.g. wallet_switchEthereumChain.
	Send(ctx context.Context, method string, params []any) (any, error)
}

// Signer is a provider-backed signing handle.
type Signer interface {
	// Address returns the signer's account address.
	Address(ctx context.Context) (string, error)
}

// ProviderSource acquires a WalletProvider from the host environment. It
// returns entity.ErrProviderUnavailable when no wallet host is present.
type ProviderSource func() (WalletProvider, error)

// WalletService defines the operations of the wallet connection manager.
type WalletService interface {
	Connect(ctx context.Context) error
	Disconnect()
	SwitchChain(ctx context.Context, chainID int64) error
	SetSelectedChainID(chainID int64) error
	Session() entity.SessionView
}
