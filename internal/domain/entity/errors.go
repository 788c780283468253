package entity

import (
	"errors"
	"fmt"
)

// Well-known wallet provider error codes (EIP-1193 / MetaMask).
const (
	ProviderCodeUserRejected  = 4001
	ProviderCodeChainNotAdded = 4902
)

var (
	// ErrProviderUnavailable indicates no wallet provider is reachable in
	// the host environment.
	ErrProviderUnavailable = errors.New("no wallet provider available")

	// ErrUnsupportedChain indicates the requested chain id is not in the
	// chain registry.
	ErrUnsupportedChain = errors.New("unsupported chain")

	// ErrMissingCredential indicates the upstream transfer service API key
	// is not configured. This is fatal at startup, not retried per call.
	ErrMissingCredential = errors.New("alchemy api key is not configured")

	// ErrConnectInFlight indicates a connect attempt was made while another
	// one was still in progress.
	ErrConnectInFlight = errors.New("wallet connect already in progress")

	// ErrAlreadyConnected indicates connect was called on an established
	// session. The session is left untouched.
	ErrAlreadyConnected = errors.New("wallet already connected")
)

// ProviderError is an error reported by the wallet provider itself.
type ProviderError struct {
	Code    int
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error %d: %s", e.Code, e.Message)
}

// IsUserRejected reports whether err is the provider declining a request on
// the user's behalf.
func IsUserRejected(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Code == ProviderCodeUserRejected
}

// NeedsChainAdd reports whether err is the provider signalling that the
// target chain must be added before it can be switched to.
func NeedsChainAdd(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Code == ProviderCodeChainNotAdded
}

// UpstreamError is a transport or protocol level failure from the transfer
// upstream: a non-success HTTP status, or an error object embedded in an
// otherwise successful response.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream request failed (status %d): %s", e.StatusCode, e.Message)
}

// ChainSwitchError wraps a provider failure during a network switch,
// including a failed add-then-switch fallback.
type ChainSwitchError struct {
	ChainID int64
	Err     error
}

func (e *ChainSwitchError) Error() string {
	return fmt.Sprintf("failed to switch to chain %d: %v", e.ChainID, e.Err)
}

func (e *ChainSwitchError) Unwrap() error { return e.Err }

// ActivityError wraps a failure to assemble the activity feed for an
// address/chain pair.
type ActivityError struct {
	Address string
	ChainID int64
	Err     error
}

func (e *ActivityError) Error() string {
	return fmt.Sprintf("failed to fetch activity for %s on chain %d: %v", e.Address, e.ChainID, e.Err)
}

func (e *ActivityError) Unwrap() error { return e.Err }
