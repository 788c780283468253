package service

import (
	"context"
	"sync"

	"activity_checker/internal/domain/entity"
	"activity_checker/internal/port"
	"activity_checker/internal/registry"
	"activity_checker/internal/repository"
	"activity_checker/pkg/metrics"

	"go.uber.org/zap"
)

// walletServiceImpl implements the WalletService interface. It is the only
// long-lived mutable state in the core: a single wallet session guarded by a
// mutex, moving between idle, connecting and connected.
//
// The selected chain id is the user's intent and the one field that survives
// restarts; the active network is whatever the provider last reported, and
// the two are allowed to diverge.
type walletServiceImpl struct {
	logger *zap.Logger
	chains *registry.Registry
	source port.ProviderSource
	prefs  repository.PreferencesRepository

	mu              sync.Mutex
	status          entity.WalletStatus
	address         string
	network         *entity.NetworkInfo
	provider        port.WalletProvider
	signer          port.Signer
	lastError       string
	selectedChainID int64
}

// NewWalletService creates a new instance of WalletService. The selected
// chain is restored from preferences and falls back to the registry default
// when the stored value no longer resolves.
func NewWalletService(
	logger *zap.Logger,
	chains *registry.Registry,
	source port.ProviderSource,
	prefs repository.PreferencesRepository,
) port.WalletService {
	log := logger.Named("WalletService")

	selected := chains.Default().ID
	stored, err := prefs.Load()
	if err != nil {
		log.Warn("Failed to load preferences, using default chain", zap.Error(err))
	} else if _, ok := chains.ByID(stored.SelectedChainID); ok {
		selected = stored.SelectedChainID
	} else {
		log.Warn("Stored selected chain is no longer supported, using default",
			zap.Int64("storedChainID", stored.SelectedChainID))
	}

	return &walletServiceImpl{
		logger:          log,
		chains:          chains,
		source:          source,
		prefs:           prefs,
		status:          entity.WalletIdle,
		selectedChainID: selected,
	}
}

// Connect implements the WalletService interface. It is legal from idle
// only: a call while another connect is in flight is rejected, as is a call
// on an established session, so session fields are never corrupted.
func (s *walletServiceImpl) Connect(ctx context.Context) error {
	s.mu.Lock()
	switch s.status {
	case entity.WalletConnecting:
		s.mu.Unlock()
		return entity.ErrConnectInFlight
	case entity.WalletConnected:
		s.mu.Unlock()
		return entity.ErrAlreadyConnected
	}
	s.status = entity.WalletConnecting
	s.lastError = ""
	s.mu.Unlock()

	provider, err := s.acquireProvider()
	if err != nil {
		return s.failConnect("connect", err)
	}
	if _, err := provider.RequestAccounts(ctx); err != nil {
		return s.failConnect("connect", err)
	}
	signer, err := provider.Signer(ctx)
	if err != nil {
		return s.failConnect("connect", err)
	}
	address, err := signer.Address(ctx)
	if err != nil {
		return s.failConnect("connect", err)
	}
	network, err := provider.Network(ctx)
	if err != nil {
		return s.failConnect("connect", err)
	}

	s.mu.Lock()
	s.provider = provider
	s.signer = signer
	s.address = address
	s.network = &network
	s.status = entity.WalletConnected
	s.lastError = ""
	s.mu.Unlock()

	metrics.WalletOperationsTotal.WithLabelValues("connect", "ok").Inc()
	s.logger.Info("Wallet connected",
		zap.String("address", address), zap.Int64("chainID", network.ChainID))
	return nil
}

// failConnect rolls the session back to idle, records the error for display
// and re-raises it to the caller.
func (s *walletServiceImpl) failConnect(operation string, err error) error {
	s.mu.Lock()
	s.provider = nil
	s.signer = nil
	s.address = ""
	s.network = nil
	s.status = entity.WalletIdle
	s.lastError = err.Error()
	s.mu.Unlock()

	metrics.WalletOperationsTotal.WithLabelValues(operation, "error").Inc()
	if entity.IsUserRejected(err) {
		s.logger.Info("Wallet request rejected by user")
	} else {
		s.logger.Error("Wallet connect failed", zap.Error(err))
	}
	return err
}

// Disconnect implements the WalletService interface. It is always legal and
// only drops local session state; upstream provider permissions are outside
// this module's control. The selected chain survives.
func (s *walletServiceImpl) Disconnect() {
	s.mu.Lock()
	s.provider = nil
	s.signer = nil
	s.address = ""
	s.network = nil
	s.status = entity.WalletIdle
	s.mu.Unlock()

	metrics.WalletOperationsTotal.WithLabelValues("disconnect", "ok").Inc()
	s.logger.Info("Wallet disconnected")
}

// SwitchChain implements the WalletService interface. Without a held
// provider it transparently acquires one first. A provider answering that
// the chain is unknown triggers exactly one add-chain request followed by
// exactly one switch retry.
func (s *walletServiceImpl) SwitchChain(ctx context.Context, chainID int64) error {
	chain, ok := s.chains.ByID(chainID)
	if !ok {
		metrics.WalletOperationsTotal.WithLabelValues("switch_chain", "unsupported").Inc()
		return entity.ErrUnsupportedChain
	}

	s.mu.Lock()
	provider := s.provider
	s.mu.Unlock()

	if provider == nil {
		var err error
		provider, err = s.acquireProvider()
		if err != nil {
			s.recordError(err)
			metrics.WalletOperationsTotal.WithLabelValues("switch_chain", "error").Inc()
			return err
		}
	}

	if err := s.switchOrAddChain(ctx, provider, chain); err != nil {
		return s.failSwitch(chainID, err)
	}

	// The provider may report a different account after the switch, so
	// signer, address and network are re-derived rather than assumed.
	signer, err := provider.Signer(ctx)
	if err != nil {
		return s.failSwitch(chainID, err)
	}
	address, err := signer.Address(ctx)
	if err != nil {
		return s.failSwitch(chainID, err)
	}
	network, err := provider.Network(ctx)
	if err != nil {
		return s.failSwitch(chainID, err)
	}

	s.mu.Lock()
	s.provider = provider
	s.signer = signer
	s.address = address
	s.network = &network
	s.status = entity.WalletConnected
	s.selectedChainID = chainID
	s.lastError = ""
	s.mu.Unlock()

	s.persistSelectedChain(chainID)
	metrics.WalletOperationsTotal.WithLabelValues("switch_chain", "ok").Inc()
	s.logger.Info("Switched chain",
		zap.Int64("chainID", chainID), zap.Int64("reportedChainID", network.ChainID))
	return nil
}

func (s *walletServiceImpl) failSwitch(chainID int64, err error) error {
	swErr := &entity.ChainSwitchError{ChainID: chainID, Err: err}
	s.recordError(swErr)
	metrics.WalletOperationsTotal.WithLabelValues("switch_chain", "error").Inc()
	s.logger.Error("Chain switch failed", zap.Int64("chainID", chainID), zap.Error(err))
	return swErr
}

// switchOrAddChain issues the switch request, falling back to add-then-switch
// when the provider reports the chain as not added (code 4902).
func (s *walletServiceImpl) switchOrAddChain(ctx context.Context, provider port.WalletProvider, chain entity.Chain) error {
	switchParams := []any{map[string]any{"chainId": chain.HexID}}
	_, err := provider.Send(ctx, "wallet_switchEthereumChain", switchParams)
	if err == nil {
		return nil
	}
	if !entity.NeedsChainAdd(err) {
		return err
	}

	s.logger.Info("Chain not known to provider, requesting add", zap.Int64("chainID", chain.ID))
	addParams := []any{map[string]any{
		"chainId":   chain.HexID,
		"chainName": chain.Name,
		"nativeCurrency": map[string]any{
			"name":     chain.NativeSymbol,
			"symbol":   chain.NativeSymbol,
			"decimals": 18,
		},
		"rpcUrls":           []string{chain.RedactedRPCURL()},
		"blockExplorerUrls": []string{chain.BlockExplorer},
	}}
	if _, err := provider.Send(ctx, "wallet_addEthereumChain", addParams); err != nil {
		return err
	}
	_, err = provider.Send(ctx, "wallet_switchEthereumChain", switchParams)
	return err
}

// SetSelectedChainID implements the WalletService interface. It only records
// intent: the provider is not touched, and a resulting mismatch with the
// active network is surfaced through Session, not resolved here.
func (s *walletServiceImpl) SetSelectedChainID(chainID int64) error {
	if _, ok := s.chains.ByID(chainID); !ok {
		return entity.ErrUnsupportedChain
	}

	s.mu.Lock()
	s.selectedChainID = chainID
	s.mu.Unlock()

	s.persistSelectedChain(chainID)
	return nil
}

// Session implements the WalletService interface.
func (s *walletServiceImpl) Session() entity.SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := entity.SessionView{
		Status:          s.status,
		Address:         s.address,
		SelectedChainID: s.selectedChainID,
		LastError:       s.lastError,
	}
	if s.network != nil {
		network := *s.network
		view.ActiveNetwork = &network
		view.ChainMismatch = s.status == entity.WalletConnected && network.ChainID != s.selectedChainID
	}
	return view
}

func (s *walletServiceImpl) acquireProvider() (port.WalletProvider, error) {
	if s.source == nil {
		return nil, entity.ErrProviderUnavailable
	}
	provider, err := s.source()
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, entity.ErrProviderUnavailable
	}
	return provider, nil
}

func (s *walletServiceImpl) recordError(err error) {
	s.mu.Lock()
	s.lastError = err.Error()
	s.mu.Unlock()
}

func (s *walletServiceImpl) persistSelectedChain(chainID int64) {
	if err := s.prefs.Save(repository.UserPreferences{SelectedChainID: chainID}); err != nil {
		s.logger.Warn("Failed to persist selected chain", zap.Int64("chainID", chainID), zap.Error(err))
	}
}
