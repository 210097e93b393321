package wallet

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"monad-swap/pkg/chain"
)

// Session tracks the connected account and active chain. At most one
// session is active per process; it is cleared on disconnect, on an empty
// accounts-changed notification, and on a switch to a foreign chain.
type Session struct {
	provider Provider
	network  chain.Network
	log      zerolog.Logger

	// onRefresh is invoked whenever balances should be re-read (connect,
	// account adoption, chain re-confirmation). onClear is invoked when
	// the session is dropped, so cached balances never leak across
	// accounts.
	onRefresh func(common.Address)
	onClear   func()

	mu        sync.Mutex
	address   common.Address
	chainID   *big.Int
	connected bool
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithRefreshHook registers a callback fired when balances should be
// re-fetched for the given address.
func WithRefreshHook(fn func(common.Address)) SessionOption {
	return func(s *Session) { s.onRefresh = fn }
}

// WithClearHook registers a callback fired when the session is cleared.
func WithClearHook(fn func()) SessionOption {
	return func(s *Session) { s.onClear = fn }
}

// NewSession creates a session bound to a provider and target network.
func NewSession(provider Provider, network chain.Network, log zerolog.Logger, opts ...SessionOption) *Session {
	s := &Session{
		provider: provider,
		network:  network,
		log:      log.With().Str("component", "wallet").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Connect requests account access and enforces the target network. It may
// block on provider approval; cancel via ctx. Returns the adopted address.
func (s *Session) Connect(ctx context.Context) (common.Address, error) {
	if s.provider == nil {
		return common.Address{}, ErrProviderUnavailable
	}

	accounts, err := s.provider.RequestAccounts(ctx)
	if err != nil {
		return common.Address{}, fmt.Errorf("requesting accounts: %w", err)
	}
	if len(accounts) == 0 {
		return common.Address{}, ErrConnectionDenied
	}

	if err := s.ensureNetwork(ctx); err != nil {
		return common.Address{}, err
	}

	s.mu.Lock()
	s.address = accounts[0]
	s.chainID = new(big.Int).Set(s.network.ChainID)
	s.connected = true
	s.mu.Unlock()

	s.log.Info().Str("address", accounts[0].Hex()).Msg("wallet connected")
	if s.onRefresh != nil {
		s.onRefresh(accounts[0])
	}
	return accounts[0], nil
}

// ensureNetwork verifies the provider's active chain matches the target,
// switching and, if the chain is unknown, registering it first.
func (s *Session) ensureNetwork(ctx context.Context) error {
	id, err := s.provider.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("reading chain id: %w", err)
	}
	if id.Cmp(s.network.ChainID) == 0 {
		return nil
	}

	s.log.Warn().
		Str("active", id.String()).
		Str("target", s.network.ChainID.String()).
		Msg("active chain mismatch, switching")

	err = s.provider.SwitchChain(ctx, s.network.ChainID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNetworkUnregistered) {
		return fmt.Errorf("%w: %v", ErrNetworkSwitchDenied, err)
	}

	if err := s.provider.AddChain(ctx, s.network.AddChainParams()); err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkUnregistered, err)
	}
	if err := s.provider.SwitchChain(ctx, s.network.ChainID); err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkSwitchDenied, err)
	}
	return nil
}

// Address returns the connected account, if any.
func (s *Session) Address() (common.Address, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.address, s.connected
}

// Connected reports whether a session is active.
func (s *Session) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// Disconnect clears the session and any cached per-account state.
func (s *Session) Disconnect() {
	s.clear()
}

// HandleAccountsChanged processes an accounts-changed notification: an
// empty list is a disconnect, otherwise the first address becomes active
// and balances are refreshed.
func (s *Session) HandleAccountsChanged(accounts []common.Address) {
	if len(accounts) == 0 {
		s.log.Info().Msg("accounts cleared, disconnecting")
		s.clear()
		return
	}

	s.mu.Lock()
	s.address = accounts[0]
	s.connected = true
	s.mu.Unlock()

	s.log.Info().Str("address", accounts[0].Hex()).Msg("active account changed")
	if s.onRefresh != nil {
		s.onRefresh(accounts[0])
	}
}

// HandleChainChanged processes a chain-changed notification. A foreign
// chain clears the session without any balance fetch; the target chain
// triggers a refresh.
func (s *Session) HandleChainChanged(chainID *big.Int) {
	if chainID.Cmp(s.network.ChainID) != 0 {
		s.log.Warn().
			Str("chain", chainID.String()).
			Str("target", s.network.ChainID.String()).
			Msgf("switched away from %s, disconnecting", s.network.Name)
		s.clear()
		return
	}

	s.mu.Lock()
	s.chainID = new(big.Int).Set(chainID)
	addr := s.address
	connected := s.connected
	s.mu.Unlock()

	if connected && s.onRefresh != nil {
		s.onRefresh(addr)
	}
}

// Watch dispatches provider events to the session handlers until ctx is
// cancelled or the provider closes its event channel.
func (s *Session) Watch(ctx context.Context) {
	events := s.provider.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev.Kind {
			case AccountsChanged:
				s.HandleAccountsChanged(ev.Accounts)
			case ChainChanged:
				s.HandleChainChanged(ev.ChainID)
			}
		}
	}
}

func (s *Session) clear() {
	s.mu.Lock()
	s.address = common.Address{}
	s.chainID = nil
	s.connected = false
	s.mu.Unlock()

	if s.onClear != nil {
		s.onClear()
	}
}
