package wallet

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"monad-swap/pkg/chain"
)

type mockProvider struct {
	accounts    []common.Address
	accountsErr error
	chainID     *big.Int
	switchErr   error
	addErr      error

	switchCalls int
	addCalls    int
	events      chan Event
}

func (m *mockProvider) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	return m.accounts, m.accountsErr
}

func (m *mockProvider) ChainID(ctx context.Context) (*big.Int, error) {
	return m.chainID, nil
}

func (m *mockProvider) SwitchChain(ctx context.Context, chainID *big.Int) error {
	m.switchCalls++
	if m.switchErr != nil {
		return m.switchErr
	}
	m.chainID = chainID
	return nil
}

func (m *mockProvider) AddChain(ctx context.Context, params chain.AddChainParams) error {
	m.addCalls++
	if m.addErr != nil {
		return m.addErr
	}
	// A successful registration makes the chain switchable.
	m.switchErr = nil
	return nil
}

func (m *mockProvider) Events() <-chan Event {
	return m.events
}

var (
	testAddr  = common.HexToAddress("0x1111111111111111111111111111111111111111")
	otherAddr = common.HexToAddress("0x2222222222222222222222222222222222222222")
)

func testSession(t *testing.T, p Provider, opts ...SessionOption) *Session {
	t.Helper()
	return NewSession(p, chain.MonadTestnet(), zerolog.Nop(), opts...)
}

func TestConnect(t *testing.T) {
	p := &mockProvider{
		accounts: []common.Address{testAddr, otherAddr},
		chainID:  chain.MonadTestnet().ChainID,
	}

	var refreshed []common.Address
	s := testSession(t, p, WithRefreshHook(func(a common.Address) {
		refreshed = append(refreshed, a)
	}))

	addr, err := s.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testAddr, addr, "first authorized account becomes active")
	assert.True(t, s.Connected())
	assert.Equal(t, []common.Address{testAddr}, refreshed)
	assert.Zero(t, p.switchCalls, "no switch needed when already on target chain")
}

func TestConnectWithoutProvider(t *testing.T) {
	s := testSession(t, nil)

	_, err := s.Connect(context.Background())
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestConnectNoAccountsIsDenied(t *testing.T) {
	p := &mockProvider{chainID: chain.MonadTestnet().ChainID}
	s := testSession(t, p)

	_, err := s.Connect(context.Background())
	assert.ErrorIs(t, err, ErrConnectionDenied)
	assert.False(t, s.Connected())
}

func TestConnectSwitchesChain(t *testing.T) {
	p := &mockProvider{
		accounts: []common.Address{testAddr},
		chainID:  big.NewInt(1),
	}
	s := testSession(t, p)

	_, err := s.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, p.switchCalls)
	assert.Zero(t, p.addCalls)
}

func TestConnectRegistersUnknownChain(t *testing.T) {
	p := &mockProvider{
		accounts:  []common.Address{testAddr},
		chainID:   big.NewInt(1),
		switchErr: ErrNetworkUnregistered,
	}
	s := testSession(t, p)

	// Switch fails as unregistered, AddChain registers the network, and
	// the retried switch succeeds.
	_, err := s.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, p.addCalls)
	assert.Equal(t, 2, p.switchCalls)
}

func TestConnectAddChainRejected(t *testing.T) {
	p := &mockProvider{
		accounts:  []common.Address{testAddr},
		chainID:   big.NewInt(1),
		switchErr: ErrNetworkUnregistered,
		addErr:    assert.AnError,
	}
	s := testSession(t, p)

	_, err := s.Connect(context.Background())
	assert.ErrorIs(t, err, ErrNetworkUnregistered)
	assert.Equal(t, 1, p.addCalls)
}

func TestConnectSwitchDenied(t *testing.T) {
	p := &mockProvider{
		accounts:  []common.Address{testAddr},
		chainID:   big.NewInt(1),
		switchErr: assert.AnError,
	}
	s := testSession(t, p)

	_, err := s.Connect(context.Background())
	assert.ErrorIs(t, err, ErrNetworkSwitchDenied)
}

func TestAccountsChangedEmptyClearsSession(t *testing.T) {
	p := &mockProvider{
		accounts: []common.Address{testAddr},
		chainID:  chain.MonadTestnet().ChainID,
	}

	cleared := 0
	s := testSession(t, p, WithClearHook(func() { cleared++ }))

	_, err := s.Connect(context.Background())
	require.NoError(t, err)

	s.HandleAccountsChanged(nil)
	assert.False(t, s.Connected())
	_, ok := s.Address()
	assert.False(t, ok)
	assert.Equal(t, 1, cleared, "cached balances must be dropped on disconnect")
}

func TestAccountsChangedAdoptsFirstAddress(t *testing.T) {
	p := &mockProvider{
		accounts: []common.Address{testAddr},
		chainID:  chain.MonadTestnet().ChainID,
	}

	var refreshed []common.Address
	s := testSession(t, p, WithRefreshHook(func(a common.Address) {
		refreshed = append(refreshed, a)
	}))

	_, err := s.Connect(context.Background())
	require.NoError(t, err)

	s.HandleAccountsChanged([]common.Address{otherAddr})
	addr, ok := s.Address()
	assert.True(t, ok)
	assert.Equal(t, otherAddr, addr)
	assert.Equal(t, []common.Address{testAddr, otherAddr}, refreshed)
}

func TestChainChangedToForeignChainClearsSession(t *testing.T) {
	p := &mockProvider{
		accounts: []common.Address{testAddr},
		chainID:  chain.MonadTestnet().ChainID,
	}

	refreshes := 0
	cleared := 0
	s := testSession(t, p,
		WithRefreshHook(func(common.Address) { refreshes++ }),
		WithClearHook(func() { cleared++ }),
	)

	_, err := s.Connect(context.Background())
	require.NoError(t, err)
	refreshesAfterConnect := refreshes

	s.HandleChainChanged(big.NewInt(1))
	assert.False(t, s.Connected())
	assert.Equal(t, 1, cleared)
	assert.Equal(t, refreshesAfterConnect, refreshes, "no balance fetch on a foreign chain")
}

func TestChainChangedToTargetRefreshes(t *testing.T) {
	p := &mockProvider{
		accounts: []common.Address{testAddr},
		chainID:  chain.MonadTestnet().ChainID,
	}

	refreshes := 0
	s := testSession(t, p, WithRefreshHook(func(common.Address) { refreshes++ }))

	_, err := s.Connect(context.Background())
	require.NoError(t, err)

	s.HandleChainChanged(chain.MonadTestnet().ChainID)
	assert.Equal(t, 2, refreshes)
}

func TestWatchDispatchesEvents(t *testing.T) {
	events := make(chan Event, 2)
	p := &mockProvider{
		accounts: []common.Address{testAddr},
		chainID:  chain.MonadTestnet().ChainID,
		events:   events,
	}

	s := testSession(t, p)
	_, err := s.Connect(context.Background())
	require.NoError(t, err)

	events <- Event{Kind: AccountsChanged, Accounts: []common.Address{otherAddr}}
	events <- Event{Kind: ChainChanged, ChainID: big.NewInt(1)}
	close(events)

	s.Watch(context.Background())

	assert.False(t, s.Connected(), "foreign chain event must clear the session")
}
