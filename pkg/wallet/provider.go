// Package wallet manages the wallet session: account access, network
// enforcement, and account/chain change events. The provider and RPC
// backend are injected so the core runs against a mock in tests.
package wallet

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"monad-swap/pkg/chain"
)

// Provider is the wallet-side contract: account authorization, chain
// management and change notifications. Implemented by KeyProvider in
// production and by mocks in tests.
type Provider interface {
	// RequestAccounts asks the provider for authorized accounts. May block
	// on user approval; honor ctx for cancellation.
	RequestAccounts(ctx context.Context) ([]common.Address, error)

	// ChainID returns the provider's active chain.
	ChainID(ctx context.Context) (*big.Int, error)

	// SwitchChain asks the provider to activate the given chain. Returns
	// ErrNetworkUnregistered if the chain is unknown to the provider.
	SwitchChain(ctx context.Context, chainID *big.Int) error

	// AddChain registers a network with the provider.
	AddChain(ctx context.Context, params chain.AddChainParams) error

	// Events streams account and chain change notifications. The channel
	// is closed when the provider shuts down.
	Events() <-chan Event
}

// EventKind identifies a provider notification.
type EventKind int

const (
	AccountsChanged EventKind = iota
	ChainChanged
)

// Event is a provider notification. Accounts is set for AccountsChanged,
// ChainID for ChainChanged.
type Event struct {
	Kind     EventKind
	Accounts []common.Address
	ChainID  *big.Int
}

// Backend is the RPC call surface used by balance reads, quoting and swap
// submission. *ethclient.Client satisfies it.
type Backend interface {
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Signer signs transactions for the active account.
type Signer interface {
	Address() common.Address
	SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)
}
