package wallet

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"monad-swap/pkg/chain"
)

// KeyProvider implements Provider over an RPC endpoint and a local ECDSA
// key. Account access is the key's derived address; chain switching is
// limited to verifying the endpoint's chain, since a remote node cannot
// change networks. Chain-change events come from polling the endpoint.
type KeyProvider struct {
	client  *ethclient.Client
	key     *ecdsa.PrivateKey
	address common.Address

	events   chan Event
	stopOnce sync.Once
	stop     chan struct{}
}

const chainPollInterval = 15 * time.Second

// NewKeyProvider dials the RPC endpoint and derives the account address
// from the hex-encoded private key.
func NewKeyProvider(rpcURL, privateKeyHex string) (*KeyProvider, error) {
	if rpcURL == "" {
		return nil, fmt.Errorf("%w: no RPC URL configured", ErrProviderUnavailable)
	}

	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC endpoint: %w", err)
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	publicKey, ok := key.Public().(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("failed to derive public key")
	}

	return &KeyProvider{
		client:  client,
		key:     key,
		address: crypto.PubkeyToAddress(*publicKey),
		events:  make(chan Event, 4),
		stop:    make(chan struct{}),
	}, nil
}

// RequestAccounts returns the key's derived address. A local key needs no
// approval prompt.
func (p *KeyProvider) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	return []common.Address{p.address}, nil
}

// ChainID reads the endpoint's chain identifier.
func (p *KeyProvider) ChainID(ctx context.Context) (*big.Int, error) {
	return p.client.ChainID(ctx)
}

// SwitchChain verifies the endpoint already serves the requested chain.
// A remote RPC node cannot be switched, so a mismatch is a denial.
func (p *KeyProvider) SwitchChain(ctx context.Context, chainID *big.Int) error {
	active, err := p.client.ChainID(ctx)
	if err != nil {
		return fmt.Errorf("reading chain id: %w", err)
	}
	if active.Cmp(chainID) != 0 {
		return fmt.Errorf("%w: endpoint serves chain %s, want %s", ErrWrongNetwork, active, chainID)
	}
	return nil
}

// AddChain is unsupported for a fixed RPC endpoint.
func (p *KeyProvider) AddChain(ctx context.Context, params chain.AddChainParams) error {
	return fmt.Errorf("%w: cannot register %s on a fixed RPC endpoint", ErrNetworkUnregistered, params.ChainName)
}

// Events returns the provider notification stream. StartPolling must be
// called for chain-change events to be emitted.
func (p *KeyProvider) Events() <-chan Event {
	return p.events
}

// StartPolling watches the endpoint's chain id and emits a ChainChanged
// event when it moves. Runs until ctx is cancelled or Close is called.
func (p *KeyProvider) StartPolling(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(chainPollInterval)
		defer ticker.Stop()

		var last *big.Int
		for {
			select {
			case <-ctx.Done():
				return
			case <-p.stop:
				return
			case <-ticker.C:
				id, err := p.client.ChainID(ctx)
				if err != nil {
					continue
				}
				if last != nil && id.Cmp(last) != 0 {
					select {
					case p.events <- Event{Kind: ChainChanged, ChainID: id}:
					default:
					}
				}
				last = id
			}
		}
	}()
}

// Signer returns a transaction signer for the provider's account.
func (p *KeyProvider) Signer() Signer {
	return &KeySigner{key: p.key, address: p.address}
}

// Client exposes the underlying RPC client as a Backend.
func (p *KeyProvider) Client() *ethclient.Client {
	return p.client
}

// Close stops polling and releases the RPC connection.
func (p *KeyProvider) Close() {
	p.stopOnce.Do(func() {
		close(p.stop)
		close(p.events)
		if p.client != nil {
			p.client.Close()
		}
	})
}

// KeySigner signs transactions with a local ECDSA key using EIP-155.
type KeySigner struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewKeySigner parses a hex private key into a signer.
func NewKeySigner(privateKeyHex string) (*KeySigner, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	publicKey, ok := key.Public().(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("failed to derive public key")
	}
	return &KeySigner{key: key, address: crypto.PubkeyToAddress(*publicKey)}, nil
}

// Address returns the signer's account.
func (s *KeySigner) Address() common.Address {
	return s.address
}

// SignTx signs a transaction for the given chain.
func (s *KeySigner) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	signed, err := types.SignTx(tx, types.NewEIP155Signer(chainID), s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	return signed, nil
}
