// Package balance reads native and token balances for the connected
// account and normalizes them for display.
package balance

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"

	"monad-swap/pkg/amount"
	"monad-swap/pkg/erc20"
	"monad-swap/pkg/token"
	"monad-swap/pkg/wallet"
)

// DisplayPlaces is the fixed fractional precision for balance display.
const DisplayPlaces = 4

// Snapshot maps token symbol to a fixed-precision decimal balance string.
// Recomputed wholesale on each fetch; stale between refreshes.
type Snapshot map[string]string

// Raw parses the snapshot entry for a token back to raw units. Missing or
// unparsable entries read as zero.
func (s Snapshot) Raw(t token.Token) *big.Int {
	entry, ok := s[t.Symbol]
	if !ok {
		return big.NewInt(0)
	}
	raw, err := amount.ParseUnits(entry, t.Decimals)
	if err != nil {
		return big.NewInt(0)
	}
	return raw
}

// Reader fetches balances for every token in the static list.
type Reader struct {
	backend wallet.Backend
	tokens  []token.Token
	log     zerolog.Logger

	mu   sync.Mutex
	last Snapshot
}

// NewReader creates a balance reader over the given backend and token list.
func NewReader(backend wallet.Backend, tokens []token.Token, log zerolog.Logger) *Reader {
	return &Reader{
		backend: backend,
		tokens:  tokens,
		log:     log.With().Str("component", "balance").Logger(),
	}
}

// Fetch reads the balance of every listed token for owner. A failure on a
// single token defaults that entry to zero and never aborts the batch.
func (r *Reader) Fetch(ctx context.Context, owner common.Address) Snapshot {
	snapshot := make(Snapshot, len(r.tokens))
	for _, t := range r.tokens {
		snapshot[t.Symbol] = r.fetchOne(ctx, owner, t)
	}

	r.mu.Lock()
	r.last = snapshot
	r.mu.Unlock()
	return snapshot
}

func (r *Reader) fetchOne(ctx context.Context, owner common.Address, t token.Token) string {
	zero := amount.FormatFixed(big.NewInt(0), t.Decimals, DisplayPlaces)

	var raw *big.Int
	var err error
	if t.IsNative() {
		raw, err = r.backend.BalanceAt(ctx, owner, nil)
	} else {
		raw, err = erc20.BalanceOf(ctx, r.backend, t.Address, owner)
	}
	if err != nil {
		r.log.Warn().Err(err).Str("token", t.Symbol).Msg("balance read failed, defaulting to zero")
		return zero
	}

	decimals := t.Decimals
	if decimals == 0 && !t.IsNative() {
		decimals, err = erc20.Decimals(ctx, r.backend, t.Address)
		if err != nil {
			r.log.Warn().Err(err).Str("token", t.Symbol).Msg("decimals read failed, defaulting to zero")
			return zero
		}
	}

	return amount.FormatFixed(raw, decimals, DisplayPlaces)
}

// Last returns the most recent snapshot, or nil before the first fetch.
func (r *Reader) Last() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// Clear drops the cached snapshot. Called on disconnect so balances never
// leak across accounts.
func (r *Reader) Clear() {
	r.mu.Lock()
	r.last = nil
	r.mu.Unlock()
}
