// Package token defines the static token list for the target network.
package token

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Kind distinguishes the chain's native currency from contract tokens.
// The native currency has no contract address; using an explicit kind
// avoids sentinel address strings.
type Kind int

const (
	Native Kind = iota
	Contract
)

// Token describes one entry of the static token list. Immutable once defined.
type Token struct {
	Kind     Kind
	Address  common.Address // zero for Kind == Native
	Symbol   string
	Name     string
	Decimals uint8
	LogoURL  string
}

// IsNative reports whether the token is the chain's native currency.
func (t Token) IsNative() bool {
	return t.Kind == Native
}

// PathAddress returns the address to use for this token in a routing path.
// Native currency is substituted with the wrapped-native token so every
// path leg is a contract address.
func (t Token) PathAddress(wrappedNative common.Address) common.Address {
	if t.IsNative() {
		return wrappedNative
	}
	return t.Address
}

// DefaultList returns the built-in token list for the Monad testnet.
func DefaultList() []Token {
	return []Token{
		{
			Kind:     Native,
			Symbol:   "MON",
			Name:     "Monad",
			Decimals: 18,
			LogoURL:  "https://raw.githubusercontent.com/monad-crypto/assets/main/mon.png",
		},
		{
			Kind:     Contract,
			Address:  common.HexToAddress("0x760AfE86e5de5fa0Ee542fc7B7B713e1c5425701"),
			Symbol:   "WMON",
			Name:     "Wrapped Monad",
			Decimals: 18,
			LogoURL:  "https://raw.githubusercontent.com/monad-crypto/assets/main/wmon.png",
		},
		{
			Kind:     Contract,
			Address:  common.HexToAddress("0xf817257fed379853cDe0fa4F97AB987181B1E5Ea"),
			Symbol:   "USDC",
			Name:     "USD Coin",
			Decimals: 6,
			LogoURL:  "https://raw.githubusercontent.com/monad-crypto/assets/main/usdc.png",
		},
		{
			Kind:     Contract,
			Address:  common.HexToAddress("0x88b8E2161DEDC77EF4ab7585569D2415a1C1055D"),
			Symbol:   "USDT",
			Name:     "Tether USD",
			Decimals: 6,
			LogoURL:  "https://raw.githubusercontent.com/monad-crypto/assets/main/usdt.png",
		},
		{
			Kind:     Contract,
			Address:  common.HexToAddress("0xB5a30b0FDc5EA94A52fDc42e3E9760Cb8449Fb37"),
			Symbol:   "WETH",
			Name:     "Wrapped Ether",
			Decimals: 18,
			LogoURL:  "https://raw.githubusercontent.com/monad-crypto/assets/main/weth.png",
		},
	}
}

// Find looks up a token by symbol (case-insensitive) in the given list.
func Find(list []Token, symbol string) (Token, error) {
	for _, t := range list {
		if strings.EqualFold(t.Symbol, symbol) {
			return t, nil
		}
	}
	return Token{}, fmt.Errorf("unknown token: %s (try: monad-swap list-tokens)", symbol)
}
