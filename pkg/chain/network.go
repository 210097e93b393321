// Package chain holds the static network configuration for the target
// testnet. These are build-time constants, not runtime config: the tool
// targets exactly one network.
package chain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Network describes an EVM network and the swap infrastructure deployed on it.
type Network struct {
	ChainID        *big.Int
	Name           string
	RPCURL         string
	ExplorerURL    string
	NativeName     string
	NativeSymbol   string
	NativeDecimals uint8

	// WrappedNative substitutes for the native currency at routing path
	// endpoints, so every path leg is a token contract.
	WrappedNative common.Address

	Router  common.Address
	Factory common.Address

	// Platform fee skimmed from the input amount before quoting/swapping.
	// FeeBps is in basis points: 100 = 1%.
	FeeRecipient common.Address
	FeeBps       int64
}

// AddChainParams carries the metadata a wallet needs to register an
// unknown network (wallet_addEthereumChain shape).
type AddChainParams struct {
	ChainID        *big.Int
	ChainName      string
	RPCURL         string
	ExplorerURL    string
	NativeName     string
	NativeSymbol   string
	NativeDecimals uint8
}

// MonadTestnet returns the Monad testnet configuration.
func MonadTestnet() Network {
	return Network{
		ChainID:        big.NewInt(10143),
		Name:           "Monad Testnet",
		RPCURL:         "https://testnet-rpc.monad.xyz",
		ExplorerURL:    "https://testnet.monadexplorer.com",
		NativeName:     "Monad",
		NativeSymbol:   "MON",
		NativeDecimals: 18,
		WrappedNative:  common.HexToAddress("0x760AfE86e5de5fa0Ee542fc7B7B713e1c5425701"),
		Router:         common.HexToAddress("0xfB8e1C3b833f9E67a71C859a132cf783b645e436"),
		Factory:        common.HexToAddress("0x733E88f248b742db6C14C0b1713Af5AD7fDd59D0"),
		FeeRecipient:   common.HexToAddress("0x3bE2640a1ff8cB6D4b381Ad2b8a2996a110a5e09"),
		FeeBps:         100,
	}
}

// AddChainParams returns the wallet registration metadata for the network.
func (n Network) AddChainParams() AddChainParams {
	return AddChainParams{
		ChainID:        n.ChainID,
		ChainName:      n.Name,
		RPCURL:         n.RPCURL,
		ExplorerURL:    n.ExplorerURL,
		NativeName:     n.NativeName,
		NativeSymbol:   n.NativeSymbol,
		NativeDecimals: n.NativeDecimals,
	}
}

// TxURL returns the block-explorer link for a transaction hash.
func (n Network) TxURL(txHash common.Hash) string {
	return n.ExplorerURL + "/tx/" + txHash.Hex()
}

// FeePercent returns the platform fee as a percentage string for display.
func (n Network) FeePercent() string {
	return new(big.Rat).SetFrac64(n.FeeBps, 100).FloatString(2) + "%"
}
