// Package router wraps the on-chain swap router: quote reads via
// getAmountsOut, pair reserve lookups for price impact, and calldata
// packing for the three swap variants.
package router

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"monad-swap/pkg/wallet"
)

// ErrNoRoute means the router has no liquidity path for the requested pair.
var ErrNoRoute = errors.New("no liquidity route for pair")

const routerABIJSON = `[
	{"inputs":[{"name":"amountIn","type":"uint256"},{"name":"path","type":"address[]"}],"name":"getAmountsOut","outputs":[{"name":"amounts","type":"uint256[]"}],"stateMutability":"view","type":"function"},
	{"inputs":[{"name":"amountOutMin","type":"uint256"},{"name":"path","type":"address[]"},{"name":"to","type":"address"},{"name":"deadline","type":"uint256"}],"name":"swapExactETHForTokens","outputs":[{"name":"amounts","type":"uint256[]"}],"stateMutability":"payable","type":"function"},
	{"inputs":[{"name":"amountIn","type":"uint256"},{"name":"amountOutMin","type":"uint256"},{"name":"path","type":"address[]"},{"name":"to","type":"address"},{"name":"deadline","type":"uint256"}],"name":"swapExactTokensForETH","outputs":[{"name":"amounts","type":"uint256[]"}],"stateMutability":"nonpayable","type":"function"},
	{"inputs":[{"name":"amountIn","type":"uint256"},{"name":"amountOutMin","type":"uint256"},{"name":"path","type":"address[]"},{"name":"to","type":"address"},{"name":"deadline","type":"uint256"}],"name":"swapExactTokensForTokens","outputs":[{"name":"amounts","type":"uint256[]"}],"stateMutability":"nonpayable","type":"function"}
]`

const factoryABIJSON = `[
	{"inputs":[{"name":"tokenA","type":"address"},{"name":"tokenB","type":"address"}],"name":"getPair","outputs":[{"name":"pair","type":"address"}],"stateMutability":"view","type":"function"}
]`

const pairABIJSON = `[
	{"inputs":[],"name":"getReserves","outputs":[{"name":"reserve0","type":"uint112"},{"name":"reserve1","type":"uint112"},{"name":"blockTimestampLast","type":"uint32"}],"stateMutability":"view","type":"function"},
	{"inputs":[],"name":"token0","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"}
]`

var (
	routerABI  abi.ABI
	factoryABI abi.ABI
	pairABI    abi.ABI
)

func init() {
	for _, entry := range []struct {
		dst *abi.ABI
		src string
	}{
		{&routerABI, routerABIJSON},
		{&factoryABI, factoryABIJSON},
		{&pairABI, pairABIJSON},
	} {
		parsed, err := abi.JSON(strings.NewReader(entry.src))
		if err != nil {
			panic(fmt.Sprintf("router: invalid ABI: %v", err))
		}
		*entry.dst = parsed
	}
}

// Client is a read/pack wrapper over the deployed router and its factory.
type Client struct {
	backend wallet.Backend
	router  common.Address
	factory common.Address
}

// NewClient creates a router client for the given deployment.
func NewClient(backend wallet.Backend, router, factory common.Address) *Client {
	return &Client{backend: backend, router: router, factory: factory}
}

// Address returns the router contract address (the approval spender).
func (c *Client) Address() common.Address {
	return c.router
}

// AmountsOut queries getAmountsOut for the raw input amount along path.
// The returned slice parallels the path; the last element is the output.
func (c *Client) AmountsOut(ctx context.Context, amountIn *big.Int, path []common.Address) ([]*big.Int, error) {
	data, err := routerABI.Pack("getAmountsOut", amountIn, path)
	if err != nil {
		return nil, fmt.Errorf("failed to pack getAmountsOut data: %w", err)
	}

	result, err := c.backend.CallContract(ctx, ethereum.CallMsg{To: &c.router, Data: data}, nil)
	if err != nil {
		// getAmountsOut reverts when no pair exists or reserves are empty.
		return nil, fmt.Errorf("%w: %v", ErrNoRoute, err)
	}

	out, err := routerABI.Unpack("getAmountsOut", result)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack getAmountsOut result: %w", err)
	}
	amounts, ok := out[0].([]*big.Int)
	if !ok || len(amounts) != len(path) {
		return nil, fmt.Errorf("unexpected getAmountsOut result shape")
	}
	return amounts, nil
}

// Reserves returns the pair reserves for (tokenA, tokenB), ordered to
// match the argument order regardless of the pair's token0.
func (c *Client) Reserves(ctx context.Context, tokenA, tokenB common.Address) (reserveA, reserveB *big.Int, err error) {
	pair, err := c.pairFor(ctx, tokenA, tokenB)
	if err != nil {
		return nil, nil, err
	}

	data, err := pairABI.Pack("getReserves")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to pack getReserves data: %w", err)
	}
	result, err := c.backend.CallContract(ctx, ethereum.CallMsg{To: &pair, Data: data}, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to call getReserves: %w", err)
	}
	out, err := pairABI.Unpack("getReserves", result)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to unpack getReserves result: %w", err)
	}
	reserve0 := out[0].(*big.Int)
	reserve1 := out[1].(*big.Int)

	token0, err := c.token0(ctx, pair)
	if err != nil {
		return nil, nil, err
	}
	if token0 == tokenA {
		return reserve0, reserve1, nil
	}
	return reserve1, reserve0, nil
}

func (c *Client) pairFor(ctx context.Context, tokenA, tokenB common.Address) (common.Address, error) {
	data, err := factoryABI.Pack("getPair", tokenA, tokenB)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to pack getPair data: %w", err)
	}
	result, err := c.backend.CallContract(ctx, ethereum.CallMsg{To: &c.factory, Data: data}, nil)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to call getPair: %w", err)
	}
	out, err := factoryABI.Unpack("getPair", result)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to unpack getPair result: %w", err)
	}
	pair := out[0].(common.Address)
	if pair == (common.Address{}) {
		return common.Address{}, ErrNoRoute
	}
	return pair, nil
}

func (c *Client) token0(ctx context.Context, pair common.Address) (common.Address, error) {
	data, err := pairABI.Pack("token0")
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to pack token0 data: %w", err)
	}
	result, err := c.backend.CallContract(ctx, ethereum.CallMsg{To: &pair, Data: data}, nil)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to call token0: %w", err)
	}
	out, err := pairABI.Unpack("token0", result)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to unpack token0 result: %w", err)
	}
	return out[0].(common.Address), nil
}

// PackSwapNativeForTokens builds swapExactETHForTokens calldata. The input
// amount travels as the transaction value.
func PackSwapNativeForTokens(amountOutMin *big.Int, path []common.Address, to common.Address, deadline *big.Int) ([]byte, error) {
	data, err := routerABI.Pack("swapExactETHForTokens", amountOutMin, path, to, deadline)
	if err != nil {
		return nil, fmt.Errorf("failed to pack swapExactETHForTokens data: %w", err)
	}
	return data, nil
}

// PackSwapTokensForNative builds swapExactTokensForETH calldata.
func PackSwapTokensForNative(amountIn, amountOutMin *big.Int, path []common.Address, to common.Address, deadline *big.Int) ([]byte, error) {
	data, err := routerABI.Pack("swapExactTokensForETH", amountIn, amountOutMin, path, to, deadline)
	if err != nil {
		return nil, fmt.Errorf("failed to pack swapExactTokensForETH data: %w", err)
	}
	return data, nil
}

// PackSwapTokensForTokens builds swapExactTokensForTokens calldata.
func PackSwapTokensForTokens(amountIn, amountOutMin *big.Int, path []common.Address, to common.Address, deadline *big.Int) ([]byte, error) {
	data, err := routerABI.Pack("swapExactTokensForTokens", amountIn, amountOutMin, path, to, deadline)
	if err != nil {
		return nil, fmt.Errorf("failed to pack swapExactTokensForTokens data: %w", err)
	}
	return data, nil
}

// ABI returns the parsed router ABI.
func ABI() abi.ABI {
	return routerABI
}

// FactoryABI returns the parsed factory ABI.
func FactoryABI() abi.ABI {
	return factoryABI
}

// PairABI returns the parsed pair ABI.
func PairABI() abi.ABI {
	return pairABI
}
