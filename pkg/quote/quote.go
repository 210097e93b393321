// Package quote computes indicative swap quotes against the router
// contract, net of the platform fee, with reserve-derived price impact.
package quote

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"monad-swap/pkg/amount"
	"monad-swap/pkg/chain"
	"monad-swap/pkg/router"
	"monad-swap/pkg/token"
)

var (
	// ErrQuoteUnavailable means the router could not price the pair.
	ErrQuoteUnavailable = errors.New("quote unavailable")

	// ErrInvalidAmount means the requested input amount is not a positive
	// decimal number.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrSameToken means input and output resolve to the same asset.
	ErrSameToken = errors.New("input and output token are the same")
)

// Quote is an indicative exchange computed from current router state. It
// has no lifecycle beyond the inputs it was derived from; recompute on any
// input change and revalidate before submission.
type Quote struct {
	InputToken  token.Token
	OutputToken token.Token

	// InputAmount is the user's raw input, fee inclusive. SwapAmount is
	// what actually reaches the router: InputAmount - FeeAmount.
	InputAmount *big.Int
	FeeAmount   *big.Int
	SwapAmount  *big.Int

	OutputAmount *big.Int
	Path         []common.Address

	// Rate is output per unit of input (fee inclusive), for display.
	Rate decimal.Decimal

	// PriceImpact is the percentage degradation versus the reserve-ratio
	// ideal price. Zero when reserves could not be read.
	PriceImpact decimal.Decimal
}

// InputFormatted renders the fee-inclusive input at display precision.
func (q *Quote) InputFormatted() string {
	return amount.FormatFixed(q.InputAmount, q.InputToken.Decimals, balanceDisplayPlaces)
}

// OutputFormatted renders the quoted output at display precision.
func (q *Quote) OutputFormatted() string {
	return amount.FormatFixed(q.OutputAmount, q.OutputToken.Decimals, balanceDisplayPlaces)
}

// FeeFormatted renders the fee amount at display precision.
func (q *Quote) FeeFormatted() string {
	return amount.FormatFixed(q.FeeAmount, q.InputToken.Decimals, balanceDisplayPlaces)
}

const balanceDisplayPlaces = 4

// Calculator prices swaps through the router.
type Calculator struct {
	router  *router.Client
	network chain.Network
	log     zerolog.Logger
}

// NewCalculator creates a quote calculator. The platform fee percentage
// comes from the network configuration.
func NewCalculator(rc *router.Client, network chain.Network, log zerolog.Logger) *Calculator {
	return &Calculator{
		router:  rc,
		network: network,
		log:     log.With().Str("component", "quote").Logger(),
	}
}

// Quote prices a swap of amountIn (human decimal string) of in for out.
// The platform fee is skimmed from the input before quoting: the router
// sees amountIn*(1-fee), and the fee is reported separately.
func (c *Calculator) Quote(ctx context.Context, in, out token.Token, amountIn string) (*Quote, error) {
	raw, err := amount.ParseUnits(amountIn, in.Decimals)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	}
	if raw.Sign() <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidAmount)
	}

	path := c.buildPath(in, out)
	if path[0] == path[len(path)-1] {
		return nil, ErrSameToken
	}

	fee := feeAmount(raw, c.network.FeeBps)
	swapIn := new(big.Int).Sub(raw, fee)

	amounts, err := c.router.AmountsOut(ctx, swapIn, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQuoteUnavailable, err)
	}
	output := amounts[len(amounts)-1]

	q := &Quote{
		InputToken:   in,
		OutputToken:  out,
		InputAmount:  raw,
		FeeAmount:    fee,
		SwapAmount:   swapIn,
		OutputAmount: output,
		Path:         path,
		Rate:         impliedRate(raw, in.Decimals, output, out.Decimals),
		PriceImpact:  c.priceImpact(ctx, path, swapIn, output),
	}
	return q, nil
}

// buildPath constructs the routing path, substituting the wrapped-native
// token for native legs so the path never carries the native currency.
func (c *Calculator) buildPath(in, out token.Token) []common.Address {
	return []common.Address{
		in.PathAddress(c.network.WrappedNative),
		out.PathAddress(c.network.WrappedNative),
	}
}

// priceImpact derives impact from pool reserves:
// ideal = amountIn * reserveOut/reserveIn, impact = (ideal-actual)/ideal.
// Reserve read failures degrade to zero impact rather than failing the quote.
func (c *Calculator) priceImpact(ctx context.Context, path []common.Address, swapIn, actualOut *big.Int) decimal.Decimal {
	reserveIn, reserveOut, err := c.router.Reserves(ctx, path[0], path[len(path)-1])
	if err != nil {
		c.log.Debug().Err(err).Msg("reserve read failed, reporting zero price impact")
		return decimal.Zero
	}
	if reserveIn.Sign() == 0 || reserveOut.Sign() == 0 {
		return decimal.Zero
	}

	ideal := decimal.NewFromBigInt(swapIn, 0).
		Mul(decimal.NewFromBigInt(reserveOut, 0)).
		Div(decimal.NewFromBigInt(reserveIn, 0))
	if ideal.IsZero() {
		return decimal.Zero
	}

	actual := decimal.NewFromBigInt(actualOut, 0)
	return ideal.Sub(actual).Div(ideal).Mul(decimal.NewFromInt(100))
}

// feeAmount computes raw*bps/10000 with integer math, exact per the fee
// schedule.
func feeAmount(raw *big.Int, bps int64) *big.Int {
	if bps <= 0 {
		return big.NewInt(0)
	}
	fee := new(big.Int).Mul(raw, big.NewInt(bps))
	return fee.Quo(fee, big.NewInt(10000))
}

// impliedRate is output per unit input in display units.
func impliedRate(rawIn *big.Int, decIn uint8, rawOut *big.Int, decOut uint8) decimal.Decimal {
	in := decimal.NewFromBigInt(rawIn, -int32(decIn))
	out := decimal.NewFromBigInt(rawOut, -int32(decOut))
	if in.IsZero() {
		return decimal.Zero
	}
	return out.Div(in)
}
