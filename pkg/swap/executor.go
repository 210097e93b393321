// Package swap submits swap transactions to the router: fee collection,
// allowance management, router function selection and mining wait.
package swap

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"monad-swap/pkg/balance"
	"monad-swap/pkg/chain"
	"monad-swap/pkg/erc20"
	"monad-swap/pkg/quote"
	"monad-swap/pkg/router"
	"monad-swap/pkg/wallet"
)

var (
	// ErrInvalidAmount means the input amount is zero or negative.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInsufficientBalance means the input amount exceeds the cached
	// balance for the input token.
	ErrInsufficientBalance = errors.New("amount exceeds balance")

	// ErrFeeTransfer means the platform fee could not be collected. Fee
	// collection is a precondition; the swap is aborted.
	ErrFeeTransfer = errors.New("fee transfer failed")

	// ErrApprovalFailed means the router allowance could not be granted.
	ErrApprovalFailed = errors.New("token approval failed")

	// ErrTransactionReverted means the swap mined but failed on chain.
	ErrTransactionReverted = errors.New("transaction reverted")

	// ErrTransactionRejected means the signer declined the transaction.
	ErrTransactionRejected = errors.New("transaction rejected")
)

// DefaultDeadline is the validity window attached to swap transactions.
const DefaultDeadline = 10 * time.Minute

const receiptPollInterval = 2 * time.Second

// Result reports the transactions produced by one swap execution. FeeTx
// and ApproveTx are zero hashes when those steps were skipped.
type Result struct {
	FeeTx     common.Hash
	ApproveTx common.Hash
	SwapTx    common.Hash
}

// Executor carries out swap requests against the router.
type Executor struct {
	backend  wallet.Backend
	signer   wallet.Signer
	router   *router.Client
	network  chain.Network
	deadline time.Duration
	log      zerolog.Logger
}

// NewExecutor creates an executor. signer may be nil when no wallet is
// connected; Execute then fails fast.
func NewExecutor(backend wallet.Backend, signer wallet.Signer, rc *router.Client, network chain.Network, log zerolog.Logger) *Executor {
	return &Executor{
		backend:  backend,
		signer:   signer,
		router:   rc,
		network:  network,
		deadline: DefaultDeadline,
		log:      log.With().Str("component", "swap").Logger(),
	}
}

// SetDeadline overrides the transaction validity window.
func (e *Executor) SetDeadline(d time.Duration) {
	if d > 0 {
		e.deadline = d
	}
}

// Execute performs the swap described by q with the given slippage
// tolerance (percent). Guard violations fail before any RPC call. The
// cached balances snapshot is the over-spend reference; callers must pass
// the snapshot for the connected account.
//
// Order of on-chain steps: platform fee transfer (abort on failure),
// router approval for non-native input, then the swap itself. Fee and
// swap are separate transactions; a fee paid for a swap that later fails
// is not refunded.
func (e *Executor) Execute(ctx context.Context, q *quote.Quote, slippagePct decimal.Decimal, balances balance.Snapshot) (*Result, error) {
	if e.signer == nil || e.signer.Address() == (common.Address{}) {
		return nil, wallet.ErrNotConnected
	}
	if q.InputAmount == nil || q.InputAmount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	cached := balances.Raw(q.InputToken)
	if q.InputAmount.Cmp(cached) > 0 {
		return nil, fmt.Errorf("%w: have %s %s", ErrInsufficientBalance,
			balances[q.InputToken.Symbol], q.InputToken.Symbol)
	}

	minOut := MinimumAmountOut(q.OutputAmount, slippagePct)
	recipient := e.signer.Address()
	res := &Result{}

	if q.FeeAmount != nil && q.FeeAmount.Sign() > 0 {
		hash, err := e.transferFee(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFeeTransfer, err)
		}
		res.FeeTx = hash
		e.log.Info().Str("tx", hash.Hex()).Msg("platform fee collected")
	}

	if !q.InputToken.IsNative() {
		hash, err := e.ensureAllowance(ctx, q.InputToken.Address, q.SwapAmount)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrApprovalFailed, err)
		}
		if hash != (common.Hash{}) {
			res.ApproveTx = hash
			e.log.Info().Str("tx", hash.Hex()).Msg("router allowance granted")
		}
	}

	deadline := big.NewInt(time.Now().Add(e.deadline).Unix())
	data, value, err := e.swapCalldata(q, minOut, recipient, deadline)
	if err != nil {
		return nil, err
	}

	hash, err := e.sendAndWait(ctx, e.router.Address(), value, data)
	if err != nil {
		return nil, err
	}
	res.SwapTx = hash
	e.log.Info().Str("tx", hash.Hex()).Msg("swap mined")
	return res, nil
}

// MinimumAmountOut applies the slippage tolerance to a quoted output:
// out * (1 - slippage/100), floored to raw units.
func MinimumAmountOut(output *big.Int, slippagePct decimal.Decimal) *big.Int {
	factor := decimal.NewFromInt(1).Sub(slippagePct.Div(decimal.NewFromInt(100)))
	min := decimal.NewFromBigInt(output, 0).Mul(factor)
	return min.BigInt()
}

// transferFee pays the platform fee to the configured recipient: a native
// value transfer when the input is the native currency, otherwise an
// ERC-20 transfer on the input token.
func (e *Executor) transferFee(ctx context.Context, q *quote.Quote) (common.Hash, error) {
	if q.InputToken.IsNative() {
		return e.sendAndWait(ctx, e.network.FeeRecipient, q.FeeAmount, nil)
	}

	data, err := erc20.PackTransfer(e.network.FeeRecipient, q.FeeAmount)
	if err != nil {
		return common.Hash{}, err
	}
	return e.sendAndWait(ctx, q.InputToken.Address, big.NewInt(0), data)
}

// ensureAllowance grants the router an allowance of at least amount,
// skipping the transaction when the current allowance already covers it.
func (e *Executor) ensureAllowance(ctx context.Context, tokenAddr common.Address, amount *big.Int) (common.Hash, error) {
	current, err := erc20.Allowance(ctx, e.backend, tokenAddr, e.signer.Address(), e.router.Address())
	if err != nil {
		return common.Hash{}, err
	}
	if current.Cmp(amount) >= 0 {
		return common.Hash{}, nil
	}

	data, err := erc20.PackApprove(e.router.Address(), amount)
	if err != nil {
		return common.Hash{}, err
	}
	return e.sendAndWait(ctx, tokenAddr, big.NewInt(0), data)
}

// swapCalldata selects the router function by token kinds and returns the
// calldata plus the transaction value (the input amount for native input).
func (e *Executor) swapCalldata(q *quote.Quote, minOut *big.Int, recipient common.Address, deadline *big.Int) ([]byte, *big.Int, error) {
	switch {
	case q.InputToken.IsNative():
		data, err := router.PackSwapNativeForTokens(minOut, q.Path, recipient, deadline)
		return data, q.SwapAmount, err
	case q.OutputToken.IsNative():
		data, err := router.PackSwapTokensForNative(q.SwapAmount, minOut, q.Path, recipient, deadline)
		return data, big.NewInt(0), err
	default:
		data, err := router.PackSwapTokensForTokens(q.SwapAmount, minOut, q.Path, recipient, deadline)
		return data, big.NewInt(0), err
	}
}

// sendAndWait builds, signs and submits a transaction, then blocks until
// it mines or ctx is cancelled. A status-0 receipt is a revert.
func (e *Executor) sendAndWait(ctx context.Context, to common.Address, value *big.Int, data []byte) (common.Hash, error) {
	from := e.signer.Address()

	nonce, err := e.backend.PendingNonceAt(ctx, from)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to get nonce: %w", err)
	}

	gasPrice, err := e.backend.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to get gas price: %w", err)
	}

	gasLimit := uint64(21000)
	if len(data) > 0 {
		msg := ethereum.CallMsg{From: from, To: &to, Value: value, Data: data}
		estimated, err := e.backend.EstimateGas(ctx, msg)
		if err != nil {
			return common.Hash{}, fmt.Errorf("failed to estimate gas: %w", err)
		}
		gasLimit = estimated * 120 / 100
	}

	tx := types.NewTransaction(nonce, to, value, gasLimit, gasPrice, data)
	signed, err := e.signer.SignTx(tx, e.network.ChainID)
	if err != nil {
		return common.Hash{}, fmt.Errorf("%w: %v", ErrTransactionRejected, err)
	}

	if err := e.backend.SendTransaction(ctx, signed); err != nil {
		return common.Hash{}, fmt.Errorf("failed to send transaction: %w", err)
	}

	receipt, err := e.waitMined(ctx, signed.Hash())
	if err != nil {
		return common.Hash{}, err
	}
	if receipt.Status == types.ReceiptStatusFailed {
		return common.Hash{}, fmt.Errorf("%w: tx %s", ErrTransactionReverted, signed.Hash().Hex())
	}
	return signed.Hash(), nil
}

// waitMined polls for the transaction receipt until it appears or ctx is
// cancelled.
func (e *Executor) waitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(receiptPollInterval)
	defer ticker.Stop()

	for {
		receipt, err := e.backend.TransactionReceipt(ctx, hash)
		if err == nil && receipt != nil {
			return receipt, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for tx %s: %w", hash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}
