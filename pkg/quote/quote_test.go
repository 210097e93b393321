package quote

import (
	"context"
	"encoding/hex"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"monad-swap/pkg/chain"
	"monad-swap/pkg/router"
	"monad-swap/pkg/token"
)

var (
	pairAddr = common.HexToAddress("0x5555555555555555555555555555555555555555")
)

// routerBackend simulates the router, factory and pair contracts. It
// records the getAmountsOut request and serves configured responses.
type routerBackend struct {
	network chain.Network

	// amountsOut is returned as the final path element; the first element
	// echoes the requested amountIn.
	amountsOut *big.Int
	quoteErr   error

	// pair reserves, in path order. Nil reserves mean no pair exists.
	reserveIn  *big.Int
	reserveOut *big.Int

	lastAmountIn *big.Int
	lastPath     []common.Address
}

func (m *routerBackend) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	selector := hex.EncodeToString(msg.Data[:4])

	switch *msg.To {
	case m.network.Router:
		if m.quoteErr != nil {
			return nil, m.quoteErr
		}
		method := router.ABI().Methods["getAmountsOut"]
		args, err := method.Inputs.Unpack(msg.Data[4:])
		if err != nil {
			return nil, err
		}
		m.lastAmountIn = args[0].(*big.Int)
		m.lastPath = args[1].([]common.Address)
		return method.Outputs.Pack([]*big.Int{m.lastAmountIn, m.amountsOut})

	case m.network.Factory:
		method := router.FactoryABI().Methods["getPair"]
		if m.reserveIn == nil {
			return method.Outputs.Pack(common.Address{})
		}
		return method.Outputs.Pack(pairAddr)

	case pairAddr:
		if selector == hex.EncodeToString(router.PairABI().Methods["token0"].ID) {
			return router.PairABI().Methods["token0"].Outputs.Pack(m.lastPath[0])
		}
		method := router.PairABI().Methods["getReserves"]
		return method.Outputs.Pack(m.reserveIn, m.reserveOut, uint32(0))
	}

	return nil, errors.New("unexpected contract call")
}

func (m *routerBackend) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	return nil, errors.New("not implemented")
}

func (m *routerBackend) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	return 0, errors.New("not implemented")
}

func (m *routerBackend) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return nil, errors.New("not implemented")
}

func (m *routerBackend) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	return 0, errors.New("not implemented")
}

func (m *routerBackend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	return errors.New("not implemented")
}

func (m *routerBackend) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	return nil, errors.New("not implemented")
}

func testCalculator(backend *routerBackend) *Calculator {
	network := backend.network
	rc := router.NewClient(backend, network.Router, network.Factory)
	return NewCalculator(rc, network, zerolog.Nop())
}

func mon() token.Token {
	return token.Token{Kind: token.Native, Symbol: "MON", Name: "Monad", Decimals: 18}
}

func usdc() token.Token {
	return token.Token{
		Kind:     token.Contract,
		Symbol:   "USDC",
		Address:  common.HexToAddress("0xf817257fed379853cDe0fa4F97AB987181B1E5Ea"),
		Decimals: 6,
	}
}

func wethLike() token.Token {
	return token.Token{
		Kind:     token.Contract,
		Symbol:   "WETH",
		Address:  common.HexToAddress("0xB5a30b0FDc5EA94A52fDc42e3E9760Cb8449Fb37"),
		Decimals: 18,
	}
}

func TestQuoteSkimsFeeBeforeRouting(t *testing.T) {
	network := chain.MonadTestnet() // 1% fee
	backend := &routerBackend{network: network, amountsOut: big.NewInt(3e18)}
	calc := testCalculator(backend)

	q, err := calc.Quote(context.Background(), mon(), wethLike(), "2")
	require.NoError(t, err)

	// fee = 2 * 1% = 0.02; the router sees 1.98.
	assert.Equal(t, "1980000000000000000", backend.lastAmountIn.String())
	assert.Equal(t, "20000000000000000", q.FeeAmount.String())
	assert.Equal(t, "0.0200", q.FeeFormatted())
	assert.Equal(t, "3.0000", q.OutputFormatted())
	assert.Equal(t, "2000000000000000000", q.InputAmount.String())
}

func TestQuotePathNeverContainsNative(t *testing.T) {
	network := chain.MonadTestnet()
	backend := &routerBackend{network: network, amountsOut: big.NewInt(5e6)}
	calc := testCalculator(backend)

	q, err := calc.Quote(context.Background(), mon(), usdc(), "1")
	require.NoError(t, err)

	require.Len(t, q.Path, 2)
	assert.Equal(t, network.WrappedNative, q.Path[0], "native leg substituted with wrapped token")
	assert.Equal(t, usdc().Address, q.Path[1])
	for _, hop := range backend.lastPath {
		assert.NotEqual(t, common.Address{}, hop)
	}
}

func TestQuoteRejectsNonPositiveAmounts(t *testing.T) {
	backend := &routerBackend{network: chain.MonadTestnet(), amountsOut: big.NewInt(1)}
	calc := testCalculator(backend)

	for _, amountIn := range []string{"0", "-1", "abc", ""} {
		_, err := calc.Quote(context.Background(), mon(), usdc(), amountIn)
		assert.ErrorIs(t, err, ErrInvalidAmount, "amount %q", amountIn)
	}
	assert.Nil(t, backend.lastAmountIn, "no router call for invalid input")
}

func TestQuoteRejectsSameAsset(t *testing.T) {
	backend := &routerBackend{network: chain.MonadTestnet(), amountsOut: big.NewInt(1)}
	calc := testCalculator(backend)

	// MON and WMON collapse to the same path address.
	wmon := token.Token{
		Kind:     token.Contract,
		Symbol:   "WMON",
		Address:  chain.MonadTestnet().WrappedNative,
		Decimals: 18,
	}
	_, err := calc.Quote(context.Background(), mon(), wmon, "1")
	assert.ErrorIs(t, err, ErrSameToken)
}

func TestQuoteRouterRevertIsUnavailable(t *testing.T) {
	backend := &routerBackend{
		network:  chain.MonadTestnet(),
		quoteErr: errors.New("execution reverted"),
	}
	calc := testCalculator(backend)

	_, err := calc.Quote(context.Background(), mon(), usdc(), "1")
	assert.ErrorIs(t, err, ErrQuoteUnavailable)
}

func TestQuotePriceImpactFromReserves(t *testing.T) {
	network := chain.MonadTestnet()
	backend := &routerBackend{
		network:    network,
		amountsOut: big.NewInt(3e18),
		reserveIn:  new(big.Int).Mul(big.NewInt(100), big.NewInt(1e18)),
		reserveOut: new(big.Int).Mul(big.NewInt(200), big.NewInt(1e18)),
	}
	calc := testCalculator(backend)

	q, err := calc.Quote(context.Background(), mon(), wethLike(), "2")
	require.NoError(t, err)

	// ideal = 1.98 * 200/100 = 3.96; impact = (3.96-3)/3.96 ≈ 24.24%.
	assert.Equal(t, "24.24", q.PriceImpact.StringFixed(2))
}

func TestQuoteZeroImpactWithoutPair(t *testing.T) {
	backend := &routerBackend{network: chain.MonadTestnet(), amountsOut: big.NewInt(3e18)}
	calc := testCalculator(backend)

	q, err := calc.Quote(context.Background(), mon(), wethLike(), "2")
	require.NoError(t, err)
	assert.True(t, q.PriceImpact.IsZero())
}

func TestQuoteNoFeeWhenDisabled(t *testing.T) {
	network := chain.MonadTestnet()
	network.FeeBps = 0
	backend := &routerBackend{network: network, amountsOut: big.NewInt(3e18)}
	calc := testCalculator(backend)

	q, err := calc.Quote(context.Background(), mon(), wethLike(), "2")
	require.NoError(t, err)

	assert.Equal(t, int64(0), q.FeeAmount.Int64())
	assert.Equal(t, "2000000000000000000", backend.lastAmountIn.String())
	assert.Equal(t, q.InputAmount.String(), q.SwapAmount.String())
}
