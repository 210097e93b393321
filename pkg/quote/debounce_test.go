package quote

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"monad-swap/pkg/chain"
)

func TestDebouncerDeliversOnlyLatestSubmission(t *testing.T) {
	backend := &routerBackend{network: chain.MonadTestnet(), amountsOut: big.NewInt(3e18)}
	deb := NewDebouncer(testCalculator(backend), 20*time.Millisecond)

	ctx := context.Background()
	// Rapid input changes: only the last amount should ever be quoted.
	deb.Submit(ctx, Request{In: mon(), Out: wethLike(), Amount: "1"})
	deb.Submit(ctx, Request{In: mon(), Out: wethLike(), Amount: "5"})
	deb.Submit(ctx, Request{In: mon(), Out: wethLike(), Amount: "2"})

	select {
	case res := <-deb.Results():
		require.NoError(t, res.Err)
		assert.Equal(t, deb.Seq(), res.Seq)
		assert.Equal(t, "2000000000000000000", res.Quote.InputAmount.String())
	case <-time.After(2 * time.Second):
		t.Fatal("no quote delivered")
	}

	// Nothing further: earlier submissions were superseded.
	select {
	case res := <-deb.Results():
		t.Fatalf("unexpected extra result for seq %d", res.Seq)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDebouncerStaleQuoteNeverUsable(t *testing.T) {
	backend := &routerBackend{network: chain.MonadTestnet(), amountsOut: big.NewInt(3e18)}
	deb := NewDebouncer(testCalculator(backend), 10*time.Millisecond)

	ctx := context.Background()
	deb.Submit(ctx, Request{In: mon(), Out: wethLike(), Amount: "1"})

	var first Result
	select {
	case first = <-deb.Results():
	case <-time.After(2 * time.Second):
		t.Fatal("no quote delivered")
	}

	// New input after delivery: the earlier result's seq is now stale and
	// must not be submitted.
	deb.Submit(ctx, Request{In: mon(), Out: wethLike(), Amount: "7"})
	assert.NotEqual(t, deb.Seq(), first.Seq)
}

func TestDebouncerReportsErrors(t *testing.T) {
	backend := &routerBackend{network: chain.MonadTestnet(), amountsOut: big.NewInt(1)}
	deb := NewDebouncer(testCalculator(backend), 10*time.Millisecond)

	deb.Submit(context.Background(), Request{In: mon(), Out: wethLike(), Amount: "not-a-number"})

	select {
	case res := <-deb.Results():
		assert.ErrorIs(t, res.Err, ErrInvalidAmount)
	case <-time.After(2 * time.Second):
		t.Fatal("no result delivered")
	}
}
