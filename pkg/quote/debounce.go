package quote

import (
	"context"
	"sync"
	"time"

	"monad-swap/pkg/token"
)

// DefaultDebounce is the settle delay before a submitted request is priced.
const DefaultDebounce = 500 * time.Millisecond

// Request is one set of quote inputs.
type Request struct {
	In     token.Token
	Out    token.Token
	Amount string
}

// Result carries a debounced quote. Seq identifies which submission
// produced it; only the latest submission ever reaches the channel.
type Result struct {
	Seq   uint64
	Quote *Quote
	Err   error
}

// Debouncer recomputes quotes as inputs change, waiting for input to
// settle and dropping any quote whose inputs were superseded while it was
// in flight. This closes the stale-quote race: a slow early response can
// never overwrite a quote for newer inputs.
type Debouncer struct {
	calc    *Calculator
	delay   time.Duration
	results chan Result

	mu    sync.Mutex
	seq   uint64
	timer *time.Timer
}

// NewDebouncer creates a debouncer over the calculator. A delay of zero
// uses DefaultDebounce.
func NewDebouncer(calc *Calculator, delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{
		calc:    calc,
		delay:   delay,
		results: make(chan Result, 1),
	}
}

// Submit registers new inputs, cancelling any pending computation. The
// quote runs after the settle delay and is delivered on Results unless a
// newer submission has arrived by then.
func (d *Debouncer) Submit(ctx context.Context, req Request) {
	d.mu.Lock()
	d.seq++
	seq := d.seq
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() {
		d.run(ctx, seq, req)
	})
	d.mu.Unlock()
}

func (d *Debouncer) run(ctx context.Context, seq uint64, req Request) {
	if d.stale(seq) {
		return
	}
	q, err := d.calc.Quote(ctx, req.In, req.Out, req.Amount)

	d.mu.Lock()
	defer d.mu.Unlock()
	if seq != d.seq {
		// Inputs changed while the quote was in flight; drop it.
		return
	}

	// Replace any undelivered result so the channel always holds the latest.
	select {
	case <-d.results:
	default:
	}
	d.results <- Result{Seq: seq, Quote: q, Err: err}
}

func (d *Debouncer) stale(seq uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return seq != d.seq
}

// Results streams the latest settled quote per input change.
func (d *Debouncer) Results() <-chan Result {
	return d.results
}

// Seq returns the latest submission number. A quote whose Seq is older
// must not be used for submission.
func (d *Debouncer) Seq() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.seq
}
