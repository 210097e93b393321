package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"monad-swap/pkg/parser"
	"monad-swap/pkg/quote"
	"monad-swap/pkg/token"
)

var followQuote bool

var quoteCmd = &cobra.Command{
	Use:   "quote <amount> <source-token> to <dest-token>",
	Short: "Get an indicative swap quote",
	Long: `Compute an indicative quote through the on-chain router, net of the
platform fee, without submitting anything.

With --follow, amounts are read line by line from stdin and re-quoted
after input settles; superseded quotes are dropped.

Examples:
  monad-swap quote 1 MON to USDC
  monad-swap quote 1 MON to USDC --follow`,
	Args: cobra.MinimumNArgs(1),
	Run:  runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)

	quoteCmd.Flags().BoolVar(&followQuote, "follow", false, "Re-quote amounts streamed on stdin")
}

func runQuote(cmd *cobra.Command, args []string) {
	input, err := parser.ParseSwapCommand(strings.Join(args, " "))
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	ctx := cmd.Context()
	log := newLogger(verbose)

	a, err := newApp(ctx, log)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer a.Close()

	from, err := token.Find(a.tokens, input.FromSymbol)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	to, err := token.Find(a.tokens, input.ToSymbol)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if followQuote {
		followQuotes(cmd, a, from, to, input.Amount)
		return
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Fetching quote..."
		s.Start()
	}
	q, err := a.calc.Quote(ctx, from, to, input.Amount)
	if !jsonOutput {
		s.Stop()
	}
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		printQuoteJSON(q)
		return
	}
	displayQuote(q, decimal.NewFromFloat(a.cfg.SlippagePercent))
}

// followQuotes re-quotes amounts typed on stdin through the debouncer,
// mirroring recompute-on-keystroke behavior.
func followQuotes(cmd *cobra.Command, a *app, from, to token.Token, initial string) {
	ctx := cmd.Context()

	// Long-running mode: track endpoint chain changes so a session on a
	// foreign chain is dropped instead of quoting against it.
	a.provider.StartPolling(ctx)
	go a.session.Watch(ctx)

	deb := quote.NewDebouncer(a.calc, a.cfg.QuoteDebounce)

	go func() {
		for res := range deb.Results() {
			if res.Err != nil {
				printError(res.Err)
				continue
			}
			q := res.Quote
			color.Cyan("%s %s → %s %s  (fee %s, impact %s%%)",
				q.InputFormatted(), q.InputToken.Symbol,
				q.OutputFormatted(), q.OutputToken.Symbol,
				q.FeeFormatted(), q.PriceImpact.StringFixed(2))
		}
	}()

	deb.Submit(ctx, quote.Request{In: from, Out: to, Amount: initial})

	fmt.Printf("Enter amounts (%s to %s), one per line. Ctrl-D to quit.\n", from.Symbol, to.Symbol)
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		amountIn := strings.TrimSpace(scanner.Text())
		if amountIn == "" {
			continue
		}
		deb.Submit(ctx, quote.Request{In: from, Out: to, Amount: amountIn})
	}
}

func printQuoteJSON(q *quote.Quote) {
	output := map[string]interface{}{
		"input_token":  q.InputToken.Symbol,
		"output_token": q.OutputToken.Symbol,
		"amount_in":    q.InputFormatted(),
		"amount_out":   q.OutputFormatted(),
		"fee":          q.FeeFormatted(),
		"rate":         q.Rate.String(),
		"price_impact": q.PriceImpact.StringFixed(4),
	}
	jsonData, _ := json.MarshalIndent(output, "", "  ")
	fmt.Println(string(jsonData))
}
