package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"monad-swap/pkg/parser"
	"monad-swap/pkg/quote"
	"monad-swap/pkg/swap"
	"monad-swap/pkg/token"
)

var (
	slippageFlag float64
	noConfirm    bool
)

var swapCmd = &cobra.Command{
	Use:   "swap <amount> <source-token> to <dest-token>",
	Short: "Swap tokens through the on-chain router",
	Long: `Swap tokens on the Monad testnet through the swap router.

The quote is computed net of the platform fee, re-validated immediately
before submission, and executed with the configured slippage tolerance.

Examples:
  monad-swap swap 1 MON to USDC
  monad-swap swap 0.5 USDC to WMON --slippage 1.0
  monad-swap swap 1 MON to USDC --yes`,
	Args: cobra.MinimumNArgs(1),
	Run:  runSwap,
}

func init() {
	rootCmd.AddCommand(swapCmd)

	swapCmd.Flags().Float64Var(&slippageFlag, "slippage", 0, "Slippage tolerance percent (default from config)")
	swapCmd.Flags().BoolVarP(&noConfirm, "yes", "y", false, "Skip confirmation prompt")
}

func runSwap(cmd *cobra.Command, args []string) {
	input, err := parser.ParseSwapCommand(strings.Join(args, " "))
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	if err := input.Validate(); err != nil {
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

	slippage := decimal.NewFromFloat(a.cfg.SlippagePercent)
	if cmd.Flags().Changed("slippage") {
		slippage = decimal.NewFromFloat(slippageFlag)
	}

	// Balances first: the over-spend guard runs against this snapshot.
	addr, _ := a.session.Address()
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Reading balances..."
		s.Start()
	}
	balances := a.reader.Fetch(ctx, addr)

	if !jsonOutput {
		s.Suffix = " Fetching quote..."
	}
	q, err := a.calc.Quote(ctx, from, to, input.Amount)
	if !jsonOutput {
		s.Stop()
	}
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if !jsonOutput {
		displayQuote(q, slippage)
		if !noConfirm && !confirmSwap() {
			fmt.Println("\nSwap cancelled.")
			os.Exit(0)
		}
	}

	// Re-quote right before submission so a stale quote is never executed.
	if !jsonOutput {
		s.Suffix = " Submitting swap..."
		s.Start()
	}
	q, err = a.calc.Quote(ctx, from, to, input.Amount)
	if err != nil {
		if !jsonOutput {
			s.Stop()
		}
		printError(err)
		os.Exit(1)
	}

	executor := swap.NewExecutor(a.provider.Client(), a.provider.Signer(), a.router, a.network, log)
	executor.SetDeadline(time.Duration(a.cfg.DeadlineMinutes) * time.Minute)

	result, err := executor.Execute(ctx, q, slippage, balances)
	if !jsonOutput {
		s.Stop()
	}
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	// Refresh so displayed balances reflect the executed swap.
	balances = a.reader.Fetch(ctx, addr)

	if jsonOutput {
		output := map[string]interface{}{
			"swap_tx":     result.SwapTx.Hex(),
			"from":        from.Symbol,
			"to":          to.Symbol,
			"amount_in":   q.InputFormatted(),
			"amount_out":  q.OutputFormatted(),
			"fee":         q.FeeFormatted(),
			"explorer":    a.network.TxURL(result.SwapTx),
			"balances":    balances,
		}
		if result.FeeTx != (common.Hash{}) {
			output["fee_tx"] = result.FeeTx.Hex()
		}
		jsonData, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	color.Green("\n✓ Swap complete!")
	fmt.Printf("  Transaction: %s\n", color.CyanString(result.SwapTx.Hex()))
	fmt.Printf("  Explorer:    %s\n", a.network.TxURL(result.SwapTx))
	fmt.Printf("\n  %s balance: %s\n", from.Symbol, balances[from.Symbol])
	fmt.Printf("  %s balance: %s\n", to.Symbol, balances[to.Symbol])
}

func displayQuote(q *quote.Quote, slippage decimal.Decimal) {
	minOut := swap.MinimumAmountOut(q.OutputAmount, slippage)

	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                     SWAP QUOTE")
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\n  From:          %s %s\n", q.InputFormatted(), color.YellowString(q.InputToken.Symbol))
	fmt.Printf("  To:            ~%s %s\n", q.OutputFormatted(), color.YellowString(q.OutputToken.Symbol))
	fmt.Printf("  Rate:          1 %s = %s %s\n", q.InputToken.Symbol, q.Rate.StringFixed(6), q.OutputToken.Symbol)
	fmt.Printf("  Platform fee:  %s %s\n", q.FeeFormatted(), q.InputToken.Symbol)
	fmt.Printf("  Price impact:  %s%%\n", q.PriceImpact.StringFixed(2))
	fmt.Printf("  Slippage:      %s%%\n", slippage.StringFixed(2))
	fmt.Printf("  Minimum out:   %s (raw units)\n", minOut.String())

	fmt.Println("\n" + strings.Repeat("=", 60) + "\n")
}

func confirmSwap() bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print("\nProceed with swap? (y/N): ")

	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
