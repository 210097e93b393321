package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:     "balance",
	Aliases: []string{"balances"},
	Short:   "Show token balances for the configured wallet",
	Long: `Read the native and token balances of the configured wallet on the
Monad testnet. A token whose balance cannot be read shows as zero.

Examples:
  monad-swap balance
  monad-swap balance --json`,
	Run: runBalance,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func runBalance(cmd *cobra.Command, args []string) {
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

	addr, _ := a.session.Address()

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Reading balances..."
		s.Start()
	}
	balances := a.reader.Fetch(ctx, addr)
	if !jsonOutput {
		s.Stop()
	}

	if jsonOutput {
		output := map[string]interface{}{
			"address":  addr.Hex(),
			"network":  a.network.Name,
			"balances": balances,
		}
		jsonData, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 48))
	color.Green("  %s", a.network.Name)
	fmt.Printf("  %s\n", color.CyanString(addr.Hex()))
	fmt.Println(strings.Repeat("=", 48))
	for _, t := range a.tokens {
		fmt.Printf("  %-6s %s\n", t.Symbol, balances[t.Symbol])
	}
	fmt.Println(strings.Repeat("=", 48) + "\n")
}
