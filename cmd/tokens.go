package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"monad-swap/pkg/token"
)

var filterSymbol string

var tokensCmd = &cobra.Command{
	Use:     "list-tokens",
	Aliases: []string{"tokens", "ls"},
	Short:   "List the supported tokens",
	Long: `List the tokens available for swapping on the Monad testnet.

Examples:
  monad-swap list-tokens
  monad-swap list-tokens --symbol USDC`,
	Run: runListTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)

	tokensCmd.Flags().StringVar(&filterSymbol, "symbol", "", "Filter by token symbol")
}

func runListTokens(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	tokens := token.DefaultList()
	if filterSymbol != "" {
		var filtered []token.Token
		for _, t := range tokens {
			if strings.EqualFold(t.Symbol, filterSymbol) {
				filtered = append(filtered, t)
			}
		}
		tokens = filtered
	}

	if jsonOutput {
		type entry struct {
			Symbol   string `json:"symbol"`
			Name     string `json:"name"`
			Address  string `json:"address,omitempty"`
			Decimals uint8  `json:"decimals"`
			Native   bool   `json:"native"`
		}
		entries := make([]entry, 0, len(tokens))
		for _, t := range tokens {
			e := entry{Symbol: t.Symbol, Name: t.Name, Decimals: t.Decimals, Native: t.IsNative()}
			if !t.IsNative() {
				e.Address = t.Address.Hex()
			}
			entries = append(entries, e)
		}
		jsonData, _ := json.MarshalIndent(entries, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 72))
	color.Green("  SUPPORTED TOKENS")
	fmt.Println(strings.Repeat("=", 72))
	for _, t := range tokens {
		addr := "(native currency)"
		if !t.IsNative() {
			addr = t.Address.Hex()
		}
		fmt.Printf("  %-6s %-16s %-10d %s\n", color.YellowString(t.Symbol), t.Name, t.Decimals, addr)
	}
	fmt.Println(strings.Repeat("=", 72) + "\n")
}
