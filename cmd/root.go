package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "monad-swap",
	Short: "A CLI for token swaps on the Monad testnet",
	Long: `monad-swap is a command-line tool for swapping tokens on the Monad
testnet through the on-chain swap router. It reads balances, computes
indicative quotes (net of the platform fee) and submits swap transactions.

Examples:
  monad-swap balance
  monad-swap quote 1 MON to USDC
  monad-swap swap 1 MON to USDC
  monad-swap list-tokens
  monad-swap status <tx-hash>`,
	Version: "0.1.0",
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
}

// newLogger builds the CLI logger. Verbose enables debug level; otherwise
// only warnings and errors reach the console.
func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func printError(err error) {
	fmt.Println()
	color.Red("Error: %v", err)
	fmt.Println()
}

func printSuccess(message string) {
	fmt.Println()
	color.Green(message)
	fmt.Println()
}
