package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	watchStatus   bool
	watchInterval int
)

var statusCmd = &cobra.Command{
	Use:   "status <tx-hash>",
	Short: "Check the status of a submitted transaction",
	Long: `Check the mining status of a transaction by its hash.

Examples:
  monad-swap status 0x1234...abcd
  monad-swap status 0x1234...abcd --watch
  monad-swap status 0x1234...abcd --watch --interval 10`,
	Args: cobra.ExactArgs(1),
	Run:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVarP(&watchStatus, "watch", "w", false, "Watch status updates continuously")
	statusCmd.Flags().IntVar(&watchInterval, "interval", 5, "Polling interval in seconds (when watching)")
}

func runStatus(cmd *cobra.Command, args []string) {
	txHash := common.HexToHash(args[0])
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

	if watchStatus {
		for {
			done := checkTxStatus(ctx, a, txHash, jsonOutput)
			if done {
				return
			}
			time.Sleep(time.Duration(watchInterval) * time.Second)
		}
	}
	checkTxStatus(ctx, a, txHash, jsonOutput)
}

// checkTxStatus prints the transaction state; returns true once mined.
func checkTxStatus(ctx context.Context, a *app, txHash common.Hash, jsonOutput bool) bool {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Checking transaction..."
		s.Start()
	}

	client := a.provider.Client()
	tx, isPending, err := client.TransactionByHash(ctx, txHash)
	var receipt *types.Receipt
	if err == nil && !isPending {
		receipt, err = client.TransactionReceipt(ctx, txHash)
	}

	if !jsonOutput {
		s.Stop()
	}
	if err != nil {
		printError(fmt.Errorf("transaction %s not found: %w", txHash.Hex(), err))
		os.Exit(1)
	}

	if jsonOutput {
		output := map[string]interface{}{
			"hash":    tx.Hash().Hex(),
			"nonce":   tx.Nonce(),
			"value":   tx.Value().String(),
			"pending": isPending,
		}
		if tx.To() != nil {
			output["to"] = tx.To().Hex()
		}
		if receipt != nil {
			output["block_number"] = receipt.BlockNumber.Uint64()
			output["gas_used"] = receipt.GasUsed
			output["status"] = receipt.Status
		}
		jsonData, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonData))
		return !isPending
	}

	if isPending {
		color.Yellow("\n⧗ Pending: %s\n", tx.Hash().Hex())
		return false
	}

	if receipt.Status == types.ReceiptStatusSuccessful {
		color.Green("\n✓ Mined in block %d", receipt.BlockNumber.Uint64())
	} else {
		color.Red("\n✗ Reverted in block %d", receipt.BlockNumber.Uint64())
	}
	fmt.Printf("  Gas used:  %d\n", receipt.GasUsed)
	fmt.Printf("  Explorer:  %s\n\n", a.network.TxURL(txHash))
	return true
}
