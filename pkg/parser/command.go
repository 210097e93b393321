// Package parser turns word-grammar swap commands into structured input.
package parser

import (
	"fmt"
	"regexp"
	"strings"
)

// SwapInput is the parsed form of a swap command.
type SwapInput struct {
	Amount     string
	FromSymbol string
	ToSymbol   string
}

var swapPattern = regexp.MustCompile(`^(\d+\.?\d*)\s+([A-Z0-9]+)\s+TO\s+([A-Z0-9]+)$`)

// ParseSwapCommand parses a swap command of the form
// "<amount> <token> to <token>".
// Examples:
//   - "swap 1 MON to USDC"
//   - "0.5 WMON to USDT"
func ParseSwapCommand(command string) (*SwapInput, error) {
	command = strings.TrimSpace(strings.ToUpper(command))
	command = strings.TrimPrefix(command, "SWAP ")

	matches := swapPattern.FindStringSubmatch(command)
	if matches == nil {
		return nil, fmt.Errorf("invalid swap command format. Expected: 'swap <amount> <token> to <token>' (e.g., 'swap 1 MON to USDC')")
	}

	return &SwapInput{
		Amount:     matches[1],
		FromSymbol: matches[2],
		ToSymbol:   matches[3],
	}, nil
}

// Validate checks that a swap input has all required fields and distinct
// tokens.
func (in *SwapInput) Validate() error {
	if in.Amount == "" {
		return fmt.Errorf("amount is required")
	}
	if in.FromSymbol == "" {
		return fmt.Errorf("source token is required")
	}
	if in.ToSymbol == "" {
		return fmt.Errorf("destination token is required")
	}
	if strings.EqualFold(in.FromSymbol, in.ToSymbol) {
		return fmt.Errorf("source and destination token must differ")
	}
	return nil
}
