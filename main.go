package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"monad-swap/cmd"
)

func main() {
	// Optional; config can also come from the environment or a yaml file.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
