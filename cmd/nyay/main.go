package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/vikas872/nyay-sathi-clean/internal/cli"
)

func main() {
	// Local development keeps secrets in .env; deployments use real
	// environment variables.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
