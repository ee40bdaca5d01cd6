// Package main provides the entry point for the recruitment backend HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "recruta",
	Short: "Recruitment backend HTTP API server",
	Long:  "Recruta exposes a REST API where job postings are created through a conversation with an AI assistant, refined by hand and taken through their lifecycle.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
