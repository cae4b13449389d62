package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cadastroctl",
	Short: "Projeto Canaã registration service",
	Long: `Run and manage the Projeto Canaã social-assistance registration service.

The server accepts registrations, issues protocol numbers and lookup codes,
and stores the uploaded supporting documents.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
