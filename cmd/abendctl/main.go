package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "abendctl",
	Short: "Operator tools for the abend assistant",
	Long: `abendctl loads reference data, seeds security users, mints admin
tokens and talks to a running server from the terminal.`,
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(importCmd, usersCmd, tokenCmd, refreshCmd, chatCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
