package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "txdecoder-utils",
	Short: "Transaction decoder utilities",
	Long:  "Offline calldata and event decoding, database migration and api token generation for the transaction decoder",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
