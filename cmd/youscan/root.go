package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/QuentinLoader/youscan-bank-statement-csv-ui-backend/internal/api"
)

var rootCmd = &cobra.Command{
	Use:   "youscan",
	Short: "Bank statement to CSV conversion backend",
	Long: `youscan converts bank statement PDFs into reconciled CSV transaction
lists. Supported institutions: Capitec, FNB, ABSA, Standard Bank and
Nedbank; unrecognized statements fall back to a generic layout parser.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("youscan v%s\n", api.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(serveCmd)
}
