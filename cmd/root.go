package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	httpcmd "github.com/Alijeyrad/transfers_backend/cmd/http"
	jobscmd "github.com/Alijeyrad/transfers_backend/cmd/jobs"
	systemcmd "github.com/Alijeyrad/transfers_backend/cmd/system"
)

var (
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "transfers",
	Short: "Transfers booking backend: quotes, bookings and partner commissions.",
	Long: `Transfers is the backend of an airport and private transfer booking service.
It prices trips, runs the booking lifecycle from intake to completion, and
settles partner commissions every night.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global config flag, available for all commands.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")

	// Attach top-level command trees.
	rootCmd.AddCommand(systemcmd.NewSystemCommand())
	rootCmd.AddCommand(httpcmd.NewHTTPCommand())
	rootCmd.AddCommand(jobscmd.NewJobsCommand())
}
