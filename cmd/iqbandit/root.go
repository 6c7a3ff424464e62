package main

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "iqbandit",
	Short: "Authenticated reverse proxy for an OpenClaw chat gateway",
	Long: `IQBandit is a thin authenticated proxy in front of an OpenClaw
chat-completion gateway. It enforces per-identity rate limits, forwards
requests in buffered or streaming mode, classifies upstream failures into
stable error codes, and records an audit entry for every completed request.`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "iqbandit.yaml", "path to configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
