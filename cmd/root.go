package cmd

import (
	"os"

	"github.com/BioHazard786/peerlink/internal/ui"
	"github.com/BioHazard786/peerlink/internal/version"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "peerlink",
	Short:   "Signaling relay for browser-to-browser video rooms",
	Long:    `peerlink lets browsers host short-lived rooms protected by a join key, discover each other and exchange WebRTC offers, answers and ICE candidates. Media never passes through the relay.`,
	Version: version.Version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}
}
