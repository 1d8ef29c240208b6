package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any
// subcommands.
var rootCmd = &cobra.Command{
	Use:   "pciepctl",
	Short: "Pciepctl drives the PCIe endpoint register protocol against a device model.",
	Long: `Pciepctl drives the PCIe endpoint register protocol against an ` +
		`in-process device model. It can query the control parameters the ` +
		`host publishes, run bulk read and write transfers through the ` +
		`buffer-exchange handshake, and serve a monitoring API.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		// Optional; flags and defaults cover everything the .env can set.
		_ = godotenv.Load()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
