package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	configPath string
}

var rootCmd = &cobra.Command{
	Use:   "legality",
	Short: "Verify creature records against encounter, PRNG, evolution and move rules",
	Long: "legality explains how a record could have been obtained and flags every\n" +
		"property no legitimate encounter accounts for.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFlags.configPath, "config", "", "YAML config file (LEGALITY_* env vars override it)")

	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(verdictsCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
