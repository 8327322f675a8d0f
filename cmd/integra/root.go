package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"integra/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	logLevel  string
	logFormat string
}

var rootCmd = &cobra.Command{
	Use:   "integra",
	Short: "Integrated-information (Φ) measurement for discrete and quantum-derived systems",
	Long: "Integra computes integrated information over system descriptions\n" +
		"produced by simulation layers: exact or sampled partition search,\n" +
		"structural approximations, and mechanism-level concept analysis.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(logging.ParseLevel(rootFlags.logLevel), rootFlags.logFormat)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	pf.StringVar(&rootFlags.logFormat, "log-format", "text", "Log format (text, json)")

	rootCmd.AddCommand(computeCmd)
	rootCmd.AddCommand(conceptsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// historyPath returns the default on-disk location of the run history.
func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		slog.Warn("cannot resolve home directory, using working directory", "error", err)
		home = "."
	}
	return home + "/.integra/history.db"
}
