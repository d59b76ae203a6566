// Package cli implements the finbot command line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/Rajiv714/FinBot/internal/logger"
)

var (
	verbose   bool
	configDir string
)

var rootCmd = &cobra.Command{
	Use:   "finbot",
	Short: "Financial literacy assistant with retrieval-augmented answers",
	Long: `FinBot answers financial literacy questions grounded in your own
document collection. Documents are chunked, embedded and indexed in a
vector database; questions retrieve the most relevant chunks and the
answer is generated from them.`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default ~/.finbot)")
}

// Execute runs the CLI.
func Execute() error {
	defer closeServices()
	return rootCmd.Execute()
}
