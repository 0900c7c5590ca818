// Package cli implements the pairlens command line: downloading article
// pairs, running extraction and regenerating derived artifacts without the
// server.
package cli

import (
	"pairlens/internal/artifact"
	"pairlens/internal/util"
	"pairlens/pkg/logger"
	"pairlens/pkg/logger/console"

	"github.com/spf13/cobra"
)

var (
	verbose bool
	dataDir string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pairlens",
	Short: "Compare Grokipedia and Wikipedia articles on the same topic",
	Long: `Pairlens downloads a Grokipedia/Wikipedia article pair, extracts
entities, relations, claims and sentiment from each side with a language
model, and derives per-source knowledge graphs plus overlap, similarity
and projection artifacts for inspection.

Artifacts live as plain JSON under the data directory and can always be
regenerated from the extraction.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		util.LoadEnv()
		debug := verbose || util.GetEnvBool("DEBUG", false)
		logger.Init(console.NewConsoleLogger(console.ConsoleLoggerParams{
			Debug: debug,
		}))
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default: DATA_DIR env or ./data)")
}

// newStore opens the artifact store at the configured data directory.
func newStore() *artifact.Store {
	dir := dataDir
	if dir == "" {
		dir = util.GetEnvString("DATA_DIR", "data")
	}
	return artifact.NewStore(dir)
}
