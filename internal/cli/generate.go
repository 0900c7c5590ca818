package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"pairlens/internal/aiclient"
	"pairlens/pkg/graph"

	"github.com/spf13/cobra"
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate <topic>",
	Short: "Rebuild graph artifacts from a stored extraction",
	Long: `Generate derives both per-source graphs, the structural comparison
and the shared 2D projection from a topic's extraction artifact. Safe to
re-run at any time; the extraction itself is not touched.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := aiclient.FromEnv()
	if err != nil {
		return err
	}

	generator := graph.NewGenerator(graph.NewGeneratorParams{
		Store:    newStore(),
		Embedder: client,
	})
	return generator.Generate(ctx, args[0])
}
