package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"pairlens/internal/aiclient"
	"pairlens/internal/util"
	"pairlens/pkg/extract"

	"github.com/spf13/cobra"
)

var (
	extractModel     string
	extractMaxTokens int
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <topic>",
	Short: "Run model extraction over a downloaded article pair",
	Long: `Extract prompts the configured model with both articles of a topic
and writes the extraction artifact (analysis.json): entities, relations,
claims and sentiment per source, plus cross-source overlap and embedding
similarity metrics.

Example:
  pairlens extract COVID-19_lab_leak_theory --max-tokens 8000`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVar(&extractModel, "model", "", "extraction model (default: AI_EXTRACT_MODEL env)")
	extractCmd.Flags().IntVar(&extractMaxTokens, "max-tokens", 6000, "token budget per article, 0 disables truncation")
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := aiclient.FromEnv()
	if err != nil {
		return err
	}

	model := extractModel
	if model == "" {
		model = util.GetEnv("AI_EXTRACT_MODEL")
	}

	runner := extract.NewRunner(extract.NewRunnerParams{
		Store:     newStore(),
		Client:    client,
		Model:     model,
		MaxTokens: extractMaxTokens,
	})

	_, err = runner.Run(ctx, args[0])
	return err
}
