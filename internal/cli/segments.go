package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"pairlens/pkg/segment"

	"github.com/spf13/cobra"
)

// segmentsCmd represents the segments command
var segmentsCmd = &cobra.Command{
	Use:   "segments <topic>",
	Short: "Generate paragraph segments with entity highlights",
	Long: `Segments splits both raw articles into paragraphs and locates each
extracted entity's surface forms inside them, producing the reading-view
artifact (segments.json). Requires a prior extraction run.`,
	Args: cobra.ExactArgs(1),
	RunE: runSegments,
}

func init() {
	rootCmd.AddCommand(segmentsCmd)
}

func runSegments(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err := segment.NewGenerator(newStore()).Generate(ctx, args[0])
	return err
}
