package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pairlens/pkg/fetch"

	"github.com/spf13/cobra"
)

var (
	downloadGrokURL  string
	downloadWiki     string
	downloadTopic    string
	downloadLang     string
	downloadMarkdown bool
	downloadTimeout  time.Duration
)

// downloadCmd represents the download command
var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download a Grokipedia + Wikipedia article pair",
	Long: `Download fetches both articles of a topic and stores them under the
raw data directory, along with metadata recording where they came from.

Example:
  pairlens download \
    --grok-url https://grokipedia.com/page/COVID-19_lab_leak_theory \
    --wiki https://en.wikipedia.org/wiki/COVID-19_lab_leak_theory`,
	RunE: runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().StringVar(&downloadGrokURL, "grok-url", "", "full Grokipedia page URL")
	downloadCmd.Flags().StringVar(&downloadWiki, "wiki", "", "Wikipedia title or URL")
	downloadCmd.Flags().StringVar(&downloadTopic, "topic", "", "topic slug override (default: Grokipedia path or wiki title)")
	downloadCmd.Flags().StringVar(&downloadLang, "lang", "en", "Wikipedia language code")
	downloadCmd.Flags().BoolVar(&downloadMarkdown, "keep-markdown", false, "keep Grokipedia markdown instead of plaintext")
	downloadCmd.Flags().DurationVar(&downloadTimeout, "timeout", 2*time.Minute, "total download timeout")
	_ = downloadCmd.MarkFlagRequired("grok-url")
	_ = downloadCmd.MarkFlagRequired("wiki")
}

func runDownload(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	downloader := fetch.NewDownloader(fetch.NewDownloaderParams{
		Client: fetch.NewClient(fetch.NewClientParams{}),
		Store:  newStore(),
	})

	_, err := downloader.DownloadPair(ctx, fetch.PairRequest{
		GrokURL:      downloadGrokURL,
		Wiki:         downloadWiki,
		Topic:        downloadTopic,
		Lang:         downloadLang,
		KeepMarkdown: downloadMarkdown,
	})
	return err
}
