package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"shopguide-backend/lib/brand"
	"shopguide-backend/lib/configutil"
	"shopguide-backend/lib/restyutil"
	"shopguide-backend/lib/scrapers/guidecom"
	"shopguide-backend/lib/serviceutil"
	"shopguide-backend/lib/telemetry"
	"shopguide-backend/services/products"
)

// Config is read from shopguide.json5 when present; every field is
// optional.
type Config struct {
	BaseUrl          string         `json:"base_url"`
	MinRequestGapMs  int            `json:"min_request_gap_ms"`
	Retries          int            `json:"retries"`
	RestyTranscripts string         `json:"resty_transcripts"`
	Lexicon          *brand.Lexicon `json:"lexicon"`
}

var verbose *bool
var csvPath *string

var rootCmd = &cobra.Command{
	Use:   "shopguide-cli",
	Short: "shopguide-cli searches guidecom product listings from the terminal.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)
	},
}

func init() {
	verbose = rootCmd.PersistentFlags().BoolP(
		"verbose", "v", false,
		"Log every scraping decision point (selector tiers, retries, parse discards).",
	)
	csvPath = rootCmd.PersistentFlags().String(
		"csv", "",
		"Also write the result table to a CSV file at this path.",
	)
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newService() products.Service {
	cfg, err := configutil.ReadConfig[Config]("shopguide.json5")
	if err != nil && !os.IsNotExist(err) {
		serviceutil.Fatal("failed to read config", err)
	}

	client, err := guidecom.NewClient(guidecom.Options{
		BaseUrl:       cfg.BaseUrl,
		MinRequestGap: time.Duration(cfg.MinRequestGapMs) * time.Millisecond,
		Retries:       cfg.Retries,
	})
	if err != nil {
		serviceutil.Fatal("failed to initialize guidecom client", err)
	}
	if cfg.RestyTranscripts != "" && *verbose {
		client.SetRestyInstrumentOutput(restyutil.NewFilesystemOutput(cfg.RestyTranscripts))
	}

	lexicon := brand.DefaultLexicon()
	if cfg.Lexicon != nil {
		lexicon = *cfg.Lexicon
	}
	return products.NewService(client, lexicon)
}
