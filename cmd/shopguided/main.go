package main

import (
	"net/http"
	"time"

	"shopguide-backend/lib/brand"
	"shopguide-backend/lib/configutil"
	"shopguide-backend/lib/scrapers/guidecom"
	"shopguide-backend/lib/serviceutil"
	"shopguide-backend/lib/telemetry"
	"shopguide-backend/services/products"
)

type Config struct {
	Port            int            `json:"port"`
	Verbose         bool           `json:"verbose"`
	BaseUrl         string         `json:"base_url"`
	MinRequestGapMs int            `json:"min_request_gap_ms"`
	Retries         int            `json:"retries"`
	Lexicon         *brand.Lexicon `json:"lexicon"`
}

func main() {
	ctx := serviceutil.SignalContext()

	cfg, err := configutil.ReadConfig[Config]("shopguided.json5")
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	if cfg.Port == 0 {
		cfg.Port = 9330
	}

	telemetry.InitSlog(cfg.Verbose)
	tel, err := telemetry.SetupFromEnv(ctx, "shopguided")
	if err != nil {
		serviceutil.Fatal("failed to setup telemetry", err)
	}
	defer tel.Shutdown(ctx)
	telemetry.InstrumentPerfStats(ctx)

	client, err := guidecom.NewClient(guidecom.Options{
		BaseUrl:       cfg.BaseUrl,
		MinRequestGap: time.Duration(cfg.MinRequestGapMs) * time.Millisecond,
		Retries:       cfg.Retries,
	})
	if err != nil {
		serviceutil.Fatal("failed to initialize guidecom client", err)
	}

	lexicon := brand.DefaultLexicon()
	if cfg.Lexicon != nil {
		lexicon = *cfg.Lexicon
	}
	service := products.NewService(client, lexicon)

	mux := http.NewServeMux()
	registerRoutes(mux, service)

	go serviceutil.StartHttpServer(cfg.Port, mux)

	<-ctx.Done()
}
