package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hn-digest/config"
	"hn-digest/events"
	"hn-digest/extractor"
	"hn-digest/feeder"
	"hn-digest/hn"
	"hn-digest/internal/logger"
	"hn-digest/pipeline"
	"hn-digest/renderer"
	"hn-digest/scoring"
	"hn-digest/summarizer"
)

func main() {
	config.InitApp()
	cfg := config.GetConfig()
	logger.Init(cfg.Logging.Level)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	listingClient := &http.Client{Timeout: time.Duration(cfg.Listing.Timeout) * time.Second}
	var lister pipeline.Lister
	switch cfg.Listing.Source {
	case "rss":
		lister = feeder.New(cfg.Listing.BaseURL, listingClient)
	default:
		opts := []hn.Option{hn.WithHTTPClient(listingClient)}
		if cfg.Listing.BaseURL != "" {
			opts = append(opts, hn.WithBaseURL(cfg.Listing.BaseURL))
		}
		lister = hn.NewClient(opts...)
	}

	extractorCfg := extractor.Config{
		Timeout:         time.Duration(cfg.Extractor.Timeout) * time.Second,
		MaxContentChars: cfg.Extractor.MaxContentChars,
	}
	if cfg.Extractor.UseRenderer {
		extractorCfg.Renderer = extractor.RendererFunc(renderer.RenderHTML)
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		logger.Log.Error("GEMINI_API_KEY is not set")
		os.Exit(1)
	}
	gen, err := summarizer.NewGeminiGenerator(ctx, apiKey, cfg.Summarizer.Model)
	if err != nil {
		logger.Log.Errorf("failed to create summarizer: %v", err)
		os.Exit(1)
	}

	p, err := pipeline.New(
		lister,
		extractor.New(extractorCfg),
		summarizer.New(gen, summarizer.Config{
			BatchSize:       cfg.Summarizer.BatchSize,
			MaxContentChars: cfg.Summarizer.MaxContentChars,
		}),
		events.NewLogSink(),
		pipeline.Config{
			MaxConcurrentExtractions: cfg.Pipeline.MaxConcurrentExtractions,
			Scoring: scoring.Config{
				RelevanceWeight:  cfg.Scoring.RelevanceWeight,
				PopularityWeight: cfg.Scoring.PopularityWeight,
				PopularityCap:    int(cfg.Scoring.PopularityCap),
			},
		},
	)
	if err != nil {
		logger.Log.Errorf("failed to build pipeline: %v", err)
		os.Exit(1)
	}

	result, err := p.Run(ctx, cfg.Profile)
	if err != nil {
		if errors.Is(err, pipeline.ErrCancelled) {
			os.Exit(130)
		}
		os.Exit(1)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logger.Log.Errorf("failed to encode digest: %v", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
