package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/fetcharr/fetcharr/internal/api"
	"github.com/fetcharr/fetcharr/internal/config"
	"github.com/fetcharr/fetcharr/internal/database"
	"github.com/fetcharr/fetcharr/internal/decisioning"
	"github.com/fetcharr/fetcharr/internal/downloader"
	"github.com/fetcharr/fetcharr/internal/evaluation"
	"github.com/fetcharr/fetcharr/internal/grab"
	"github.com/fetcharr/fetcharr/internal/history"
	"github.com/fetcharr/fetcharr/internal/intent"
	"github.com/fetcharr/fetcharr/internal/llm"
	"github.com/fetcharr/fetcharr/internal/logger"
	"github.com/fetcharr/fetcharr/internal/scheduler"
	"github.com/fetcharr/fetcharr/internal/scheduler/tasks"
	"github.com/fetcharr/fetcharr/internal/scraper"
	"github.com/fetcharr/fetcharr/internal/scraper/mock"
	"github.com/fetcharr/fetcharr/internal/scraper/piratebay"
	"github.com/fetcharr/fetcharr/internal/scraper/yts"
	"github.com/fetcharr/fetcharr/internal/search"
	"github.com/fetcharr/fetcharr/internal/search/types"
	"github.com/fetcharr/fetcharr/internal/watch"
)

func main() {
	// A .env file is optional; real environment variables win either way.
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to config file")
	searchRequest := flag.String("search", "", "Run one search from the command line and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Path:       cfg.Logging.Path,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
	defer log.Close()

	log.Info().
		Str("version", api.Version).
		Str("logLevel", cfg.Logging.Level).
		Msg("starting fetcharr")

	llmClient := llm.NewClient(cfg.LLM, log.Logger)
	preflight(llmClient, log.Logger)

	scrapers := buildScrapers(cfg.Scrapers, log.Logger)
	if len(scrapers) == 0 {
		log.Fatal().Msg("no content sources enabled")
	}

	searchService := search.NewService(
		intent.NewExtractor(llmClient, log.Logger),
		intent.NewStrategist(llmClient, log.Logger),
		search.NewAggregator(scrapers, cfg.Search.PartialResults, log.Logger),
		evaluation.New(llmClient, log.Logger),
		decisioning.Rank,
		decisioning.Decide,
		search.Config{
			MaxResults:    cfg.Search.MaxResults,
			MinConfidence: cfg.Search.MinConfidence,
			AutoDownload:  cfg.Search.AutoDownload,
			AutoThreshold: cfg.Search.AutoThreshold,
		},
		log.Logger,
	)

	db, err := database.New(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	client, err := downloader.NewClient(downloader.ClientType(cfg.Downloader.Type), downloader.ClientConfig{
		Host:     cfg.Downloader.Host,
		Port:     cfg.Downloader.Port,
		Username: cfg.Downloader.Username,
		Password: cfg.Downloader.Password,
		UseSSL:   cfg.Downloader.UseSSL,
	})
	if err != nil {
		log.Fatal().Err(err).Str("type", cfg.Downloader.Type).Msg("failed to create download client")
	}

	historyService := history.NewService(db.Conn(), log.Logger)
	grabService := grab.NewService(client, historyService, cfg.Downloader.DownloadDir, log.Logger)
	watchStore := watch.NewStore(db.Conn())
	watchService := watch.NewService(watchStore, searchService, grabService, log.Logger)

	if *searchRequest != "" {
		runOneShot(searchService, grabService, cfg.Search.AutoDownload, *searchRequest, log.Logger)
		return
	}

	sched, err := scheduler.New(log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create scheduler")
	}
	if err := tasks.RegisterWatchTask(sched, watchService, cfg.Watch); err != nil {
		log.Fatal().Err(err).Msg("failed to register watch task")
	}
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}

	server := api.NewServer(api.Services{
		Search:    searchService,
		Grab:      grabService,
		History:   historyService,
		Watch:     watchService,
		Scheduler: sched,
	}, log.Logger)

	go func() {
		if err := server.Start(cfg.Server.Address()); err != nil {
			log.Info().Msg("server stopped")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Info().Msg("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := sched.Stop(); err != nil {
		log.Error().Err(err).Msg("scheduler shutdown error")
	}
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	log.Info().Msg("server stopped")
}

// preflight verifies the text-generation backend is up and the configured
// model is present before any request depends on it.
func preflight(client *llm.Client, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := client.Test(ctx); err != nil {
		log.Fatal().Err(err).Msg("text-generation backend unavailable")
	}
	if err := client.EnsureModel(ctx); err != nil {
		log.Fatal().Err(err).Str("model", client.Model()).Msg("configured model is not available")
	}
	log.Info().Str("model", client.Model()).Msg("text-generation backend ready")
}

// buildScrapers constructs the enabled content sources.
func buildScrapers(cfg config.ScrapersConfig, log zerolog.Logger) []scraper.Scraper {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second

	scrapers := make([]scraper.Scraper, 0, len(cfg.Enabled))
	for _, name := range cfg.Enabled {
		switch name {
		case "piratebay":
			scrapers = append(scrapers, piratebay.New(piratebay.Config{
				BaseURL:   cfg.PirateBayURL,
				UserAgent: cfg.UserAgent,
				Timeout:   timeout,
			}, log))
		case "yts":
			scrapers = append(scrapers, yts.New(yts.Config{
				BaseURL:   cfg.YTSURL,
				UserAgent: cfg.UserAgent,
				Timeout:   timeout,
			}, log))
		case "mock":
			scrapers = append(scrapers, mock.New("mock"))
		default:
			log.Warn().Str("scraper", name).Msg("unknown scraper in config, skipping")
		}
	}
	return scrapers
}

// runOneShot runs a single search, prints the outcome as JSON, and grabs
// the top result when the decision gate says to.
func runOneShot(searchService *search.Service, grabService *grab.Service, autoDownload bool, request string, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	response, err := searchService.Search(ctx, request)
	if err != nil {
		log.Fatal().Err(err).Msg("search failed")
	}

	if response.Action.Kind == types.ActionDownload && autoDownload {
		top := response.Results[0]
		result, err := grabService.Grab(ctx, grab.Input{
			RequestID:  response.RequestID,
			Record:     top.Record,
			Relevance:  top.RelevanceScore,
			Confidence: top.Confidence,
			Automatic:  true,
		})
		if err != nil {
			log.Error().Err(err).Msg("grab failed")
		} else if result.Duplicate {
			log.Info().Msg("top result was already grabbed")
		} else {
			log.Info().Str("client_id", result.ClientID).Msg("sent top result to download client")
		}
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		log.Fatal().Err(err).Msg("failed to encode response")
	}
}
