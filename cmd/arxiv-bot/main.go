package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bakkerme/arxiv-bot/internal/arxiv/impl"
	"github.com/bakkerme/arxiv-bot/internal/bot"
	"github.com/bakkerme/arxiv-bot/internal/config"
	"github.com/bakkerme/arxiv-bot/internal/dedupe"
	"github.com/bakkerme/arxiv-bot/internal/httpserver"
	"github.com/bakkerme/arxiv-bot/internal/llm"
	"github.com/bakkerme/arxiv-bot/internal/llm/openai"
	slacknotify "github.com/bakkerme/arxiv-bot/internal/notify/slack"
	"github.com/bakkerme/arxiv-bot/internal/observability/otelx"
	"github.com/bakkerme/arxiv-bot/internal/policy"
	"github.com/bakkerme/arxiv-bot/internal/tmpfiles"
)

func main() {
	cfg := config.LoadEnv()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{}))
	slog.SetDefault(logger)

	if cfg.Slack.BotToken == "" {
		log.Fatal("SLACK_BOT_TOKEN is required")
	}
	if cfg.Slack.SigningSecret == "" {
		log.Fatal("SLACK_SIGNING_SECRET is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otelx.Init(ctx, logger, cfg.OTel)
	if err != nil {
		log.Fatalf("failed to initialise tracing: %v", err)
	}

	filter, err := policy.New(cfg.Policy.MessageFilter)
	if err != nil {
		log.Fatalf("invalid MESSAGE_FILTER rule: %v", err)
	}

	var llmClient llm.Client
	if cfg.OpenAI.APIKey != "" {
		llmClient = openai.NewClient(cfg.OpenAI)
	} else {
		logger.Info("OPENAI_API_KEY not set, mentions will get a canned reply")
	}

	temperature := 0.0
	if cfg.OpenAI.Temperature != nil {
		temperature = *cfg.OpenAI.Temperature
	}

	dispatcher := bot.NewDispatcher(
		bot.Config{
			CallTimeout: cfg.ArXiv.HTTPTimeout,
			Model:       cfg.OpenAI.Model,
			Temperature: temperature,
		},
		filter,
		dedupe.NewHistory(cfg.History.Capacity),
		impl.NewFetcher(cfg.ArXiv),
		slacknotify.NewNotifier(cfg.Slack.BotToken),
		llmClient,
	)

	sweeper := tmpfiles.NewSweeper(cfg.ArXiv.DownloadDir, cfg.Sweeper.MaxAge, cfg.Sweeper.Schedule, logger)
	if err := sweeper.Start(); err != nil {
		log.Fatalf("failed to start download sweeper: %v", err)
	}

	server := httpserver.New(cfg.Slack.SigningSecret, dispatcher, logger)

	go func() {
		logger.Info("listening for Slack events", "addr", cfg.ListenAddr)
		if err := server.Start(cfg.ListenAddr); err != nil && err != http.ErrServerClosed {
			logger.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
	sweeper.Stop()
	if shutdownTracing != nil {
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Error("tracer shutdown failed", "error", err)
		}
	}
}
