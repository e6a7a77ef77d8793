package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dcortezh/propgen/internal/api"
	"github.com/dcortezh/propgen/internal/config"
	"github.com/dcortezh/propgen/internal/generate"
	"github.com/dcortezh/propgen/internal/mailer"
	"github.com/dcortezh/propgen/internal/pipeline"
	"github.com/dcortezh/propgen/internal/vectorstore"
	"github.com/joho/godotenv"
	"github.com/tmc/langchaingo/embeddings"
)

func main() {
	_ = godotenv.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Model client serves both generation and embeddings.
	gen, err := generate.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIEmbeddingModel)
	if err != nil {
		log.Error("failed to create model client", "error", err)
		os.Exit(1)
	}

	embedder, err := embeddings.NewEmbedder(gen.LLM())
	if err != nil {
		log.Error("failed to create embedder", "error", err)
		os.Exit(1)
	}

	store, err := vectorstore.New(cfg.ChromaURL, cfg.ChromaNamespace, embedder)
	if err != nil {
		log.Error("failed to connect to chroma", "error", err, "url", cfg.ChromaURL)
		os.Exit(1)
	}

	mail, err := mailer.New(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})
	if err != nil {
		log.Error("invalid mailer configuration", "error", err)
		os.Exit(1)
	}
	if mail == nil {
		log.Info("smtp not configured, proposal emails disabled")
	}

	orch := pipeline.NewOrchestrator(cfg, store, log)
	orch.Start(ctx)

	srv := api.NewServer(orch, gen, mail, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		// Drain in-flight HTTP requests before stopping the pipeline so
		// late uploads get a clean rejection instead of racing Stop.
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		orch.Stop()
	}()

	log.Info("starting propgen", "port", cfg.Port, "model", cfg.OpenAIModel)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
