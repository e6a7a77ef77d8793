// Package main provides indexctl, an operator CLI for the propgen
// knowledge base. It indexes local document trees into Chroma and runs
// ad-hoc similarity searches without going through the HTTP API.
package main

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/dcortezh/propgen/internal/chunker"
	"github.com/dcortezh/propgen/internal/config"
	"github.com/dcortezh/propgen/internal/generate"
	"github.com/dcortezh/propgen/internal/parser"
	"github.com/dcortezh/propgen/internal/pipeline"
	"github.com/dcortezh/propgen/internal/vectorstore"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tmc/langchaingo/embeddings"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "indexctl",
		Short: "Manage the propgen knowledge base",
		Long: `indexctl indexes local documents into the propgen knowledge base
and runs similarity searches against it. It talks to Chroma directly,
bypassing the HTTP API, so it needs the same environment the server
uses (OPENAI_API_KEY, CHROMA_URL).`,
		SilenceUsage: true,
	}

	cmd.AddCommand(indexCmd(), searchCmd())
	return cmd
}

func indexCmd() *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "index <dir>",
		Short: "Parse, chunk, and index every supported document under dir",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, log, store, err := setup()
			if err != nil {
				return err
			}

			if reset {
				if err := store.Reset(ctx); err != nil {
					return fmt.Errorf("reset store: %w", err)
				}
				log.Info("store reset")
			}

			return indexDir(ctx, log, store, args[0])
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "Drop the collection before indexing")
	return cmd
}

func searchCmd() *cobra.Command {
	var k int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Run a similarity search against the knowledge base",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, _, store, err := setup()
			if err != nil {
				return err
			}

			snippets, err := store.Search(ctx, args[0], k)
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}

			for i, sn := range snippets {
				fmt.Printf("--- %d (score %.3f)", i+1, sn.Score)
				if sn.Title != "" {
					fmt.Printf(" [%s", sn.Title)
					if sn.Breadcrumb != "" {
						fmt.Printf(" > %s", sn.Breadcrumb)
					}
					fmt.Print("]")
				}
				fmt.Printf("\n%s\n", sn.Text)
			}
			if len(snippets) == 0 {
				fmt.Println("no results")
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&k, "top", "k", 4, "Number of results to return")
	return cmd
}

func setup() (context.Context, *slog.Logger, *vectorstore.Store, error) {
	_ = godotenv.Load()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg := config.Load()
	if cfg.OpenAIAPIKey == "" {
		return nil, nil, nil, fmt.Errorf("OPENAI_API_KEY is required")
	}

	gen, err := generate.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIEmbeddingModel)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create model client: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(gen.LLM())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create embedder: %w", err)
	}
	store, err := vectorstore.New(cfg.ChromaURL, cfg.ChromaNamespace, embedder)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect chroma: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	_ = cancel // released on process exit

	return ctx, log, store, nil
}

func indexDir(ctx context.Context, log *slog.Logger, store *vectorstore.Store, dir string) error {
	cfg := config.Load()
	chunkCfg := chunker.Config{
		Size:    cfg.DefaultChunkSize,
		Overlap: cfg.DefaultChunkOverlap,
		Min:     60,
	}

	indexed := 0
	failed := 0

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !parser.IsSupportedExtension(path) {
			return nil
		}

		if err := indexFile(ctx, store, chunkCfg, cfg.PDFFallbackPdftotext, path); err != nil {
			log.Error("index failed", "file", path, "error", err)
			failed++
			return nil
		}
		log.Info("indexed", "file", path)
		indexed++
		return nil
	})
	if err != nil {
		return err
	}

	log.Info("done", "indexed", indexed, "failed", failed)
	if failed > 0 {
		return fmt.Errorf("%d file(s) failed", failed)
	}
	return nil
}

func indexFile(ctx context.Context, store *vectorstore.Store, chunkCfg chunker.Config, pdfFallback bool, path string) error {
	p, err := parser.ForFile(path)
	if err != nil {
		return err
	}
	if pdfp, ok := p.(*parser.PDFParser); ok {
		pdfp.FallbackPdftotext = pdfFallback
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	doc, err := p.Parse(bytes.NewReader(data), filepath.Base(path))
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	chunks := chunker.Split(doc, chunkCfg)
	if len(chunks) == 0 {
		return fmt.Errorf("no indexable content")
	}

	docID := pipeline.ContentHashHex(data)[:16]

	if _, err := store.AddChunks(ctx, docID, doc.Title, chunks); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	return nil
}
