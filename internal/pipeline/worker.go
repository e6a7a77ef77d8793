package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dcortezh/propgen/internal/chunker"
	"github.com/dcortezh/propgen/internal/document"
	"github.com/dcortezh/propgen/internal/parser"
	"github.com/dcortezh/propgen/internal/vectorstore"
)

// Worker processes a single document indexing job.
type Worker struct {
	store    *vectorstore.Store
	log      *slog.Logger
	chunkCfg chunker.Config
	dedup    *dedupIndex

	maxConcurrentStore int
	batchSize          int
	pdfFallback        bool
}

func NewWorker(store *vectorstore.Store, log *slog.Logger, chunkCfg chunker.Config, dedup *dedupIndex, maxStore, batchSize int, pdfFallback bool) *Worker {
	if batchSize <= 0 {
		batchSize = 32
	}
	if maxStore <= 0 {
		maxStore = 4
	}
	return &Worker{
		store:              store,
		log:                log,
		chunkCfg:           chunkCfg,
		dedup:              dedup,
		maxConcurrentStore: maxStore,
		batchSize:          batchSize,
		pdfFallback:        pdfFallback,
	}
}

// Process runs the full indexing pipeline for a job: parse, dedup,
// chunk, and store into the vector database.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID)

	// Phase 1: Parse.
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if pdfp, ok := p.(*parser.PDFParser); ok {
		pdfp.FallbackPdftotext = w.pdfFallback
	}

	doc, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if job.Title != "" {
		doc.Title = job.Title
	}

	// Dedup on the parsed text so formatting-only differences in the
	// raw bytes still collapse.
	job.ContentHash = ContentHashHex([]byte(flattenText(doc)))
	if existing, fresh := w.dedup.claim(job.ContentHash, job.DocID); !fresh {
		log.Info("duplicate document, skipping", "existing_doc_id", existing)
		job.SetStatus(StatusDupSkipped, "dedup")
		return
	}

	// Phase 2: Chunk.
	job.SetStatus(StatusChunking, "chunking")
	chunks := chunker.Split(doc, w.chunkCfg)
	job.SetTotalChunks(len(chunks))
	log.Info("chunked document", "chunks", len(chunks))

	if len(chunks) == 0 {
		log.Warn("no chunks produced")
		job.AddError("no indexable content")
		job.SetStatus(StatusFailed, "chunking")
		return
	}

	// Phase 3: Store with bounded concurrency. Embedding happens
	// inside AddChunks, so batches keep each call reasonably sized.
	job.SetStatus(StatusIndexing, "indexing")

	type batchResult struct {
		stored int
		err    error
		idx    int
	}
	batches := batchChunks(chunks, w.batchSize)
	results := make(chan batchResult, len(batches))
	sem := make(chan struct{}, w.maxConcurrentStore)

	for i, batch := range batches {
		sem <- struct{}{}
		go func(i int, batch []document.Chunk) {
			defer func() { <-sem }()
			var stored int
			var lastErr error
			for attempt := range MaxRetries {
				stored, lastErr = w.store.AddChunks(ctx, job.DocID, doc.Title, batch)
				if lastErr == nil || !IsRetryable(lastErr) {
					break
				}
				log.Warn("retryable store error", "batch", i, "attempt", attempt, "error", lastErr)
				select {
				case <-time.After(Backoff(attempt)):
				case <-ctx.Done():
					results <- batchResult{err: ctx.Err(), idx: i}
					return
				}
			}
			results <- batchResult{stored: stored, err: lastErr, idx: i}
		}(i, batch)
	}

	indexed := 0
	hadErrors := false
	for range batches {
		r := <-results
		if r.err != nil {
			log.Error("store failed", "batch", r.idx, "error", r.err)
			job.AddError(fmt.Sprintf("batch %d: %s", r.idx, r.err))
			hadErrors = true
			continue
		}
		indexed += r.stored
		job.AddChunksIndexed(r.stored)
	}

	log.Info("indexing complete", "indexed", indexed, "total", len(chunks), "errors", hadErrors)

	switch {
	case hadErrors && indexed > 0:
		job.SetStatus(StatusPartial, "done")
	case hadErrors:
		job.SetStatus(StatusFailed, "indexing")
	default:
		job.SetStatus(StatusCompleted, "done")
	}
}

// batchChunks splits chunks into slices of at most size.
func batchChunks(chunks []document.Chunk, size int) [][]document.Chunk {
	var batches [][]document.Chunk
	for i := 0; i < len(chunks); i += size {
		end := min(i+size, len(chunks))
		batches = append(batches, chunks[i:end])
	}
	return batches
}

// flattenText extracts all text from a document for content hashing.
func flattenText(doc *document.Doc) string {
	var sb strings.Builder
	var walk func(sections []*document.Section)
	walk = func(sections []*document.Section) {
		for _, s := range sections {
			if s.Text != "" {
				if sb.Len() > 0 {
					sb.WriteString("\n")
				}
				sb.WriteString(s.Text)
			}
			walk(s.Children)
		}
	}
	walk(doc.Sections)
	return sb.String()
}
