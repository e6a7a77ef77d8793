package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dcortezh/propgen/internal/chunker"
	"github.com/dcortezh/propgen/internal/config"
	"github.com/dcortezh/propgen/internal/vectorstore"
)

// Orchestrator manages the document indexing pipeline.
type Orchestrator struct {
	jobs     *JobStore
	queue    chan *Job
	store    *vectorstore.Store
	log      *slog.Logger
	cfg      config.Config
	chunkCfg chunker.Config
	dedup    *dedupIndex

	cancel  context.CancelFunc
	wg      sync.WaitGroup
	stopped atomic.Bool
}

// NewOrchestrator creates the pipeline; Start launches its workers.
func NewOrchestrator(cfg config.Config, store *vectorstore.Store, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:  NewJobStore(cfg.JobTTL),
		queue: make(chan *Job, cfg.MaxQueueSize),
		store: store,
		log:   log,
		cfg:   cfg,
		chunkCfg: chunker.Config{
			Size:    cfg.DefaultChunkSize,
			Overlap: cfg.DefaultChunkOverlap,
			Min:     60,
		},
		dedup: newDedupIndex(),
	}
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.store, o.log, o.chunkCfg, o.dedup, o.cfg.MaxConcurrentStore, o.cfg.StoreBatchSize, o.cfg.PDFFallbackPdftotext)
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

// Stop gracefully shuts down the pipeline. The queue channel is never
// closed: workers exit via context cancellation, so a Submit racing
// with Stop cannot panic on a closed channel.
func (o *Orchestrator) Stop() {
	o.stopped.Store(true)
	if o.cancel != nil {
		o.cancel()
	}
	o.wg.Wait()
}

// Submit queues a new job for processing.
func (o *Orchestrator) Submit(job *Job) error {
	if o.stopped.Load() {
		job.SetStatus(StatusFailed, "shutting_down")
		return fmt.Errorf("pipeline is shutting down")
	}
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("job queue is full (%d)", o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

// Store returns the vector store for direct use by API handlers.
func (o *Orchestrator) Store() *vectorstore.Store {
	return o.store
}

// ResetDedup clears the content-hash index, used when the vector store
// is reset so reuploads are not skipped as duplicates.
func (o *Orchestrator) ResetDedup() {
	o.dedup.reset()
}

// dedupIndex maps content hashes to the document that first carried
// them, so identical reuploads are skipped. In-process only: it lives
// and dies with the service, like the job store.
type dedupIndex struct {
	mu     sync.Mutex
	byHash map[string]string
}

func newDedupIndex() *dedupIndex {
	return &dedupIndex{byHash: make(map[string]string)}
}

// claim records hash -> docID if unseen. Returns the existing docID and
// false when the hash was already claimed.
func (d *dedupIndex) claim(hash, docID string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if existing, ok := d.byHash[hash]; ok {
		return existing, false
	}
	d.byHash[hash] = docID
	return docID, true
}

func (d *dedupIndex) reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.byHash = make(map[string]string)
}
