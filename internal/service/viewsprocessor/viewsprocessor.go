package viewsprocessor

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/videotube/videotube/internal/logger"
	"github.com/videotube/videotube/internal/repository"
)

const (
	defaultFlushInterval = 5 * time.Second
	defaultBatchSize     = 256
	defaultQueueSize     = 1024
)

type videoRepo interface {
	AddViews(ctx context.Context, videoID uuid.UUID, count int64) error
}

type watchHistoryRepo interface {
	AddWatches(ctx context.Context, watches []repository.WatchParams) error
}

type view struct {
	videoID uuid.UUID
	userID  uuid.UUID
}

type Config struct {
	// How often buffered views are written out
	FlushInterval time.Duration

	// Flush earlier when this many views are buffered
	BatchSize int

	// Queue capacity, Record drops views when it is full
	QueueSize int
}

// Aggregates view events and writes them out in batches.
// A page load records a view through Record and never waits
// for the database.
type Processor struct {
	flushInterval time.Duration
	batchSize     int

	queue chan view

	videoRepo videoRepo
	watchRepo watchHistoryRepo
	logger    logger.Logger
}

func New(cfg Config, videoRepo videoRepo, watchRepo watchHistoryRepo, logger logger.Logger) *Processor {
	if cfg.FlushInterval == 0 {
		cfg.FlushInterval = defaultFlushInterval
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = defaultQueueSize
	}

	return &Processor{
		flushInterval: cfg.FlushInterval,
		batchSize:     cfg.BatchSize,
		queue:         make(chan view, cfg.QueueSize),
		videoRepo:     videoRepo,
		watchRepo:     watchRepo,
		logger:        logger,
	}
}

// Record a view. Pass uuid.Nil as userID for anonymous viewers:
// the view is counted but no watch history entry is written.
// Never blocks, drops the event if the queue is full.
func (p *Processor) Record(videoID uuid.UUID, userID uuid.UUID) {
	select {
	case p.queue <- view{videoID: videoID, userID: userID}:
	default:
		p.logger.Warn("View queue is full, dropping view", "video_id", videoID)
	}
}

// Start processing. Returns a channel that is closed when the
// processor has flushed the remaining buffer and stopped.
func (p *Processor) Process(ctx context.Context) <-chan struct{} {
	idleStopped := make(chan struct{})
	p.logger.Debug("Starting views processor", "flush_interval", p.flushInterval, "batch_size", p.batchSize)

	go func() {
		defer close(idleStopped)

		ticker := time.NewTicker(p.flushInterval)
		defer ticker.Stop()

		buffer := make([]view, 0, p.batchSize)

		for {
			select {
			case <-ctx.Done():
				// Drain views still sitting in the queue, then flush
				// with a fresh context, the parent one is already done
				for {
					select {
					case v := <-p.queue:
						buffer = append(buffer, v)
						continue
					default:
					}
					break
				}
				flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				p.flush(flushCtx, buffer)
				cancel()
				p.logger.Debug("Views processor stopped")
				return

			case v := <-p.queue:
				buffer = append(buffer, v)
				if len(buffer) >= p.batchSize {
					p.flush(ctx, buffer)
					buffer = buffer[:0]
				}

			case <-ticker.C:
				p.flush(ctx, buffer)
				buffer = buffer[:0]
			}
		}
	}()

	return idleStopped
}

func (p *Processor) flush(ctx context.Context, buffer []view) {
	if len(buffer) == 0 {
		return
	}

	counts := make(map[uuid.UUID]int64)
	watches := make([]repository.WatchParams, 0, len(buffer))
	for _, v := range buffer {
		counts[v.videoID]++
		if v.userID != uuid.Nil {
			watches = append(watches, repository.WatchParams{UserID: v.userID, VideoID: v.videoID})
		}
	}

	for videoID, count := range counts {
		if err := p.videoRepo.AddViews(ctx, videoID, count); err != nil {
			p.logger.Error("Failed to add views", "error", err, "video_id", videoID)
		}
	}

	if len(watches) > 0 {
		if err := p.watchRepo.AddWatches(ctx, watches); err != nil {
			p.logger.Error("Failed to record watch history", "error", err)
		}
	}

	p.logger.Debug("Flushed views", "views", len(buffer), "videos", len(counts))
}
