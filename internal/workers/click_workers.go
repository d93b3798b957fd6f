package workers

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	customerrors "github.com/axellelanca/linkbio/internal/errors"
	"github.com/axellelanca/linkbio/internal/metrics"
	"github.com/axellelanca/linkbio/internal/models"
	"github.com/axellelanca/linkbio/internal/repository"
)

// persistTimeout bounds a single click insert.
const persistTimeout = 5 * time.Second

// ClickRecorder queues click events and persists them from a pool of worker goroutines.
// Recording never blocks the visitor: when the buffer is full the event is dropped.
type ClickRecorder struct {
	events    chan models.ClickEvent
	clickRepo repository.ClickRepository
	log       *zap.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewClickRecorder creates a recorder with a channel buffer of bufferSize events.
func NewClickRecorder(bufferSize int, clickRepo repository.ClickRepository, log *zap.Logger) *ClickRecorder {
	return &ClickRecorder{
		events:    make(chan models.ClickEvent, bufferSize),
		clickRepo: clickRepo,
		log:       log,
	}
}

// Start launches workerCount goroutines consuming the event channel.
func (r *ClickRecorder) Start(workerCount int) {
	r.log.Info("Starting click workers", zap.Int("workers", workerCount), zap.Int("buffer", cap(r.events)))
	for i := 0; i < workerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}
}

// Record enqueues event without blocking.
// It returns ErrMalformedEvent when event doesn't target exactly one link or
// domain, and ErrClickDropped when the buffer is full or the recorder stopped.
func (r *ClickRecorder) Record(event models.ClickEvent) error {
	if _, _, ok := event.Target(); !ok {
		return customerrors.ErrMalformedEvent
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		metrics.ClicksDropped.Inc()
		return customerrors.ErrClickDropped
	}

	select {
	case r.events <- event:
		return nil
	default:
		metrics.ClicksDropped.Inc()
		r.log.Warn("Click buffer full, dropping event")
		return customerrors.ErrClickDropped
	}
}

// Stop closes the channel and waits for workers to drain the remaining events.
// It is safe to call more than once.
func (r *ClickRecorder) Stop() {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.events)
	}
	r.mu.Unlock()
	r.wg.Wait()
}

// worker exits when the channel is closed and drained.
func (r *ClickRecorder) worker(id int) {
	defer r.wg.Done()
	for event := range r.events {
		r.persist(id, event)
	}
}

func (r *ClickRecorder) persist(workerID int, event models.ClickEvent) {
	kind, targetID, _ := event.Target()

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := r.clickRepo.CreateClick(ctx, &event); err != nil {
		metrics.ClickPersistFailures.Inc()
		failure := customerrors.PersistenceFailure{ID: targetID, Err: err}
		r.log.Error("Failed to save click",
			zap.Int("worker", workerID),
			zap.String("kind", string(kind)),
			zap.Error(failure),
		)
		return
	}

	metrics.ClicksRecorded.WithLabelValues(string(kind)).Inc()
	r.log.Debug("Click recorded",
		zap.String("kind", string(kind)),
		zap.String("target_id", targetID),
	)
}
