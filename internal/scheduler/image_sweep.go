// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"path"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/foodjournal/internal/images"
)

// ImageStore lists and removes imported photos.
type ImageStore interface {
	List() ([]images.StoredImage, error)
	Remove(uri string) error
}

// ReferenceLister returns the image URIs still referenced by entries.
type ReferenceLister interface {
	ImageURIs(ctx context.Context) ([]string, error)
}

// ImageSweeper removes photos no entry refers to. Photos younger than the
// grace period are kept: they may sit on an unsaved form.
type ImageSweeper struct {
	images ImageStore
	refs   ReferenceLister
	grace  time.Duration
	now    func() time.Time
}

// NewImageSweeper creates a sweeper. A non-positive grace keeps a day.
func NewImageSweeper(store ImageStore, refs ReferenceLister, grace time.Duration) *ImageSweeper {
	if grace <= 0 {
		grace = 24 * time.Hour
	}
	return &ImageSweeper{images: store, refs: refs, grace: grace, now: time.Now}
}

// Sweep deletes orphaned photos and returns how many were removed.
func (s *ImageSweeper) Sweep(ctx context.Context) (int, error) {
	uris, err := s.refs.ImageURIs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list referenced images: %w", err)
	}
	// Match on file name: the library directory may be reached by another
	// absolute path than when the entry was saved.
	referenced := make(map[string]struct{}, len(uris))
	for _, uri := range uris {
		referenced[path.Base(uri)] = struct{}{}
	}

	stored, err := s.images.List()
	if err != nil {
		return 0, fmt.Errorf("list stored images: %w", err)
	}

	cutoff := s.now().Add(-s.grace)
	removed := 0
	for _, img := range stored {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if _, ok := referenced[path.Base(img.URI)]; ok || img.ModTime.After(cutoff) {
			continue
		}
		if err := s.images.Remove(img.URI); err != nil {
			log.Printf("ERROR: image sweep: failed to remove %s: %v", img.URI, err)
			continue
		}
		removed++
	}
	return removed, nil
}

// ValidateCronSchedule validates a five-field cron schedule string
func ValidateCronSchedule(schedule string) error {
	_, err := cronParser().Parse(schedule)
	return err
}

func cronParser() cron.Parser {
	return cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
}

// ImageSweepScheduler runs an ImageSweeper on a cron schedule.
type ImageSweepScheduler struct {
	sweeper  *ImageSweeper
	schedule string

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewImageSweepScheduler creates a scheduler. An empty schedule disables it.
func NewImageSweepScheduler(sweeper *ImageSweeper, schedule string) *ImageSweepScheduler {
	return &ImageSweepScheduler{
		sweeper:  sweeper,
		schedule: schedule,
		cron:     cron.New(cron.WithParser(cronParser())),
	}
}

// Start begins the scheduler unless it is disabled
func (s *ImageSweepScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if s.schedule == "" {
		log.Printf("Image sweep scheduler: disabled")
		return nil
	}

	if err := ValidateCronSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	jobCtx, cancel := context.WithCancel(ctx)

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.runSweep(jobCtx)
	})
	if err != nil {
		cancel()
		return fmt.Errorf("failed to schedule image sweep: %w", err)
	}
	s.entryID = entryID
	s.cancelFunc = cancel

	s.cron.Start()
	s.isRunning = true

	log.Printf("Image sweep scheduler: started with schedule '%s'. Next run: %v", s.schedule, s.cron.Entry(entryID).Next)
	return nil
}

// Stop waits for a running sweep and stops the scheduler
func (s *ImageSweepScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	s.cancelFunc()
	// Stop accepting new jobs and wait for running jobs to complete
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.cron.Remove(s.entryID)
	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Image sweep scheduler: stopped")
}

// IsRunning returns whether the scheduler is active
func (s *ImageSweepScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns when the next sweep will occur
func (s *ImageSweepScheduler) NextRun() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	next := s.cron.Entry(s.entryID).Next
	return &next
}

func (s *ImageSweepScheduler) runSweep(ctx context.Context) {
	startTime := time.Now()
	removed, err := s.sweeper.Sweep(ctx)
	if err != nil {
		log.Printf("Image sweep: failed after removing %d images: %v", removed, err)
		return
	}
	log.Printf("Image sweep: removed %d orphaned images in %v", removed, time.Since(startTime).Round(time.Millisecond))
}
