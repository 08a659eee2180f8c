package background

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"picktrack/internal/analytics"
	"picktrack/internal/services"
)

// JobScheduler runs the maintenance jobs around the picking workflow: the
// audit-summary cache refresh and the upstream CSV sync. Request handling
// itself never depends on these.
type JobScheduler struct {
	scheduler    gocron.Scheduler
	analyticsSvc *analytics.AnalyticsService
	syncSvc      services.SourceSyncService
	jobs         map[string]gocron.Job
	mu           sync.RWMutex
}

// NewJobScheduler creates a scheduler. syncSvc may be nil; the sync job is
// then not registered.
func NewJobScheduler(analyticsSvc *analytics.AnalyticsService, syncSvc services.SourceSyncService, summaryEvery, syncEvery time.Duration) *JobScheduler {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler:    scheduler,
		analyticsSvc: analyticsSvc,
		syncSvc:      syncSvc,
		jobs:         make(map[string]gocron.Job),
	}

	js.registerJobs(summaryEvery, syncEvery)

	return js
}

func (js *JobScheduler) registerJobs(summaryEvery, syncEvery time.Duration) {
	js.mu.Lock()
	defer js.mu.Unlock()

	summaryJob, err := js.scheduler.NewJob(
		gocron.DurationJob(summaryEvery),
		gocron.NewTask(js.refreshAuditSummary),
		gocron.WithName("audit-summary-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create summary refresh job: %v", err)
	} else {
		js.jobs["summary-refresh"] = summaryJob
	}

	if js.syncSvc == nil {
		return
	}
	syncJob, err := js.scheduler.NewJob(
		gocron.DurationJob(syncEvery),
		gocron.NewTask(js.syncPickingNotes),
		gocron.WithName("picking-notes-sync"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create picking notes sync job: %v", err)
	} else {
		js.jobs["notes-sync"] = syncJob
	}
}

func (js *JobScheduler) refreshAuditSummary() {
	if _, err := js.analyticsSvc.RefreshAuditSummary(context.Background()); err != nil {
		log.Printf("scheduled summary refresh failed: %v", err)
	}
}

func (js *JobScheduler) syncPickingNotes() {
	if err := js.syncSvc.SyncPickingNotes(context.Background()); err != nil {
		log.Printf("scheduled picking notes sync failed: %v", err)
	}
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}
