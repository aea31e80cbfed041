package job

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// SnapshotRefresher is the slice of the rate service the job needs.
type SnapshotRefresher interface {
	RefreshSnapshot(ctx context.Context) error
}

// RefreshJob keeps the cached snapshot warm by refreshing it on a fixed
// interval. The first refresh runs immediately so the cache is primed
// before the first request lands.
type RefreshJob struct {
	tracer      trace.Tracer
	rateService SnapshotRefresher
	interval    time.Duration
}

func NewRefreshJob(tracer trace.Tracer, rateService SnapshotRefresher, intervalSecs int) *RefreshJob {
	return &RefreshJob{
		tracer:      tracer,
		rateService: rateService,
		interval:    time.Duration(intervalSecs) * time.Second,
	}
}

// Start blocks until ctx is cancelled.
func (j *RefreshJob) Start(ctx context.Context) {
	log.Println("Rate refresh job starting...")

	j.refresh(ctx)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Rate refresh job stopped")
			return
		case <-ticker.C:
			j.refresh(ctx)
		}
	}
}

func (j *RefreshJob) refresh(ctx context.Context) {
	ctx, span := j.tracer.Start(ctx, "refresh-job.refresh")
	defer span.End()

	if err := j.rateService.RefreshSnapshot(ctx); err != nil {
		span.RecordError(err)
		log.Printf("rate refresh error: %v", err)
	}
}
