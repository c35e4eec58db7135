package analytics

import (
	"context"

	"github.com/robfig/cron/v3"

	"github.com/cafeops/orderdesk/internal/app/domain/analytics"
	"github.com/cafeops/orderdesk/pkg/logger"
)

// Reporter periodically logs the current day's revenue so operators see
// a summary without opening the dashboard. Lifecycle-managed.
type Reporter struct {
	svc      *Service
	log      *logger.Logger
	schedule string
	cron     *cron.Cron
}

// NewReporter constructs a reporter with an hourly default schedule.
func NewReporter(svc *Service, log *logger.Logger) *Reporter {
	if log == nil {
		log = logger.NewDefault("analytics-reporter")
	}
	return &Reporter{
		svc:      svc,
		log:      log,
		schedule: "@hourly",
	}
}

// WithSchedule overrides the cron schedule.
func (r *Reporter) WithSchedule(schedule string) *Reporter {
	if schedule != "" {
		r.schedule = schedule
	}
	return r
}

// Name implements system.Service.
func (r *Reporter) Name() string { return "analytics-reporter" }

// Start implements system.Service.
func (r *Reporter) Start(_ context.Context) error {
	c := cron.New()
	if _, err := c.AddFunc(r.schedule, r.report); err != nil {
		return err
	}
	c.Start()
	r.cron = c
	return nil
}

// Stop implements system.Service.
func (r *Reporter) Stop(ctx context.Context) error {
	if r.cron == nil {
		return nil
	}
	select {
	case <-r.cron.Stop().Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

func (r *Reporter) report() {
	ctx := context.Background()

	points, err := r.svc.Revenue(ctx, analytics.PeriodDay)
	if err != nil {
		r.log.WithError(err).Warn("revenue summary failed")
		return
	}

	var total float64
	for _, p := range points {
		total += p.Total
	}
	r.log.WithField("period", analytics.PeriodDay).
		WithField("total", total).
		Info("revenue summary")
}
