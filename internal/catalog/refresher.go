package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

var scheduleParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ParseSchedule validates a 5-field cron expression or an @descriptor such as
// "@hourly" or "@every 15m".
func ParseSchedule(expr string) (cron.Schedule, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, fmt.Errorf("empty refresh schedule")
	}
	schedule, err := scheduleParser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh schedule: %w", err)
	}
	return schedule, nil
}

// Refresher reloads a Catalog on a cron schedule so robot definitions and
// metadata dropped into the assets directory are picked up without a restart.
type Refresher struct {
	catalog  *Catalog
	logger   *slog.Logger
	cron     *cron.Cron
	schedule cron.Schedule
	running  atomic.Bool

	ctx context.Context
}

// NewRefresher schedules catalog reloads according to expr.
func NewRefresher(catalog *Catalog, expr string, logger *slog.Logger) (*Refresher, error) {
	schedule, err := ParseSchedule(expr)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	r := &Refresher{
		catalog:  catalog,
		logger:   logger,
		cron:     cron.New(cron.WithParser(scheduleParser)),
		schedule: schedule,
	}
	r.cron.Schedule(schedule, cron.FuncJob(r.refresh))
	return r, nil
}

// Start begins the refresh loop. ctx bounds each reload.
func (r *Refresher) Start(ctx context.Context) {
	r.ctx = ctx
	r.cron.Start()
	r.logger.Info("catalog refresher started", "next_refresh", r.NextRefresh())
}

// Stop stops the refresher; the returned context is done once a running reload finishes.
func (r *Refresher) Stop() context.Context {
	return r.cron.Stop()
}

// NextRefresh reports when the next reload is due.
func (r *Refresher) NextRefresh() time.Time {
	return r.schedule.Next(time.Now())
}

func (r *Refresher) refresh() {
	if !r.running.CompareAndSwap(false, true) {
		r.logger.Info("skipping catalog refresh because one is already running")
		return
	}
	defer r.running.Store(false)

	ctx := r.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if err := r.catalog.Reload(ctx); err != nil {
		r.logger.Error("catalog refresh failed, keeping previous snapshot", "err", err,
			"loaded_at", r.catalog.LoadedAt())
	}
}
