package monitoring

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// PoolMonitor periodically reports connection pool and host statistics.
// The cadence is a standard cron expression so deployments can tune it.
type PoolMonitor struct {
	db       *sql.DB
	schedule cron.Schedule
	done     chan bool
}

// NewPoolMonitor creates a new PoolMonitor.
func NewPoolMonitor(db *sql.DB, cronExpr string) (*PoolMonitor, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid stats schedule %q: %w", cronExpr, err)
	}
	return &PoolMonitor{
		db:       db,
		schedule: schedule,
		done:     make(chan bool),
	}, nil
}

// Run starts the periodic reports. It blocks until Stop is called.
func (pm *PoolMonitor) Run() {
	log.Info().Msg("Starting background pool monitor...")

	// Report once immediately on start
	pm.report()

	for {
		next := pm.schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-pm.done:
			timer.Stop()
			log.Info().Msg("Stopping background pool monitor.")
			return
		case <-timer.C:
			pm.report()
		}
	}
}

// Stop halts the periodic reports.
func (pm *PoolMonitor) Stop() {
	pm.done <- true
}

// report logs pool statistics along with host CPU and memory usage.
func (pm *PoolMonitor) report() {
	stats := pm.db.Stats()
	event := log.Info().
		Int("pool_open", stats.OpenConnections).
		Int("pool_in_use", stats.InUse).
		Int("pool_idle", stats.Idle).
		Int64("pool_wait_count", stats.WaitCount).
		Dur("pool_wait_duration", stats.WaitDuration)

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		event = event.Float64("host_cpu_percent", percents[0])
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		event = event.Float64("host_mem_percent", vm.UsedPercent)
	}

	event.Msg("Pool monitor report")
}
