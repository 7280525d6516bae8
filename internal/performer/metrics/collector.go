package metrics

import (
	"fmt"
	"runtime"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/trigg3rX/triggerx-performer/pkg/logging"
)

const (
	systemMetricsSchedule = "@every 15s"
	dailyResetSchedule    = "@daily"
)

// Collector refreshes uptime and system gauges on a cron schedule and
// resets the daily counters at midnight.
type Collector struct {
	cron   *cron.Cron
	logger logging.Logger
}

func NewCollector(logger logging.Logger) *Collector {
	return &Collector{
		cron:   cron.New(),
		logger: logger,
	}
}

func (c *Collector) Start() error {
	if _, err := c.cron.AddFunc(systemMetricsSchedule, c.UpdateSystemMetrics); err != nil {
		return fmt.Errorf("failed to schedule system metrics: %w", err)
	}
	if _, err := c.cron.AddFunc(dailyResetSchedule, c.ResetDaily); err != nil {
		return fmt.Errorf("failed to schedule daily reset: %w", err)
	}
	c.UpdateSystemMetrics()
	c.cron.Start()
	c.logger.Debug("Metrics collection started")
	return nil
}

// Stop waits for a running job to finish.
func (c *Collector) Stop() {
	<-c.cron.Stop().Done()
}

func (c *Collector) UpdateSystemMetrics() {
	UptimeSeconds.Set(time.Since(startTime).Seconds())

	if vmStat, err := mem.VirtualMemory(); err == nil {
		MemoryUsageBytes.Set(float64(vmStat.Used))
	}
	// Non-blocking sample: percentage since the previous call
	if cpuPercent, err := cpu.Percent(0, false); err == nil && len(cpuPercent) > 0 {
		CPUUsagePercent.Set(cpuPercent[0])
	}

	GoroutinesActive.Set(float64(runtime.NumGoroutine()))

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	GCDurationSeconds.Set(float64(memStats.PauseTotalNs) / float64(time.Second))
}

func (c *Collector) ResetDaily() {
	TasksPerDay.Set(0)
}
