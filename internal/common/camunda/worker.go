// internal/common/camunda/worker.go
package camunda

import (
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"childcare-assistant/internal/common/config"
	"childcare-assistant/internal/common/logger"
	"childcare-assistant/internal/common/metrics"
)

// HandlerFunc is the signature every stage handler's Handle method has.
type HandlerFunc func(client worker.JobClient, job entities.Job)

// Workers tracks the job workers opened on one client.
type Workers struct {
	client  zbc.Client
	cfg     *config.Config
	logger  logger.Logger
	opened  []worker.JobWorker
	started []string
}

func NewWorkers(client zbc.Client, cfg *config.Config, log logger.Logger) *Workers {
	return &Workers{client: client, cfg: cfg, logger: log}
}

// Start opens a worker for taskType unless it is disabled in configuration.
func (w *Workers) Start(taskType string, handler HandlerFunc) {
	if !config.IsWorkerEnabled(w.cfg, taskType) {
		w.logger.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return
	}
	wcfg := config.GetWorkerConfig(w.cfg, taskType)

	jw := w.client.NewJobWorker().
		JobType(taskType).
		Handler(Instrument(taskType, handler)).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()

	w.opened = append(w.opened, jw)
	w.started = append(w.started, taskType)
	w.logger.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
}

// Started lists the task types with an open worker.
func (w *Workers) Started() []string {
	return w.started
}

// Close stops every worker, then the client.
func (w *Workers) Close() error {
	for _, jw := range w.opened {
		jw.Close()
		jw.AwaitClose()
	}
	return w.client.Close()
}

// Instrument records the worker_jobs_* metrics around handler.
func Instrument(taskType string, handler HandlerFunc) worker.JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		active := metrics.WorkerJobsActive.WithLabelValues(taskType)
		active.Inc()
		defer active.Dec()

		start := time.Now()
		handler(client, job)
		metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(time.Since(start).Seconds())
		metrics.WorkerJobsCompleted.WithLabelValues(taskType).Inc()
	}
}
