package core

import (
	"context"
	"fmt"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"time"
)

type Orchestrator struct {
	logger  *zap.Logger
	workers []Worker
}

func NewOrchestrator(logger *zap.Logger, workers []Worker) *Orchestrator {
	return &Orchestrator{logger, workers}
}

// Start schedules every worker and starts the cron loop. Runs are skipped while
// a worker reports it is not ready. The caller owns the returned cron and must Stop it.
func (o *Orchestrator) Start(ctx context.Context) (*cron.Cron, error) {
	c := cron.New()

	for _, worker := range o.workers {
		_, err := c.AddFunc(worker.Schedule(), func() {
			if !worker.Ready(time.Now()) {
				o.logger.Info("Worker busy, skipping run", zap.String("worker", worker.Name()))
				return
			}
			go worker.Execute(ctx)
		})

		if err != nil {
			o.logger.Error("Error adding cron job",
				zap.String("worker", worker.Name()),
				zap.String("schedule", worker.Schedule()),
				zap.Error(err),
			)
			return nil, fmt.Errorf("schedule worker %s: %w", worker.Name(), err)
		}

		o.logger.Info("Worker scheduled",
			zap.String("worker", worker.Name()),
			zap.String("schedule", worker.Schedule()),
		)
	}

	c.Start()
	return c, nil
}
