package monitor

import (
	"context"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"shippio-service/shipments/models"
	"shippio-service/shipments/repositories"
	"sync"
	"sync/atomic"
	"time"
)

type Delay string

const (
	DelayNone           Delay = ""
	DelayLateStart      Delay = "late_start"
	DelayLateCompletion Delay = "late_completion"
)

// Worker periodically reports shipments that missed their estimated start or completion.
// It only reads.
type Worker struct {
	logger   *zap.Logger
	db       *gorm.DB
	schedule string
	now      func() time.Time
	busy     atomic.Bool
}

func NewWorker(logger *zap.Logger, db *gorm.DB, schedule string) *Worker {
	return &Worker{
		logger:   logger,
		db:       db,
		schedule: schedule,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (w *Worker) Name() string {
	return "overdue_monitor"
}

func (w *Worker) Schedule() string {
	return w.schedule
}

func (w *Worker) Ready(time.Time) bool {
	return !w.busy.Load()
}

func (w *Worker) Execute(ctx context.Context) {
	if !w.busy.CompareAndSwap(false, true) {
		return
	}
	defer w.busy.Store(false)

	w.logger.Info("Starting overdue shipment check.")

	now := w.now()
	repo := repositories.NewRepository(w.db.WithContext(ctx))

	shipments, err := repo.FindOverdueShipments(now)
	if err != nil {
		w.logger.Error("Failed to load overdue shipments", zap.Error(err))
		return
	}

	if len(shipments) == 0 {
		w.logger.Info("No overdue shipments found. Overdue check completed 😴")
		return
	}

	var wg sync.WaitGroup
	for _, shipment := range shipments {
		wg.Add(1)
		go func(sh models.Shipment) {
			defer wg.Done()
			w.reportShipment(sh, now)
		}(shipment)
	}

	wg.Wait()
	w.logger.Info("Overdue check completed 😴", zap.Int("overdue", len(shipments)))
}

func (w *Worker) reportShipment(sh models.Shipment, now time.Time) {
	delay := Classify(sh, now)
	if delay == DelayNone {
		return
	}

	fields := []zap.Field{
		zap.Uint("shipment_id", sh.ID),
		zap.String("internal_reference_name", sh.InternalReferenceName),
		zap.String("user_id", sh.UserID),
		zap.String("delay", string(delay)),
	}

	switch delay {
	case DelayLateStart:
		fields = append(fields, zap.Duration("overdue_by", now.Sub(sh.EstimatedStartedAt.Time())))
	case DelayLateCompletion:
		fields = append(fields, zap.Duration("overdue_by", now.Sub(sh.EstimatedCompletionAt.Time())))
	}

	w.logger.Warn("Shipment is overdue", fields...)
}

// Classify reports the most severe delay of a shipment at now. A missed
// completion outranks a missed start.
func Classify(shipment models.Shipment, now time.Time) Delay {
	if shipment.ActualCompletionAt == nil && shipment.EstimatedCompletionAt != nil && shipment.EstimatedCompletionAt.Time().Before(now) {
		return DelayLateCompletion
	}

	if shipment.ActualStartedAt == nil && shipment.EstimatedStartedAt != nil && shipment.EstimatedStartedAt.Time().Before(now) {
		return DelayLateStart
	}

	return DelayNone
}
