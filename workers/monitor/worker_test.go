package monitor

import (
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"shippio-service/core/coretest"
	"shippio-service/shipments/models"
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	now := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	past := models.NewTimestamp(now.Add(-2 * time.Hour))
	future := models.NewTimestamp(now.Add(2 * time.Hour))

	tests := []struct {
		name     string
		shipment models.Shipment
		expected Delay
	}{
		{"no estimates", models.Shipment{}, DelayNone},
		{"start pending", models.Shipment{EstimatedStartedAt: future}, DelayNone},
		{"late start", models.Shipment{EstimatedStartedAt: past}, DelayLateStart},
		{"started", models.Shipment{EstimatedStartedAt: past, ActualStartedAt: past}, DelayNone},
		{"late completion", models.Shipment{ActualStartedAt: past, EstimatedCompletionAt: past}, DelayLateCompletion},
		{"late on both", models.Shipment{EstimatedStartedAt: past, EstimatedCompletionAt: past}, DelayLateCompletion},
		{"completed", models.Shipment{EstimatedCompletionAt: past, ActualCompletionAt: past}, DelayNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.shipment, now))
		})
	}
}

func TestExecuteReportsOverdueShipments(t *testing.T) {
	db := coretest.NewDatabase(t)
	now := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	past := models.NewTimestamp(now.Add(-time.Hour))

	for _, s := range []models.Shipment{
		{InternalReferenceName: "LATE", UserID: "John", EstimatedStartedAt: past},
		{InternalReferenceName: "DONE", UserID: "Jane", EstimatedCompletionAt: past, ActualCompletionAt: past},
	} {
		require.NoError(t, db.Create(&s).Error)
	}

	core, logs := observer.New(zap.InfoLevel)
	w := NewWorker(zap.New(core), db, "*/30 * * * *")
	w.now = func() time.Time { return now }

	require.True(t, w.Ready(now))
	w.Execute(context.Background())
	assert.True(t, w.Ready(now))

	warnings := logs.FilterMessage("Shipment is overdue").All()
	require.Len(t, warnings, 1)
	fields := warnings[0].ContextMap()
	assert.Equal(t, "LATE", fields["internal_reference_name"])
	assert.Equal(t, string(DelayLateStart), fields["delay"])
	assert.Equal(t, time.Hour, fields["overdue_by"])
}

func TestExecuteWithNothingOverdue(t *testing.T) {
	db := coretest.NewDatabase(t)
	core, logs := observer.New(zap.InfoLevel)
	w := NewWorker(zap.New(core), db, "@hourly")

	w.Execute(context.Background())

	assert.Equal(t, 1, logs.FilterMessage("No overdue shipments found. Overdue check completed 😴").Len())
	assert.Equal(t, "overdue_monitor", w.Name())
	assert.Equal(t, "@hourly", w.Schedule())
}

func TestExecuteSkipsWhileBusy(t *testing.T) {
	db := coretest.NewDatabase(t)
	core, logs := observer.New(zap.InfoLevel)
	w := NewWorker(zap.New(core), db, "@hourly")

	w.busy.Store(true)
	assert.False(t, w.Ready(time.Now()))
	w.Execute(context.Background())

	assert.Zero(t, logs.Len())
}
