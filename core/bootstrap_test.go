package core

import (
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	"path/filepath"
	"shippio-service/config"
	"shippio-service/shipments/models"
	"testing"
	"time"
)

func openTestDatabase(t *testing.T) config.DatabaseConfig {
	return config.DatabaseConfig{
		Dialect:         "sqlite",
		DSN:             filepath.Join(t.TempDir(), "bootstrap.db") + "?_foreign_keys=1",
		MaxOpenConns:    2,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Minute,
	}
}

func TestBootstrapIsIdempotent(t *testing.T) {
	db, err := OpenDatabase(openTestDatabase(t), zap.NewNop())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, Bootstrap(ctx, db, zap.NewNop()))
	require.NoError(t, Bootstrap(ctx, db, zap.NewNop()))

	assert.True(t, db.Migrator().HasTable(&models.User{}))
	assert.True(t, db.Migrator().HasTable(&models.Shipment{}))

	var users []models.User
	require.NoError(t, db.Order("user_id").Find(&users).Error)
	assert.Equal(t, []models.User{
		{UserID: "Doe", Type: models.RoleWarehouseStaff},
		{UserID: "Jane", Type: models.RoleOwner},
		{UserID: "John", Type: models.RoleStaff},
	}, users)
}

func TestBootstrapDeclaresUserForeignKey(t *testing.T) {
	db, err := OpenDatabase(openTestDatabase(t), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, Bootstrap(context.Background(), db, zap.NewNop()))

	err = db.Create(&models.Shipment{InternalReferenceName: "REF", UserID: "Nobody"}).Error
	assert.Error(t, err)
}

func TestBootstrapLogsEachStep(t *testing.T) {
	db, err := OpenDatabase(openTestDatabase(t), zap.NewNop())
	require.NoError(t, err)

	observed, logs := observer.New(zap.InfoLevel)
	require.NoError(t, Bootstrap(context.Background(), db, zap.New(observed)))

	completed := logs.FilterMessage("Bootstrap step completed").All()
	require.Len(t, completed, len(bootstrapSteps))
	for i, entry := range completed {
		assert.Equal(t, bootstrapSteps[i].name, entry.ContextMap()["step"])
	}
}

func TestEnsureDatabaseSkipsOtherDialects(t *testing.T) {
	cfg := config.DatabaseConfig{Dialect: "postgres", DSN: "::not a dsn::"}
	assert.NoError(t, EnsureDatabase(context.Background(), cfg, zap.NewNop()))
}

func TestEnsureDatabaseRejectsMalformedMySQLDSN(t *testing.T) {
	cfg := config.DatabaseConfig{Dialect: "mysql", DSN: "root:root@tcp(localhost:3306"}
	assert.Error(t, EnsureDatabase(context.Background(), cfg, zap.NewNop()))
}

func TestOpenDatabaseRejectsUnknownDialect(t *testing.T) {
	_, err := OpenDatabase(config.DatabaseConfig{Dialect: "oracle"}, zap.NewNop())
	assert.ErrorContains(t, err, "invalid database dialect")
}

type constraintMigrator struct {
	gorm.Migrator
	constraints map[string]bool
	checked     []string
}

func (m *constraintMigrator) HasConstraint(_ any, name string) bool {
	m.checked = append(m.checked, name)
	return m.constraints[name]
}

func TestHasUserForeignKeyAcceptsEitherName(t *testing.T) {
	tests := []struct {
		name        string
		constraints map[string]bool
		expected    bool
	}{
		{"none", map[string]bool{}, false},
		{"created by bootstrap", map[string]bool{userForeignKey: true}, true},
		{"created by an earlier deployment", map[string]bool{"FK_user_id": true}, true},
		{"unrelated constraint", map[string]bool{"fk_other": true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &constraintMigrator{constraints: tt.constraints}
			assert.Equal(t, tt.expected, hasUserForeignKey(m))
		})
	}
}

func TestHasUserForeignKeyChecksBothNames(t *testing.T) {
	m := &constraintMigrator{constraints: map[string]bool{}}

	assert.False(t, hasUserForeignKey(m))
	assert.Equal(t, []string{userForeignKey, "FK_user_id"}, m.checked)
}
