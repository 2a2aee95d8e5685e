// Package coretest opens throwaway databases for tests.
package coretest

import (
	"context"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"path/filepath"
	"shippio-service/config"
	"shippio-service/core"
	"testing"
	"time"
)

// Config returns a sqlite database config backed by a file in the test's temp dir.
func Config(t *testing.T) config.DatabaseConfig {
	t.Helper()

	return config.DatabaseConfig{
		Dialect:         "sqlite",
		DSN:             filepath.Join(t.TempDir(), "shippio.db") + "?_foreign_keys=1",
		MaxOpenConns:    4,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
		QueryTimeout:    5 * time.Second,
	}
}

// NewDatabase opens a sqlite database with the schema and seed users in place.
func NewDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := core.OpenDatabase(Config(t), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, core.Bootstrap(context.Background(), db, zap.NewNop()))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

// InUse reports how many pooled connections are currently checked out.
func InUse(t *testing.T, db *gorm.DB) int {
	t.Helper()

	sqlDB, err := db.DB()
	require.NoError(t, err)
	return sqlDB.Stats().InUse
}

// StatementCounter counts the queries, inserts and updates gorm executes on db.
type StatementCounter struct {
	count int
}

func (c *StatementCounter) Count() int {
	return c.count
}

func (c *StatementCounter) Reset() {
	c.count = 0
}

// CountStatements registers gorm callbacks that increment the returned counter.
func CountStatements(t *testing.T, db *gorm.DB) *StatementCounter {
	t.Helper()

	counter := &StatementCounter{}
	inc := func(*gorm.DB) { counter.count++ }

	require.NoError(t, db.Callback().Query().After("gorm:query").Register("coretest:count_query", inc))
	require.NoError(t, db.Callback().Create().After("gorm:create").Register("coretest:count_create", inc))
	require.NoError(t, db.Callback().Update().After("gorm:update").Register("coretest:count_update", inc))

	return counter
}
