package core

import (
	"context"
	"database/sql"
	"fmt"
	mysqldriver "github.com/go-sql-driver/mysql"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"shippio-service/config"
	"shippio-service/shipments/models"
	"strings"
)

// userForeignKey is the relation gorm builds the constraint from. Databases set up by
// earlier deployments carry the same key as legacyUserForeignKey.
const (
	userForeignKey       = "User"
	legacyUserForeignKey = "FK_user_id"
)

// EnsureDatabase creates the database named in a MySQL DSN when it does not exist yet.
// It must run before OpenDatabase, which connects to that database directly.
// Other dialects are expected to point at an existing database.
func EnsureDatabase(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) error {
	if cfg.Dialect != "mysql" {
		return nil
	}

	dsn, err := mysqldriver.ParseDSN(cfg.DSN)
	if err != nil {
		return fmt.Errorf("parse mysql dsn: %w", err)
	}

	name := dsn.DBName
	if name == "" {
		return nil
	}
	dsn.DBName = ""

	server, err := sql.Open("mysql", dsn.FormatDSN())
	if err != nil {
		return err
	}
	defer func() {
		_ = server.Close()
	}()

	quoted := "`" + strings.ReplaceAll(name, "`", "``") + "`"
	if _, err := server.ExecContext(ctx, "CREATE DATABASE IF NOT EXISTS "+quoted); err != nil {
		return fmt.Errorf("create database %s: %w", name, err)
	}

	logger.Info("Database ensured", zap.String("database", name))
	return nil
}

type bootstrapStep struct {
	name string
	run  func(db *gorm.DB, logger *zap.Logger) error
}

var bootstrapSteps = []bootstrapStep{
	{name: "create_tables", run: createTables},
	{name: "seed_users", run: seedUsers},
	{name: "add_user_foreign_key", run: addUserForeignKey},
}

// Bootstrap makes sure tables, seed users and the shipments -> users foreign key exist.
// Every step is idempotent. A failing step is logged and the remaining steps still run.
func Bootstrap(ctx context.Context, db *gorm.DB, logger *zap.Logger) error {
	db = db.WithContext(ctx)

	var errs error
	for _, step := range bootstrapSteps {
		if err := step.run(db, logger); err != nil {
			logger.Error("Bootstrap step failed", zap.String("step", step.name), zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", step.name, err))
			continue
		}
		logger.Info("Bootstrap step completed", zap.String("step", step.name))
	}
	return errs
}

func createTables(db *gorm.DB, logger *zap.Logger) error {
	migrator := db.Migrator()

	// users first, shipments references it
	for _, model := range []any{&models.User{}, &models.Shipment{}} {
		if migrator.HasTable(model) {
			continue
		}
		if err := migrator.CreateTable(model); err != nil {
			return err
		}
		logger.Info("Table created", zap.String("model", fmt.Sprintf("%T", model)))
	}
	return nil
}

func seedUsers(db *gorm.DB, _ *zap.Logger) error {
	seeds := make([]models.User, len(models.SeedUsers))
	copy(seeds, models.SeedUsers)

	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seeds).Error
}

func addUserForeignKey(db *gorm.DB, logger *zap.Logger) error {
	// SQLite cannot add constraints to an existing table; CreateTable declared it.
	if db.Dialector.Name() == "sqlite" {
		return nil
	}

	migrator := db.Migrator()
	if hasUserForeignKey(migrator) {
		return nil
	}
	if err := migrator.CreateConstraint(&models.Shipment{}, userForeignKey); err != nil {
		return err
	}

	logger.Info("Foreign key created", zap.String("table", "shipments"), zap.String("references", "users.user_id"))
	return nil
}

func hasUserForeignKey(migrator gorm.Migrator) bool {
	for _, name := range []string{userForeignKey, legacyUserForeignKey} {
		if migrator.HasConstraint(&models.Shipment{}, name) {
			return true
		}
	}
	return false
}
