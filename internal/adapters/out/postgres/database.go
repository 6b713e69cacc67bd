package postgres

import (
	"fmt"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"storefront/internal/adapters/out/postgres/orderrepo"
	"storefront/internal/adapters/out/postgres/outboxrepo"
	"storefront/internal/adapters/out/postgres/paymentrepo"
	"storefront/internal/adapters/out/postgres/productrepo"
	"storefront/internal/adapters/out/postgres/raterepo"
	"storefront/internal/adapters/out/postgres/wasterepo"
	"storefront/internal/adapters/out/postgres/zonerepo"
)

// ConnectionString builds a libpq key/value DSN.
func ConnectionString(host, port, user, password, dbName, sslMode string) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbName, sslMode)
}

// Open connects with unique-violation translation enabled and the tracing
// plugin registered.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err = db.Use(otelgorm.NewPlugin()); err != nil {
		return nil, fmt.Errorf("register otelgorm: %w", err)
	}
	return db, nil
}

// Models lists every persisted table.
func Models() []any {
	var models []any
	models = append(models, orderrepo.Models()...)
	models = append(models, productrepo.Models()...)
	models = append(models, wasterepo.Models()...)
	models = append(models, zonerepo.Models()...)
	models = append(models, raterepo.Models()...)
	models = append(models, paymentrepo.Models()...)
	models = append(models, outboxrepo.Models()...)
	return models
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
