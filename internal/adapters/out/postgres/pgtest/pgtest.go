// Package pgtest starts a throwaway Postgres container with the storefront
// schema for integration suites.
package pgtest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	pgadapter "storefront/internal/adapters/out/postgres"
)

var tables = []string{
	"orders", "order_items", "order_status_history", "order_assignments", "delivery_proofs",
	"payments", "products", "inventory_logs", "waste_logs",
	"delivery_zones", "exchange_rates", "outbox_messages",
}

type Database struct {
	container *postgres.PostgresContainer
	DB        *gorm.DB
}

// Start runs postgres:15-alpine, connects through the production Open and migrates.
func Start(ctx context.Context) (*Database, error) {
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, err
	}

	d := &Database{container: container}
	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return d, err
	}
	if d.DB, err = pgadapter.Open(dsn); err != nil {
		return d, err
	}
	return d, pgadapter.Migrate(d.DB)
}

// Truncate empties every table and resets sequences.
func (d *Database) Truncate() error {
	return d.DB.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", strings.Join(tables, ", "))).Error
}

func (d *Database) Terminate(ctx context.Context) error {
	if d == nil || d.container == nil {
		return nil
	}
	return d.container.Terminate(ctx)
}
