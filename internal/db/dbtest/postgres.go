// Package dbtest starts a disposable PostgreSQL for repository tests.
package dbtest

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/rs/zerolog"
	database "github.com/sebuszqo/BudgetManager/internal/db"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// NewPostgres starts a postgres container with all migrations applied. The
// test is skipped in -short mode or when no container runtime is available.
func NewPostgres(t *testing.T) *sql.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	ctx := context.Background()
	container, err := runContainer(ctx)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("container connection string: %v", err)
	}

	if err := database.RunMigrations(connStr); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	dbService, err := database.NewDBService(ctx, connStr, zerolog.Nop())
	if err != nil {
		t.Fatalf("connect to postgres: %v", err)
	}
	t.Cleanup(func() {
		_ = dbService.Close()
	})
	return dbService.DB
}

func runContainer(ctx context.Context) (c *postgres.PostgresContainer, err error) {
	// testcontainers panics when no docker host can be found
	defer func() {
		if r := recover(); r != nil {
			err = testcontainersPanic{r}
		}
	}()

	return postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("budget"),
		postgres.WithUsername("budget"),
		postgres.WithPassword("budget"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
}

type testcontainersPanic struct {
	value interface{}
}

func (p testcontainersPanic) Error() string {
	return "testcontainers panicked"
}
