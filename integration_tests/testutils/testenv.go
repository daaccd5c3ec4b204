package testutils

import (
	"context"
	"fmt"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"

	"github.com/Black-And-White-Club/meishu/config"
	"github.com/Black-And-White-Club/meishu/db/bundb"
	"github.com/Black-And-White-Club/meishu/integration_tests/containers"
)

// TestEnvironment holds the shared Postgres container and connections.
type TestEnvironment struct {
	Ctx         context.Context
	cancel      context.CancelFunc
	PgContainer *postgres.PostgresContainer
	DB          *bun.DB
	ConnStr     string
	Config      *config.Config
}

var (
	envOnce   sync.Once
	sharedEnv *TestEnvironment
	envErr    error
)

// GetOrCreateTestEnv returns the package-wide environment, starting the
// container on first use. Tests are skipped under -short or when no Docker
// provider is reachable.
func GetOrCreateTestEnv(t *testing.T) *TestEnvironment {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	envOnce.Do(func() {
		sharedEnv, envErr = newTestEnvironment()
	})
	if envErr != nil {
		t.Fatalf("failed to set up test environment: %v", envErr)
	}
	return sharedEnv
}

func newTestEnvironment() (*TestEnvironment, error) {
	ctx, cancel := context.WithCancel(context.Background())

	pgContainer, connStr, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to setup postgres container: %w", err)
	}

	// Same pgdriver pool the service opens, so raw $n queries take the production path.
	pgCfg := config.PostgresConfig{DSN: connStr, MaxConns: 5}
	db, err := bundb.Open(ctx, pgCfg)
	if err != nil {
		pgContainer.Terminate(ctx)
		cancel()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := runMigrations(ctx, db, connStr); err != nil {
		db.Close()
		pgContainer.Terminate(ctx)
		cancel()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &TestEnvironment{
		Ctx:         ctx,
		cancel:      cancel,
		PgContainer: pgContainer,
		DB:          db,
		ConnStr:     connStr,
		Config: &config.Config{
			Postgres: pgCfg,
		},
	}, nil
}

// Shutdown tears down the shared environment if one was created.
func Shutdown() {
	if sharedEnv == nil {
		return
	}
	sharedEnv.Cleanup()
}

// Cleanup closes connections and terminates the container.
func (env *TestEnvironment) Cleanup() {
	log.Println("Cleaning up test environment...")
	if env.DB != nil {
		env.DB.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if env.PgContainer != nil {
		if err := env.PgContainer.Terminate(ctx); err != nil {
			log.Printf("Error terminating Postgres container: %v", err)
		}
	}
	if env.cancel != nil {
		env.cancel()
	}
	log.Println("Cleanup complete.")
}
