package testutil

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// StartPostgres boots a disposable Postgres container and returns its DSN
// together with a function that terminates it.
func StartPostgres(ctx context.Context) (dsn string, stop func(), err error) {
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "tripcraft",
			"POSTGRES_PASSWORD": "tripcraft",
			"POSTGRES_DB":       "tripcraft_test",
		},
		// Postgres logs readiness twice: once for the init server, once for the real one.
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return "", nil, fmt.Errorf("testutil.StartPostgres: start container: %w", err)
	}
	stop = func() { _ = container.Terminate(context.Background()) }

	host, err := container.Host(ctx)
	if err != nil {
		stop()
		return "", nil, fmt.Errorf("testutil.StartPostgres: host: %w", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		stop()
		return "", nil, fmt.Errorf("testutil.StartPostgres: port: %w", err)
	}

	dsn = fmt.Sprintf("postgres://tripcraft:tripcraft@%s:%s/tripcraft_test?sslmode=disable", host, port.Port())
	return dsn, stop, nil
}

// EnsureDatabase starts a Postgres container and exports its DSN as
// TEST_DATABASE_URL when TEST_USE_CONTAINERS=1 and no URL is set yet.
// Otherwise it does nothing. The returned stop function is always non-nil.
func EnsureDatabase(ctx context.Context) (stop func(), err error) {
	if os.Getenv("TEST_DATABASE_URL") != "" || os.Getenv("TEST_USE_CONTAINERS") != "1" {
		return func() {}, nil
	}
	dsn, stop, err := StartPostgres(ctx)
	if err != nil {
		return nil, err
	}
	if err := os.Setenv("TEST_DATABASE_URL", dsn); err != nil {
		stop()
		return nil, fmt.Errorf("testutil.EnsureDatabase: %w", err)
	}
	return stop, nil
}
