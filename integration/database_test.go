//go:build database

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// exerciseRunsBackend samples twice with run tracking and checks the runs commands.
func exerciseRunsBackend(t *testing.T, backend, connStr string) {
	t.Helper()
	dir := t.TempDir()
	routePath := writeRoute(t, dir, "home_work")
	env := []string{
		"TRAFFICPROFILE_RUNS_BACKEND=" + backend,
		"TRAFFICPROFILE_RUNS_DB_CONNECT=" + connStr,
	}

	_, err := runCommand(t, dir, env, "runs", "clear")
	require.NoError(t, err)

	_, err = runCommand(t, dir, env, "runs", "migrate")
	require.NoError(t, err)

	for range 2 {
		_, err = runCommand(t, dir, env, staticSampleArgs(routePath, "--no-plot")...)
		require.NoError(t, err)
	}

	out, err := runCommand(t, dir, env, "runs", "status")
	require.NoError(t, err)
	assert.Contains(t, out, backend)

	out, err = runCommand(t, dir, env, "runs", "list", "--output", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "home_work")

	_, err = runCommand(t, dir, env, "runs", "export", "--output-file", "runs")
	require.NoError(t, err)
}

// TestRunsWithMySQL tests run tracking against a MySQL backend.
func TestRunsWithMySQL(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "trafficprofile",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/trafficprofile", host, port.Port())
	exerciseRunsBackend(t, "mysql", connStr)
}

// TestRunsWithPostgres tests run tracking against a PostgreSQL backend.
func TestRunsWithPostgres(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port())
	exerciseRunsBackend(t, "postgresql", connStr)
}
