package runstore

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "modernc.org/sqlite"             // registers the "sqlite" driver

	"github.com/huangsam/trafficprofile/internal/contract"
	"github.com/huangsam/trafficprofile/schema"
)

// Table names for run tracking.
const (
	runsTable    = "trafficprofile_runs"
	samplesTable = "trafficprofile_samples"

	// migrationsTable is golang-migrate's default version table.
	migrationsTable = "schema_migrations"
)

// RunStoreImpl implements the RunStore interface.
type RunStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.RunStore = &RunStoreImpl{} // Compile-time check

// driverName maps a backend to its database/sql driver.
func driverName(backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return "mysql"
	case schema.PostgreSQLBackend:
		return "pgx"
	default:
		return "sqlite"
	}
}

// openDB opens and pings the database for backend.
// MySQL DSNs always get parseTime so DATETIME columns scan into time.Time.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, error) {
	var db *sql.DB
	var err error

	switch backend {
	case schema.SQLiteBackend:
		if connStr == "" {
			connStr = contract.GetRunsDBFilePath(".")
		}
		db, err = sql.Open(driverName(backend), connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", connStr, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		cfg, perr := mysql.ParseDSN(connStr)
		if perr != nil {
			return nil, fmt.Errorf("failed to parse MySQL connection string: %w. Check format: user:password@tcp(host:port)/dbname", perr)
		}
		cfg.ParseTime = true
		cfg.MultiStatements = true // migration files hold several statements
		db, err = sql.Open(driverName(backend), cfg.FormatDSN())
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w", err)
		}

	case schema.PostgreSQLBackend:
		db, err = sql.Open(driverName(backend), connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=... dbname=...", err)
		}

	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		var connDetail string
		switch backend {
		case schema.MySQLBackend:
			connDetail = "Check that MySQL is running and the connection string is correct. Ensure user/password are valid."
		case schema.PostgreSQLBackend:
			connDetail = "Check that PostgreSQL is running and the connection string is correct. Ensure user/password are valid."
		default:
			connDetail = "Verify the database file location is accessible."
		}
		return nil, fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, connDetail)
	}
	return db, nil
}

// NewRunStore creates a new RunStore with the specified backend.
func NewRunStore(backend schema.DatabaseBackend, connStr string) (contract.RunStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &RunStoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}

	if err := createRunTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create run tables: %w", err)
	}

	return &RunStoreImpl{db: db, backend: backend}, nil
}

// createRunTables creates the run tracking tables.
func createRunTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{runsTable, getCreateRunsQuery(backend)},
		{samplesTable, getCreateSamplesQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateRunsQuery returns the CREATE TABLE query for trafficprofile_runs.
func getCreateRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(runsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				route_key VARCHAR(255) NOT NULL,
				origin TEXT NOT NULL,
				destination TEXT NOT NULL,
				interval_minutes INT NOT NULL,
				planned_ticks INT NOT NULL,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				sample_count INT NOT NULL DEFAULT 0,
				status VARCHAR(20) NOT NULL,
				error_message TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				route_key TEXT NOT NULL,
				origin TEXT NOT NULL,
				destination TEXT NOT NULL,
				interval_minutes INT NOT NULL,
				planned_ticks INT NOT NULL,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				sample_count INT NOT NULL DEFAULT 0,
				status TEXT NOT NULL,
				error_message TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				route_key TEXT NOT NULL,
				origin TEXT NOT NULL,
				destination TEXT NOT NULL,
				interval_minutes INTEGER NOT NULL,
				planned_ticks INTEGER NOT NULL,
				start_time TEXT NOT NULL,
				end_time TEXT,
				sample_count INTEGER NOT NULL DEFAULT 0,
				status TEXT NOT NULL,
				error_message TEXT
			);
		`, quotedTableName)
	}
}

// getCreateSamplesQuery returns the CREATE TABLE query for trafficprofile_samples.
func getCreateSamplesQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(samplesTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				seq INT NOT NULL,
				route_key VARCHAR(255) NOT NULL,
				day_of_week INT NOT NULL,
				sample_time DATETIME(6) NOT NULL,
				duration_minutes DOUBLE NOT NULL,
				PRIMARY KEY (run_id, seq)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				seq INT NOT NULL,
				route_key TEXT NOT NULL,
				day_of_week INT NOT NULL,
				sample_time TIMESTAMPTZ NOT NULL,
				duration_minutes DOUBLE PRECISION NOT NULL,
				PRIMARY KEY (run_id, seq)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				seq INTEGER NOT NULL,
				route_key TEXT NOT NULL,
				day_of_week INTEGER NOT NULL,
				sample_time TEXT NOT NULL,
				duration_minutes REAL NOT NULL,
				PRIMARY KEY (run_id, seq)
			);
		`, quotedTableName)
	}
}

// BeginRun creates a new run record with status running and returns its unique ID.
func (rs *RunStoreImpl) BeginRun(route schema.Route, params schema.RunParameters, planned int, startTime time.Time) (int64, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return 0, nil
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)
	args := []any{
		route.Key, route.Config.Origin, route.Config.Destination,
		params.IntervalMinutes, planned, formatTime(startTime, rs.backend), string(schema.RunningStatus),
	}

	var runID int64
	var err error
	switch rs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (route_key, origin, destination, interval_minutes, planned_ticks, start_time, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING run_id`, quotedTableName)
		err = rs.db.QueryRow(query, args...).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (route_key, origin, destination, interval_minutes, planned_ticks, start_time, status)
			VALUES (?, ?, ?, ?, ?, ?, ?)`, quotedTableName)
		var result sql.Result
		result, err = rs.db.Exec(query, args...)
		if err != nil {
			return 0, fmt.Errorf("failed to insert run: %w", err)
		}
		runID, err = result.LastInsertId()
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return runID, nil
}

// EndRun records the run's final status and stores its samples in one transaction.
func (rs *RunStoreImpl) EndRun(runID int64, endTime time.Time, status schema.RunStatus, samples []schema.Sample, runErr error) (err error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil
	}

	var errMsg *string
	if runErr != nil {
		msg := runErr.Error()
		errMsg = &msg
	}

	tx, err := rs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var routeKey string
	selectQuery := fmt.Sprintf(`SELECT route_key FROM %s WHERE run_id = %s`, quoteTableName(runsTable, rs.backend), placeholder(rs.backend, 1))
	if err = tx.QueryRow(selectQuery, runID).Scan(&routeKey); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("run %d not found", runID)
		}
		return fmt.Errorf("failed to get run %d: %w", runID, err)
	}

	updateQuery := fmt.Sprintf(`UPDATE %s SET end_time = %s, sample_count = %s, status = %s, error_message = %s WHERE run_id = %s`,
		quoteTableName(runsTable, rs.backend),
		placeholder(rs.backend, 1), placeholder(rs.backend, 2), placeholder(rs.backend, 3),
		placeholder(rs.backend, 4), placeholder(rs.backend, 5))
	if _, err = tx.Exec(updateQuery, formatTime(endTime, rs.backend), len(samples), string(status), errMsg, runID); err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	insertQuery := fmt.Sprintf(`INSERT INTO %s (run_id, seq, route_key, day_of_week, sample_time, duration_minutes) VALUES (%s, %s, %s, %s, %s, %s)`,
		quoteTableName(samplesTable, rs.backend),
		placeholder(rs.backend, 1), placeholder(rs.backend, 2), placeholder(rs.backend, 3),
		placeholder(rs.backend, 4), placeholder(rs.backend, 5), placeholder(rs.backend, 6))
	stmt, err := tx.Prepare(insertQuery)
	if err != nil {
		return fmt.Errorf("failed to prepare sample insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, sm := range samples {
		if _, err = stmt.Exec(runID, i+1, routeKey, sm.DayOfWeek, formatTime(sm.Timestamp, rs.backend), sm.DurationMinutes); err != nil {
			return fmt.Errorf("failed to insert sample %d: %w", i+1, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run %d: %w", runID, err)
	}
	return nil
}

// Close closes the underlying connection.
func (rs *RunStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the run store.
func (rs *RunStoreImpl) GetStatus() (schema.RunStoreStatus, error) {
	status := schema.RunStoreStatus{
		Backend:    string(rs.backend),
		Connected:  rs.db != nil,
		TableSizes: make(map[string]int64),
	}

	if rs.backend == schema.NoneBackend || rs.db == nil {
		return status, nil
	}

	runsQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(runsTable, rs.backend))
	if err := rs.db.QueryRow(runsQuery).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		lastRunQuery := fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", quoteTableName(runsTable, rs.backend))
		var lastStart timeScanner
		if err := rs.db.QueryRow(lastRunQuery).Scan(&status.LastRunID, &lastStart); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		status.LastRunTime = lastStart.t

		oldestRunQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", quoteTableName(runsTable, rs.backend))
		var oldestStart timeScanner
		if err := rs.db.QueryRow(oldestRunQuery).Scan(&oldestStart); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = oldestStart.t
	}

	for _, table := range []string{runsTable, samplesTable} {
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, rs.backend))
		var count int64
		if err := rs.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.TotalSamples = int(status.TableSizes[samplesTable])

	return status, nil
}

// GetAllRuns retrieves all runs ordered by ID.
func (rs *RunStoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, route_key, origin, destination, interval_minutes, planned_ticks,
		start_time, end_time, sample_count, status, error_message FROM %s ORDER BY run_id`, quoteTableName(runsTable, rs.backend))

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var record schema.RunRecord
		var status string
		var start, end timeScanner
		if err := rows.Scan(&record.RunID, &record.RouteKey, &record.Origin, &record.Destination,
			&record.IntervalMinutes, &record.PlannedTicks, &start, &end, &record.SampleCount,
			&status, &record.ErrorMessage); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		record.StartTime = start.t
		if end.valid {
			endTime := end.t
			record.EndTime = &endTime
		}
		record.Status = schema.RunStatus(status)
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// GetAllSamples retrieves all samples ordered by run and sequence.
func (rs *RunStoreImpl) GetAllSamples() ([]schema.SampleRecord, error) {
	// Skip for NoneBackend
	if rs.backend == schema.NoneBackend || rs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, seq, route_key, day_of_week, sample_time, duration_minutes
		FROM %s ORDER BY run_id, seq`, quoteTableName(samplesTable, rs.backend))

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.SampleRecord
	for rows.Next() {
		var record schema.SampleRecord
		var ts timeScanner
		if err := rows.Scan(&record.RunID, &record.Seq, &record.RouteKey, &record.DayOfWeek, &ts, &record.DurationMinutes); err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}
		record.SampleTime = ts.t
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating samples: %w", err)
	}
	return results, nil
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.UTC().Format(time.RFC3339Nano)
	case schema.MySQLBackend:
		return t.UTC()
	default:
		return t
	}
}

// timeScanner reads a possibly NULL time column stored as RFC3339 text (SQLite)
// or as a native datetime (MySQL, PostgreSQL).
type timeScanner struct {
	t     time.Time
	valid bool
}

// Scan implements sql.Scanner.
func (ts *timeScanner) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		ts.valid = false
		return nil
	case time.Time:
		ts.t, ts.valid = v, true
		return nil
	case string:
		return ts.parse(v)
	case []byte:
		return ts.parse(string(v))
	default:
		return fmt.Errorf("unsupported time value %T", src)
	}
}

func (ts *timeScanner) parse(s string) error {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("failed to parse time %q: %w", s, err)
	}
	ts.t, ts.valid = t, true
	return nil
}

// placeholder returns the nth bind parameter for backend.
func placeholder(backend schema.DatabaseBackend, n int) string {
	if backend == schema.PostgreSQLBackend {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// validateTableName rejects names that cannot be safely quoted.
func validateTableName(name string) error {
	if !tableNamePattern.MatchString(name) {
		return fmt.Errorf("invalid table name %q", name)
	}
	return nil
}

// quoteTableName quotes a validated identifier for backend.
// It panics on an invalid name, which only happens with a programming error.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	if err := validateTableName(name); err != nil {
		panic(err)
	}
	if backend == schema.MySQLBackend {
		return "`" + name + "`"
	}
	return `"` + name + `"`
}
