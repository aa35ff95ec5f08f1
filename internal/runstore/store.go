package runstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/huangsam/likeplot/internal/contract"
	"github.com/huangsam/likeplot/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// Table names for run tracking.
const (
	runsTable         = "likeplot_runs"
	groupResultsTable = "likeplot_group_results"
)

// tableNameRegex restricts table names to plain identifiers before they are quoted.
var tableNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// RunStoreImpl implements the RunStore interface on database/sql.
type RunStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.RunStore = &RunStoreImpl{} // Compile-time check

// NewRunStore opens the run store for backend and creates its tables.
// The none backend yields a store whose operations do nothing.
func NewRunStore(backend schema.DatabaseBackend, connStr string) (*RunStoreImpl, error) {
	var db *sql.DB
	var err error

	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetRunsDBFilePath()
		}
		db, err = sql.Open(driverName(backend), dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		dsn, dsnErr := mysqlDSN(connStr)
		if dsnErr != nil {
			return nil, dsnErr
		}
		db, err = sql.Open(driverName(backend), dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w", err)
		}

	case schema.PostgreSQLBackend:
		db, err = sql.Open(driverName(backend), connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w", err)
		}

	case schema.NoneBackend:
		return &RunStoreImpl{backend: backend}, nil

	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w. Verify the database server is running and the connection string is correct", backend, err)
	}

	if err := createTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create run tables: %w", err)
	}

	return &RunStoreImpl{db: db, backend: backend}, nil
}

// driverName returns the database/sql driver registered for a backend.
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

// mysqlDSN makes MySQL return DATETIME columns as time.Time.
func mysqlDSN(connStr string) (string, error) {
	cfg, err := mysql.ParseDSN(connStr)
	if err != nil {
		return "", fmt.Errorf("invalid MySQL connection string: %w. Expected user:password@tcp(host:port)/dbname", err)
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

// createTables creates the run tracking tables when they are missing.
func createTables(db *sql.DB, backend schema.DatabaseBackend) error {
	for _, table := range []string{runsTable, groupResultsTable} {
		query, err := createTableQuery(table, backend)
		if err != nil {
			return err
		}
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table, err)
		}
	}
	return nil
}

// columnTypes holds the per-dialect spelling of the column types used by the run tables.
type columnTypes struct {
	id, bigint, integer, float, text, shortText, timestamp string
}

func typesFor(backend schema.DatabaseBackend) columnTypes {
	switch backend {
	case schema.MySQLBackend:
		return columnTypes{"BIGINT AUTO_INCREMENT PRIMARY KEY", "BIGINT", "INT", "DOUBLE", "TEXT", "VARCHAR(255)", "DATETIME(6)"}
	case schema.PostgreSQLBackend:
		return columnTypes{"BIGSERIAL PRIMARY KEY", "BIGINT", "INT", "DOUBLE PRECISION", "TEXT", "TEXT", "TIMESTAMPTZ"}
	default:
		return columnTypes{"INTEGER PRIMARY KEY AUTOINCREMENT", "INTEGER", "INTEGER", "REAL", "TEXT", "TEXT", "TEXT"}
	}
}

// createTableQuery returns the CREATE TABLE statement of a run table.
func createTableQuery(table string, backend schema.DatabaseBackend) (string, error) {
	name, err := quoteTableName(table, backend)
	if err != nil {
		return "", err
	}
	ct := typesFor(backend)

	switch table {
	case runsTable:
		return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			run_id %s,
			kind %s NOT NULL,
			source %s NOT NULL,
			start_time %s NOT NULL,
			end_time %s,
			run_duration_ms %s,
			total_rows %s NOT NULL DEFAULT 0,
			issue_count %s NOT NULL DEFAULT 0,
			config_params %s
		)`, name, ct.id, ct.shortText, ct.text, ct.timestamp, ct.timestamp, ct.integer, ct.integer, ct.integer, ct.text), nil
	case groupResultsTable:
		return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			run_id %s NOT NULL,
			seq %s NOT NULL,
			kind %s NOT NULL,
			label %s NOT NULL,
			sublabel %s,
			value %s,
			min_value %s,
			q1 %s,
			median %s,
			q3 %s,
			max_value %s,
			row_count %s NOT NULL DEFAULT 0,
			excluded %s NOT NULL DEFAULT 0,
			note %s,
			PRIMARY KEY (run_id, seq)
		)`, name, ct.bigint, ct.integer, ct.shortText, ct.shortText, ct.shortText,
			ct.float, ct.float, ct.float, ct.float, ct.float, ct.float,
			ct.integer, ct.integer, ct.text), nil
	default:
		return "", fmt.Errorf("unknown run table %q", table)
	}
}

// quoteTableName validates a table name and quotes it for the backend.
func quoteTableName(table string, backend schema.DatabaseBackend) (string, error) {
	if !tableNameRegex.MatchString(table) {
		return "", fmt.Errorf("invalid table name %q", table)
	}
	if backend == schema.MySQLBackend {
		return "`" + table + "`", nil
	}
	return `"` + table + `"`, nil
}

// placeholders returns n bind parameters in the backend's syntax.
func placeholders(backend schema.DatabaseBackend, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = placeholder(backend, i+1)
	}
	return strings.Join(parts, ", ")
}

// placeholder returns the i-th (1-based) bind parameter in the backend's syntax.
func placeholder(backend schema.DatabaseBackend, i int) string {
	if backend == schema.PostgreSQLBackend {
		return fmt.Sprintf("$%d", i)
	}
	return "?"
}

func (rs *RunStoreImpl) disabled() bool {
	return rs.backend == schema.NoneBackend || rs.db == nil
}

func (rs *RunStoreImpl) table(name string) string {
	quoted, _ := quoteTableName(name, rs.backend) // constant names always validate
	return quoted
}

// BeginRun creates a new run and returns its unique ID.
func (rs *RunStoreImpl) BeginRun(kind schema.ChartKind, source string, startTime time.Time, configParams map[string]any) (int64, error) {
	if rs.disabled() {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}
	args := []any{string(kind), source, formatTime(startTime, rs.backend), string(configJSON)}
	query := fmt.Sprintf(`INSERT INTO %s (kind, source, start_time, config_params) VALUES (%s)`,
		rs.table(runsTable), placeholders(rs.backend, len(args)))

	var runID int64
	if rs.backend == schema.PostgreSQLBackend {
		err = rs.db.QueryRow(query+" RETURNING run_id", args...).Scan(&runID)
	} else {
		var res sql.Result
		if res, err = rs.db.Exec(query, args...); err == nil {
			runID, err = res.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return runID, nil
}

// EndRun stores the completion time, duration and counts of a run.
func (rs *RunStoreImpl) EndRun(runID int64, endTime time.Time, totalRows int, issueCount int) error {
	if rs.disabled() {
		return nil
	}

	var startTime time.Time
	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, rs.table(runsTable), placeholder(rs.backend, 1))
	if err := rs.db.QueryRow(query, runID).Scan(timeScanner{dst: &startTime}); err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}

	durationMs := endTime.Sub(startTime).Milliseconds()
	update := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, total_rows = %s, issue_count = %s WHERE run_id = %s`,
		rs.table(runsTable),
		placeholder(rs.backend, 1), placeholder(rs.backend, 2), placeholder(rs.backend, 3),
		placeholder(rs.backend, 4), placeholder(rs.backend, 5))
	if _, err := rs.db.Exec(update, formatTime(endTime, rs.backend), durationMs, totalRows, issueCount, runID); err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

// RecordGroupResults stores the group results of a run in one transaction.
func (rs *RunStoreImpl) RecordGroupResults(runID int64, records []schema.GroupResultRecord) error {
	if rs.disabled() || len(records) == 0 {
		return nil
	}

	tx, err := rs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := fmt.Sprintf(`INSERT INTO %s (run_id, seq, kind, label, sublabel, value, min_value, q1, median, q3, max_value, row_count, excluded, note)
		VALUES (%s)`, rs.table(groupResultsTable), placeholders(rs.backend, 14))
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare group result insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, r := range records {
		if _, err := stmt.Exec(runID, r.Seq, r.Kind, r.Label, r.Sublabel, r.Value,
			r.Min, r.Q1, r.Median, r.Q3, r.Max, r.Count, r.Excluded, r.Note); err != nil {
			return fmt.Errorf("failed to insert group result %d of run %d: %w", r.Seq, runID, err)
		}
	}
	return tx.Commit()
}

// Close closes the underlying connection.
func (rs *RunStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the run store.
func (rs *RunStoreImpl) GetStatus() (schema.RunStatus, error) {
	status := schema.RunStatus{
		Backend:    string(rs.backend),
		Connected:  rs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if rs.disabled() {
		return status, nil
	}

	runs := rs.table(runsTable)
	if err := rs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runs)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		last := fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", runs)
		if err := rs.db.QueryRow(last).Scan(&status.LastRunID, timeScanner{dst: &status.LastRunTime}); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		oldest := fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", runs)
		if err := rs.db.QueryRow(oldest).Scan(timeScanner{dst: &status.OldestRunTime}); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		total := fmt.Sprintf("SELECT COALESCE(SUM(total_rows), 0) FROM %s", runs)
		if err := rs.db.QueryRow(total).Scan(&status.TotalRows); err != nil {
			return status, fmt.Errorf("failed to get total rows: %w", err)
		}
	}

	for _, table := range []string{runsTable, groupResultsTable} {
		var count int64
		if err := rs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", rs.table(table))).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	return status, nil
}

// GetAllRuns retrieves all runs ordered by ID.
func (rs *RunStoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	if rs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, kind, source, start_time, end_time, run_duration_ms, total_rows, issue_count, config_params
		FROM %s ORDER BY run_id`, rs.table(runsTable))
	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var r schema.RunRecord
		end := nullTimeScanner{}
		if err := rows.Scan(&r.RunID, &r.Kind, &r.Source, timeScanner{dst: &r.StartTime}, &end,
			&r.DurationMs, &r.TotalRows, &r.IssueCount, &r.ConfigParams); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		r.EndTime = end.ptr()
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// GetAllGroupResults retrieves all group results ordered by run and sequence.
func (rs *RunStoreImpl) GetAllGroupResults() ([]schema.GroupResultRecord, error) {
	if rs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, seq, kind, label, sublabel, value, min_value, q1, median, q3, max_value, row_count, excluded, note
		FROM %s ORDER BY run_id, seq`, rs.table(groupResultsTable))
	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query group results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.GroupResultRecord
	for rows.Next() {
		var r schema.GroupResultRecord
		if err := rows.Scan(&r.RunID, &r.Seq, &r.Kind, &r.Label, &r.Sublabel, &r.Value,
			&r.Min, &r.Q1, &r.Median, &r.Q3, &r.Max, &r.Count, &r.Excluded, &r.Note); err != nil {
			return nil, fmt.Errorf("failed to scan group result: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating group results: %w", err)
	}
	return results, nil
}

// formatTime converts a time.Time to the appropriate format for the backend.
// SQLite keeps timestamps as RFC 3339 text.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	if backend == schema.SQLiteBackend {
		return t.UTC().Format(time.RFC3339Nano)
	}
	return t
}

// timeScanner reads a timestamp stored natively or as RFC 3339 text.
type timeScanner struct {
	dst *time.Time
}

// Scan implements sql.Scanner.
func (ts timeScanner) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*ts.dst = v
		return nil
	case string:
		return ts.parse(v)
	case []byte:
		return ts.parse(string(v))
	case nil:
		return fmt.Errorf("unexpected NULL timestamp")
	default:
		return fmt.Errorf("unsupported timestamp type %T", src)
	}
}

func (ts timeScanner) parse(s string) error {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("failed to parse timestamp %q: %w", s, err)
	}
	*ts.dst = t
	return nil
}

// nullTimeScanner is a timeScanner that accepts NULL.
type nullTimeScanner struct {
	t     time.Time
	valid bool
}

// Scan implements sql.Scanner.
func (ns *nullTimeScanner) Scan(src any) error {
	if src == nil {
		ns.valid = false
		return nil
	}
	ns.valid = true
	return timeScanner{dst: &ns.t}.Scan(src)
}

func (ns *nullTimeScanner) ptr() *time.Time {
	if !ns.valid {
		return nil
	}
	t := ns.t
	return &t
}
