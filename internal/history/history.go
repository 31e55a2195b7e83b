// Package history keeps every run in MySQL so results can be compared
// across runs and nodes.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"

	"sctest/internal/domain"
)

const (
	runsTable    = "sctest_runs"
	resultsTable = "sctest_results"
)

var schema = []string{
	"CREATE TABLE IF NOT EXISTS `" + runsTable + "` (" +
		"`id` CHAR(36) NOT NULL PRIMARY KEY," +
		"`started_at` DATETIME(3) NOT NULL," +
		"`duration_ms` BIGINT NOT NULL," +
		"`node_url` VARCHAR(255) NOT NULL," +
		"`passed` INT NOT NULL," +
		"`failures` INT NOT NULL," +
		"`errors` INT NOT NULL," +
		"`skipped` INT NOT NULL," +
		"`successful` BOOLEAN NOT NULL," +
		"`interrupted` BOOLEAN NOT NULL" +
		") ENGINE=InnoDB",
	"CREATE TABLE IF NOT EXISTS `" + resultsTable + "` (" +
		"`run_id` CHAR(36) NOT NULL," +
		"`position` INT NOT NULL," +
		"`suite` VARCHAR(255) NOT NULL," +
		"`name` VARCHAR(255) NOT NULL," +
		"`status` VARCHAR(16) NOT NULL," +
		"`message` TEXT NOT NULL," +
		"`duration_ms` BIGINT NOT NULL," +
		"PRIMARY KEY (`run_id`, `position`)," +
		"KEY `idx_suite_name` (`suite`, `name`)" +
		") ENGINE=InnoDB",
}

// Sink records runs into MySQL.
type Sink struct {
	db      *sql.DB
	nodeURL string
	logger  zerolog.Logger
}

// Open connects to the database named in dsn, creating it and the tables
// if they do not exist. nodeURL is stored with every run.
func Open(ctx context.Context, dsn, nodeURL string, logger zerolog.Logger) (*Sink, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid history dsn: %w", err)
	}
	if cfg.DBName == "" {
		return nil, fmt.Errorf("history dsn must name a database")
	}
	if !isValidDatabaseName(cfg.DBName) {
		return nil, fmt.Errorf("invalid database name: %s", cfg.DBName)
	}
	cfg.ParseTime = true

	if err := ensureDatabase(ctx, cfg); err != nil {
		return nil, err
	}

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create history tables: %w", err)
		}
	}

	logger.Debug().Str("database", cfg.DBName).Str("addr", cfg.Addr).Msg("history sink ready")
	return &Sink{db: db, nodeURL: nodeURL, logger: logger}, nil
}

// ensureDatabase connects to the server without selecting a database and
// creates cfg.DBName if it is missing.
func ensureDatabase(ctx context.Context, cfg *mysql.Config) error {
	server := cfg.Clone()
	server.DBName = ""

	db, err := sql.Open("mysql", server.FormatDSN())
	if err != nil {
		return fmt.Errorf("failed to connect to database server: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database server: %w", err)
	}

	exists, err := databaseExists(ctx, db, cfg.DBName)
	if err != nil {
		return fmt.Errorf("failed to check database %s: %w", cfg.DBName, err)
	}
	if exists {
		return nil
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s`", cfg.DBName)); err != nil {
		return fmt.Errorf("failed to create database %s: %w", cfg.DBName, err)
	}
	return nil
}

func databaseExists(ctx context.Context, db *sql.DB, dbName string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT SCHEMA_NAME FROM INFORMATION_SCHEMA.SCHEMATA WHERE SCHEMA_NAME = ?)"
	err := db.QueryRowContext(ctx, query, dbName).Scan(&exists)
	return exists, err
}

// isValidDatabaseName allows names that are safe to quote with backticks.
func isValidDatabaseName(name string) bool {
	if len(name) == 0 || len(name) > 64 {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '$':
		default:
			return false
		}
	}
	// Guard against names that are also dangerous keywords.
	upper := strings.ToUpper(name)
	for _, kw := range []string{"DROP", "DELETE", "TRUNCATE"} {
		if upper == kw {
			return false
		}
	}
	return true
}

// Record stores run and its results in one transaction.
func (s *Sink) Record(ctx context.Context, run *domain.RunResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin history transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	r := runRow(run, s.nodeURL)
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO `"+runsTable+"` (`id`, `started_at`, `duration_ms`, `node_url`, `passed`, `failures`, `errors`, `skipped`, `successful`, `interrupted`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		r.id, r.startedAt, r.durationMS, r.nodeURL, r.passed, r.failures, r.errors, r.skipped, r.successful, r.interrupted,
	); err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO `"+resultsTable+"` (`run_id`, `position`, `suite`, `name`, `status`, `message`, `duration_ms`) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare result insert: %w", err)
	}
	defer stmt.Close()

	for i, res := range run.Results {
		if _, err := stmt.ExecContext(ctx, run.ID, i, res.Suite, res.Name, string(res.Status), res.Message, res.Duration.Milliseconds()); err != nil {
			return fmt.Errorf("insert result %s: %w", res.FullName(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit history transaction: %w", err)
	}
	s.logger.Debug().Str("run_id", run.ID).Int("results", len(run.Results)).Msg("run recorded")
	return nil
}

// Close releases the connection pool.
func (s *Sink) Close() error {
	return s.db.Close()
}

type runRecord struct {
	id          string
	startedAt   time.Time
	durationMS  int64
	nodeURL     string
	passed      int
	failures    int
	errors      int
	skipped     int
	successful  bool
	interrupted bool
}

func runRow(run *domain.RunResult, nodeURL string) runRecord {
	passed, failures, errs, skipped := run.Counts()
	return runRecord{
		id:          run.ID,
		startedAt:   run.StartedAt.UTC(),
		durationMS:  run.Duration.Milliseconds(),
		nodeURL:     nodeURL,
		passed:      passed,
		failures:    failures,
		errors:      errs,
		skipped:     skipped,
		successful:  run.WasSuccessful(),
		interrupted: run.Interrupted,
	}
}
