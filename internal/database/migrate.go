package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"pawcheck/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// MigrationsTable records the applied schema version.
const MigrationsTable = "SCHEMA_MIGRATIONS"

// oracleDriver adapts go-ora to golang-migrate's database.Driver.
// go-ora executes one statement per call, so migration files are split on
// terminating semicolons.
type oracleDriver struct {
	db     *sql.DB
	locked atomic.Bool
}

var _ migratedb.Driver = (*oracleDriver)(nil)

// WithInstance wraps an open connection and makes sure the version table exists.
func WithInstance(ctx context.Context, db *sql.DB) (migratedb.Driver, error) {
	d := &oracleDriver{db: db}
	if err := d.ensureVersionTable(ctx); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *oracleDriver) ensureVersionTable(ctx context.Context) error {
	var count int
	if err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM USER_TABLES WHERE TABLE_NAME = :1`, MigrationsTable).Scan(&count); err != nil {
		return fmt.Errorf("failed to look up %s: %w", MigrationsTable, err)
	}
	if count > 0 {
		return nil
	}
	if _, err := d.db.ExecContext(ctx, `CREATE TABLE `+MigrationsTable+` (VERSION NUMBER(19) NOT NULL, DIRTY NUMBER(1) NOT NULL)`); err != nil {
		return fmt.Errorf("failed to create %s: %w", MigrationsTable, err)
	}
	return nil
}

func (d *oracleDriver) Open(url string) (migratedb.Driver, error) {
	db, err := sql.Open(DriverName, url)
	if err != nil {
		return nil, err
	}
	return WithInstance(context.Background(), db)
}

func (d *oracleDriver) Close() error {
	return d.db.Close()
}

// Lock is process-local; migrations are run from a single cmd/migrate invocation.
func (d *oracleDriver) Lock() error {
	if !d.locked.CompareAndSwap(false, true) {
		return migratedb.ErrLocked
	}
	return nil
}

func (d *oracleDriver) Unlock() error {
	if !d.locked.CompareAndSwap(true, false) {
		return migratedb.ErrNotLocked
	}
	return nil
}

func (d *oracleDriver) Run(migration io.Reader) error {
	body, err := io.ReadAll(migration)
	if err != nil {
		return err
	}
	for _, stmt := range SplitStatements(string(body)) {
		if _, err := d.db.Exec(stmt); err != nil {
			return migratedb.Error{OrigErr: err, Err: "migration failed", Query: []byte(stmt)}
		}
	}
	return nil
}

func (d *oracleDriver) SetVersion(version int, dirty bool) error {
	tx, err := d.db.Begin()
	if err != nil {
		return &migratedb.Error{OrigErr: err, Err: "transaction start failed"}
	}

	if _, err := tx.Exec(`DELETE FROM ` + MigrationsTable); err != nil {
		_ = tx.Rollback()
		return &migratedb.Error{OrigErr: err, Query: []byte("DELETE FROM " + MigrationsTable)}
	}

	// NilVersion with dirty set still needs a row so the failure is visible.
	if version >= 0 || (version == migratedb.NilVersion && dirty) {
		query := `INSERT INTO ` + MigrationsTable + ` (VERSION, DIRTY) VALUES (:1, :2)`
		if _, err := tx.Exec(query, version, boolToInt(dirty)); err != nil {
			_ = tx.Rollback()
			return &migratedb.Error{OrigErr: err, Query: []byte(query)}
		}
	}

	if err := tx.Commit(); err != nil {
		return &migratedb.Error{OrigErr: err, Err: "transaction commit failed"}
	}
	return nil
}

func (d *oracleDriver) Version() (int, bool, error) {
	var version, dirty int
	query := `SELECT VERSION, DIRTY FROM ` + MigrationsTable + ` FETCH FIRST 1 ROWS ONLY`
	err := d.db.QueryRow(query).Scan(&version, &dirty)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return migratedb.NilVersion, false, nil
	case err != nil:
		return 0, false, &migratedb.Error{OrigErr: err, Err: "failed to read schema version"}
	}
	return version, dirty == 1, nil
}

// Drop removes every table owned by the connected user.
func (d *oracleDriver) Drop() error {
	rows, err := d.db.Query(`SELECT TABLE_NAME FROM USER_TABLES`)
	if err != nil {
		return err
	}
	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return err
		}
		tables = append(tables, name)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, t := range tables {
		if _, err := d.db.Exec(`DROP TABLE "` + t + `" CASCADE CONSTRAINTS PURGE`); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", t, err)
		}
	}
	return nil
}

// SplitStatements breaks a migration file into statements without their
// trailing semicolons. Lines starting with -- are dropped.
func SplitStatements(body string) []string {
	var (
		stmts   []string
		current strings.Builder
	)
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		if current.Len() > 0 {
			current.WriteByte('\n')
		}
		current.WriteString(strings.TrimRight(line, " \t\r"))
		if strings.HasSuffix(trimmed, ";") {
			stmts = append(stmts, strings.TrimSuffix(strings.TrimSpace(current.String()), ";"))
			current.Reset()
		}
	}
	if rest := strings.TrimSpace(current.String()); rest != "" {
		stmts = append(stmts, rest)
	}
	return stmts
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// NewMigrator builds a migrate instance over the embedded migrations.
func NewMigrator(ctx context.Context, db *sql.DB) (*migrate.Migrate, error) {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("could not open embedded migrations: %w", err)
	}
	driver, err := WithInstance(ctx, db)
	if err != nil {
		return nil, err
	}
	m, err := migrate.NewWithInstance("iofs", source, "oracle", driver)
	if err != nil {
		return nil, fmt.Errorf("could not create migrator: %w", err)
	}
	m.Log = migrateLogger{}
	return m, nil
}

// RunMigrations applies every pending up migration.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	m, err := NewMigrator(ctx, db)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}
	logger.Get().Info("Migrations completed successfully")
	return nil
}

// NewMigrateOracleDB opens a plain database/sql handle for migrations.
func NewMigrateOracleDB(dsn string) (*sql.DB, error) {
	// go-ora 드라이버를 사용하여 Oracle DB 연결
	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}

	// 연결 테스트
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not ping database: %w", err)
	}

	return db, nil
}

// migrateLogger forwards golang-migrate progress to zap.
type migrateLogger struct{}

func (migrateLogger) Printf(format string, v ...interface{}) {
	logger.Get().Info(strings.TrimSpace(fmt.Sprintf(format, v...)), zap.String("component", "migrate"))
}

func (migrateLogger) Verbose() bool { return false }
