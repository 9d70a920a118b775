package database

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"pawcheck/internal/logger"

	"github.com/jmoiron/sqlx"
	_ "github.com/sijms/go-ora/v2" // Oracle driver
	"go.uber.org/zap"
)

// DriverName is the database/sql name go-ora registers under.
const DriverName = "oracle"

const (
	maxOpenConns = 10
	maxIdleConns = 5
)

// dsnHost returns host:port of an oracle:// DSN without the credentials.
func dsnHost(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return ""
	}
	return u.Host
}

// NewSQLXOracleDB opens a pooled connection and pings it.
func NewSQLXOracleDB(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open Oracle database: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		// 연결 실패 시 풀을 닫는다
		db.Close()
		return nil, fmt.Errorf("failed to ping Oracle database: %w", err)
	}

	logger.Get().Info("Successfully connected to Oracle database",
		zap.String("host", dsnHost(dsn)),
		zap.Int("max_open_conns", maxOpenConns),
	)
	return db, nil
}
