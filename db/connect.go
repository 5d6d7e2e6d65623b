package db

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"marketplacesetup/config"
)

// NoticeHandler receives every notice the server emits on a connection.
type NoticeHandler func(notice string)

func gormLogger(level logger.LogLevel) logger.Interface {
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags), // io writer
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true, // Don't include params in the SQL log
			Colorful:                  false,
		},
	)
}

// formatNotice renders a server notice the way psql prints it.
func formatNotice(n *pgconn.Notice) string {
	return fmt.Sprintf("%s:  %s", n.Severity, n.Message)
}

// open connects to conn with a single-connection pool. Statements run in
// autocommit mode unless the caller starts a transaction.
func open(ctx context.Context, conn config.Connection, level logger.LogLevel, onNotice NoticeHandler) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch conn.Type {
	case config.PostgresType:
		pgCfg, err := pgx.ParseConfig(conn.DSN())
		if err != nil {
			return nil, fmt.Errorf("parse postgres config: %w", err)
		}
		if onNotice != nil {
			pgCfg.OnNotice = func(_ *pgconn.PgConn, n *pgconn.Notice) {
				onNotice(formatNotice(n))
			}
		}
		sqlDB := stdlib.OpenDB(*pgCfg)
		sqlDB.SetMaxOpenConns(1)
		dialector = postgres.New(postgres.Config{Conn: sqlDB})
	case config.SqliteType:
		dialector = sqlite.Open(conn.DSN())
	default:
		return nil, fmt.Errorf("unsupported database type: %s", conn.Type)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger:               gormLogger(level),
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get raw DB connection: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return gdb.WithContext(ctx), nil
}

// closeDB closes the connection pool behind gdb.
func closeDB(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	return nil
}
