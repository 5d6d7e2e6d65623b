package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm/logger"

	"marketplacesetup/config"
)

const (
	schemaScript = "../setup/testdata/scripts/real-marketplace-db-setup.sql"
	seedScript   = "../setup/testdata/scripts/generate-real-marketplace-data.sql"
)

// newTestProvisioner returns a provisioner over a fresh SQLite file together
// with the log lines it emits.
func newTestProvisioner(t *testing.T) (*SQLProvisioner, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	conn := config.Connection{
		Type: config.SqliteType,
		Name: filepath.Join(t.TempDir(), "marketplace.db"),
	}
	return NewSQLProvisioner(conn, zap.New(core).Sugar()), logs
}

func applySchema(t *testing.T, p *SQLProvisioner) {
	t.Helper()
	require.NoError(t, p.ExecuteScript(context.Background(), schemaScript, "Database schema setup"))
}

func seedSampleData(t *testing.T, p *SQLProvisioner) {
	t.Helper()
	require.NoError(t, p.ExecuteScript(context.Background(), seedScript, "Sample data generation"))
}

// execSQL runs stmt on its own connection, bypassing the provisioner.
func execSQL(t *testing.T, p *SQLProvisioner, stmt string) {
	t.Helper()
	gdb, err := open(context.Background(), p.conn, logger.Silent, nil)
	require.NoError(t, err)
	defer func() { require.NoError(t, closeDB(gdb)) }()
	require.NoError(t, gdb.Exec(stmt).Error)
}

func countRows(t *testing.T, p *SQLProvisioner, table string) int64 {
	t.Helper()
	gdb, err := open(context.Background(), p.conn, logger.Silent, nil)
	require.NoError(t, err)
	defer func() { require.NoError(t, closeDB(gdb)) }()
	var n int64
	require.NoError(t, gdb.Table(table).Count(&n).Error)
	return n
}
