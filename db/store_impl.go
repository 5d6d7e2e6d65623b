package db

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"marketplacesetup/config"
)

// SQLProvisioner runs the setup operations against the database described by
// a config.Connection.
type SQLProvisioner struct {
	conn     config.Connection
	log      *zap.SugaredLogger
	logLevel logger.LogLevel
}

// NewSQLProvisioner returns a provisioner for conn. gorm statement logging is
// off until WithSQLLogging is called.
func NewSQLProvisioner(conn config.Connection, log *zap.SugaredLogger) *SQLProvisioner {
	return &SQLProvisioner{conn: conn, log: log, logLevel: logger.Silent}
}

// WithSQLLogging makes gorm print every statement it runs.
func (p *SQLProvisioner) WithSQLLogging() *SQLProvisioner {
	p.logLevel = logger.Info
	return p
}

// Ping verifies the database is reachable with the configured credentials.
// Failures are returned as *ConnectionError.
func (p *SQLProvisioner) Ping(ctx context.Context) error {
	if p == nil {
		return fmt.Errorf("provisioner is not initialized")
	}
	gdb, err := p.connect(ctx, nil)
	if err != nil {
		return err
	}
	p.close(gdb)
	return nil
}

func (p *SQLProvisioner) connect(ctx context.Context, onNotice NoticeHandler) (*gorm.DB, error) {
	gdb, err := open(ctx, p.conn, p.logLevel, onNotice)
	if err != nil {
		return nil, &ConnectionError{Target: p.conn.Target(), Err: err}
	}
	return gdb, nil
}

func (p *SQLProvisioner) close(gdb *gorm.DB) {
	if err := closeDB(gdb); err != nil {
		p.log.Warnf("failed to close database connection: %v", err)
	}
}
