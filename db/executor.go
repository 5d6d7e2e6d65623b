package db

import (
	"context"
	"os"
)

// ExecuteScript runs the SQL script at path as a single autocommit command.
// Statements that completed before a failure stay committed. Server notices
// are logged once the script finishes.
func (p *SQLProvisioner) ExecuteScript(ctx context.Context, path, description string) error {
	p.log.Infof("Executing %s...", description)

	script, err := os.ReadFile(path)
	if err != nil {
		return p.scriptFailed(description, err)
	}

	var notices []string
	gdb, err := p.connect(ctx, func(notice string) {
		notices = append(notices, notice)
	})
	if err != nil {
		p.log.Errorf("❌ Error executing %s: %v", description, err)
		return err
	}
	defer p.close(gdb)

	sqlDB, err := gdb.DB()
	if err != nil {
		return p.scriptFailed(description, err)
	}
	// database/sql directly: gorm would rewrite '?' and '@name' inside the script.
	if _, err := sqlDB.ExecContext(ctx, string(script)); err != nil {
		return p.scriptFailed(description, err)
	}

	for _, notice := range notices {
		p.log.Infof("Database notice: %s", notice)
	}
	p.log.Infof("✅ %s completed successfully", description)
	return nil
}

func (p *SQLProvisioner) scriptFailed(description string, err error) error {
	p.log.Errorf("❌ Error executing %s: %v", description, err)
	return &ExecutionError{Description: description, Err: err}
}
