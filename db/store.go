package db

import (
	"context"
)

// Provisioner is the set of database operations the setup workflow sequences.
// Each call opens and closes its own connection.
type Provisioner interface {
	Ping(ctx context.Context) error
	ExecuteScript(ctx context.Context, path, description string) error
	VerifySchema(ctx context.Context) error
	Audit(ctx context.Context) (*Summary, error)
	Cleanup(ctx context.Context) error
	CheckAccounts(ctx context.Context, emails []string) ([]string, error)
}

var _ Provisioner = (*SQLProvisioner)(nil)
