// Package setup sequences the marketplace database setup: apply the schema,
// verify it, optionally clean old sample data, seed, and audit the result.
package setup

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"marketplacesetup/config"
	"marketplacesetup/db"
)

// Script file names, resolved inside Options.ScriptsDir.
const (
	SchemaScript     = "real-marketplace-db-setup.sql"
	SampleDataScript = "generate-real-marketplace-data.sql"
)

const confirmPrompt = "Do you want to continue and add more sample data? (y/N): "

// Stage names a step of the workflow.
type Stage string

const (
	StageLoadConfig      Stage = "LoadConfig"
	StageConnect         Stage = "Connect"
	StageApplySchema     Stage = "ApplySchema"
	StageVerifySchema    Stage = "VerifySchema"
	StageOptionalCleanup Stage = "OptionalCleanup"
	StagePreflightAudit  Stage = "PreflightAudit"
	StageSeedData        Stage = "SeedData"
	StageFinalAudit      Stage = "FinalAudit"
)

// Outcome is how a successful run ended.
type Outcome int

const (
	Aborted Outcome = iota
	Succeeded
	VerifiedOnly
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case Aborted:
		return "aborted"
	case Succeeded:
		return "succeeded"
	case VerifiedOnly:
		return "verified-only"
	case Cancelled:
		return "cancelled"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// StageError reports the stage at which the workflow aborted.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// A TestAccount is one of the logins created by the sample data script.
type TestAccount struct {
	Role     string
	Email    string
	Password string
}

var TestAccounts = []TestAccount{
	{Role: "Admin", Email: "admin@builderai.com", Password: "password"},
	{Role: "Builder", Email: "builder1@example.com", Password: "password"},
	{Role: "End User", Email: "user1@example.com", Password: "password"},
}

func testAccountEmails() []string {
	emails := make([]string, 0, len(TestAccounts))
	for _, a := range TestAccounts {
		emails = append(emails, a.Email)
	}
	return emails
}

// Options control a single workflow run.
type Options struct {
	// Env selects the environment file; defaults to config.DefaultEnvironment.
	Env        string
	EnvDir     string
	ScriptsDir string
	Cleanup    bool
	VerifyOnly bool
	// In and Out carry the confirmation prompt. A nil In answers "no".
	In  io.Reader
	Out io.Writer
}

// ProvisionerFactory binds a Provisioner to a resolved connection.
type ProvisionerFactory func(conn config.Connection) db.Provisioner

// Workflow runs the setup stages against one environment.
type Workflow struct {
	opts           Options
	log            *zap.SugaredLogger
	newProvisioner ProvisionerFactory
}

// New returns a Workflow. Env defaults to config.DefaultEnvironment and Out to
// os.Stdout.
func New(opts Options, newProvisioner ProvisionerFactory, log *zap.SugaredLogger) *Workflow {
	if opts.Env == "" {
		opts.Env = config.DefaultEnvironment
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	return &Workflow{opts: opts, log: log, newProvisioner: newProvisioner}
}

func abort(stage Stage, err error) error {
	return &StageError{Stage: stage, Err: err}
}

// Run executes the workflow. Every failure stops it at the failing stage; a
// declined confirmation ends it with Cancelled and a nil error.
func (w *Workflow) Run(ctx context.Context) (Outcome, error) {
	w.log.Infof("🚀 Starting Real Marketplace database setup for environment: %s", w.opts.Env)

	conn, err := w.loadConfig()
	if err != nil {
		return Aborted, err
	}

	schemaPath := filepath.Join(w.opts.ScriptsDir, SchemaScript)
	seedPath := filepath.Join(w.opts.ScriptsDir, SampleDataScript)
	for _, script := range []struct{ kind, path string }{
		{"Database setup", schemaPath},
		{"Sample data", seedPath},
	} {
		if _, err := os.Stat(script.path); err != nil {
			w.log.Errorf("❌ %s script not found: %s", script.kind, script.path)
			return Aborted, abort(StageLoadConfig, fmt.Errorf("%s script: %w", strings.ToLower(script.kind), err))
		}
	}

	p, err := w.connect(ctx, conn)
	if err != nil {
		return Aborted, err
	}
	if err := p.ExecuteScript(ctx, schemaPath, "Database schema setup"); err != nil {
		w.log.Error("❌ Database setup failed")
		return Aborted, abort(StageApplySchema, err)
	}

	if err := p.VerifySchema(ctx); err != nil {
		w.log.Error("❌ Database schema verification failed")
		return Aborted, abort(StageVerifySchema, err)
	}
	if w.opts.VerifyOnly {
		w.log.Info("✅ Database schema verification completed successfully")
		return VerifiedOnly, nil
	}

	if w.opts.Cleanup {
		if err := p.Cleanup(ctx); err != nil {
			w.log.Error("❌ Sample data cleanup failed")
			return Aborted, abort(StageOptionalCleanup, err)
		}
	}

	existing, err := p.Audit(ctx)
	if err != nil {
		return Aborted, abort(StagePreflightAudit, err)
	}
	if existing.SampleUsers > 0 {
		w.log.Warn("⚠️  Sample data already exists. Use --cleanup to remove existing data first.")
		if !w.confirm() {
			w.log.Info("Setup cancelled by user")
			return Cancelled, nil
		}
	}

	if err := p.ExecuteScript(ctx, seedPath, "Sample data generation"); err != nil {
		w.log.Error("❌ Sample data generation failed")
		return Aborted, abort(StageSeedData, err)
	}

	w.log.Info("🔍 Performing final verification...")
	final, err := p.Audit(ctx)
	if err != nil {
		return Aborted, abort(StageFinalAudit, err)
	}
	if final.SampleUsers == 0 {
		w.log.Error("❌ Final verification failed - no sample data found")
		return Aborted, abort(StageFinalAudit, &db.EmptyResultError{})
	}

	w.log.Info("✅ Real Marketplace database setup completed successfully!")
	w.log.Info("🎉 You can now test the marketplace functionality with the sample data.")
	w.reportAccounts(ctx, p)
	return Succeeded, nil
}

// confirm asks whether to seed on top of existing sample data. Only y or yes
// count as agreement; a read error or EOF is a no.
func (w *Workflow) confirm() bool {
	fmt.Fprint(w.opts.Out, confirmPrompt)
	if w.opts.In == nil {
		return false
	}
	line, err := bufio.NewReader(w.opts.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func (w *Workflow) reportAccounts(ctx context.Context, p db.Provisioner) {
	w.log.Info("")
	w.log.Info("📋 Test User Credentials:")
	for _, a := range TestAccounts {
		w.log.Infof("   %s: %s / %s", a.Role, a.Email, a.Password)
	}
	if _, err := p.CheckAccounts(ctx, testAccountEmails()); err != nil {
		w.log.Warnf("could not confirm test accounts: %v", err)
	}
}

func (w *Workflow) loadConfig() (config.Connection, error) {
	conn, err := config.Load(w.opts.EnvDir, w.opts.Env)
	if err != nil {
		w.log.Errorf("❌ %v", err)
		return config.Connection{}, abort(StageLoadConfig, err)
	}
	return conn, nil
}

// connect builds the provisioner for conn and checks the database answers
// before any script runs.
func (w *Workflow) connect(ctx context.Context, conn config.Connection) (db.Provisioner, error) {
	w.log.Infof("📡 Connecting to database: %s", conn.Target())
	p := w.newProvisioner(conn)
	if err := p.Ping(ctx); err != nil {
		w.log.Errorf("❌ %v", err)
		return nil, abort(StageConnect, err)
	}
	return p, nil
}

// Status audits the current sample data and test accounts without changing
// anything.
func (w *Workflow) Status(ctx context.Context) (*db.Summary, error) {
	conn, err := w.loadConfig()
	if err != nil {
		return nil, err
	}
	p, err := w.connect(ctx, conn)
	if err != nil {
		return nil, err
	}
	summary, err := p.Audit(ctx)
	if err != nil {
		return nil, abort(StagePreflightAudit, err)
	}
	if _, err := p.CheckAccounts(ctx, testAccountEmails()); err != nil {
		w.log.Warnf("could not confirm test accounts: %v", err)
	}
	return summary, nil
}
