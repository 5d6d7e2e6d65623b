package setup

import (
	"context"
	"path/filepath"

	"marketplacesetup/db"
)

// MockProvisioner records the operations the workflow invokes and replays
// canned results.
type MockProvisioner struct {
	PingErr     error
	ExecuteErrs map[string]error // script base name -> error
	VerifyErr   error
	CleanupErr  error
	AuditErr    error
	// Summaries are returned by successive Audit calls; the last one repeats.
	Summaries []db.Summary

	calls  []string
	audits int
}

func NewMockProvisioner(summaries ...db.Summary) *MockProvisioner {
	return &MockProvisioner{
		ExecuteErrs: make(map[string]error),
		Summaries:   summaries,
	}
}

func (m *MockProvisioner) Ping(context.Context) error {
	m.calls = append(m.calls, "ping")
	return m.PingErr
}

func (m *MockProvisioner) ExecuteScript(_ context.Context, path, _ string) error {
	name := filepath.Base(path)
	m.calls = append(m.calls, "execute:"+name)
	return m.ExecuteErrs[name]
}

func (m *MockProvisioner) VerifySchema(context.Context) error {
	m.calls = append(m.calls, "verify")
	return m.VerifyErr
}

func (m *MockProvisioner) Audit(context.Context) (*db.Summary, error) {
	m.calls = append(m.calls, "audit")
	if m.AuditErr != nil {
		return nil, m.AuditErr
	}
	if len(m.Summaries) == 0 {
		return &db.Summary{}, nil
	}
	i := m.audits
	if i >= len(m.Summaries) {
		i = len(m.Summaries) - 1
	}
	m.audits++
	s := m.Summaries[i]
	return &s, nil
}

func (m *MockProvisioner) Cleanup(context.Context) error {
	m.calls = append(m.calls, "cleanup")
	return m.CleanupErr
}

func (m *MockProvisioner) CheckAccounts(_ context.Context, emails []string) ([]string, error) {
	m.calls = append(m.calls, "accounts")
	return nil, nil
}

// Calls returns the operations invoked so far, in order.
func (m *MockProvisioner) Calls() []string {
	return m.calls
}

var _ db.Provisioner = (*MockProvisioner)(nil)
