package db

import (
	"context"
	"fmt"

	"marketplacesetup/model"
)

// CheckAccounts reports which of emails have no user row. Missing accounts
// are logged as warnings; only query failures are errors.
func (p *SQLProvisioner) CheckAccounts(ctx context.Context, emails []string) ([]string, error) {
	if len(emails) == 0 {
		return nil, nil
	}

	gdb, err := p.connect(ctx, nil)
	if err != nil {
		p.log.Errorf("❌ Error checking test accounts: %v", err)
		return nil, err
	}
	defer p.close(gdb)

	var found []string
	if err := gdb.Model(&model.User{}).Where("email IN ?", emails).Pluck("email", &found).Error; err != nil {
		p.log.Errorf("❌ Error checking test accounts: %v", err)
		return nil, fmt.Errorf("check accounts: %w", err)
	}

	present := make(map[string]struct{}, len(found))
	for _, email := range found {
		present[email] = struct{}{}
	}

	var missing []string
	for _, email := range emails {
		if _, ok := present[email]; ok {
			p.log.Infof("✅ Account %s found", email)
			continue
		}
		p.log.Warnf("⚠️  Account %s - NOT FOUND", email)
		missing = append(missing, email)
	}
	return missing, nil
}
