package db

import (
	"context"
	"fmt"

	"marketplacesetup/model"
)

// Summary holds the row counts reported by Audit.
type Summary struct {
	SampleUsers            int64 `gorm:"column:sample_users"`
	SampleProjects         int64 `gorm:"column:sample_projects"`
	Listings               int64 `gorm:"column:listings"`
	ActiveApprovedListings int64 `gorm:"column:active_approved_listings"`
	PendingListings        int64 `gorm:"column:pending_listings"`
	Purchases              int64 `gorm:"column:purchases"`
	Reviews                int64 `gorm:"column:reviews"`
	Downloads              int64 `gorm:"column:downloads"`
}

const sampleUserFilter = "email LIKE @sample OR email LIKE @builder"

var auditQuery = fmt.Sprintf(`
SELECT
	(SELECT COUNT(*) FROM users WHERE %[1]s) AS sample_users,
	(SELECT COUNT(*) FROM projects WHERE user_id IN (SELECT id FROM users WHERE %[1]s)) AS sample_projects,
	(SELECT COUNT(*) FROM marketplace_projects) AS listings,
	(SELECT COUNT(*) FROM marketplace_projects WHERE status = @active AND approval_status = @approved) AS active_approved_listings,
	(SELECT COUNT(*) FROM marketplace_projects WHERE approval_status = @pending) AS pending_listings,
	(SELECT COUNT(*) FROM marketplace_purchases) AS purchases,
	(SELECT COUNT(*) FROM marketplace_reviews) AS reviews,
	(SELECT COUNT(*) FROM marketplace_downloads) AS downloads`, sampleUserFilter)

func auditArgs() map[string]interface{} {
	patterns := model.SampleEmailPatterns()
	return map[string]interface{}{
		"sample":   patterns[0],
		"builder":  patterns[1],
		"active":   string(model.Active),
		"approved": string(model.Approved),
		"pending":  string(model.Pending),
	}
}

// Audit counts sample users and projects along with every marketplace table
// in one query and logs the result.
func (p *SQLProvisioner) Audit(ctx context.Context) (*Summary, error) {
	p.log.Info("Checking sample data...")

	gdb, err := p.connect(ctx, nil)
	if err != nil {
		p.log.Errorf("❌ Error checking sample data: %v", err)
		return nil, err
	}
	defer p.close(gdb)

	var s Summary
	if err := gdb.Raw(auditQuery, auditArgs()).Scan(&s).Error; err != nil {
		p.log.Errorf("❌ Error checking sample data: %v", err)
		return nil, fmt.Errorf("audit sample data: %w", err)
	}

	p.log.Info("📊 Sample Data Summary:")
	p.log.Infof("   Users: %d", s.SampleUsers)
	p.log.Infof("   Projects: %d", s.SampleProjects)
	p.log.Infof("   Marketplace Projects: %d", s.Listings)
	p.log.Infof("   Active & Approved Projects: %d", s.ActiveApprovedListings)
	p.log.Infof("   Pending Projects: %d", s.PendingListings)
	p.log.Infof("   Purchases: %d", s.Purchases)
	p.log.Infof("   Reviews: %d", s.Reviews)
	p.log.Infof("   Downloads: %d", s.Downloads)
	return &s, nil
}
