package db

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"marketplacesetup/model"
)

// sampleUsers scopes a query to users whose email marks them as sample data.
func sampleUsers(tx *gorm.DB) *gorm.DB {
	patterns := model.SampleEmailPatterns()
	return tx.Where("email LIKE ? OR email LIKE ?", patterns[0], patterns[1])
}

// Cleanup removes the sample dataset children first: reviews, downloads,
// purchases, every marketplace listing, the sample users' projects and
// finally the sample users. All six deletes commit together or not at all.
func (p *SQLProvisioner) Cleanup(ctx context.Context) error {
	p.log.Info("Cleaning up existing sample data...")

	gdb, err := p.connect(ctx, nil)
	if err != nil {
		p.log.Errorf("❌ Error cleaning up sample data: %v", err)
		return err
	}
	defer p.close(gdb)

	err = gdb.Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, table := range []interface{}{
			&model.MarketplaceReview{},
			&model.MarketplaceDownload{},
			&model.MarketplacePurchase{},
			&model.MarketplaceProject{},
		} {
			if err := all.Delete(table).Error; err != nil {
				return fmt.Errorf("delete %T: %w", table, err)
			}
		}

		owners := sampleUsers(tx.Model(&model.User{}).Select("id"))
		if err := tx.Where("user_id IN (?)", owners).Delete(&model.Project{}).Error; err != nil {
			return fmt.Errorf("delete sample projects: %w", err)
		}
		if err := sampleUsers(tx).Delete(&model.User{}).Error; err != nil {
			return fmt.Errorf("delete sample users: %w", err)
		}
		return nil
	})
	if err != nil {
		p.log.Errorf("❌ Error cleaning up sample data: %v", err)
		return err
	}

	p.log.Info("✅ Sample data cleanup completed")
	return nil
}
