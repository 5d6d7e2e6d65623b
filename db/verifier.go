package db

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// ListingsTable is the table whose columns are verified.
const ListingsTable = "marketplace_projects"

var RequiredTables = []string{
	"users",
	"projects",
	"marketplace_projects",
	"marketplace_purchases",
	"marketplace_reviews",
	"marketplace_downloads",
}

var RequiredColumns = []string{
	"id", "project_id", "builder_id", "title", "description", "price",
	"category", "tags", "status", "featured", "rating", "review_count",
	"download_count", "revenue", "published_at", "updated_at", "metadata",
	"popularity_score", "mcp_servers", "approval_status", "approved_by",
	"approved_at", "rejection_reason",
}

// RequiredIndexes are looked up by name across the whole database.
var RequiredIndexes = []string{
	"idx_marketplace_projects_status",
	"idx_marketplace_projects_builder",
	"idx_marketplace_projects_category",
	"idx_marketplace_projects_featured",
	"idx_marketplace_projects_approval_status",
	"idx_marketplace_projects_rating",
	"idx_marketplace_projects_price",
	"idx_marketplace_projects_published_at",
}

// catalog answers existence questions from the database's own metadata.
type catalog interface {
	hasTable(name string) (bool, error)
	hasColumn(table, column string) (bool, error)
	hasIndex(name string) (bool, error)
}

type postgresCatalog struct{ db *gorm.DB }

func (c postgresCatalog) hasTable(name string) (bool, error) {
	return exists(c.db, `SELECT EXISTS (
		SELECT FROM information_schema.tables
		WHERE table_name = ?
	)`, name)
}

func (c postgresCatalog) hasColumn(table, column string) (bool, error) {
	return exists(c.db, `SELECT EXISTS (
		SELECT FROM information_schema.columns
		WHERE table_name = ? AND column_name = ?
	)`, table, column)
}

func (c postgresCatalog) hasIndex(name string) (bool, error) {
	return exists(c.db, `SELECT EXISTS (
		SELECT FROM pg_indexes
		WHERE indexname = ?
	)`, name)
}

type sqliteCatalog struct{ db *gorm.DB }

func (c sqliteCatalog) hasTable(name string) (bool, error) {
	return exists(c.db, "SELECT COUNT(*) > 0 FROM sqlite_master WHERE type = 'table' AND name = ?", name)
}

func (c sqliteCatalog) hasColumn(table, column string) (bool, error) {
	return exists(c.db, "SELECT COUNT(*) > 0 FROM pragma_table_info(?) WHERE name = ?", table, column)
}

func (c sqliteCatalog) hasIndex(name string) (bool, error) {
	return exists(c.db, "SELECT COUNT(*) > 0 FROM sqlite_master WHERE type = 'index' AND name = ?", name)
}

func exists(db *gorm.DB, query string, args ...interface{}) (bool, error) {
	var found bool
	if err := db.Raw(query, args...).Row().Scan(&found); err != nil {
		return false, err
	}
	return found, nil
}

func catalogFor(db *gorm.DB) (catalog, error) {
	switch name := db.Dialector.Name(); name {
	case "postgres":
		return postgresCatalog{db: db}, nil
	case "sqlite":
		return sqliteCatalog{db: db}, nil
	default:
		return nil, fmt.Errorf("no catalog queries for dialect %s", name)
	}
}

// VerifySchema checks the required tables, then the listing columns, then the
// indexes. It stops at the first missing object and returns a
// *SchemaMismatchError naming it.
func (p *SQLProvisioner) VerifySchema(ctx context.Context) error {
	p.log.Info("Verifying database schema...")

	gdb, err := p.connect(ctx, nil)
	if err != nil {
		p.log.Errorf("❌ Error verifying database schema: %v", err)
		return err
	}
	defer p.close(gdb)

	cat, err := catalogFor(gdb)
	if err != nil {
		return p.verifyFailed(err)
	}

	for _, table := range RequiredTables {
		ok, err := cat.hasTable(table)
		if err != nil {
			return p.verifyFailed(err)
		}
		if !ok {
			return p.missing(&SchemaMismatchError{Kind: KindTable, Name: table})
		}
		p.log.Infof("✅ Table '%s' exists", table)
	}

	for _, column := range RequiredColumns {
		ok, err := cat.hasColumn(ListingsTable, column)
		if err != nil {
			return p.verifyFailed(err)
		}
		if !ok {
			return p.missing(&SchemaMismatchError{Kind: KindColumn, Name: column, Table: ListingsTable})
		}
		p.log.Infof("✅ Column '%s' exists in %s", column, ListingsTable)
	}

	for _, index := range RequiredIndexes {
		ok, err := cat.hasIndex(index)
		if err != nil {
			return p.verifyFailed(err)
		}
		if !ok {
			return p.missing(&SchemaMismatchError{Kind: KindIndex, Name: index})
		}
		p.log.Infof("✅ Index '%s' exists", index)
	}

	p.log.Info("✅ Database schema verification completed successfully")
	return nil
}

func (p *SQLProvisioner) missing(err *SchemaMismatchError) error {
	p.log.Errorf("❌ %s", capitalize(err.Error()))
	return err
}

func (p *SQLProvisioner) verifyFailed(err error) error {
	p.log.Errorf("❌ Error verifying database schema: %v", err)
	return fmt.Errorf("verify schema: %w", err)
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
