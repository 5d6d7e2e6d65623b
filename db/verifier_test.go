package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireMismatch(t *testing.T, err error, kind, name string) {
	t.Helper()
	require.Error(t, err)
	var mismatch *SchemaMismatchError
	require.True(t, errors.As(err, &mismatch), "expected SchemaMismatchError, got %v", err)
	assert.Equal(t, kind, mismatch.Kind)
	assert.Equal(t, name, mismatch.Name)
}

func TestVerifySchema(t *testing.T) {
	ctx := context.Background()

	t.Run("complete schema passes", func(t *testing.T) {
		p, logs := newTestProvisioner(t)
		applySchema(t, p)

		require.NoError(t, p.VerifySchema(ctx))
		assert.Equal(t, len(RequiredTables), logs.FilterMessageSnippet("✅ Table").Len())
		assert.Equal(t, len(RequiredColumns), logs.FilterMessageSnippet("✅ Column").Len())
		assert.Equal(t, len(RequiredIndexes), logs.FilterMessageSnippet("✅ Index").Len())
		assert.Equal(t, 1, logs.FilterMessage("✅ Database schema verification completed successfully").Len())
	})

	t.Run("seeded schema passes", func(t *testing.T) {
		p, _ := newTestProvisioner(t)
		applySchema(t, p)
		seedSampleData(t, p)
		require.NoError(t, p.VerifySchema(ctx))
	})

	t.Run("empty database fails on the first table", func(t *testing.T) {
		p, logs := newTestProvisioner(t)
		requireMismatch(t, p.VerifySchema(ctx), KindTable, "users")
		assert.Equal(t, 1, logs.FilterMessage("❌ Required table 'users' does not exist").Len())
	})

	for _, table := range RequiredTables {
		t.Run("missing table "+table, func(t *testing.T) {
			p, _ := newTestProvisioner(t)
			applySchema(t, p)
			execSQL(t, p, "DROP TABLE "+table)

			requireMismatch(t, p.VerifySchema(ctx), KindTable, table)
		})
	}

	for _, column := range RequiredColumns {
		t.Run("missing column "+column, func(t *testing.T) {
			p, logs := newTestProvisioner(t)
			applySchema(t, p)
			execSQL(t, p, "ALTER TABLE marketplace_projects RENAME COLUMN "+column+" TO legacy_"+column)

			err := p.VerifySchema(ctx)
			requireMismatch(t, err, KindColumn, column)
			assert.Equal(t, 1, logs.FilterMessage("❌ Required column '"+column+"' does not exist in marketplace_projects").Len())
		})
	}

	for _, index := range RequiredIndexes {
		t.Run("missing index "+index, func(t *testing.T) {
			p, _ := newTestProvisioner(t)
			applySchema(t, p)
			execSQL(t, p, "DROP INDEX "+index)

			requireMismatch(t, p.VerifySchema(ctx), KindIndex, index)
		})
	}

	t.Run("stops at the first missing object", func(t *testing.T) {
		p, logs := newTestProvisioner(t)
		applySchema(t, p)
		execSQL(t, p, "DROP TABLE marketplace_downloads")
		execSQL(t, p, "DROP INDEX idx_marketplace_projects_price")

		requireMismatch(t, p.VerifySchema(ctx), KindTable, "marketplace_downloads")
		assert.Zero(t, logs.FilterMessageSnippet("Column").Len())
		assert.Zero(t, logs.FilterMessageSnippet("Index").Len())
	})
}

func TestSchemaMismatchErrorMessage(t *testing.T) {
	assert.Equal(t, "required table 'users' does not exist",
		(&SchemaMismatchError{Kind: KindTable, Name: "users"}).Error())
	assert.Equal(t, "required column 'price' does not exist in marketplace_projects",
		(&SchemaMismatchError{Kind: KindColumn, Name: "price", Table: ListingsTable}).Error())
}
