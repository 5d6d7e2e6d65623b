package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanup(t *testing.T) {
	ctx := context.Background()

	t.Run("removes sample data and keeps real accounts", func(t *testing.T) {
		p, logs := newTestProvisioner(t)
		applySchema(t, p)
		seedSampleData(t, p)

		require.NoError(t, p.Cleanup(ctx))

		s, err := p.Audit(ctx)
		require.NoError(t, err)
		assert.Equal(t, Summary{}, *s)
		assert.Equal(t, int64(1), countRows(t, p, "users"))
		assert.Equal(t, int64(1), countRows(t, p, "projects"))
		assert.Equal(t, 1, logs.FilterMessage("✅ Sample data cleanup completed").Len())
	})

	t.Run("is idempotent", func(t *testing.T) {
		p, _ := newTestProvisioner(t)
		applySchema(t, p)
		seedSampleData(t, p)

		for i := 0; i < 2; i++ {
			require.NoError(t, p.Cleanup(ctx))
			s, err := p.Audit(ctx)
			require.NoError(t, err)
			assert.Equal(t, int64(0), s.SampleUsers)
		}
	})

	t.Run("failure rolls back earlier deletes", func(t *testing.T) {
		p, logs := newTestProvisioner(t)
		applySchema(t, p)
		seedSampleData(t, p)
		execSQL(t, p, "DROP TABLE projects")

		require.Error(t, p.Cleanup(ctx))
		assert.Equal(t, int64(2), countRows(t, p, "marketplace_reviews"))
		assert.Equal(t, int64(4), countRows(t, p, "marketplace_projects"))
		assert.Equal(t, 1, logs.FilterMessageSnippet("❌ Error cleaning up sample data").Len())
	})
}

func TestCheckAccounts(t *testing.T) {
	ctx := context.Background()
	p, logs := newTestProvisioner(t)
	applySchema(t, p)
	seedSampleData(t, p)

	missing, err := p.CheckAccounts(ctx, []string{"admin@builderai.com", "nobody@example.com", "user1@example.com"})
	require.NoError(t, err)
	assert.Equal(t, []string{"nobody@example.com"}, missing)
	assert.Equal(t, 2, logs.FilterMessageSnippet("✅ Account").Len())
	assert.Equal(t, 1, logs.FilterMessageSnippet("NOT FOUND").Len())

	missing, err = p.CheckAccounts(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, missing)
}
