package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kindlingapp/kindling-engine/internal/db"
	"github.com/kindlingapp/kindling-engine/internal/repository"
)

func TestUpsertOverwrites(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewInteractionRepository(dbase)

	// like then overwrite with pass
	require.NoError(t, repo.Upsert(ctx, "alice", "bob", true))
	require.NoError(t, repo.Upsert(ctx, "alice", "bob", false))

	var interactions []db.Interaction
	require.NoError(t, dbase.Find(&interactions).Error)
	require.Len(t, interactions, 1)
	assert.False(t, interactions[0].Liked)

	// a later like re-opens consideration, still one row
	require.NoError(t, repo.Upsert(ctx, "alice", "bob", true))
	require.NoError(t, dbase.Find(&interactions).Error)
	require.Len(t, interactions, 1)
	assert.True(t, interactions[0].Liked)
}

func TestPassIsIdempotent(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewInteractionRepository(dbase)

	require.NoError(t, repo.Upsert(ctx, "alice", "bob", false))
	require.NoError(t, repo.Upsert(ctx, "alice", "bob", false))

	var count int64
	require.NoError(t, dbase.Model(&db.Interaction{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestHasLiked(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewInteractionRepository(dbase)

	require.NoError(t, repo.Upsert(ctx, "alice", "bob", true))
	require.NoError(t, repo.Upsert(ctx, "alice", "carol", false))

	liked, err := repo.HasLiked(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.True(t, liked)

	liked, err = repo.HasLiked(ctx, "alice", "carol")
	require.NoError(t, err)
	assert.False(t, liked)

	liked, err = repo.HasLiked(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestListPendingSent(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewInteractionRepository(dbase)

	// alice liked bob (pending) and carol (reciprocated)
	require.NoError(t, repo.Upsert(ctx, "alice", "bob", true))
	require.NoError(t, repo.Upsert(ctx, "alice", "carol", true))
	require.NoError(t, repo.Upsert(ctx, "carol", "alice", true))
	// alice passed dave
	require.NoError(t, repo.Upsert(ctx, "alice", "dave", false))

	sent, err := repo.ListPendingSent(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, sent)
}

func TestListPendingSentExcludesBlocked(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewInteractionRepository(dbase)

	require.NoError(t, repo.Upsert(ctx, "alice", "bob", true))
	require.NoError(t, dbase.Create(&db.Block{BlockerID: "bob", BlockedID: "alice"}).Error)

	sent, err := repo.ListPendingSent(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, sent)
}

func TestListPendingReceived(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewInteractionRepository(dbase)

	// bob and carol liked alice; alice already passed carol
	require.NoError(t, repo.Upsert(ctx, "bob", "alice", true))
	require.NoError(t, repo.Upsert(ctx, "carol", "alice", true))
	require.NoError(t, repo.Upsert(ctx, "alice", "carol", false))
	// dave liked alice and alice liked back → mutual, not pending
	require.NoError(t, repo.Upsert(ctx, "dave", "alice", true))
	require.NoError(t, repo.Upsert(ctx, "alice", "dave", true))

	received, err := repo.ListPendingReceived(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, received)
}
