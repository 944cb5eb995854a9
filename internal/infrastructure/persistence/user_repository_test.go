package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailops/backend/internal/domain/identity"
)

func TestGormUserRepository_SaveAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	user, err := identity.NewUser("Ada Lovelace", "Ada@Example.com", "hashed-password")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, user))

	// the domain lowercases emails on construction
	found, err := repo.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, "Ada Lovelace", found.Name)

	byID, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", byID.Email)

	exists, err := repo.ExistsByEmail(ctx, "ADA@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByEmail(ctx, "ghost@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}
