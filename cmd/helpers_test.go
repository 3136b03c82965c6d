package cmd

import (
	"context"
	"testing"

	"github.com/mmc-gaming/clanhub/internal/database"
	"github.com/mmc-gaming/clanhub/internal/database/mock"
	"github.com/mmc-gaming/clanhub/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveUser(t *testing.T) {
	ctx := context.Background()
	db := mock.NewMockDB()
	require.NoError(t, db.CreateUser(ctx, &database.User{Username: "alice", Email: "alice@example.com"}))

	byName, err := resolveUser(ctx, db, "alice")
	require.NoError(t, err)

	byID, err := resolveUser(ctx, db, "1")
	require.NoError(t, err)
	assert.Equal(t, byName.ID, byID.ID)

	_, err = resolveUser(ctx, db, "bob")
	assert.ErrorIs(t, err, engine.ErrNotFound)

	_, err = resolveUser(ctx, db, "-1")
	assert.Error(t, err)
}
