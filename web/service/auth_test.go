package service

import (
	"context"
	"testing"

	"github.com/userdesk/userdesk/database/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAuthService(t *testing.T) {
	db, hasher := setup(t)
	ctx := context.Background()
	users := NewUserService(db, hasher)
	auth := NewAuthService(db, hasher)

	_, err := users.Create(ctx, UserInput{Login: ptr("reader"), Password: ptr("r")})
	require.NoError(t, err)
	_, err = users.Create(ctx, UserInput{Login: ptr("blocked"), Password: ptr("b"), Permissions: ptr(model.PermBlock)})
	require.NoError(t, err)

	assert.True(t, auth.CheckCredentials(ctx, "admin", "admin"))
	assert.True(t, auth.CheckCredentials(ctx, "reader", "r"))
	assert.False(t, auth.CheckCredentials(ctx, "reader", "wrong"))
	assert.False(t, auth.CheckCredentials(ctx, "nobody", "r"))
	assert.False(t, auth.CheckCredentials(ctx, "blocked", "b"))

	id, ok := auth.AuthorizedUserID(ctx, "reader")
	assert.True(t, ok)
	assert.Equal(t, "reader", id)

	_, ok = auth.AuthorizedUserID(ctx, "blocked")
	assert.False(t, ok)
	_, ok = auth.AuthorizedUserID(ctx, "nobody")
	assert.False(t, ok)
	_, ok = auth.AuthorizedUserID(ctx, "")
	assert.False(t, ok)

	assert.True(t, auth.Permits(ctx, "admin", model.PermAdmin))
	assert.False(t, auth.Permits(ctx, "admin", model.PermRead))
	assert.True(t, auth.Permits(ctx, "reader", model.PermRead))
	assert.False(t, auth.Permits(ctx, "reader", model.PermAdmin))
	assert.False(t, auth.Permits(ctx, "blocked", model.PermBlock))
	assert.False(t, auth.Permits(ctx, "nobody", model.PermRead))
}

func TestAuthServiceBlockingRevokesAccess(t *testing.T) {
	db, hasher := setup(t)
	ctx := context.Background()
	users := NewUserService(db, hasher)
	auth := NewAuthService(db, hasher)

	_, err := users.Create(ctx, UserInput{Login: ptr("frank"), Password: ptr("f")})
	require.NoError(t, err)
	_, ok := auth.AuthorizedUserID(ctx, "frank")
	require.True(t, ok)

	_, err = users.Update(ctx, "frank", UserInput{Permissions: ptr(model.PermBlock)})
	require.NoError(t, err)
	_, ok = auth.AuthorizedUserID(ctx, "frank")
	assert.False(t, ok)
	assert.False(t, auth.CheckCredentials(ctx, "frank", "f"))
}

func TestAuthServiceLegacyBcrypt(t *testing.T) {
	db, hasher := setup(t)
	ctx := context.Background()
	auth := NewAuthService(db, hasher)

	legacy, err := bcrypt.GenerateFromPassword([]byte("legacy"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Model(&model.User{}).Where("login = ?", "admin").Update("password", string(legacy)).Error)

	assert.True(t, auth.CheckCredentials(ctx, "admin", "legacy"))
	assert.False(t, auth.CheckCredentials(ctx, "admin", "admin"))
}
