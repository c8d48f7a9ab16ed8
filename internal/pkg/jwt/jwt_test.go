//go:build unit

package jwt_test

import (
	"testing"
	"time"

	"court-booking/internal/domain/user"
	"court-booking/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Verify(t *testing.T) {
	svc := jwt.NewService("secret", "idp")
	identity := user.Identity{ID: uuid.New(), Email: "owner@example.com", Role: user.RoleClubOwner}

	t.Run("valid token resolves identity", func(t *testing.T) {
		token, err := svc.GenerateToken(identity, time.Hour)
		require.NoError(t, err)

		got, err := svc.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, identity, got)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := svc.GenerateToken(identity, -time.Minute)
		require.NoError(t, err)

		_, err = svc.Verify(token)
		assert.ErrorIs(t, err, jwt.ErrExpiredToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := jwt.NewService("other", "idp").GenerateToken(identity, time.Hour)
		require.NoError(t, err)

		_, err = svc.Verify(token)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		token, err := jwt.NewService("secret", "someone-else").GenerateToken(identity, time.Hour)
		require.NoError(t, err)

		_, err = svc.Verify(token)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("unknown role", func(t *testing.T) {
		token, err := svc.GenerateToken(user.Identity{ID: uuid.New(), Email: "x@example.com", Role: "viewer"}, time.Hour)
		require.NoError(t, err)

		_, err = svc.Verify(token)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})
}
