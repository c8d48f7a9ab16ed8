//go:build unit

package user_test

import (
	"testing"

	"court-booking/internal/domain/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIdentity(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name  string
		id    uuid.UUID
		email string
		role  string
		errIs error
	}{
		{name: "customer OK", id: id, email: "player@example.com", role: "customer"},
		{name: "club owner OK", id: id, email: "owner@example.com", role: "club_owner"},
		{name: "admin OK", id: id, email: " admin@example.com ", role: "admin"},
		{name: "nil id NG", id: uuid.Nil, email: "player@example.com", role: "customer", errIs: user.ErrInvalidIdentity},
		{name: "unknown role NG", id: id, email: "player@example.com", role: "viewer", errIs: user.ErrInvalidRole},
		{name: "malformed email NG", id: id, email: "player.example.com", role: "customer", errIs: user.ErrInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, err := user.NewIdentity(tt.id, tt.email, tt.role)
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.id, identity.ID)
			assert.Equal(t, user.Role(tt.role), identity.Role)
			assert.NotContains(t, identity.Email, " ")
		})
	}
}

func TestRolePredicates(t *testing.T) {
	assert.True(t, user.Identity{Role: user.RoleAdmin}.IsAdmin())
	assert.True(t, user.Identity{Role: user.RoleClubOwner}.IsClubOwner())
	assert.True(t, user.Identity{Role: user.RoleCustomer}.IsCustomer())
	assert.False(t, user.Identity{Role: user.RoleCustomer}.IsAdmin())
}
