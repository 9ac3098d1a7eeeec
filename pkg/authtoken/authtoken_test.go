package authtoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptstash/promptstash/internal/access"
)

func TestGenerateAndParse(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		signed, expiresAt, err := Generate("secret", "u1", access.RoleUser, time.Hour)
		require.NoError(t, err)
		assert.NotEmpty(t, signed)
		assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

		actor, err := Parse("secret", signed)
		require.NoError(t, err)
		assert.Equal(t, "u1", actor.ID)
		assert.Equal(t, access.RoleUser, actor.PlatformRole)
	})

	t.Run("super admin role survives", func(t *testing.T) {
		signed, _, err := Generate("secret", "admin", access.RoleSuperAdmin, time.Hour)
		require.NoError(t, err)

		actor, err := Parse("secret", signed)
		require.NoError(t, err)
		assert.True(t, actor.IsSuperAdmin())
	})

	t.Run("wrong secret rejected", func(t *testing.T) {
		signed, _, err := Generate("secret", "u1", access.RoleUser, time.Hour)
		require.NoError(t, err)

		_, err = Parse("other-secret", signed)
		assert.Error(t, err)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		signed, _, err := Generate("secret", "u1", access.RoleUser, -time.Minute)
		require.NoError(t, err)

		_, err = Parse("secret", signed)
		assert.Error(t, err)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		_, err := Parse("secret", "not-a-token")
		assert.Error(t, err)
	})
}
