package session_test

import (
	"testing"

	"github.com/fowltyphoid/fowlmon/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRole(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want session.Role
	}{
		{"vet alias", "vet", session.RoleVet},
		{"admin alias", "admin", session.RoleVet},
		{"doctor alias", "doctor", session.RoleVet},
		{"veterinarian alias", "veterinarian", session.RoleVet},
		{"daktari alias", "daktari", session.RoleVet},
		{"upper case", "VET", session.RoleVet},
		{"mixed case", "DaKtAri", session.RoleVet},
		{"whitespace", "  admin  ", session.RoleVet},
		{"farmer", "farmer", session.RoleFarmer},
		{"empty", "", session.RoleFarmer},
		{"unknown", "superuser", session.RoleFarmer},
		{"garbage", "!!??", session.RoleFarmer},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := session.NormalizeRole(tc.raw)
			require.Equal(t, tc.want, got)

			// Total and idempotent: re-normalizing a canonical value is a no-op.
			require.Equal(t, got, session.NormalizeRole(string(got)))
			assert.Contains(t, []session.Role{session.RoleFarmer, session.RoleVet}, got)
		})
	}
}

func TestIsAdminEmail(t *testing.T) {
	require.True(t, session.IsAdminEmail("admin@fowltyphoid.com"))
	require.True(t, session.IsAdminEmail("ADMIN@FOWLTYPHOID.COM"))
	require.True(t, session.IsAdminEmail("lwena27@admin.com"))
	require.True(t, session.IsAdminEmail("admin@example.com"))
	require.False(t, session.IsAdminEmail("farmer@example.com"))
	require.False(t, session.IsAdminEmail(""))
}
