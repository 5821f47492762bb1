package router_test

import (
	"testing"

	"github.com/fowltyphoid/fowlmon/router"
	"github.com/fowltyphoid/fowlmon/session"
	"github.com/stretchr/testify/require"
)

type sessionSnapshot struct {
	loggedIn bool
	role     session.Role
	complete bool
}

func (s sessionSnapshot) IsLoggedIn() bool        { return s.loggedIn }
func (s sessionSnapshot) Role() session.Role      { return s.role }
func (s sessionSnapshot) IsProfileComplete() bool { return s.complete }

func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		state sessionSnapshot
		want  router.Destination
	}{
		{"logged out", sessionSnapshot{}, router.DestinationLogin},
		{"logged out ignores role and completeness", sessionSnapshot{role: session.RoleVet, complete: true}, router.DestinationLogin},
		{"incomplete farmer", sessionSnapshot{loggedIn: true, role: session.RoleFarmer}, router.DestinationProfileSetup},
		{"incomplete vet", sessionSnapshot{loggedIn: true, role: session.RoleVet}, router.DestinationProfileSetup},
		{"complete farmer", sessionSnapshot{loggedIn: true, role: session.RoleFarmer, complete: true}, router.DestinationFarmerHome},
		{"complete vet", sessionSnapshot{loggedIn: true, role: session.RoleVet, complete: true}, router.DestinationVetHome},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, router.Resolve(tc.state))
		})
	}
}
