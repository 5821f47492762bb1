package router

import "github.com/fowltyphoid/fowlmon/session"

// Destination is the screen set a session should land on.
type Destination string

const (
	DestinationLogin        Destination = "login"
	DestinationProfileSetup Destination = "profile_setup"
	DestinationFarmerHome   Destination = "farmer_home"
	DestinationVetHome      Destination = "vet_home"
)

// SessionState is the read-only slice of the session manager the router
// consumes. The dependency is one-directional: the router exposes nothing
// back to the session layer.
type SessionState interface {
	IsLoggedIn() bool
	Role() session.Role
	IsProfileComplete() bool
}

// Resolve maps a session snapshot to its destination: logged-out sessions go
// to login, incomplete profiles to profile setup, and complete sessions to
// the home screen matching their role.
func Resolve(state SessionState) Destination {
	if !state.IsLoggedIn() {
		return DestinationLogin
	}
	if !state.IsProfileComplete() {
		return DestinationProfileSetup
	}
	if state.Role() == session.RoleVet {
		return DestinationVetHome
	}
	return DestinationFarmerHome
}
