package session

import "strings"

// Role is the two-valued classification governing which screens and
// endpoints a session may use.
type Role string

const (
	RoleFarmer Role = "farmer"
	RoleVet    Role = "vet"
)

// adminEmails force the veterinary role regardless of the stored role
// string. Must stay in sync with NormalizeRole: both are routes to RoleVet.
var adminEmails = []string{
	"admin@fowltyphoid.com",
	"LWENA27@admin.com",
	"admin@example.com",
}

// NormalizeRole collapses the raw role string to one of the two canonical
// roles. The mapping is total and idempotent; every veterinary alias in any
// casing becomes RoleVet, everything else (including empty) becomes
// RoleFarmer. The original alias is lost.
func NormalizeRole(raw string) Role {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "vet", "admin", "doctor", "veterinarian", "daktari":
		return RoleVet
	default:
		return RoleFarmer
	}
}

// IsAdminEmail reports whether email is on the administrator allow-list.
// Comparison is case-insensitive.
func IsAdminEmail(email string) bool {
	for _, admin := range adminEmails {
		if strings.EqualFold(email, admin) {
			return true
		}
	}
	return false
}
