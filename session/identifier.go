package session

import (
	"regexp"
	"strings"
)

var emailRx = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// identifierKind distinguishes how a login identifier routes.
type identifierKind int

const (
	identifierInvalid identifierKind = iota
	identifierEmail
	identifierPhone
)

// classifyIdentifier decides whether identifier is an email address or a
// phone number. Anything containing "@" must pass the email-shape check;
// otherwise it must look like a dialable number. Rejection happens locally,
// before any network call.
func classifyIdentifier(identifier string) identifierKind {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return identifierInvalid
	}
	if strings.Contains(identifier, "@") {
		if emailRx.MatchString(identifier) {
			return identifierEmail
		}
		return identifierInvalid
	}

	digits := strings.TrimPrefix(identifier, "+")
	if digits == "" {
		return identifierInvalid
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return identifierInvalid
		}
	}
	return identifierPhone
}

// normalizePhone prefixes the configured country code when the number lacks
// a leading "+". A leading "0" is dropped first, so "0712..." becomes
// "+255712...".
func normalizePhone(phone, dialPrefix string) string {
	phone = strings.TrimSpace(phone)
	if strings.HasPrefix(phone, "+") {
		return phone
	}
	if strings.HasPrefix(phone, "0") {
		return dialPrefix + phone[1:]
	}
	return dialPrefix + phone
}
