package session

import (
	"github.com/golang-jwt/jwt/v5"
)

// tokenClaims is the subset of the Supabase access-token claims the session
// manager falls back to when the auth envelope omits a field. The token is
// signed with the project secret, so the client reads claims without
// verifying the signature.
type tokenClaims struct {
	Subject   string
	Email     string
	Phone     string
	ExpiresAt int64
	UserType  string
}

func parseTokenClaims(accessToken string) *tokenClaims {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return nil
	}

	tc := &tokenClaims{}
	if sub, err := claims.GetSubject(); err == nil {
		tc.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		tc.ExpiresAt = exp.Unix()
	}
	if email, ok := claims["email"].(string); ok {
		tc.Email = email
	}
	if phone, ok := claims["phone"].(string); ok {
		tc.Phone = phone
	}
	if meta, ok := claims["user_metadata"].(map[string]any); ok {
		if ut, ok := meta["user_type"].(string); ok {
			tc.UserType = ut
		}
	}
	return tc
}
