package session

import (
	"context"
	"sync"
	"time"

	"github.com/fowltyphoid/fowlmon/credstore"
	interrors "github.com/fowltyphoid/fowlmon/internal/errors"
	"github.com/fowltyphoid/fowlmon/profiles"
	"github.com/fowltyphoid/fowlmon/supabase"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// refreshLeeway is how close to expiry a token may get before
	// AutoRefreshIfNeeded refreshes it.
	refreshLeeway = 5 * time.Minute

	// defaultExpirySeconds is assumed when the auth envelope omits expires_in
	// and the token carries no exp claim.
	defaultExpirySeconds = 3600

	defaultDialPrefix = "+255"

	blockingRefreshTimeout = 30 * time.Second
)

// AuthAPI is the slice of the GoTrue client the manager needs.
// *supabase.AuthClient satisfies it.
type AuthAPI interface {
	PasswordGrant(ctx context.Context, email, phone, password string) (*supabase.TokenResponse, error)
	RefreshGrant(ctx context.Context, refreshToken string) (*supabase.TokenResponse, error)
	SignUp(ctx context.Context, email, phone, password string, metadata map[string]any) (*supabase.TokenResponse, error)
	Logout(ctx context.Context, accessToken string) error
}

// ProfileDirectory resolves and creates role-specific profile rows.
// *profiles.Service satisfies it.
type ProfileDirectory interface {
	GetFarmerByUserID(ctx context.Context, userID string) (*profiles.Farmer, error)
	GetVetByUserID(ctx context.Context, userID string) (*profiles.Vet, error)
	CreateFarmer(ctx context.Context, farmer *profiles.Farmer) (*profiles.Farmer, error)
	CreateVet(ctx context.Context, vet *profiles.Vet) (*profiles.Vet, error)
}

// Manager owns the login/signup/logout/refresh lifecycle and the session
// state queries. It is constructed once at startup and injected wherever
// session state is needed; tests build a fresh instance per case.
type Manager struct {
	store      credstore.Store
	auth       AuthAPI
	profiles   ProfileDirectory // optional
	dialPrefix string
	nowTime    func() time.Time
	logger     zerolog.Logger

	refreshMu  sync.Mutex
	refreshing bool
}

var _ supabase.TokenSource = (*Manager)(nil)

// ManagerOption modifies a Manager during construction.
type ManagerOption func(*Manager)

// WithNowTime sets the clock (primarily for testing).
func WithNowTime(nowFunc func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowTime = nowFunc
	}
}

// WithProfiles wires the profile directory used for role resolution and
// post-signup profile creation.
func WithProfiles(dir ProfileDirectory) ManagerOption {
	return func(m *Manager) {
		m.profiles = dir
	}
}

// WithDialPrefix overrides the country code assumed for bare phone numbers.
func WithDialPrefix(prefix string) ManagerOption {
	return func(m *Manager) {
		m.dialPrefix = prefix
	}
}

// SetProfileDirectory wires the profile directory after construction. The
// directory's REST client authenticates through this manager, so the two are
// built in sequence and joined here.
func (m *Manager) SetProfileDirectory(dir ProfileDirectory) {
	m.profiles = dir
}

// NewManager initializes a Manager with its required dependencies.
func NewManager(store credstore.Store, auth AuthAPI, options ...ManagerOption) (*Manager, error) {
	if store == nil {
		return nil, errors.New("[NewManager] credential store is required")
	}
	if auth == nil {
		return nil, errors.New("[NewManager] auth client is required")
	}

	m := &Manager{
		store:      store,
		auth:       auth,
		dialPrefix: defaultDialPrefix,
		nowTime:    time.Now,
		logger:     log.With().Str("component", "session").Logger(),
	}
	for _, opt := range options {
		opt(m)
	}
	return m, nil
}

// Login authenticates with an email address or a phone number. Bare phone
// numbers get the configured country prefix. Malformed identifiers are
// rejected locally before any network call.
func (m *Manager) Login(ctx context.Context, identifier, password string) error {
	var email, phone string
	switch classifyIdentifier(identifier) {
	case identifierEmail:
		email = identifier
	case identifierPhone:
		phone = normalizePhone(identifier, m.dialPrefix)
	default:
		return &AuthError{Message: msgBadCredentials, cause: interrors.ErrMalformedIdentifier}
	}

	tr, err := m.auth.PasswordGrant(ctx, email, phone, password)
	if err != nil {
		m.logger.Warn().Err(err).Msg("login failed")
		return authError(err)
	}
	if !tr.Success() {
		return &AuthError{Message: msgBadCredentials, cause: interrors.ErrInvalidCredentials}
	}

	m.saveTokens(tr)
	if email != "" {
		m.store.SetString(credstore.KeyUserEmail, email)
	}
	if phone != "" {
		m.store.SetString(credstore.KeyUserPhone, phone)
	}
	m.store.SetBool(credstore.KeyIsLoggedIn, true)

	m.resolveRole(ctx, tr)
	m.commit("Login")
	m.logger.Info().Str("user_id", m.UserID()).Str("role", string(m.Role())).Msg("login successful")
	return nil
}

// SignUpWithEmail registers a new account keyed by email address.
// Metadata keys understood downstream: user_type, display_name,
// specialization, location.
func (m *Manager) SignUpWithEmail(ctx context.Context, email, password string, metadata map[string]any) error {
	if classifyIdentifier(email) != identifierEmail {
		return &AuthError{Message: msgMalformedInput, cause: interrors.ErrMalformedIdentifier}
	}
	if metadata == nil {
		metadata = map[string]any{}
	}
	if IsAdminEmail(email) {
		metadata["user_type"] = "admin"
	}
	return m.signUp(ctx, email, "", password, metadata)
}

// SignUpWithPhone registers a new account keyed by phone number.
func (m *Manager) SignUpWithPhone(ctx context.Context, phone, password string, metadata map[string]any) error {
	if classifyIdentifier(phone) != identifierPhone {
		return &AuthError{Message: msgMalformedInput, cause: interrors.ErrMalformedIdentifier}
	}
	return m.signUp(ctx, "", normalizePhone(phone, m.dialPrefix), password, metadata)
}

func (m *Manager) signUp(ctx context.Context, email, phone, password string, metadata map[string]any) error {
	tr, err := m.auth.SignUp(ctx, email, phone, password, metadata)
	if err != nil {
		m.logger.Warn().Err(err).Msg("signup failed")
		return authError(err)
	}
	if !tr.Success() {
		return &AuthError{Message: msgGenericFailure, cause: interrors.ErrInvalidCredentials}
	}

	m.saveTokens(tr)
	if email != "" {
		m.store.SetString(credstore.KeyUserEmail, email)
	}
	if phone != "" {
		m.store.SetString(credstore.KeyUserPhone, phone)
	}
	m.store.SetBool(credstore.KeyIsLoggedIn, true)

	role := RoleFarmer
	if raw, ok := metadata["user_type"].(string); ok {
		role = NormalizeRole(raw)
	}
	m.store.SetString(credstore.KeyUserType, string(role))

	displayName, _ := metadata["display_name"].(string)
	if displayName != "" {
		m.store.SetString(credstore.KeyDisplayName, displayName)
	}

	if email != "" && IsAdminEmail(email) {
		// Administrators have no role-specific profile row.
		m.store.SetBool(credstore.KeyProfileComplete, true)
		m.commit("signUp")
		return nil
	}

	m.createProfileRow(ctx, role, email, phone, metadata)
	m.commit("signUp")
	m.logger.Info().Str("user_id", m.UserID()).Str("role", string(role)).Msg("signup successful")
	return nil
}

// createProfileRow creates the role-specific record after signup. Failure is
// logged but never undoes the already-saved session; the account stays
// usable with an incomplete profile.
func (m *Manager) createProfileRow(ctx context.Context, role Role, email, phone string, metadata map[string]any) {
	if m.profiles == nil {
		m.store.SetBool(credstore.KeyProfileComplete, false)
		return
	}

	userID := m.UserID()
	displayName, _ := metadata["display_name"].(string)

	switch role {
	case RoleVet:
		specialization, _ := metadata["specialization"].(string)
		location, _ := metadata["location"].(string)
		vet := &profiles.Vet{
			UserID:         userID,
			Email:          email,
			PhoneNumber:    phone,
			FullName:       displayName,
			Specialization: specialization,
			Location:       location,
		}
		if _, err := m.profiles.CreateVet(ctx, vet); err != nil {
			m.logger.Error().Err(err).Str("user_id", userID).Msg("vet profile creation failed, session kept")
			m.store.SetBool(credstore.KeyProfileComplete, false)
			return
		}
		m.store.SetBool(credstore.KeyProfileComplete, vet.Complete())
	default:
		farmer := &profiles.Farmer{
			UserID:      userID,
			Email:       email,
			PhoneNumber: phone,
			FullName:    displayName,
		}
		if _, err := m.profiles.CreateFarmer(ctx, farmer); err != nil {
			m.logger.Error().Err(err).Str("user_id", userID).Msg("farmer profile creation failed, session kept")
			m.store.SetBool(credstore.KeyProfileComplete, false)
			return
		}
		m.store.SetBool(credstore.KeyProfileComplete, displayName != "")
	}
}

// Refresh exchanges the stored refresh token for a new access token. A
// single in-flight guard collapses concurrent attempts: every caller but the
// first receives ErrRefreshInProgress. A failed refresh clears the session;
// the stale token is never kept.
func (m *Manager) Refresh(ctx context.Context) error {
	m.refreshMu.Lock()
	if m.refreshing {
		m.refreshMu.Unlock()
		return interrors.ErrRefreshInProgress
	}
	m.refreshing = true
	m.refreshMu.Unlock()
	defer func() {
		m.refreshMu.Lock()
		m.refreshing = false
		m.refreshMu.Unlock()
	}()

	refreshToken := m.store.GetString(credstore.KeyRefreshToken, "")
	if refreshToken == "" {
		return interrors.ErrNoRefreshToken
	}

	tr, err := m.auth.RefreshGrant(ctx, refreshToken)
	if err != nil || !tr.Success() {
		m.logger.Warn().Err(err).Msg("token refresh failed, clearing session")
		m.store.Clear()
		m.commit("Refresh")
		if err != nil {
			return authError(err)
		}
		return &AuthError{Message: msgGenericFailure, cause: interrors.ErrInvalidCredentials}
	}

	m.saveTokens(tr)
	m.commit("Refresh")
	m.logger.Debug().Msg("token refreshed")
	return nil
}

// TryRefresh is the blocking variant used by the request decorator. It
// reports success only; an in-flight refresh counts as failure so the
// decorator returns the original 401 instead of waiting.
func (m *Manager) TryRefresh() bool {
	ctx, cancel := context.WithTimeout(context.Background(), blockingRefreshTimeout)
	defer cancel()
	return m.Refresh(ctx) == nil
}

// AutoRefreshIfNeeded refreshes when the token expires within the leeway
// window. Returns immediately when the token is still valid, and
// ErrNotLoggedIn when there is no session.
func (m *Manager) AutoRefreshIfNeeded(ctx context.Context) error {
	if !m.IsLoggedIn() {
		return interrors.ErrNotLoggedIn
	}
	expiry := m.store.GetInt64(credstore.KeyTokenExpiry, 0)
	if expiry > 0 && m.nowTime().Add(refreshLeeway).Unix() >= expiry {
		return m.Refresh(ctx)
	}
	return nil
}

// Logout revokes the session server-side on a best-effort basis. Local state
// is cleared unconditionally: after Logout returns, IsLoggedIn is false even
// when the server call failed.
func (m *Manager) Logout(ctx context.Context) error {
	token := m.AccessToken()
	var serverErr error
	if token != "" {
		if serverErr = m.auth.Logout(ctx, token); serverErr != nil {
			m.logger.Warn().Err(serverErr).Msg("server-side logout failed, clearing local session anyway")
			serverErr = errors.Wrap(serverErr, "[Manager.Logout] server logout")
		}
	}

	m.store.Clear()
	m.commit("Logout")
	m.logger.Info().Msg("logged out")
	return serverErr
}

// ==================== session state queries ====================

// AccessToken returns the current bearer credential, or "" when logged out.
func (m *Manager) AccessToken() string {
	return m.store.GetString(credstore.KeyUserToken, "")
}

// IsLoggedIn requires both the logged-in flag and a non-empty token.
func (m *Manager) IsLoggedIn() bool {
	return m.store.GetBool(credstore.KeyIsLoggedIn, false) && m.AccessToken() != ""
}

// Role returns the canonical role. An allow-listed email forces RoleVet
// independently of the stored role string.
func (m *Manager) Role() Role {
	if IsAdminEmail(m.Email()) {
		return RoleVet
	}
	return NormalizeRole(m.store.GetString(credstore.KeyUserType, ""))
}

func (m *Manager) IsVet() bool    { return m.Role() == RoleVet }
func (m *Manager) IsFarmer() bool { return m.Role() == RoleFarmer }

// IsProfileComplete reports whether the role-specific profile row exists
// with its minimum fields. Administrators are always complete.
func (m *Manager) IsProfileComplete() bool {
	if IsAdminEmail(m.Email()) {
		return true
	}
	return m.store.GetBool(credstore.KeyProfileComplete, false)
}

// SetProfileComplete records the completeness flag after a profile edit.
func (m *Manager) SetProfileComplete(complete bool) {
	m.store.SetBool(credstore.KeyProfileComplete, complete)
	m.commit("SetProfileComplete")
}

func (m *Manager) UserID() string      { return m.store.GetString(credstore.KeyUserID, "") }
func (m *Manager) Email() string       { return m.store.GetString(credstore.KeyUserEmail, "") }
func (m *Manager) Phone() string       { return m.store.GetString(credstore.KeyUserPhone, "") }
func (m *Manager) DisplayName() string { return m.store.GetString(credstore.KeyDisplayName, "") }

// ==================== internals ====================

// saveTokens persists the credential fields from an auth envelope. Fields
// the envelope omits fall back to the unverified access-token claims.
func (m *Manager) saveTokens(tr *supabase.TokenResponse) {
	claims := parseTokenClaims(tr.AccessToken)

	m.store.SetString(credstore.KeyUserToken, tr.AccessToken)
	if tr.RefreshToken != "" {
		m.store.SetString(credstore.KeyRefreshToken, tr.RefreshToken)
	}

	switch {
	case tr.ExpiresIn > 0:
		m.store.SetInt64(credstore.KeyTokenExpiry, m.nowTime().Unix()+tr.ExpiresIn)
	case claims != nil && claims.ExpiresAt > 0:
		m.store.SetInt64(credstore.KeyTokenExpiry, claims.ExpiresAt)
	default:
		m.store.SetInt64(credstore.KeyTokenExpiry, m.nowTime().Unix()+defaultExpirySeconds)
	}

	userID := tr.UserID()
	if userID == "" && claims != nil {
		userID = claims.Subject
	}
	if userID != "" {
		m.store.SetString(credstore.KeyUserID, userID)
	}

	if tr.User != nil {
		if tr.User.Email != "" {
			m.store.SetString(credstore.KeyUserEmail, tr.User.Email)
		}
		if tr.User.Phone != "" {
			m.store.SetString(credstore.KeyUserPhone, tr.User.Phone)
		}
	}
}

// resolveRole derives and persists the canonical role after login, in
// precedence order: admin allow-list, user_metadata, profile-row probing,
// farmer default.
func (m *Manager) resolveRole(ctx context.Context, tr *supabase.TokenResponse) {
	email := m.Email()

	if IsAdminEmail(email) {
		m.store.SetString(credstore.KeyUserType, string(RoleVet))
		m.store.SetBool(credstore.KeyProfileComplete, true)
		if m.DisplayName() == "" {
			m.store.SetString(credstore.KeyDisplayName, "Admin")
		}
		return
	}

	rawType := tr.User.MetadataString("user_type")
	if rawType == "" {
		if claims := parseTokenClaims(tr.AccessToken); claims != nil {
			rawType = claims.UserType
		}
	}

	if rawType != "" {
		role := NormalizeRole(rawType)
		m.store.SetString(credstore.KeyUserType, string(role))
		m.loadProfileState(ctx, role)
		return
	}

	// No role in metadata: probe the profile tables, farmer first.
	if m.profiles != nil {
		userID := m.UserID()
		if farmer, err := m.profiles.GetFarmerByUserID(ctx, userID); err == nil {
			m.store.SetString(credstore.KeyUserType, string(RoleFarmer))
			m.store.SetBool(credstore.KeyProfileComplete, farmer.Complete())
			if farmer.FullName != "" {
				m.store.SetString(credstore.KeyDisplayName, farmer.FullName)
			}
			return
		}
		if vet, err := m.profiles.GetVetByUserID(ctx, userID); err == nil {
			m.store.SetString(credstore.KeyUserType, string(RoleVet))
			m.store.SetBool(credstore.KeyProfileComplete, vet.Complete())
			if vet.FullName != "" {
				m.store.SetString(credstore.KeyDisplayName, vet.FullName)
			}
			return
		}
	}

	m.store.SetString(credstore.KeyUserType, string(RoleFarmer))
	m.store.SetBool(credstore.KeyProfileComplete, false)
}

// loadProfileState refreshes completeness and display name from the profile
// row matching an already-known role.
func (m *Manager) loadProfileState(ctx context.Context, role Role) {
	if m.profiles == nil {
		return
	}
	userID := m.UserID()

	switch role {
	case RoleVet:
		vet, err := m.profiles.GetVetByUserID(ctx, userID)
		if err != nil {
			m.store.SetBool(credstore.KeyProfileComplete, false)
			return
		}
		m.store.SetBool(credstore.KeyProfileComplete, vet.Complete())
		if vet.FullName != "" {
			m.store.SetString(credstore.KeyDisplayName, vet.FullName)
		}
	default:
		farmer, err := m.profiles.GetFarmerByUserID(ctx, userID)
		if err != nil {
			m.store.SetBool(credstore.KeyProfileComplete, false)
			return
		}
		m.store.SetBool(credstore.KeyProfileComplete, farmer.Complete())
		if farmer.FullName != "" {
			m.store.SetString(credstore.KeyDisplayName, farmer.FullName)
		}
	}
}

// commit flushes the store synchronously. A failed commit leaves the
// in-memory session ahead of durable storage until the next successful
// write; that inconsistency is logged and accepted.
func (m *Manager) commit(op string) {
	if err := m.store.Commit(); err != nil {
		m.logger.Error().Err(err).Str("op", op).Msg("credential store commit failed")
	}
}
