package credstore

// Well-known keys persisted by the session manager.
const (
	KeyUserToken       = "user_token"
	KeyRefreshToken    = "refresh_token"
	KeyUserID          = "user_id"
	KeyUserEmail       = "user_email"
	KeyUserPhone       = "user_phone"
	KeyUserType        = "user_type"
	KeyTokenExpiry     = "token_expiry"
	KeyProfileComplete = "profile_complete"
	KeyDisplayName     = "display_name"
	KeyIsLoggedIn      = "is_logged_in"
)

// Store is durable flat key-value storage for session state. Reads are
// synchronous and never fail; Set queues a best-effort asynchronous write.
// Commit blocks until every queued write has reached durable storage and is
// the call to use before handing control to a consumer that re-reads state.
type Store interface {
	GetString(key, defaultValue string) string
	GetBool(key string, defaultValue bool) bool
	GetInt64(key string, defaultValue int64) int64

	SetString(key, value string)
	SetBool(key string, value bool)
	SetInt64(key string, value int64)

	// Delete removes a single key.
	Delete(key string)

	// Clear removes every key.
	Clear()

	// Commit flushes queued writes synchronously.
	Commit() error

	// Close stops the background writer after a final flush.
	Close() error
}
