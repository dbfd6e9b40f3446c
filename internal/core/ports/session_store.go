package ports

import "github.com/mysterybox-game/boxctl/internal/core/domain"

// SessionStore persists the session between process runs. Implementations
// must guarantee at most one stored session: saving a user session replaces
// any admin session and vice versa.
type SessionStore interface {
	// Load returns the persisted session, or the logged-out session when
	// nothing is stored.
	Load() (domain.Session, error)
	Save(s domain.Session) error
	// Clear removes any stored session. Idempotent.
	Clear() error
}
