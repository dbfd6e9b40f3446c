package domain

// SessionState tags the one active session variant. Modelling the session as
// a tagged union makes the "user token and admin token both present" state
// unrepresentable.
type SessionState string

const (
	StateLoggedOut SessionState = "logged_out"
	StateUser      SessionState = "user"
	StateAdmin     SessionState = "admin"
)

// Session is the client's whole persisted identity: which role is active, the
// bearer token for that role, and the cached account record. Token expiry is
// not validated locally; an expired token simply starts failing server-side.
type Session struct {
	State SessionState `json:"state"`
	Token string       `json:"token,omitempty"`
	User  *User        `json:"user,omitempty"`
}

// LoggedOut returns the empty session.
func LoggedOut() Session {
	return Session{State: StateLoggedOut}
}

// UserSession returns a session for a regular player. user may be nil when
// the account record could not be fetched; callers treat that as zero credits.
func UserSession(token string, user *User) Session {
	return Session{State: StateUser, Token: token, User: user}
}

// AdminSession returns a session for an administrator.
func AdminSession(token string, admin *User) Session {
	return Session{State: StateAdmin, Token: token, User: admin}
}

// Authenticated reports whether a token is held for the active role.
func (s Session) Authenticated() bool {
	return s.State != StateLoggedOut && s.Token != ""
}

// IsAdmin reports whether the active role is Admin.
func (s Session) IsAdmin() bool {
	return s.State == StateAdmin
}

// Normalize strips fields that must not survive for the given state, so a
// logged-out session can never leak a stale token into storage.
func (s Session) Normalize() Session {
	if s.State != StateUser && s.State != StateAdmin {
		return Session{State: StateLoggedOut}
	}
	if s.Token == "" {
		return Session{State: StateLoggedOut}
	}
	return s
}
