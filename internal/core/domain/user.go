package domain

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User models a player (or admin) account. The server owns the record; the
// client only holds a cached copy, refreshed after login and after any
// mutation that can touch credits.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Credits  int    `json:"credits"`
}
