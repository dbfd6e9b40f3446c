package domain

import "errors"

// BoxColor is the global box theme, mutated only by admins.
type BoxColor string

const (
	ColorGreen      BoxColor = "green"
	ColorBlack      BoxColor = "black"
	ColorGreenBlack BoxColor = "green-black"
)

// Valid reports whether c is one of the known themes.
func (c BoxColor) Valid() bool {
	switch c {
	case ColorGreen, ColorBlack, ColorGreenBlack:
		return true
	}
	return false
}

// Box is a single selectable unit of game state. SelectedBy is nil until a
// submission claims the box; after that it holds the owning user's id.
type Box struct {
	ID         int  `json:"id"`
	SelectedBy *int `json:"selected_by"`
}

// Taken reports whether the box has already been claimed by anyone.
func (b Box) Taken() bool {
	return b.SelectedBy != nil
}

// TakenBy reports whether the box is claimed by the given user.
func (b Box) TakenBy(userID int) bool {
	return b.SelectedBy != nil && *b.SelectedBy == userID
}

// LoginText is the free-form login-screen copy stored server-side. The client
// passes it through without interpreting individual keys.
type LoginText map[string]string

var ErrBoxTaken = errors.New("box is already taken")
var ErrBoxNotFound = errors.New("box not found")
var ErrSelectionIncomplete = errors.New("selection does not match credit balance")
var ErrNothingToSubmit = errors.New("no credits available to spend")
var ErrSubmitInFlight = errors.New("a submission is already in progress")
var ErrInvalidColor = errors.New("invalid box color")
var ErrNegativeCredits = errors.New("credits cannot be negative")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrForbidden = errors.New("access forbidden")
var ErrNotAuthenticated = errors.New("not authenticated")
