package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mysterybox-game/boxctl/internal/core/domain"
	"github.com/mysterybox-game/boxctl/internal/core/ports"
)

// Phase is the selection flow's state-machine position, derived from the
// selection size and the in-flight flag.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSelecting  Phase = "selecting"
	PhaseReady      Phase = "ready"
	PhaseSubmitting Phase = "submitting"
)

// SelectionService drives the pick-and-submit flow: it mirrors the server's
// box list, keeps the ephemeral not-yet-submitted selection, and enforces
// that a submission matches the player's credit balance exactly.
type SelectionService struct {
	api     ports.BoxAPI
	session ports.SessionManager
	log     zerolog.Logger

	mu         sync.Mutex
	boxes      []domain.Box
	selected   []int // insertion order preserved
	msg        string
	successMsg string
	errMsg     string
	submitting bool
}

// NewSelectionService returns the controller. The selection is cleared
// whenever the session changes: a selection never survives a logout or a
// role switch.
func NewSelectionService(api ports.BoxAPI, session ports.SessionManager, log zerolog.Logger) *SelectionService {
	s := &SelectionService{api: api, session: session, log: log}
	session.Subscribe(func(domain.Session) {
		s.mu.Lock()
		s.selected = nil
		s.msg = ""
		s.mu.Unlock()
	})
	return s
}

// LoadBoxes fetches the box universe. On failure the previous list stays
// visible and the error message is stored for display.
func (s *SelectionService) LoadBoxes(ctx context.Context) error {
	boxes, err := s.api.GetBoxes(ctx, s.session.Token())
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.errMsg = err.Error()
		return err
	}
	s.boxes = boxes
	s.errMsg = ""
	return nil
}

// Toggle adds or removes a box from the selection.
//
// Removing always succeeds. Adding is rejected for a box that is already
// taken, and is a silent no-op once the selection has reached the credit
// balance (the UI disables further picks at that point). The remaining-picks
// message is recomputed on every change.
func (s *SelectionService) Toggle(boxID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.submitting {
		return domain.ErrSubmitInFlight
	}

	required := s.required()

	if i := s.indexOf(boxID); i >= 0 {
		s.selected = append(s.selected[:i], s.selected[i+1:]...)
		s.msg = remainingMessage(required - len(s.selected))
		return nil
	}

	box, ok := s.findBox(boxID)
	if !ok {
		return domain.ErrBoxNotFound
	}
	if box.Taken() {
		return domain.ErrBoxTaken
	}
	if len(s.selected) >= required {
		// Ready state: extra picks are ignored, not errors.
		return nil
	}

	s.selected = append(s.selected, boxID)
	s.msg = remainingMessage(required - len(s.selected))
	return nil
}

// Submit sends the selection to the server. Preconditions are checked
// locally and fail without any network traffic: the credit balance must be
// positive, the selection size must equal it, and no other submission may be
// in flight. On success the box list and user record are re-fetched and the
// selection cleared; on failure the selection is kept so the player can retry.
func (s *SelectionService) Submit(ctx context.Context) error {
	user := s.session.CurrentUser()
	token := s.session.Token()
	if user == nil || token == "" {
		s.setErr("You must be logged in to submit")
		return domain.ErrNotAuthenticated
	}

	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return domain.ErrSubmitInFlight
	}
	required := user.Credits
	if required == 0 {
		// Zero credits is a disabled state, not a submittable empty pick.
		s.mu.Unlock()
		return domain.ErrNothingToSubmit
	}
	if len(s.selected) != required {
		s.errMsg = fmt.Sprintf("Please select exactly %d boxes before submitting", required)
		s.mu.Unlock()
		return domain.ErrSelectionIncomplete
	}
	ids := make([]int, len(s.selected))
	copy(ids, s.selected)
	s.submitting = true
	s.mu.Unlock()

	err := s.api.SubmitBoxes(ctx, token, user.ID, ids)

	if err != nil {
		s.mu.Lock()
		s.submitting = false
		s.errMsg = err.Error()
		s.mu.Unlock()
		return err
	}

	// Server state changed: mirror it before reporting success.
	if lerr := s.LoadBoxes(ctx); lerr != nil {
		s.log.Warn().Err(lerr).Msg("box list refresh after submit failed")
	}
	s.session.RefreshUserData(ctx)

	remaining := 0
	if u := s.session.CurrentUser(); u != nil {
		remaining = u.Credits
	}

	s.mu.Lock()
	s.submitting = false
	s.selected = nil
	s.msg = ""
	s.errMsg = ""
	s.successMsg = fmt.Sprintf("Successfully submitted %d boxes! Your remaining credits: %d", required, remaining)
	s.mu.Unlock()

	s.log.Info().Int("user_id", user.ID).Ints("box_ids", ids).Msg("selection submitted")
	return nil
}

// Boxes returns the last fetched box list.
func (s *SelectionService) Boxes() []domain.Box {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Box, len(s.boxes))
	copy(out, s.boxes)
	return out
}

// Selected returns the current selection in pick order.
func (s *SelectionService) Selected() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, len(s.selected))
	copy(out, s.selected)
	return out
}

// Required returns the number of boxes the player must select, i.e. the
// cached credit balance.
func (s *SelectionService) Required() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.required()
}

// Message returns the current remaining-picks prompt.
func (s *SelectionService) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.msg
}

// SuccessMsg returns the last submission success message.
func (s *SelectionService) SuccessMsg() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.successMsg
}

// Err returns the last error message, empty when none.
func (s *SelectionService) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// Phase reports the state-machine position.
func (s *SelectionService) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.submitting:
		return PhaseSubmitting
	case len(s.selected) == 0:
		return PhaseIdle
	case len(s.selected) < s.required():
		return PhaseSelecting
	default:
		return PhaseReady
	}
}

// required must be called with s.mu held.
func (s *SelectionService) required() int {
	if u := s.session.CurrentUser(); u != nil {
		return u.Credits
	}
	return 0
}

func (s *SelectionService) indexOf(boxID int) int {
	for i, id := range s.selected {
		if id == boxID {
			return i
		}
	}
	return -1
}

func (s *SelectionService) findBox(boxID int) (domain.Box, bool) {
	for _, b := range s.boxes {
		if b.ID == boxID {
			return b, true
		}
	}
	return domain.Box{}, false
}

func (s *SelectionService) setErr(msg string) {
	s.mu.Lock()
	s.errMsg = msg
	s.mu.Unlock()
}

// remainingMessage renders the prompt for n picks left. Deterministic in n,
// so toggling a box on and off regenerates the exact prior message.
func remainingMessage(n int) string {
	switch {
	case n == 1:
		return "Please select 1 more box"
	case n > 1:
		return fmt.Sprintf("Please select %d more boxes", n)
	default:
		return "All boxes selected! You can now submit."
	}
}
