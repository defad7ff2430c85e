package models

import (
	"errors"
	"strings"
)

// SessionState is the position of a session in the search/load cycle
type SessionState int

const (
	StateIdle SessionState = iota
	StateSearching
	StateResultsEmpty
	StateLoadingImage
	StateReady
)

func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSearching:
		return "searching"
	case StateResultsEmpty:
		return "results_empty"
	case StateLoadingImage:
		return "loading_image"
	case StateReady:
		return "ready"
	default:
		return "unknown"
	}
}

var (
	ErrEmptyQuery      = errors.New("empty query")
	ErrBusy            = errors.New("another request is in flight")
	ErrNoNavigation    = errors.New("navigation requires at least two results")
	ErrStaleCompletion = errors.New("completion does not match the pending request")
)

// Session is the complete client-side state of one user session. Transitions
// are value methods: they return the next session and leave the receiver
// untouched, so a rejected transition never leaves partial state behind.
type Session struct {
	State   SessionState
	Query   string
	Results []string
	Cursor  int
	// HasImage reports whether the image at Cursor is on screen
	HasImage bool
	// Generation identifies the one in-flight request whose completion
	// may be applied.
	Generation uint64
}

// Busy reports whether a search or fetch is in flight
func (s Session) Busy() bool {
	return s.State == StateSearching || s.State == StateLoadingImage
}

// InputEnabled reports whether the query field and Search button accept input
func (s Session) InputEnabled() bool {
	return !s.Busy()
}

// NavigationEnabled reports whether Previous/Next may be pressed
func (s Session) NavigationEnabled() bool {
	return !s.Busy() && len(s.Results) >= 2
}

// CurrentURL returns the image reference under the cursor
func (s Session) CurrentURL() (string, bool) {
	if len(s.Results) == 0 || s.Cursor < 0 || s.Cursor >= len(s.Results) {
		return "", false
	}
	return s.Results[s.Cursor], true
}

// NormalizeQuery trims surrounding whitespace and rejects empty queries
func NormalizeQuery(query string) (string, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return "", ErrEmptyQuery
	}
	return q, nil
}

// BeginSearch moves to Searching for a validated query
func (s Session) BeginSearch(query string) (Session, error) {
	q, err := NormalizeQuery(query)
	if err != nil {
		return s, err
	}
	if s.Busy() {
		return s, ErrBusy
	}

	next := s.clone()
	next.State = StateSearching
	next.Query = q
	next.Generation++
	return next, nil
}

// CompleteSearch stores the result set of the pending search. An empty set
// ends in ResultsEmpty; otherwise the cursor resets to 0 and the session
// waits for the first image.
func (s Session) CompleteSearch(generation uint64, urls []string) (Session, error) {
	if s.State != StateSearching || generation != s.Generation {
		return s, ErrStaleCompletion
	}

	next := s
	next.Results = append([]string(nil), urls...)
	next.Cursor = 0
	next.HasImage = false

	if len(next.Results) == 0 {
		next.State = StateResultsEmpty
		return next, nil
	}

	next.State = StateLoadingImage
	next.Generation++
	return next, nil
}

// FailSearch abandons the pending search. Earlier results, if any, stay
// usable; otherwise the session returns to Idle.
func (s Session) FailSearch(generation uint64) (Session, error) {
	if s.State != StateSearching || generation != s.Generation {
		return s, ErrStaleCompletion
	}

	next := s
	if len(s.Results) > 0 {
		next.State = StateReady
	} else {
		next.State = StateIdle
	}
	return next, nil
}

// Navigate moves the cursor by delta with wraparound and starts loading the
// image under it
func (s Session) Navigate(delta int) (Session, error) {
	if s.Busy() {
		return s, ErrBusy
	}
	if s.State != StateReady || len(s.Results) < 2 {
		return s, ErrNoNavigation
	}

	n := len(s.Results)
	next := s
	next.Cursor = ((s.Cursor+delta)%n + n) % n
	next.State = StateLoadingImage
	next.HasImage = false
	next.Generation++
	return next, nil
}

// Next advances the cursor by one
func (s Session) Next() (Session, error) {
	return s.Navigate(1)
}

// Previous moves the cursor back by one
func (s Session) Previous() (Session, error) {
	return s.Navigate(-1)
}

// CompleteLoad marks the image under the cursor as displayed
func (s Session) CompleteLoad(generation uint64) (Session, error) {
	if s.State != StateLoadingImage || generation != s.Generation {
		return s, ErrStaleCompletion
	}

	next := s
	next.State = StateReady
	next.HasImage = true
	return next, nil
}

// FailLoad gives up on the image under the cursor. The session stays on the
// result set so the user can move to another card.
func (s Session) FailLoad(generation uint64) (Session, error) {
	if s.State != StateLoadingImage || generation != s.Generation {
		return s, ErrStaleCompletion
	}

	next := s
	next.State = StateReady
	next.HasImage = false
	return next, nil
}

func (s Session) clone() Session {
	next := s
	next.Results = append([]string(nil), s.Results...)
	return next
}
