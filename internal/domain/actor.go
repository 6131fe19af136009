package domain

// Actor is the authenticated identity attached to every core call.
// It is resolved fresh per request; the core holds no ambient session state.
type Actor struct {
	ID   string
	Role Role
}
