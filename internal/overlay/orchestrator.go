package overlay

import (
	"sync"

	"recipehub/internal/model"
)

// Kind tags the exclusive overlay.
type Kind int

const (
	None Kind = iota
	Authentication
	Profile
	Create
	Edit
	View
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Authentication:
		return "authentication"
	case Profile:
		return "profile"
	case Create:
		return "create"
	case Edit:
		return "edit"
	case View:
		return "view"
	default:
		return "unknown"
	}
}

// State is the overlay value. Exactly one Kind holds at any instant; only
// Edit and View carry a recipe payload.
type State struct {
	Kind   Kind
	Recipe *model.Recipe
}

// Orchestrator enforces single-overlay-at-a-time exclusivity. Opening any
// overlay implicitly closes whichever was open; there is never a second
// visible surface to race against.
type Orchestrator struct {
	mu       sync.Mutex
	state    State
	listener func(State)
}

func New() *Orchestrator {
	return &Orchestrator{}
}

// OnChange registers the single state-change listener. The presentation layer
// hangs off this.
func (o *Orchestrator) OnChange(fn func(State)) {
	o.mu.Lock()
	o.listener = fn
	o.mu.Unlock()
}

// Current returns the visible overlay.
func (o *Orchestrator) Current() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// ShowAuthentication presents the login/registration overlay.
func (o *Orchestrator) ShowAuthentication() {
	o.set(State{Kind: Authentication})
}

// ShowProfile presents the profile overlay, also used as the onboarding step
// after a successful registration.
func (o *Orchestrator) ShowProfile() {
	o.set(State{Kind: Profile})
}

// ShowCreate presents the add-recipe overlay.
func (o *Orchestrator) ShowCreate() {
	o.set(State{Kind: Create})
}

// ShowEdit presents the edit overlay for the given recipe.
func (o *Orchestrator) ShowEdit(r *model.Recipe) {
	if r == nil {
		return
	}
	o.set(State{Kind: Edit, Recipe: r})
}

// ShowView presents the recipe detail overlay.
func (o *Orchestrator) ShowView(r *model.Recipe) {
	if r == nil {
		return
	}
	o.set(State{Kind: View, Recipe: r})
}

// Close dismisses the visible overlay.
func (o *Orchestrator) Close() {
	o.set(State{Kind: None})
}

// ForceCloseAll dismisses everything; bound to logout, since every mutating
// overlay assumes an authenticated identity.
func (o *Orchestrator) ForceCloseAll() {
	o.set(State{Kind: None})
}

func (o *Orchestrator) set(next State) {
	o.mu.Lock()
	o.state = next
	listener := o.listener
	o.mu.Unlock()

	if listener != nil {
		listener(next)
	}
}
