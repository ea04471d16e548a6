package table

// Interactable is a non-card object a player can trigger: the draw pile,
// a call-round button, the game-start trigger. It carries a prompt text
// and a single handler; installing a handler replaces the previous one.
type Interactable struct {
	name    string
	text    string
	enabled bool
	handler func()
}

// NewInteractable creates a disabled interactable with the given name.
func NewInteractable(name string) *Interactable {
	return &Interactable{name: name}
}

// Name returns the wiring name of this interactable.
func (i *Interactable) Name() string { return i.name }

// SetText sets the prompt text shown to the player.
func (i *Interactable) SetText(text string) { i.text = text }

// GetText returns the prompt text.
func (i *Interactable) GetText() string { return i.text }

// SetInteractable toggles whether the object responds to interaction.
func (i *Interactable) SetInteractable(enabled bool) { i.enabled = enabled }

// CanInteract reports whether the object responds to interaction.
func (i *Interactable) CanInteract() bool { return i.enabled }

// SetHandler installs the interaction handler, replacing any previous one.
func (i *Interactable) SetHandler(fn func()) { i.handler = fn }

// ClearHandler removes the interaction handler.
func (i *Interactable) ClearHandler() { i.handler = nil }

// interact fires the handler if the object is enabled. Callers must hold
// the engine lock; external drivers go through Engine.Tap.
func (i *Interactable) interact() {
	if !i.enabled || i.handler == nil {
		return
	}
	i.handler()
}
