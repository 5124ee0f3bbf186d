// ABOUTME: TUI initialization and transport control channels
// ABOUTME: Wraps the bubbletea program for the player UI
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Action is a transport request from the keyboard
type Action int

const (
	ActionToggle Action = iota
	ActionStop
	ActionRewind
	ActionSeekBy
	ActionVolumeBy
)

// Command is one transport request; Value carries seek seconds or a
// volume delta depending on the action
type Command struct {
	Action Action
	Value  float64
}

// TransportControl carries key-driven transport requests out of the TUI
type TransportControl struct {
	Commands chan Command
	Quit     chan struct{}
}

// NewTransportControl creates the control channel pair
func NewTransportControl() *TransportControl {
	return &TransportControl{
		Commands: make(chan Command, 10),
		Quit:     make(chan struct{}, 1),
	}
}

// send forwards a command without blocking the render loop
func (c *TransportControl) send(cmd Command) {
	if c == nil {
		return
	}
	select {
	case c.Commands <- cmd:
	default:
	}
}

// SignalQuit requests shutdown from outside the render loop, for
// callers that observe the program exiting on its own
func (c *TransportControl) SignalQuit() {
	c.quit()
}

// quit signals shutdown once
func (c *TransportControl) quit() {
	if c == nil {
		return
	}
	select {
	case c.Quit <- struct{}{}:
	default:
	}
}

// NewModel creates a new TUI model
func NewModel(ctrl *TransportControl) Model {
	return Model{
		volume: 1.0,
		ctrl:   ctrl,
	}
}

// Run builds the bubbletea program for the player UI
func Run(ctrl *TransportControl) (*tea.Program, error) {
	p := tea.NewProgram(NewModel(ctrl), tea.WithAltScreen())
	return p, nil
}
