package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// bridge implements browser.Dialogs and browser.Navigator on top of the
// program's event loop. Session actions run inside commands, so blocking
// dialogs park the command goroutine until the user answers.
type bridge struct {
	events chan tea.Msg
}

func newBridge() *bridge {
	return &bridge{events: make(chan tea.Msg, 16)}
}

type dialogKind int

const (
	dialogConfirm dialogKind = iota
	dialogPrompt
)

type dialogReply struct {
	value string
	ok    bool
}

type dialogMsg struct {
	kind  dialogKind
	text  string
	reply chan dialogReply
}

type alertMsg string

type navigateMsg struct{ path string }

type openMsg struct{ path string }

func (b *bridge) Alert(msg string) {
	b.events <- alertMsg(msg)
}

func (b *bridge) Confirm(msg string) bool {
	reply := make(chan dialogReply, 1)
	b.events <- dialogMsg{kind: dialogConfirm, text: msg, reply: reply}
	return (<-reply).ok
}

func (b *bridge) Prompt(msg string) (string, bool) {
	reply := make(chan dialogReply, 1)
	b.events <- dialogMsg{kind: dialogPrompt, text: msg, reply: reply}
	r := <-reply
	return r.value, r.ok
}

func (b *bridge) Navigate(path string) {
	b.events <- navigateMsg{path: path}
}

func (b *bridge) Open(path string) {
	b.events <- openMsg{path: path}
}

// listen delivers the next bridge event to the program.
func (b *bridge) listen() tea.Cmd {
	return func() tea.Msg {
		return <-b.events
	}
}

// renderMsg asks the program to redraw after a session state change.
type renderMsg struct{}

// renderSignal coalesces session render notifications. Render never blocks,
// so it is safe to call from the event loop.
type renderSignal chan struct{}

func (r renderSignal) notify() {
	select {
	case r <- struct{}{}:
	default:
	}
}

func (r renderSignal) listen() tea.Cmd {
	return func() tea.Msg {
		<-r
		return renderMsg{}
	}
}
