// Package tui is the interactive terminal front end. It renders a
// browser.Session and maps keys onto the session's user actions: cursor
// dwell is hover, cut and paste stand in for drag and drop, and modal
// inputs serve the session's dialogs.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/fruitsalade/filebrowser/internal/browser"
	"github.com/fruitsalade/filebrowser/pkg/models"
	"github.com/fruitsalade/filebrowser/pkg/tree"
)

// Client is the server API the terminal front end needs.
type Client interface {
	browser.API
	Download(ctx context.Context, path string, w io.Writer) (int64, error)
}

// Options configures the terminal front end.
type Options struct {
	Client       Client
	StartPath    string
	DownloadDir  string
	PreviewDelay time.Duration
	Logger       *zap.Logger
}

type inputPurpose int

const (
	inputNone inputPurpose = iota
	inputStage
	inputFolder
	inputPrompt
)

type pane int

const (
	paneListing pane = iota
	paneStaged
)

type actionDoneMsg struct {
	action string
	err    error
}

type downloadedMsg struct {
	path   string
	target string
	size   int64
	err    error
}

// Model is the bubbletea model of the browser.
type Model struct {
	ctx     context.Context
	opts    Options
	log     *zap.Logger
	bridge  *bridge
	renders renderSignal
	session *browser.Session

	focus        pane
	cursor       int
	stagedCursor int
	cut          string

	purpose inputPurpose
	input   textinput.Model
	dialog  *dialogMsg
	status  string

	keys    KeyMap
	help    help.Model
	spinner spinner.Model
	width   int
}

// New creates the model and its first session.
func New(ctx context.Context, opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.DownloadDir == "" {
		opts.DownloadDir = "."
	}

	ti := textinput.New()
	ti.CharLimit = 1024
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF00"))

	m := &Model{
		ctx:     ctx,
		opts:    opts,
		log:     opts.Logger.Named("tui"),
		bridge:  newBridge(),
		renders: make(renderSignal, 1),
		input:   ti,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		spinner: sp,
		width:   80,
	}
	m.session = m.newSession(opts.StartPath)
	return m
}

// Session returns the session currently on screen.
func (m *Model) Session() *browser.Session {
	return m.session
}

func (m *Model) newSession(path string) *browser.Session {
	s := browser.NewSession(m.opts.Client, m.bridge, m.bridge, browser.Config{
		CurrentPath:  path,
		PreviewDelay: m.opts.PreviewDelay,
		Logger:       m.opts.Logger,
	})
	s.SetView(browser.ViewFunc(func(browser.Snapshot) { m.renders.notify() }))
	return s
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.refresh(), m.bridge.listen(), m.renders.listen(), m.spinner.Tick)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case renderMsg:
		m.clampCursors()
		return m, m.renders.listen()

	case alertMsg:
		m.status = string(msg)
		return m, m.bridge.listen()

	case dialogMsg:
		m.dialog = &msg
		if msg.kind == dialogPrompt {
			return m, tea.Batch(m.bridge.listen(), m.openInput(inputPrompt, ""))
		}
		return m, m.bridge.listen()

	case navigateMsg:
		return m, tea.Batch(m.bridge.listen(), m.navigate(msg.path))

	case openMsg:
		m.status = "Downloading " + msg.path + "..."
		return m, tea.Batch(m.bridge.listen(), m.download(msg.path))

	case downloadedMsg:
		if msg.err != nil {
			m.log.Error("download failed", zap.String("path", msg.path), zap.Error(msg.err))
			m.status = fmt.Sprintf("Download of %s failed.", msg.path)
		} else {
			m.status = fmt.Sprintf("Saved %s (%d bytes).", msg.target, msg.size)
		}
		return m, nil

	case actionDoneMsg:
		m.log.Debug("action settled", zap.String("action", msg.action), zap.Error(msg.err))
		switch {
		case errors.Is(msg.err, browser.ErrBusy):
			m.status = "Upload already in progress."
		case errors.Is(msg.err, browser.ErrInvalidPayload):
			m.status = "Cannot move that item."
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, m.quit()
		}
		if m.dialog != nil && m.dialog.kind == dialogConfirm {
			return m.updateConfirm(msg)
		}
		if m.purpose != inputNone {
			return m.updateInput(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m *Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		m.answer(dialogReply{ok: true})
	case "n", "N", "esc":
		m.answer(dialogReply{})
	}
	return m, nil
}

func (m *Model) answer(r dialogReply) {
	if m.dialog == nil {
		return
	}
	m.dialog.reply <- r
	m.dialog = nil
}

func (m *Model) openInput(p inputPurpose, value string) tea.Cmd {
	m.purpose = p
	m.input.SetValue(value)
	m.input.CursorEnd()
	switch p {
	case inputStage:
		m.input.Placeholder = "path to a local file"
	case inputFolder:
		m.input.Placeholder = "New folder name"
	default:
		m.input.Placeholder = ""
	}
	return m.input.Focus()
}

func (m *Model) closeInput() {
	m.purpose = inputNone
	m.input.Blur()
	m.input.SetValue("")
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		return m, m.submitInput()
	case tea.KeyEsc:
		if m.purpose == inputPrompt {
			m.answer(dialogReply{})
		}
		m.closeInput()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) submitInput() tea.Cmd {
	value := m.input.Value()
	purpose := m.purpose
	m.closeInput()

	switch purpose {
	case inputStage:
		path := strings.TrimSpace(value)
		if path == "" {
			return nil
		}
		f, err := models.StageLocal(path)
		if err != nil {
			m.log.Warn("cannot stage file", zap.String("path", path), zap.Error(err))
			m.status = "Cannot read " + path + "."
			return nil
		}
		m.session.Stage(f)
		return nil

	case inputFolder:
		s := m.session
		s.SetFolderInput(value)
		return m.run("create_folder", s.CreateFolder)

	case inputPrompt:
		m.answer(dialogReply{value: value, ok: true})
	}
	return nil
}

func (m *Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.session
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, m.quit()

	case msg.Type == tea.KeyTab:
		if m.focus == paneListing && len(s.Staged()) > 0 {
			m.focus = paneStaged
		} else {
			m.focus = paneListing
		}

	case msg.Type == tea.KeyEsc:
		m.cancelCut()
		m.status = ""

	case key.Matches(msg, m.keys.Up):
		m.move(-1)

	case key.Matches(msg, m.keys.Down):
		m.move(1)

	case key.Matches(msg, m.keys.Activate):
		i := m.cursor
		return m, m.run("activate", func(context.Context) error { return s.Activate(i) })

	case key.Matches(msg, m.keys.Stage):
		return m, m.openInput(inputStage, "")

	case key.Matches(msg, m.keys.Unstage):
		if err := s.Unstage(m.stagedCursor); err == nil {
			m.clampCursors()
		}

	case key.Matches(msg, m.keys.Upload):
		return m, m.run("upload", s.Upload)

	case key.Matches(msg, m.keys.NewDir):
		return m, m.openInput(inputFolder, s.FolderInput())

	case key.Matches(msg, m.keys.Delete):
		return m, m.runAt("delete", s.Delete)

	case key.Matches(msg, m.keys.Rename):
		return m, m.runAt("rename", s.Rename)

	case key.Matches(msg, m.keys.Move):
		return m, m.runAt("move", s.Move)

	case key.Matches(msg, m.keys.Cut):
		payload, ok := s.DragPayload(m.cursor)
		if !ok {
			m.status = "Only files can be moved by drag."
			return m, nil
		}
		m.cut = payload
		m.status = "Moving " + payload + ": select a folder and press v."

	case key.Matches(msg, m.keys.Paste):
		if m.cut == "" {
			return m, nil
		}
		payload, i := m.cut, m.cursor
		m.cut = ""
		m.status = ""
		return m, m.run("drop", func(ctx context.Context) error { return s.Drop(ctx, i, payload) })

	case key.Matches(msg, m.keys.Refresh):
		return m, m.refresh()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// move shifts the cursor of the focused pane. In the listing a cursor move
// is a pointer move: the old row is left and the new one entered.
func (m *Model) move(delta int) {
	s := m.session
	if m.focus == paneStaged {
		m.stagedCursor += delta
		m.clampCursors()
		return
	}
	n := len(s.Items())
	if n == 0 {
		return
	}
	next := min(max(m.cursor+delta, 0), n-1)
	if next == m.cursor {
		return
	}
	s.HoverLeave()
	if m.cut != "" {
		s.DragLeave(m.cursor)
		s.DragOver(next)
	}
	m.cursor = next
	s.HoverEnter(m.ctx, next)
}

func (m *Model) cancelCut() {
	if m.cut == "" {
		return
	}
	m.session.DragLeave(m.cursor)
	m.cut = ""
}

func (m *Model) clampCursors() {
	s := m.session
	if n := len(s.Items()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	n := len(s.Staged())
	if m.stagedCursor >= n {
		m.stagedCursor = max(n-1, 0)
	}
	if m.stagedCursor < 0 {
		m.stagedCursor = 0
	}
	if n == 0 {
		m.focus = paneListing
	}
}

func (m *Model) quit() tea.Cmd {
	m.session.HoverLeave()
	m.answer(dialogReply{})
	return tea.Quit
}

// navigate replaces the session, like a page load of the new directory.
func (m *Model) navigate(path string) tea.Cmd {
	m.session.HoverLeave()
	m.session = m.newSession(path)
	m.focus = paneListing
	m.cursor = 0
	m.stagedCursor = 0
	m.cut = ""
	m.status = ""
	return m.refresh()
}

func (m *Model) refresh() tea.Cmd {
	s, ctx := m.session, m.ctx
	return func() tea.Msg {
		s.Refresh(ctx)
		return nil
	}
}

func (m *Model) run(action string, fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return actionDoneMsg{action: action, err: fn(ctx)}
	}
}

func (m *Model) runAt(action string, fn func(context.Context, int) error) tea.Cmd {
	i := m.cursor
	return m.run(action, func(ctx context.Context) error { return fn(ctx, i) })
}

func (m *Model) download(path string) tea.Cmd {
	ctx, c, dir := m.ctx, m.opts.Client, m.opts.DownloadDir
	return func() tea.Msg {
		target := filepath.Join(dir, tree.Base(path))
		f, err := os.Create(target)
		if err != nil {
			return downloadedMsg{path: path, target: target, err: err}
		}
		n, err := c.Download(ctx, path, f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		return downloadedMsg{path: path, target: target, size: n, err: err}
	}
}

// Run starts the terminal front end and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(New(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
