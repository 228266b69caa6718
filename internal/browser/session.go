package browser

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fruitsalade/filebrowser/internal/metrics"
	"github.com/fruitsalade/filebrowser/pkg/models"
	"github.com/fruitsalade/filebrowser/pkg/tree"
)

// DefaultPreviewDelay is how long the pointer must rest on a file before
// its preview is resolved.
const DefaultPreviewDelay = time.Second

var (
	ErrEmptyName      = errors.New("name is empty")
	ErrInvalidPayload = errors.New("invalid drag payload")
	ErrNotDroppable   = errors.New("item is not a drop target")
	ErrNoActions      = errors.New("item has no actions")
	ErrBusy           = errors.New("upload already in progress")
	ErrOutOfRange     = errors.New("index out of range")
	ErrNothingStaged  = errors.New("no files staged")
)

// ItemKind distinguishes the rows of the rendered listing.
type ItemKind int

const (
	KindParent ItemKind = iota
	KindFolder
	KindFile
)

// Item is one rendered row of the listing.
type Item struct {
	Kind  ItemKind
	Label string
	Entry models.Entry

	// Target is the directory a parent or folder row navigates to.
	Target string

	// DropHover is set while a drag hovers the row.
	DropHover bool
}

// Draggable reports whether the row can start a drag.
func (it Item) Draggable() bool { return it.Kind == KindFile }

// Droppable reports whether the row accepts drops.
func (it Item) Droppable() bool { return it.Kind != KindFile }

// HasActions reports whether delete/rename/move apply to the row.
func (it Item) HasActions() bool { return it.Kind != KindParent }

// Snapshot is an immutable copy of the session state for rendering.
type Snapshot struct {
	CurrentPath    string
	Items          []Item
	Staged         []string
	UploadVisible  bool
	Busy           bool
	UploadDisabled bool
	FolderInput    string
	Preview        PreviewSnapshot
}

type stagedFile struct {
	id   uint64
	file models.StagedFile
}

// Config holds session configuration.
type Config struct {
	CurrentPath  string
	PreviewDelay time.Duration
	Logger       *zap.Logger
}

// Session is the state of one browsed directory. The current path is fixed
// for the lifetime of the session; navigation creates a new one.
type Session struct {
	api     API
	dialogs Dialogs
	nav     Navigator
	log     *zap.Logger

	current      string
	previewDelay time.Duration

	mu          sync.Mutex
	view        View
	staged      []stagedFile
	nextID      uint64
	items       []Item
	uploading   bool
	folderInput string
	preview     previewState
}

// NewSession creates a session for cfg.CurrentPath. The listing is empty
// until Refresh is called.
func NewSession(api API, dialogs Dialogs, nav Navigator, cfg Config) *Session {
	if cfg.PreviewDelay <= 0 {
		cfg.PreviewDelay = DefaultPreviewDelay
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Session{
		api:          api,
		dialogs:      dialogs,
		nav:          nav,
		log:          cfg.Logger.With(zap.String("current_path", cfg.CurrentPath)),
		current:      cfg.CurrentPath,
		previewDelay: cfg.PreviewDelay,
	}
}

// SetView installs the render observer.
func (s *Session) SetView(v View) {
	s.mu.Lock()
	s.view = v
	s.mu.Unlock()
	s.render()
}

// CurrentPath returns the browsed directory.
func (s *Session) CurrentPath() string {
	return s.current
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	items := make([]Item, len(s.items))
	copy(items, s.items)
	staged := make([]string, len(s.staged))
	for i, f := range s.staged {
		staged[i] = f.file.DisplaySize()
	}
	return Snapshot{
		CurrentPath:    s.current,
		Items:          items,
		Staged:         staged,
		UploadVisible:  len(s.staged) > 0,
		Busy:           s.uploading,
		UploadDisabled: s.uploading,
		FolderInput:    s.folderInput,
		Preview:        s.preview.snapshot(),
	}
}

func (s *Session) render() {
	s.mu.Lock()
	v := s.view
	var snap Snapshot
	if v != nil {
		snap = s.snapshotLocked()
	}
	s.mu.Unlock()
	if v != nil {
		v.Render(snap)
	}
}

// ─── Staging ────────────────────────────────────────────────────────────────

// Stage appends files to the staged list in arrival order. Duplicates are
// kept as distinct entries.
func (s *Session) Stage(files ...models.StagedFile) {
	if len(files) == 0 {
		return
	}
	s.mu.Lock()
	for _, f := range files {
		s.nextID++
		s.staged = append(s.staged, stagedFile{id: s.nextID, file: f})
	}
	n := len(s.staged)
	s.mu.Unlock()

	metrics.SetStagedFiles(n)
	s.render()
}

// Unstage removes the staged file at index i.
func (s *Session) Unstage(i int) error {
	s.mu.Lock()
	if i < 0 || i >= len(s.staged) {
		s.mu.Unlock()
		return ErrOutOfRange
	}
	s.staged = append(s.staged[:i], s.staged[i+1:]...)
	n := len(s.staged)
	s.mu.Unlock()

	metrics.SetStagedFiles(n)
	s.render()
	return nil
}

// Staged returns the staged files in order.
func (s *Session) Staged() []models.StagedFile {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.StagedFile, len(s.staged))
	for i, f := range s.staged {
		out[i] = f.file
	}
	return out
}

// UploadVisible reports whether the upload trigger is shown.
func (s *Session) UploadVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.staged) > 0
}

// removeStaged drops the entries with the given ids, keeping anything staged
// while the upload was in flight.
func (s *Session) removeStaged(ids []uint64) {
	sent := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		sent[id] = struct{}{}
	}
	s.mu.Lock()
	kept := s.staged[:0]
	for _, f := range s.staged {
		if _, ok := sent[f.id]; !ok {
			kept = append(kept, f)
		}
	}
	s.staged = kept
	n := len(s.staged)
	s.mu.Unlock()
	metrics.SetStagedFiles(n)
}

// ─── Folder name input ──────────────────────────────────────────────────────

// SetFolderInput sets the contents of the new-folder text control.
func (s *Session) SetFolderInput(v string) {
	s.mu.Lock()
	s.folderInput = v
	s.mu.Unlock()
	s.render()
}

// FolderInput returns the contents of the new-folder text control.
func (s *Session) FolderInput() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.folderInput
}

// ─── Listing ────────────────────────────────────────────────────────────────

// Refresh fetches the listing of the current path and replaces the rendered
// items. On failure the previous items are kept and the error is logged.
func (s *Session) Refresh(ctx context.Context) error {
	entries, err := s.api.ListFiles(ctx, s.current)
	metrics.RecordListingRefresh(err == nil)
	if err != nil {
		s.log.Error("error fetching file list", zap.Error(err))
		return err
	}

	items := buildItems(s.current, entries)
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	s.render()
	return nil
}

func buildItems(current string, entries []models.Entry) []Item {
	items := make([]Item, 0, len(entries)+1)
	if current != "" {
		items = append(items, Item{
			Kind:   KindParent,
			Label:  ".. [Parent]",
			Target: tree.Parent(current),
		})
	}
	for _, e := range entries {
		if e.IsFolder() {
			items = append(items, Item{
				Kind:   KindFolder,
				Label:  e.Name + " [Folder]",
				Entry:  e,
				Target: tree.Join(current, e.Name),
			})
			continue
		}
		items = append(items, Item{
			Kind:  KindFile,
			Label: e.Name,
			Entry: e,
		})
	}
	return items
}

// Items returns the rendered listing.
func (s *Session) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]Item, len(s.items))
	copy(items, s.items)
	return items
}

func (s *Session) item(i int) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.items) {
		return Item{}, ErrOutOfRange
	}
	return s.items[i], nil
}

// Activate performs the click action of row i: parent and folder rows
// navigate, file rows open the file.
func (s *Session) Activate(i int) error {
	it, err := s.item(i)
	if err != nil {
		return err
	}
	switch it.Kind {
	case KindParent, KindFolder:
		s.nav.Navigate(it.Target)
	case KindFile:
		s.nav.Open(it.Entry.Path)
	}
	return nil
}

// DragPayload returns the plain-text payload a drag from row i carries.
func (s *Session) DragPayload(i int) (string, bool) {
	it, err := s.item(i)
	if err != nil || !it.Draggable() {
		return "", false
	}
	return it.Entry.Path, true
}

// DragOver highlights droppable row i.
func (s *Session) DragOver(i int) {
	s.setDropHover(i, true)
}

// DragLeave clears the highlight of row i.
func (s *Session) DragLeave(i int) {
	s.setDropHover(i, false)
}

func (s *Session) setDropHover(i int, on bool) {
	s.mu.Lock()
	if i < 0 || i >= len(s.items) || !s.items[i].Droppable() || s.items[i].DropHover == on {
		s.mu.Unlock()
		return
	}
	s.items[i].DropHover = on
	s.mu.Unlock()
	s.render()
}
