package tui

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fruitsalade/filebrowser/pkg/client"
	"github.com/fruitsalade/filebrowser/pkg/models"
	"github.com/fruitsalade/filebrowser/pkg/protocol"
)

type fakeServer struct {
	mu       sync.Mutex
	requests []string
}

func (f *fakeServer) log(s string) {
	f.mu.Lock()
	f.requests = append(f.requests, s)
	f.mu.Unlock()
}

func (f *fakeServer) has(s string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.requests {
		if r == s {
			return true
		}
	}
	return false
}

func newFakeServer(t *testing.T) (*fakeServer, *client.Client) {
	t.Helper()
	f := &fakeServer{}
	mux := http.NewServeMux()
	mux.HandleFunc(protocol.RouteFiles, func(w http.ResponseWriter, r *http.Request) {
		f.log("list " + r.URL.Query().Get("path"))
		entries := []models.Entry{
			{Name: "docs", Path: "docs", Type: models.TypeFolder},
			{Name: "a.txt", Path: "a.txt", Type: models.TypeFile},
		}
		if p := r.URL.Query().Get("path"); p != "" {
			for i := range entries {
				entries[i].Path = p + "/" + entries[i].Name
			}
		}
		json.NewEncoder(w).Encode(entries)
	})
	mutation := func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.log(r.URL.Path + " " + strings.TrimSpace(string(body)))
		w.Write([]byte(`{"success":true}`))
	}
	mux.HandleFunc(protocol.RouteCreateFolder, mutation)
	mux.HandleFunc(protocol.RouteDeleteItem, mutation)
	mux.HandleFunc(protocol.RouteMoveItem, mutation)
	mux.HandleFunc(protocol.RouteUploads, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("contents"))
	})

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return f, client.New(client.Config{BaseURL: ts.URL})
}

func newTestModel(t *testing.T, c Client, start string) *Model {
	t.Helper()
	m := New(context.Background(), Options{
		Client:       c,
		StartPath:    start,
		DownloadDir:  t.TempDir(),
		PreviewDelay: time.Hour,
	})
	m.refresh()()
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *Model, msg tea.KeyMsg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

func nextEvent(t *testing.T, m *Model) tea.Msg {
	t.Helper()
	select {
	case msg := <-m.bridge.events:
		return msg
	case <-time.After(time.Second):
		t.Fatal("no bridge event")
		return nil
	}
}

func TestRenderSignalCoalesces(t *testing.T) {
	r := make(renderSignal, 1)
	r.notify()
	r.notify()
	r.notify()
	if len(r) != 1 {
		t.Fatalf("expected one pending render, got %d", len(r))
	}
	if _, ok := r.listen()().(renderMsg); !ok {
		t.Error("expected renderMsg")
	}
}

func TestBridgePrompt(t *testing.T) {
	b := newBridge()
	done := make(chan struct{})
	var value string
	var ok bool
	go func() {
		value, ok = b.Prompt("Enter new name for a.txt")
		close(done)
	}()

	msg, isDialog := (<-b.events).(dialogMsg)
	if !isDialog || msg.kind != dialogPrompt || msg.text != "Enter new name for a.txt" {
		t.Fatalf("unexpected event %#v", msg)
	}
	msg.reply <- dialogReply{value: "b.txt", ok: true}
	<-done
	if value != "b.txt" || !ok {
		t.Errorf("expected b.txt, got %q %v", value, ok)
	}
}

func TestModel_CreateFolder(t *testing.T) {
	srv, c := newFakeServer(t)
	m := newTestModel(t, c, "sub")

	press(m, runes("n"))
	if m.purpose != inputFolder {
		t.Fatal("expected folder input to open")
	}
	for _, r := range "reports" {
		press(m, runes(string(r)))
	}
	cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected create folder command")
	}
	if done, ok := cmd().(actionDoneMsg); !ok || done.err != nil {
		t.Fatalf("unexpected result %#v", done)
	}
	if !srv.has(`/create_folder {"folder":"sub/reports"}`) {
		t.Errorf("expected create_folder request, got %v", srv.requests)
	}
	if m.Session().FolderInput() != "" {
		t.Error("folder input not cleared")
	}
}

func TestModel_DeleteConfirm(t *testing.T) {
	srv, c := newFakeServer(t)
	m := newTestModel(t, c, "")

	press(m, tea.KeyMsg{Type: tea.KeyDown})
	cmd := press(m, runes("d"))

	result := make(chan tea.Msg, 1)
	go func() { result <- cmd() }()

	m.Update(nextEvent(t, m))
	if m.dialog == nil || !strings.Contains(m.View(), "Are you sure you want to delete a.txt? (y/n)") {
		t.Fatalf("expected confirm dialog, view:\n%s", m.View())
	}
	press(m, runes("y"))

	select {
	case <-result:
	case <-time.After(time.Second):
		t.Fatal("delete did not complete")
	}
	if !srv.has(`/delete_item {"path":"a.txt"}`) {
		t.Errorf("expected delete request, got %v", srv.requests)
	}
}

func TestModel_ActivateFolderNavigates(t *testing.T) {
	srv, c := newFakeServer(t)
	m := newTestModel(t, c, "")
	first := m.Session()

	cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	cmd()
	_, refresh := m.Update(nextEvent(t, m))
	if refresh == nil {
		t.Fatal("expected refresh after navigation")
	}
	if m.Session() == first || m.Session().CurrentPath() != "docs" {
		t.Fatalf("expected new session for docs, got %q", m.Session().CurrentPath())
	}
	m.refresh()()
	if !srv.has("list docs") {
		t.Errorf("expected listing of docs, got %v", srv.requests)
	}
	if items := m.Session().Items(); len(items) != 3 {
		t.Errorf("expected parent row plus two entries, got %d", len(items))
	}
}

func TestModel_CutAndPasteOntoParent(t *testing.T) {
	srv, c := newFakeServer(t)
	m := newTestModel(t, c, "docs")

	// rows: parent, docs/docs, docs/a.txt
	press(m, tea.KeyMsg{Type: tea.KeyDown})
	press(m, tea.KeyMsg{Type: tea.KeyDown})
	press(m, runes("c"))
	if m.cut != "docs/a.txt" {
		t.Fatalf("expected cut payload docs/a.txt, got %q", m.cut)
	}
	press(m, tea.KeyMsg{Type: tea.KeyUp})
	press(m, tea.KeyMsg{Type: tea.KeyUp})
	if !m.Session().Items()[0].DropHover {
		t.Error("expected parent row highlighted")
	}

	cmd := press(m, runes("v"))
	if done := cmd().(actionDoneMsg); done.err != nil {
		t.Fatalf("unexpected error: %v", done.err)
	}
	if !srv.has(`/move_item {"source":"docs/a.txt","destination":"a.txt"}`) {
		t.Errorf("expected move request, got %v", srv.requests)
	}
	if nav, ok := nextEvent(t, m).(navigateMsg); !ok || nav.path != "" {
		t.Errorf("expected navigation to root, got %#v", nav)
	}
}

func TestModel_StageAndUnstage(t *testing.T) {
	_, c := newFakeServer(t)
	m := newTestModel(t, c, "")

	local := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(local, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	press(m, runes("a"))
	m.input.SetValue(local)
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if got := len(m.Session().Staged()); got != 1 {
		t.Fatalf("expected one staged file, got %d", got)
	}
	if m.input.Value() != "" {
		t.Error("path input not reset after staging")
	}
	if !strings.Contains(m.View(), "notes.txt (0.00 KB)") {
		t.Errorf("staged row missing from view:\n%s", m.View())
	}

	press(m, tea.KeyMsg{Type: tea.KeyTab})
	press(m, runes("x"))
	if got := len(m.Session().Staged()); got != 0 {
		t.Errorf("expected staged list empty, got %d", got)
	}
	if m.focus != paneListing {
		t.Error("focus should return to the listing")
	}
}

func TestModel_OpenDownloads(t *testing.T) {
	_, c := newFakeServer(t)
	m := newTestModel(t, c, "")

	cmd := press(m, tea.KeyMsg{Type: tea.KeyDown})
	if cmd != nil {
		t.Fatal("cursor move should not issue commands")
	}
	press(m, tea.KeyMsg{Type: tea.KeyEnter})()
	open, ok := nextEvent(t, m).(openMsg)
	if !ok || open.path != "a.txt" {
		t.Fatalf("expected open of a.txt, got %#v", open)
	}

	done := m.download(open.path)().(downloadedMsg)
	if done.err != nil {
		t.Fatalf("download failed: %v", done.err)
	}
	data, err := os.ReadFile(done.target)
	if err != nil || string(data) != "contents" {
		t.Errorf("unexpected download %q, %v", data, err)
	}
}
