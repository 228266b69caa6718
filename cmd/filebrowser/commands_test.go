package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/fruitsalade/filebrowser/pkg/client"
	"github.com/fruitsalade/filebrowser/pkg/tree"
)

func TestDirArg(t *testing.T) {
	tests := map[string]string{
		"":       "",
		".":      "",
		"/":      "",
		"/docs/": "docs",
		"a/b":    "a/b",
	}
	for in, want := range tests {
		if got := dirArg(in); got != want {
			t.Errorf("dirArg(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCLIDialogs(t *testing.T) {
	var out bytes.Buffer
	d := &cliDialogs{in: bufio.NewReader(strings.NewReader("y\nnew name\n")), out: &out}

	if !d.Confirm("Are you sure you want to delete a.txt?") {
		t.Error("expected confirmation from input")
	}
	if v, ok := d.Prompt("Enter new name for a.txt"); !ok || v != "new name" {
		t.Errorf("unexpected prompt answer %q %v", v, ok)
	}
	if _, ok := d.Prompt("again"); ok {
		t.Error("expected cancel at end of input")
	}
	if !strings.Contains(out.String(), "Are you sure you want to delete a.txt? [y/N]") {
		t.Errorf("confirm text missing from output %q", out.String())
	}

	preset := "archive"
	d.answer = &preset
	if v, ok := d.Prompt("Enter destination folder for a.txt"); !ok || v != "archive" {
		t.Errorf("expected preset answer, got %q %v", v, ok)
	}

	d.batch = true
	if d.Confirm("Are you sure you want to delete b.txt?") {
		t.Error("non-interactive confirm without -y must refuse")
	}

	d.yes = true
	if !d.Confirm("anything") {
		t.Error("-y should confirm without reading input")
	}
}

func TestSaveFile(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/uploads/docs/a.txt" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("hello"))
	}))
	defer ts.Close()
	c := client.New(client.Config{BaseURL: ts.URL})

	out := filepath.Join(t.TempDir(), "a.txt")
	n, err := saveFile(context.Background(), c, "docs/a.txt", out, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if n != 5 || string(data) != "hello" {
		t.Errorf("saved %d bytes %q, want 5 bytes %q", n, data, "hello")
	}

	var stdout bytes.Buffer
	if _, err := saveFile(context.Background(), c, "docs/a.txt", "-", &stdout); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stdout.String() != "hello" {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestSaveFile_RejectsRoot(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer ts.Close()
	c := client.New(client.Config{BaseURL: ts.URL})

	dir := t.TempDir()
	for _, arg := range []string{"", "/", "."} {
		path := dirArg(arg)
		_, err := saveFile(context.Background(), c, path, filepath.Join(dir, "out"), nil)
		if !errors.Is(err, tree.ErrInvalidPath) {
			t.Errorf("get %q: expected ErrInvalidPath, got %v", arg, err)
		}
	}
	if hits.Load() != 0 {
		t.Errorf("expected no requests, got %d", hits.Load())
	}
	if _, err := os.Stat(filepath.Join(dir, "out")); !os.IsNotExist(err) {
		t.Error("output file created for an invalid path")
	}
}
