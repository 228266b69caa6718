package models

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestDisplaySize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{0, "a.txt (0.00 KB)"},
		{1024, "a.txt (1.00 KB)"},
		{1536, "a.txt (1.50 KB)"},
		{100, "a.txt (0.10 KB)"},
	}
	for _, tt := range tests {
		f := StagedFile{Name: "a.txt", Size: tt.size}
		if got := f.DisplaySize(); got != tt.want {
			t.Errorf("size %d: expected %q, got %q", tt.size, tt.want, got)
		}
	}
}

func TestStageLocal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}

	f, err := StageLocal(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Name != "notes.txt" || f.Size != 5 {
		t.Errorf("unexpected staged file: %+v", f)
	}

	rc, err := f.Open()
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "hello" {
		t.Errorf("expected content hello, got %q", data)
	}
}

func TestStageLocal_Directory(t *testing.T) {
	if _, err := StageLocal(t.TempDir()); err == nil {
		t.Fatal("expected error staging a directory")
	}
}

func TestStageBytes_Reopen(t *testing.T) {
	f := StageBytes("b.bin", []byte{1, 2, 3})
	for i := 0; i < 2; i++ {
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		data, _ := io.ReadAll(rc)
		rc.Close()
		if len(data) != 3 {
			t.Fatalf("read %d: expected 3 bytes, got %d", i, len(data))
		}
	}
}
