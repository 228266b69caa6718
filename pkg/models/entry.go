// Package models contains the data types shared by the client packages.
package models

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// EntryType distinguishes folders from files in a listing.
type EntryType string

const (
	TypeFolder EntryType = "folder"
	TypeFile   EntryType = "file"
)

// Entry is one item reported by the listing endpoint. Path is slash-separated
// and relative to the upload root.
type Entry struct {
	Name string    `json:"name"`
	Path string    `json:"path"`
	Type EntryType `json:"type"`
}

// IsFolder reports whether the entry is a folder.
func (e Entry) IsFolder() bool {
	return e.Type == TypeFolder
}

// StagedFile is a file selected for upload but not yet sent.
type StagedFile struct {
	Name string
	Size int64

	// Open returns a fresh reader over the file content. It is called once
	// per upload attempt.
	Open func() (io.ReadCloser, error)
}

// StageLocal builds a StagedFile backed by a file on the local disk.
func StageLocal(path string) (StagedFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return StagedFile{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return StagedFile{}, fmt.Errorf("%s is a directory", path)
	}
	return StagedFile{
		Name: filepath.Base(path),
		Size: info.Size(),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

// StageBytes builds a StagedFile over an in-memory buffer.
func StageBytes(name string, data []byte) StagedFile {
	return StagedFile{
		Name: name,
		Size: int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// DisplaySize formats the staged row as "name (12.34 KB)".
func (f StagedFile) DisplaySize() string {
	return fmt.Sprintf("%s (%.2f KB)", f.Name, float64(f.Size)/1024)
}
