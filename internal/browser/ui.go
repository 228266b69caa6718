// Package browser implements the file browser client: upload staging, the
// directory listing, mutation actions and the hover preview. A Session holds
// the state of one browsed directory, the equivalent of one page load.
package browser

import (
	"context"

	"github.com/fruitsalade/filebrowser/pkg/client"
	"github.com/fruitsalade/filebrowser/pkg/models"
	"github.com/fruitsalade/filebrowser/pkg/protocol"
)

// API is the file server contract. *client.Client satisfies it.
type API interface {
	ListFiles(ctx context.Context, path string) ([]models.Entry, error)
	Upload(ctx context.Context, path string, files []models.StagedFile) (*protocol.Result, error)
	CreateFolder(ctx context.Context, folder string) (*protocol.Result, error)
	DeleteItem(ctx context.Context, path string) (*protocol.Result, error)
	RenameItem(ctx context.Context, oldPath, newName string) (*protocol.Result, error)
	MoveItem(ctx context.Context, source, destination string) (*protocol.Result, error)
	FetchText(ctx context.Context, path string) (string, error)
	FetchImage(ctx context.Context, path string) (*client.Image, error)
}

// Dialogs are the blocking modal interactions of the front end.
type Dialogs interface {
	// Alert shows a message and returns once it is dismissed.
	Alert(msg string)
	// Confirm asks a yes/no question.
	Confirm(msg string) bool
	// Prompt asks for a line of text. ok is false when cancelled.
	Prompt(msg string) (value string, ok bool)
}

// Navigator performs full navigations away from the session.
type Navigator interface {
	// Navigate loads the browser for directory path. The current session
	// is discarded by the front end.
	Navigate(path string)
	// Open opens the raw content of file path.
	Open(path string)
}

// View is notified with a fresh snapshot after every state change.
type View interface {
	Render(Snapshot)
}

// ViewFunc adapts a function to View.
type ViewFunc func(Snapshot)

func (f ViewFunc) Render(s Snapshot) { f(s) }
