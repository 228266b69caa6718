package browser

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fruitsalade/filebrowser/pkg/protocol"
	"github.com/fruitsalade/filebrowser/pkg/tree"
)

// Upload sends every staged file to the current directory in one request.
// It is a no-op when nothing is staged and fails with ErrBusy while a
// previous upload is in flight. The busy indicator is shown and the trigger
// disabled for the duration of the request.
func (s *Session) Upload(ctx context.Context) error {
	s.mu.Lock()
	if len(s.staged) == 0 {
		s.mu.Unlock()
		return nil
	}
	if s.uploading {
		s.mu.Unlock()
		return ErrBusy
	}
	files := make([]stagedFile, len(s.staged))
	copy(files, s.staged)
	s.uploading = true
	s.mu.Unlock()
	s.render()

	req := Request{Action: ActionUpload, Path: s.current}
	for _, f := range files {
		req.Files = append(req.Files, f.file)
		req.stagedIDs = append(req.stagedIDs, f.id)
	}

	_, err := s.Dispatch(ctx, req).Wait(ctx)

	s.mu.Lock()
	s.uploading = false
	s.mu.Unlock()
	s.render()

	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	return nil
}

// CreateFolder creates a folder named by the folder input inside the current
// directory. A blank input raises an alert and sends nothing.
func (s *Session) CreateFolder(ctx context.Context) error {
	req, err := BuildCreateFolder(s.current, s.FolderInput())
	if err != nil {
		s.dialogs.Alert("Please enter a folder name.")
		return err
	}
	_, err = s.Dispatch(ctx, req).Wait(ctx)
	return err
}

func (s *Session) actionItem(i int) (Item, error) {
	it, err := s.item(i)
	if err != nil {
		return Item{}, err
	}
	if !it.HasActions() {
		return Item{}, ErrNoActions
	}
	return it, nil
}

// Delete asks for confirmation and deletes row i.
func (s *Session) Delete(ctx context.Context, i int) error {
	it, err := s.actionItem(i)
	if err != nil {
		return err
	}
	path := it.Entry.Path
	if !s.dialogs.Confirm(fmt.Sprintf("Are you sure you want to delete %s?", path)) {
		return nil
	}
	req, err := BuildDelete(path)
	if err != nil {
		s.log.Error("delete rejected", zap.String("path", path), zap.Error(err))
		return err
	}
	_, err = s.Dispatch(ctx, req).Wait(ctx)
	return err
}

// Rename prompts for a new name for row i. An empty or cancelled prompt
// does nothing.
func (s *Session) Rename(ctx context.Context, i int) error {
	it, err := s.actionItem(i)
	if err != nil {
		return err
	}
	path := it.Entry.Path
	name, ok := s.dialogs.Prompt("Enter new name for " + path)
	if !ok || name == "" {
		return nil
	}
	req, err := BuildRename(path, name)
	if err != nil {
		s.log.Error("rename rejected", zap.String("path", path), zap.Error(err))
		return err
	}
	_, err = s.Dispatch(ctx, req).Wait(ctx)
	return err
}

// Move prompts for a destination folder, relative to the current directory,
// and moves row i into it keeping its base name. The listing is refreshed
// afterwards.
func (s *Session) Move(ctx context.Context, i int) error {
	it, err := s.actionItem(i)
	if err != nil {
		return err
	}
	folder, ok := s.dialogs.Prompt("Enter destination folder for " + it.Entry.Name)
	if !ok {
		return nil
	}
	folder = strings.Trim(strings.TrimSpace(folder), "/")
	if folder == "" {
		return nil
	}
	dest := tree.MoveTo(s.current, folder, it.Entry.Path)
	if err := tree.Validate(dest); err != nil {
		s.log.Error("move rejected", zap.String("folder", folder), zap.String("destination", dest))
		return fmt.Errorf("move to %q: %w", folder, err)
	}
	_, err = s.MoveItem(ctx, it.Entry.Path, dest)
	s.Refresh(ctx)
	return err
}

// MoveItem relocates source to destination and returns the parsed result.
// It performs no refresh of its own.
func (s *Session) MoveItem(ctx context.Context, source, destination string) (*protocol.Result, error) {
	req, err := BuildMove(source, destination)
	if err != nil {
		s.log.Error("move rejected", zap.String("source", source),
			zap.String("destination", destination), zap.Error(err))
		return nil, err
	}
	return s.Dispatch(ctx, req).Wait(ctx)
}

// Drop handles a drag payload released on row i. A drop on a folder moves
// the payload into that folder and refreshes the listing. A drop on the
// parent row moves it into the parent directory and, once the move has
// succeeded, navigates there. An empty payload is ignored.
func (s *Session) Drop(ctx context.Context, i int, payload string) error {
	it, err := s.item(i)
	if err != nil {
		return err
	}
	s.DragLeave(i)
	if !it.Droppable() {
		return ErrNotDroppable
	}
	if payload == "" {
		return nil
	}
	s.log.Debug("dropped data", zap.String("payload", payload), zap.String("target", it.Label))
	if tree.Validate(payload) != nil {
		s.log.Error("drop rejected", zap.String("payload", payload))
		return fmt.Errorf("%w: %q", ErrInvalidPayload, payload)
	}

	switch it.Kind {
	case KindParent:
		dest := tree.DropOnParent(s.current, payload)
		if _, err := s.MoveItem(ctx, payload, dest); err != nil {
			s.Refresh(ctx)
			return err
		}
		s.nav.Navigate(it.Target)
		return nil

	case KindFolder:
		dest := tree.DropIntoFolder(s.current, it.Entry.Name, payload)
		_, err := s.MoveItem(ctx, payload, dest)
		s.Refresh(ctx)
		return err
	}
	return ErrNotDroppable
}
