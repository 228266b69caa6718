package browser

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fruitsalade/filebrowser/internal/metrics"
	"github.com/fruitsalade/filebrowser/pkg/models"
	"github.com/fruitsalade/filebrowser/pkg/protocol"
	"github.com/fruitsalade/filebrowser/pkg/tree"
)

// Action names a mutation request.
type Action string

const (
	ActionUpload       Action = "upload"
	ActionCreateFolder Action = "create_folder"
	ActionDelete       Action = "delete"
	ActionRename       Action = "rename"
	ActionMove         Action = "move"
)

// Request is the validated form of a user action, ready to send.
type Request struct {
	Action      Action
	Path        string // target directory, item path or move source
	NewName     string
	Destination string
	Files       []models.StagedFile

	stagedIDs []uint64
}

// BuildUpload packages files for an upload into directory current.
func BuildUpload(current string, files []models.StagedFile) (Request, error) {
	if len(files) == 0 {
		return Request{}, ErrNothingStaged
	}
	out := make([]models.StagedFile, len(files))
	copy(out, files)
	return Request{Action: ActionUpload, Path: current, Files: out}, nil
}

// BuildCreateFolder validates the folder name input and computes the new
// folder path inside current.
func BuildCreateFolder(current, input string) (Request, error) {
	name := strings.TrimSpace(input)
	if name == "" {
		return Request{}, ErrEmptyName
	}
	return Request{Action: ActionCreateFolder, Path: tree.Join(current, name)}, nil
}

// BuildDelete builds a delete of path.
func BuildDelete(path string) (Request, error) {
	if err := tree.Validate(path); err != nil {
		return Request{}, fmt.Errorf("delete %q: %w", path, err)
	}
	return Request{Action: ActionDelete, Path: path}, nil
}

// BuildRename builds a rename of path to newName.
func BuildRename(path, newName string) (Request, error) {
	if newName == "" {
		return Request{}, ErrEmptyName
	}
	if err := tree.Validate(path); err != nil {
		return Request{}, fmt.Errorf("rename %q: %w", path, err)
	}
	return Request{Action: ActionRename, Path: path, NewName: newName}, nil
}

// BuildMove builds a move of source to destination. Both must be
// well-formed relative paths.
func BuildMove(source, destination string) (Request, error) {
	if tree.Validate(source) != nil {
		return Request{}, fmt.Errorf("%w: source %q", ErrInvalidPayload, source)
	}
	if tree.Validate(destination) != nil {
		return Request{}, fmt.Errorf("%w: destination %q", ErrInvalidPayload, destination)
	}
	return Request{Action: ActionMove, Path: source, Destination: destination}, nil
}

// Task is the future of a dispatched request.
type Task struct {
	Request Request

	done   chan struct{}
	result *protocol.Result
	err    error
}

func newTask(req Request) *Task {
	return &Task{Request: req, done: make(chan struct{})}
}

func (t *Task) finish(result *protocol.Result, err error) {
	t.result = result
	t.err = err
	close(t.done)
}

// Done is closed once the request has settled and its follow-up refresh,
// if any, has completed.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task settles or ctx is done.
func (t *Task) Wait(ctx context.Context) (*protocol.Result, error) {
	select {
	case <-t.done:
		return t.result, t.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Dispatch sends req in the background and applies its follow-up:
//   - upload: on success the sent files leave the staged list and the
//     listing is refreshed; on failure nothing changes.
//   - create folder: the folder name input is cleared and the listing
//     refreshed whatever the outcome.
//   - delete, rename: the listing is refreshed whatever the outcome.
//   - move: no follow-up; the caller refreshes or navigates.
//
// Nothing is retried.
func (s *Session) Dispatch(ctx context.Context, req Request) *Task {
	t := newTask(req)
	go func() {
		result, err := s.send(ctx, req)
		s.settle(ctx, req, result, err)
		t.finish(result, err)
	}()
	return t
}

func (s *Session) send(ctx context.Context, req Request) (*protocol.Result, error) {
	switch req.Action {
	case ActionUpload:
		return s.api.Upload(ctx, req.Path, req.Files)
	case ActionCreateFolder:
		return s.api.CreateFolder(ctx, req.Path)
	case ActionDelete:
		return s.api.DeleteItem(ctx, req.Path)
	case ActionRename:
		return s.api.RenameItem(ctx, req.Path, req.NewName)
	case ActionMove:
		return s.api.MoveItem(ctx, req.Path, req.Destination)
	default:
		return nil, fmt.Errorf("unknown action %q", req.Action)
	}
}

func (s *Session) settle(ctx context.Context, req Request, result *protocol.Result, err error) {
	fields := []zap.Field{zap.String("action", string(req.Action)), zap.String("path", req.Path)}
	if req.Destination != "" {
		fields = append(fields, zap.String("destination", req.Destination))
	}
	if err != nil {
		s.log.Error("request failed", append(fields, zap.Error(err))...)
	} else {
		s.log.Info("request result", append(fields,
			zap.Int("status", result.StatusCode),
			zap.Bool("success", result.Success),
			zap.String("error", result.Error),
			zap.Strings("filenames", result.Filenames))...)
	}

	switch req.Action {
	case ActionUpload:
		var size int64
		for _, f := range req.Files {
			size += f.Size
		}
		metrics.RecordUpload(size, err == nil)
		if err != nil {
			return
		}
		s.removeStaged(req.stagedIDs)
		s.render()
		s.Refresh(ctx)

	case ActionCreateFolder:
		metrics.RecordMutation(string(req.Action), err == nil)
		s.mu.Lock()
		s.folderInput = ""
		s.mu.Unlock()
		s.render()
		s.Refresh(ctx)

	case ActionDelete, ActionRename:
		metrics.RecordMutation(string(req.Action), err == nil)
		s.Refresh(ctx)

	case ActionMove:
		metrics.RecordMutation(string(req.Action), err == nil)
	}
}
