package browser

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fruitsalade/filebrowser/internal/metrics"
	"github.com/fruitsalade/filebrowser/pkg/client"
)

// PreviewState is the state of the hover preview.
type PreviewState int

const (
	PreviewIdle PreviewState = iota
	PreviewPending
	PreviewShown
)

func (p PreviewState) String() string {
	switch p {
	case PreviewPending:
		return "pending"
	case PreviewShown:
		return "shown"
	default:
		return "idle"
	}
}

// PreviewMode is how a file's preview is resolved, chosen by suffix.
type PreviewMode string

const (
	ModeText        PreviewMode = "text"
	ModeImage       PreviewMode = "image"
	ModeUnsupported PreviewMode = "unsupported"
)

// Preview panel messages.
const (
	MsgLoading      = "Loading preview..."
	MsgTextError    = "Error loading preview."
	MsgImageError   = "Error loading image preview."
	MsgNotAvailable = "Preview not available for this file type."
)

// ModeFor picks the preview mode for a file name.
func ModeFor(name string) PreviewMode {
	switch strings.ToLower(path.Ext(name)) {
	case ".txt":
		return ModeText
	case ".png", ".jpg", ".jpeg":
		return ModeImage
	default:
		return ModeUnsupported
	}
}

// PreviewSnapshot is the rendered state of the preview panel.
type PreviewSnapshot struct {
	State   PreviewState
	Target  string // file the current hover refers to
	Visible bool
	Mode    PreviewMode

	// Content and Image describe what the panel holds. ContentFor names the
	// file they were resolved for, which can differ from Target when a
	// fetch settles after the pointer moved on.
	Content    string
	Image      *client.Image
	ContentFor string
}

type previewState struct {
	state   PreviewState
	target  string
	visible bool
	mode    PreviewMode
	timer   *time.Timer
	gen     uint64

	content    string
	image      *client.Image
	contentFor string
}

func (p *previewState) snapshot() PreviewSnapshot {
	return PreviewSnapshot{
		State:      p.state,
		Target:     p.target,
		Visible:    p.visible,
		Mode:       p.mode,
		Content:    p.content,
		Image:      p.image,
		ContentFor: p.contentFor,
	}
}

// HoverEnter starts the preview delay for file row i. A pending delay for
// any other row is discarded; a new hover always restarts the wait. Rows
// that are not files are ignored.
func (s *Session) HoverEnter(ctx context.Context, i int) {
	it, err := s.item(i)
	if err != nil || it.Kind != KindFile {
		return
	}
	target := it.Entry.Path

	s.mu.Lock()
	if s.preview.timer != nil {
		s.preview.timer.Stop()
	}
	s.preview.gen++
	gen := s.preview.gen
	s.preview.state = PreviewPending
	s.preview.target = target
	s.preview.mode = ModeFor(target)
	s.preview.timer = time.AfterFunc(s.previewDelay, func() {
		s.resolvePreview(ctx, gen, target)
	})
	s.mu.Unlock()
	s.render()
}

// HoverLeave cancels a pending preview and hides the panel. A fetch already
// in flight is not cancelled and may still fill the hidden panel.
func (s *Session) HoverLeave() {
	s.mu.Lock()
	if s.preview.timer != nil {
		s.preview.timer.Stop()
		s.preview.timer = nil
	}
	s.preview.gen++
	changed := s.preview.state != PreviewIdle || s.preview.visible
	s.preview.state = PreviewIdle
	s.preview.visible = false
	s.mu.Unlock()
	if changed {
		s.render()
	}
}

// Preview returns the preview panel state.
func (s *Session) Preview() PreviewSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.preview.snapshot()
}

func (s *Session) resolvePreview(ctx context.Context, gen uint64, target string) {
	s.mu.Lock()
	if gen != s.preview.gen {
		s.mu.Unlock()
		return
	}
	mode := ModeFor(target)
	s.preview.timer = nil
	s.preview.state = PreviewShown
	s.preview.visible = true
	s.preview.image = nil
	s.preview.contentFor = target
	if mode == ModeUnsupported {
		s.preview.content = MsgNotAvailable
	} else {
		s.preview.content = MsgLoading
	}
	s.mu.Unlock()
	s.render()

	switch mode {
	case ModeText:
		text, err := s.api.FetchText(ctx, target)
		metrics.RecordPreview(string(mode), err == nil)
		if err != nil {
			s.log.Error("error fetching file", zap.String("path", target), zap.Error(err))
			text = MsgTextError
		}
		s.setPreviewContent(target, text, nil)

	case ModeImage:
		img, err := s.api.FetchImage(ctx, target)
		metrics.RecordPreview(string(mode), err == nil)
		if err != nil {
			s.log.Error("error loading image", zap.String("path", target), zap.Error(err))
			s.setPreviewContent(target, MsgImageError, nil)
			return
		}
		s.setPreviewContent(target, describeImage(target, img), img)

	default:
		metrics.RecordPreview(string(mode), true)
	}
}

// setPreviewContent fills the panel whatever its visibility, as a settled
// fetch is never discarded.
func (s *Session) setPreviewContent(target, content string, img *client.Image) {
	s.mu.Lock()
	s.preview.content = content
	s.preview.image = img
	s.preview.contentFor = target
	s.mu.Unlock()
	s.render()
}

func describeImage(name string, img *client.Image) string {
	desc := fmt.Sprintf("%s: %s image, %dx%d, %d bytes",
		path.Base(name), img.Format, img.Width, img.Height, img.Size)
	if img.Camera != "" {
		desc += ", " + img.Camera
	}
	if img.Taken != nil {
		desc += ", taken " + img.Taken.Format("2006-01-02 15:04")
	}
	return desc
}
