// Package tree provides helpers for the slash-separated relative paths used
// by the file server. The upload root is the empty path.
package tree

import (
	"errors"
	"net/url"
	"path"
	"strings"

	"github.com/fruitsalade/filebrowser/pkg/protocol"
)

// ErrInvalidPath is returned by Validate for malformed paths.
var ErrInvalidPath = errors.New("invalid path")

// Join builds a child path from parent + name. At the root the child path is
// just name.
func Join(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}

// Parent drops the last segment of p. The parent of a top-level item, and
// of the root itself, is the root.
func Parent(p string) string {
	i := strings.LastIndex(p, "/")
	if i < 0 {
		return ""
	}
	return p[:i]
}

// Base returns the last segment of p.
func Base(p string) string {
	return p[strings.LastIndex(p, "/")+1:]
}

// Segments splits p into its components. The root has none.
func Segments(p string) []string {
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// DropIntoFolder computes where a dropped item lands when released on the
// folder named folder inside current.
func DropIntoFolder(current, folder, payload string) string {
	return Join(Join(current, folder), Base(payload))
}

// DropOnParent computes where a dropped item lands when released on the
// parent entry of current.
func DropOnParent(current, payload string) string {
	return Join(Parent(current), Base(payload))
}

// MoveTo computes the destination for a move into destFolder, which is
// interpreted relative to current. "." and ".." segments are resolved, so a
// destFolder that climbs above the root yields a path Validate rejects.
func MoveTo(current, destFolder, itemPath string) string {
	return path.Clean(Join(Join(current, destFolder), Base(itemPath)))
}

// Validate checks that p is a well-formed non-root relative path: not empty,
// not absolute, no empty, "." or ".." segments.
func Validate(p string) error {
	if p == "" {
		return ErrInvalidPath
	}
	if strings.HasPrefix(p, "/") || strings.Contains(p, "\\") {
		return ErrInvalidPath
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return ErrInvalidPath
		}
	}
	return nil
}

// BrowseURL returns the page route for directory p.
func BrowseURL(p string) string {
	return protocol.RouteBrowse + escape(p)
}

// DownloadURL returns the raw content route for file p.
func DownloadURL(p string) string {
	return protocol.RouteUploads + escape(p)
}

func escape(p string) string {
	segs := Segments(p)
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}
