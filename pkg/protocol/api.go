// Package protocol defines the routes and request/response types of the
// file server API.
package protocol

import "encoding/json"

// Routes consumed by the client.
const (
	RouteFiles        = "/files"         // GET ?path=
	RouteUpload       = "/upload"        // POST ?path=, multipart
	RouteCreateFolder = "/create_folder" // POST CreateFolderRequest
	RouteDeleteItem   = "/delete_item"   // POST DeleteRequest
	RouteRenameItem   = "/rename_item"   // POST RenameRequest
	RouteMoveItem     = "/move_item"     // POST MoveRequest
	RouteUploads      = "/uploads/"      // GET raw content
	RouteBrowse       = "/browse/"       // full-page route
)

// UploadField is the multipart part name; it is repeated once per file.
const UploadField = "file"

// CreateFolderRequest is the body for POST /create_folder.
type CreateFolderRequest struct {
	Folder string `json:"folder"`
}

// DeleteRequest is the body for POST /delete_item.
type DeleteRequest struct {
	Path string `json:"path"`
}

// RenameRequest is the body for POST /rename_item. OldName is a full
// relative path, NewName a bare name.
type RenameRequest struct {
	OldName string `json:"old_name"`
	NewName string `json:"new_name"`
}

// MoveRequest is the body for POST /move_item.
type MoveRequest struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
}

// Result is the decoded body of a mutation response. Servers are free to
// return any JSON; known fields are extracted and the rest kept in Raw.
type Result struct {
	Success   bool     `json:"success,omitempty"`
	Error     string   `json:"error,omitempty"`
	Filenames []string `json:"filenames,omitempty"`

	// StatusCode is the HTTP status the result arrived with.
	StatusCode int             `json:"-"`
	Raw        json.RawMessage `json:"-"`
}

// DecodeResult parses any JSON document into a Result. Non-object documents
// (arrays, strings, numbers) are accepted and only kept in Raw.
func DecodeResult(data []byte) (*Result, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	r := &Result{Raw: raw}
	var fields struct {
		Success   bool     `json:"success"`
		Error     string   `json:"error"`
		Filenames []string `json:"filenames"`
	}
	if json.Unmarshal(raw, &fields) == nil {
		r.Success = fields.Success
		r.Error = fields.Error
		r.Filenames = fields.Filenames
	}
	return r, nil
}
