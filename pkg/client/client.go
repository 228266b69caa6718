// Package client provides the HTTP client for the file server API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fruitsalade/filebrowser/pkg/models"
	"github.com/fruitsalade/filebrowser/pkg/protocol"
	"github.com/fruitsalade/filebrowser/pkg/retry"
	"github.com/fruitsalade/filebrowser/pkg/thumb"
	"github.com/fruitsalade/filebrowser/pkg/tree"
)

// Client talks to the file server. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	readRetry  retry.Config
	strict     bool
	log        *zap.Logger
}

// Config holds client configuration.
type Config struct {
	BaseURL string

	// Timeout bounds each request. Zero means no timeout: a hung request
	// stays pending until the server settles it.
	Timeout time.Duration

	// Transport is the round tripper chain (logging, metrics). Nil uses
	// http.DefaultTransport.
	Transport http.RoundTripper

	// ReadRetry applies to listing and content fetches only. The zero value
	// performs a single attempt.
	ReadRetry retry.Config

	// StrictStatus turns non-2xx mutation responses into *HTTPError instead
	// of returning them as a Result.
	StrictStatus bool

	Logger *zap.Logger
}

// New creates a new client.
func New(cfg Config) *Client {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.ReadRetry.MaxAttempts == 0 {
		cfg.ReadRetry = retry.Once()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: cfg.Transport,
		},
		readRetry: cfg.ReadRetry,
		strict:    cfg.StrictStatus,
		log:       cfg.Logger,
	}
}

// BaseURL returns the server root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// HTTPError is returned for non-success HTTP statuses where the status is
// significant: uploads, reads, and mutations in strict mode.
type HTTPError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s failed: %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s failed: %d", e.Op, e.StatusCode)
}

// AsHTTPError checks if an error is an HTTPError and returns it.
func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	if errors.As(err, &he) {
		return he, true
	}
	return nil, false
}

// ErrNotImage is returned by FetchImage when the content cannot be decoded.
var ErrNotImage = errors.New("content is not a supported image")

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

// readError converts a failed read response to an error, marking server
// errors retryable.
func readError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	err := &HTTPError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(body)}
	if resp.StatusCode >= 500 {
		return retry.Retryable(err)
	}
	return err
}

// errorMessage extracts {"error": "..."} from a response body if present.
func errorMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil {
		return e.Error
	}
	return ""
}

// ListFiles fetches the entries of directory path.
func (c *Client) ListFiles(ctx context.Context, path string) ([]models.Entry, error) {
	return retry.DoWithResult(ctx, c.readRetry, func() ([]models.Entry, error) {
		u := c.baseURL + protocol.RouteFiles + "?path=" + url.QueryEscape(path)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, retry.Retryable(err)
		}
		defer resp.Body.Close()

		if !isSuccess(resp.StatusCode) {
			return nil, readError("list", resp)
		}

		var entries []models.Entry
		if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
			return nil, fmt.Errorf("decode listing: %w", err)
		}
		return entries, nil
	})
}

// Upload sends all files in one multipart request into directory path.
// A non-2xx status is returned as *HTTPError. Uploads are never retried.
func (c *Client) Upload(ctx context.Context, path string, files []models.StagedFile) (*protocol.Result, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeParts(mw, files))
	}()

	u := c.baseURL + protocol.RouteUpload + "?path=" + url.QueryEscape(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, pr)
	if err != nil {
		pr.Close()
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		pr.CloseWithError(err)
		return nil, fmt.Errorf("upload: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read upload response: %w", err)
	}
	if !isSuccess(resp.StatusCode) {
		return nil, &HTTPError{Op: "upload", StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}

	result, err := protocol.DecodeResult(body)
	if err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	result.StatusCode = resp.StatusCode
	return result, nil
}

func writeParts(mw *multipart.Writer, files []models.StagedFile) error {
	for _, f := range files {
		part, err := mw.CreateFormFile(protocol.UploadField, f.Name)
		if err != nil {
			return err
		}
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("open %s: %w", f.Name, err)
		}
		_, err = io.Copy(part, rc)
		rc.Close()
		if err != nil {
			return fmt.Errorf("copy %s: %w", f.Name, err)
		}
	}
	return mw.Close()
}

// postJSON sends a mutation. The response must be JSON; its status is only
// significant in strict mode.
func (c *Client) postJSON(ctx context.Context, op, route string, body any) (*protocol.Result, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+route, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", op, err)
	}

	result, decodeErr := protocol.DecodeResult(raw)
	if c.strict && !isSuccess(resp.StatusCode) {
		msg := ""
		if result != nil {
			msg = result.Error
		}
		return nil, &HTTPError{Op: op, StatusCode: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode %s response: %w", op, decodeErr)
	}
	result.StatusCode = resp.StatusCode
	if !isSuccess(resp.StatusCode) {
		c.log.Debug("mutation returned non-success status",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
			zap.String("error", result.Error))
	}
	return result, nil
}

// CreateFolder creates directory folder (a full relative path).
func (c *Client) CreateFolder(ctx context.Context, folder string) (*protocol.Result, error) {
	return c.postJSON(ctx, "create folder", protocol.RouteCreateFolder,
		protocol.CreateFolderRequest{Folder: folder})
}

// DeleteItem deletes a file or folder.
func (c *Client) DeleteItem(ctx context.Context, path string) (*protocol.Result, error) {
	return c.postJSON(ctx, "delete", protocol.RouteDeleteItem,
		protocol.DeleteRequest{Path: path})
}

// RenameItem renames oldPath in place to newName.
func (c *Client) RenameItem(ctx context.Context, oldPath, newName string) (*protocol.Result, error) {
	return c.postJSON(ctx, "rename", protocol.RouteRenameItem,
		protocol.RenameRequest{OldName: oldPath, NewName: newName})
}

// MoveItem relocates source to destination.
func (c *Client) MoveItem(ctx context.Context, source, destination string) (*protocol.Result, error) {
	return c.postJSON(ctx, "move", protocol.RouteMoveItem,
		protocol.MoveRequest{Source: source, Destination: destination})
}

// openContent issues GET /uploads/<path> and returns the successful
// response. The caller closes the body.
func (c *Client) openContent(ctx context.Context, path string) (*http.Response, error) {
	return retry.DoWithResult(ctx, c.readRetry, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ContentURL(path), nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, retry.Retryable(err)
		}
		if !isSuccess(resp.StatusCode) {
			defer resp.Body.Close()
			return nil, readError("fetch "+path, resp)
		}
		return resp, nil
	})
}

// ContentURL returns the absolute URL of the raw content of path.
func (c *Client) ContentURL(path string) string {
	return c.baseURL + tree.DownloadURL(path)
}

// FetchText returns the content of path as text.
func (c *Client) FetchText(ctx context.Context, path string) (string, error) {
	resp, err := c.openContent(ctx, path)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// Image describes a decoded preview image.
type Image struct {
	Format string
	Width  int
	Height int
	Size   int64

	// Thumb is the oriented image scaled to fit thumb.MaxSize.
	Thumb  image.Image
	Camera string
	Taken  *time.Time
}

// FetchImage loads path and decodes it as PNG or JPEG.
func (c *Client) FetchImage(ctx context.Context, path string) (*Image, error) {
	resp, err := c.openContent(ctx, path)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	pic, err := thumb.Decode(data, thumb.MaxSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotImage, err)
	}
	return &Image{
		Format: pic.Format,
		Width:  pic.Width,
		Height: pic.Height,
		Size:   int64(len(data)),
		Thumb:  pic.Thumb,
		Camera: pic.Camera,
		Taken:  pic.Taken,
	}, nil
}

// Download copies the content of path to w and returns the bytes written.
func (c *Client) Download(ctx context.Context, path string, w io.Writer) (int64, error) {
	resp, err := c.openContent(ctx, path)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("download %s: %w", path, err)
	}
	return n, nil
}
