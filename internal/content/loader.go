// Package content fetches and decodes content files: JSON documents shaped
// { ...metadata, data: <value> }. Fetches defeat intermediary caches with a
// timestamp query parameter and no-store directives; any failure before a
// decoded, validated document is a LoadFailure that aborts initialization.
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Metadata describes a content file's identity.
type Metadata struct {
	SourceID string `json:"sourceId" validate:"required"`
	Title    string `json:"title"`
	Version  string `json:"version"`
}

// File is a decoded content document.
type File struct {
	Metadata
	Data any `json:"data"`
}

// LoadFailure is the terminal error for content initialization: a transport
// failure, a non-2xx response, a malformed body, or invalid metadata.
type LoadFailure struct {
	URL    string
	Status int // 0 when the request never produced a response
	Err    error
}

func (e *LoadFailure) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("content load failed for %s: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("content load failed for %s: %v", e.URL, e.Err)
}

func (e *LoadFailure) Unwrap() error {
	return e.Err
}

// Loader fetches content files over HTTP.
type Loader struct {
	client   *http.Client
	validate *validator.Validate
	now      func() int64
}

// NewLoader creates a loader. A nil client uses http.DefaultClient.
func NewLoader(client *http.Client) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Loader{
		client:   client,
		validate: validator.New(),
		now:      func() int64 { return time.Now().UnixMilli() },
	}
}

// Fetch retrieves and decodes one content file. There is no retry and no
// timeout beyond what the context imposes; the caller decides whether a
// failed load is fatal for its component.
func (l *Loader) Fetch(ctx context.Context, rawURL string) (*File, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, &LoadFailure{URL: rawURL, Err: fmt.Errorf("invalid content URL: %w", err)}
	}
	q := u.Query()
	q.Set("t", strconv.FormatInt(l.now(), 10))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &LoadFailure{URL: rawURL, Err: err}
	}
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Pragma", "no-cache")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, &LoadFailure{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &LoadFailure{URL: rawURL, Status: resp.StatusCode}
	}

	var file File
	if err := json.NewDecoder(resp.Body).Decode(&file); err != nil {
		return nil, &LoadFailure{URL: rawURL, Err: fmt.Errorf("malformed content file: %w", err)}
	}
	if err := l.validate.Struct(file.Metadata); err != nil {
		return nil, &LoadFailure{URL: rawURL, Err: fmt.Errorf("invalid content metadata: %w", err)}
	}
	return &file, nil
}
