package content

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"
)

// Source opens a fragment by its slash-separated path relative to the
// content root.
type Source interface {
	Open(ctx context.Context, elems ...string) (io.ReadCloser, error)
}

// HTTPSource reads fragments from a static web origin.
type HTTPSource struct {
	base   *url.URL
	client *http.Client
}

// NewHTTPSource creates a source rooted at baseURL. A nil client gets a
// default one with the given timeout.
func NewHTTPSource(baseURL string, client *http.Client, timeout time.Duration) (*HTTPSource, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid content origin %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid content origin %q: scheme must be http or https", baseURL)
	}
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &HTTPSource{base: u, client: client}, nil
}

// Open implements Source.
func (s *HTTPSource) Open(ctx context.Context, elems ...string) (io.ReadCloser, error) {
	target := s.base.JoinPath(elems...)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// FSSource reads fragments from a file system, typically a local content
// directory.
type FSSource struct {
	fsys fs.FS
}

// NewFSSource creates a source over fsys.
func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

// NewDirSource creates a source over a local directory.
func NewDirSource(dir string) *FSSource {
	return NewFSSource(os.DirFS(dir))
}

// Open implements Source.
func (s *FSSource) Open(ctx context.Context, elems ...string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := path.Join(elems...)
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}
	return s.fsys.Open(name)
}

// NewSource picks an HTTP source for http(s) origins and a directory
// source for anything else.
func NewSource(origin string, timeout time.Duration) (Source, error) {
	if strings.HasPrefix(origin, "http://") || strings.HasPrefix(origin, "https://") {
		return NewHTTPSource(origin, nil, timeout)
	}
	info, err := os.Stat(origin)
	if err != nil {
		return nil, fmt.Errorf("content origin %q: %w", origin, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content origin %q is not a directory", origin)
	}
	return NewDirSource(origin), nil
}

// JoinPath builds the public data URL of an attachment from the public base
// and path elements. Duplicate slashes at the joins are removed; the base
// is otherwise kept as written, so "./data" stays relative.
func JoinPath(base string, elems ...string) string {
	parts := make([]string, 0, len(elems)+1)
	if b := strings.TrimRight(base, "/"); b != "" {
		parts = append(parts, b)
	}
	for _, e := range elems {
		if e = strings.Trim(e, "/"); e != "" {
			parts = append(parts, e)
		}
	}
	return strings.Join(parts, "/")
}
