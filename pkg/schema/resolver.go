// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/altshiftab/schemer/pkg/jsonvalue"
)

// HTTPResolver returns a resolver that fetches reference targets
// with GET and parses the body as JSON. Concurrent fetches of the
// same URI are deduplicated; a completed fetch is not cached, so a
// later call for the same URI fetches it again.
func HTTPResolver() RefResolver {
	var group singleflight.Group
	return func(uri *url.URL) (*jsonvalue.Value, error) {
		if uri.Scheme != "http" && uri.Scheme != "https" {
			return nil, nil
		}
		key := uri.String()
		v, err, _ := group.Do(key, func() (any, error) {
			resp, err := http.Get(key)
			if err != nil {
				return nil, fmt.Errorf("fetching %s: %w", key, err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return nil, fmt.Errorf("fetching %s: unexpected status %s", key, resp.Status)
			}
			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", key, err)
			}
			doc, err := jsonvalue.Decode(body)
			if err != nil {
				return nil, fmt.Errorf("parsing %s: %w", key, err)
			}
			return doc, nil
		})
		if err != nil {
			return nil, err
		}
		return v.(*jsonvalue.Value), nil
	}
}

// FileResolver returns a resolver for file: URIs. Other schemes
// resolve to nothing. The URI must have no host (localhost is
// tolerated), and Windows drive paths like /C:/dir are supported.
func FileResolver() RefResolver {
	return func(uri *url.URL) (*jsonvalue.Value, error) {
		if uri.Scheme != "file" {
			return nil, nil
		}
		path, err := fileURIPath(uri)
		if err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", uri, err)
		}
		doc, err := jsonvalue.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", uri, err)
		}
		return doc, nil
	}
}

// fileURIPath maps a file: URI to a filesystem path.
func fileURIPath(uri *url.URL) (string, error) {
	if uri.Host != "" && uri.Host != "localhost" {
		return "", fmt.Errorf("%w: %s has a host", ErrInvalidFileURI, uri)
	}
	path := uri.Path
	if path == "" {
		return "", fmt.Errorf("%w: %s has no path", ErrInvalidFileURI, uri)
	}
	// A Windows drive path arrives as /C:/dir/file.json.
	if len(path) >= 3 && path[0] == '/' && path[2] == ':' && isDriveLetter(path[1]) {
		path = path[1:]
	}
	return path, nil
}

// isDriveLetter reports whether c can start a Windows drive spec.
func isDriveLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// FileURI returns the file: URI for a filesystem path.
func FileURI(path string) *url.URL {
	path = strings.ReplaceAll(path, `\`, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return &url.URL{Scheme: "file", Path: path}
}
