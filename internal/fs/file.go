// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package fs

import (
	"context"
	"io"
	"strings"
)

// Source is a named character source. Each call to Body returns a new handle
// positioned at the start of the content.
type Source interface {
	Path(ctx context.Context) string
	Body(ctx context.Context) (io.ReadCloser, error)
}

// NewSourceString wraps static string content in a Source.
func NewSourceString(path string, content string) Source {
	return NewSourceFN(path, func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(content)), nil
	})
}

// NewSourceReader wraps an already open reader. The reader is handed out as
// is, so the resulting Source is only good for a single Body call. If r is an
// io.Closer then closing the body closes r.
func NewSourceReader(path string, r io.Reader) Source {
	return NewSourceFN(path, func() (io.ReadCloser, error) {
		if rc, ok := r.(io.ReadCloser); ok {
			return rc, nil
		}
		return io.NopCloser(r), nil
	})
}

type sourceFunc struct {
	path string
	body func() (io.ReadCloser, error)
}

// NewSourceFN is intended to wrap actual file based content in the Source
// interface. The given body function is used each time there is a call to
// the Source.Body method so it must return a new io.ReadCloser handle.
func NewSourceFN(path string, body func() (io.ReadCloser, error)) Source {
	return &sourceFunc{
		path: path,
		body: body,
	}
}

func (f *sourceFunc) Path(ctx context.Context) string {
	return f.path
}

func (f *sourceFunc) Body(ctx context.Context) (io.ReadCloser, error) {
	return f.body()
}
