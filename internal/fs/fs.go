// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package fs

import (
	"context"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"gopkg.microglot.org/scanner.go/internal/exc"
)

type SourceFileOption func(*sourceFile)

// WithOptionFSFactory installs a custom factory function used to generate the
// underlying file system handle. The default value is os.DirFS. The string
// value provided to the factory function is the directory that contains the
// file being opened.
func WithOptionFSFactory(v func(root string) fs.FS) SourceFileOption {
	return func(f *sourceFile) {
		f.fsFactory = v
	}
}

// WithOptionEncoding selects the character encoding of the file by its WHATWG
// or IANA name. The default is UTF-8.
func WithOptionEncoding(name string) SourceFileOption {
	return func(f *sourceFile) {
		f.encoding = name
	}
}

type sourceFile struct {
	path      string
	encoding  string
	fsFactory func(string) fs.FS
}

// NewSourceFile creates a Source for a local file. The path may be a plain
// file path or a file:// URI; relative paths are resolved against the working
// directory. The file is not opened until Body is called but the encoding is
// validated immediately.
func NewSourceFile(path string, options ...SourceFileOption) (Source, error) {
	abs, err := filepath.Abs(Normalize(path))
	if err != nil {
		return nil, exc.WrapUnknown(exc.Location{URI: path}, errors.Wrapf(err, "resolve %s", path))
	}
	result := &sourceFile{
		path:      abs,
		fsFactory: os.DirFS,
	}
	for _, option := range options {
		option(result)
	}
	if _, err := LookupEncoding(result.encoding); err != nil {
		return nil, err
	}
	return result, nil
}

func (f *sourceFile) Path(ctx context.Context) string {
	return f.path
}

func (f *sourceFile) Body(ctx context.Context) (io.ReadCloser, error) {
	dir := f.fsFactory(filepath.Dir(f.path))
	name := filepath.Base(f.path)
	rc, err := dir.Open(name)
	if err != nil {
		return nil, fsErr(f.path, err)
	}
	stat, err := rc.Stat()
	if err != nil {
		_ = rc.Close()
		return nil, fsErr(f.path, err)
	}
	if stat.IsDir() {
		_ = rc.Close()
		return nil, exc.Newf(exc.Location{URI: f.path}, exc.CodeFileNotFound, "%s is a directory", f.path)
	}
	enc, err := LookupEncoding(f.encoding)
	if err != nil {
		_ = rc.Close()
		return nil, err
	}
	return Decode(rc, enc), nil
}

// Normalize converts a file:// URI into a file path. Other values are
// returned unchanged.
func Normalize(target string) string {
	u, err := url.Parse(target)
	if err != nil || u.Scheme != "file" {
		return target
	}
	return u.Path
}

func fsErr(path string, err error) error {
	var errT *fs.PathError
	if errors.As(err, &errT) {
		wrapped := errors.Wrapf(errT, "open %s", path)
		switch {
		case errors.Is(errT.Err, fs.ErrNotExist):
			return exc.Wrap(exc.Location{URI: path}, exc.CodeFileNotFound, wrapped)
		case errors.Is(errT.Err, fs.ErrPermission):
			return exc.Wrap(exc.Location{URI: path}, exc.CodePermissionDenied, wrapped)
		default:
			return exc.WrapUnknown(exc.Location{URI: path}, wrapped)
		}
	}
	return exc.WrapUnknown(exc.Location{URI: path}, errors.Wrapf(err, "open %s", path))
}
