// © 2024 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package fs

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"gopkg.microglot.org/scanner.go/internal/exc"
)

// LookupEncoding resolves an encoding by its WHATWG or IANA name. The empty
// name selects UTF-8.
func LookupEncoding(name string) (encoding.Encoding, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return unicode.UTF8, nil
	}
	if enc, err := htmlindex.Get(name); err == nil {
		return enc, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, exc.New(exc.Location{URI: name}, exc.CodeUnsupportedEncoding, fmt.Sprintf("unsupported encoding %q", name))
	}
	return enc, nil
}

// Decode wraps a body so that reads produce UTF-8 from the given encoding. A
// leading byte order mark overrides the encoding and is removed.
func Decode(rc io.ReadCloser, enc encoding.Encoding) io.ReadCloser {
	if enc == nil {
		enc = unicode.UTF8
	}
	decoder := unicode.BOMOverride(enc.NewDecoder())
	return &bufioReaderCloser{
		Reader: bufio.NewReader(transform.NewReader(rc, decoder)),
		Closer: rc,
	}
}

// DecodeSource opens the body of a source and decodes it with the named
// encoding.
func DecodeSource(ctx context.Context, s Source, encodingName string) (io.ReadCloser, error) {
	enc, err := LookupEncoding(encodingName)
	if err != nil {
		return nil, err
	}
	rc, err := s.Body(ctx)
	if err != nil {
		return nil, err
	}
	return Decode(rc, enc), nil
}

type bufioReaderCloser struct {
	*bufio.Reader
	io.Closer
}
