// Package container opens the ZIP archive a SpreadsheetML workbook is
// packaged as and exposes its named parts as streaming readers.
package container

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
)

// ErrMemberNotFound is wrapped into the error returned by Open when a
// requested member path does not exist in the archive.
var ErrMemberNotFound = errors.New("container: member not found")

// Container is an open ZIP archive, addressable by member path.
type Container struct {
	zc      *zip.ReadCloser // set when opened from a file path; nil otherwise
	zr      *zip.Reader
	members map[string]*zip.File
}

// OpenFile opens a workbook container from a file path.
func OpenFile(path string) (*Container, error) {
	zc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("container: open %q: %w", path, err)
	}
	return newContainer(&zc.Reader, zc), nil
}

// OpenReader opens a workbook container from an in-memory or remote
// random-access source of the given size. The source may be a
// *bytes.Reader, an *os.File, or any other io.ReaderAt — including the
// ranged S3 source in this package's s3 source.
func OpenReader(r io.ReaderAt, size int64) (*Container, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("container: not a valid archive: %w", err)
	}
	return newContainer(zr, nil), nil
}

func newContainer(zr *zip.Reader, zc *zip.ReadCloser) *Container {
	members := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		members[f.Name] = f
	}
	return &Container{zc: zc, zr: zr, members: members}
}

// Has reports whether the container has a member at the exact path name.
func (c *Container) Has(name string) bool {
	_, ok := c.members[name]
	return ok
}

// Open returns a streaming reader over the member at the exact path name.
// The caller must Close the returned reader.
func (c *Container) Open(name string) (io.ReadCloser, error) {
	f, ok := c.members[name]
	if !ok {
		return nil, fmt.Errorf("container: %q: %w", name, ErrMemberNotFound)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("container: open %q: %w", name, err)
	}
	return rc, nil
}

// ReadAll is a convenience wrapper that opens a member and reads it fully.
func (c *Container) ReadAll(name string) ([]byte, error) {
	rc, err := c.Open(name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("container: read %q: %w", name, err)
	}
	return data, nil
}

// Close releases the underlying archive. It is a no-op when the container
// was opened from an already-owned io.ReaderAt (OpenReader).
func (c *Container) Close() error {
	if c.zc != nil {
		return c.zc.Close()
	}
	return nil
}
