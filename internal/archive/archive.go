// Package archive opens the EQ document to convert: either a bare XML file
// or an XML member of a ZIP archive.
package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
)

var (
	// ErrNoXML is returned when a ZIP archive contains no .xml member.
	ErrNoXML = errors.New("no XML found in ZIP archive")

	// ErrMemberNotFound is returned when the requested member is missing.
	ErrMemberNotFound = errors.New("member not found in ZIP archive")
)

var zipMagic = []byte("PK\x03\x04")

// Document is an opened EQ document. Close must be called when done.
type Document struct {
	io.ReadCloser

	// Path is the file that was opened.
	Path string

	// Member is the name of the ZIP member being read, or "" for a bare file.
	Member string
}

// Open opens path. ZIP archives are recognised by their signature, not by
// extension. Inside an archive the member named member is selected, or the
// first member whose name ends in ".xml" (case-insensitively) when member
// is empty. member is ignored for bare files.
func Open(filePath, member string) (*Document, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}

	head := make([]byte, len(zipMagic))
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		f.Close()
		return nil, fmt.Errorf("read input: %w", err)
	}
	if n < len(zipMagic) || !bytes.Equal(head, zipMagic) {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			f.Close()
			return nil, fmt.Errorf("read input: %w", err)
		}
		return &Document{ReadCloser: f, Path: filePath}, nil
	}
	f.Close()

	zr, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, fmt.Errorf("open ZIP archive: %w", err)
	}

	zf, err := selectMember(&zr.Reader, member)
	if err != nil {
		zr.Close()
		return nil, err
	}

	rc, err := zf.Open()
	if err != nil {
		zr.Close()
		return nil, fmt.Errorf("open member %s: %w", zf.Name, err)
	}

	return &Document{
		ReadCloser: &memberReader{ReadCloser: rc, archive: zr},
		Path:       filePath,
		Member:     zf.Name,
	}, nil
}

// Members lists the XML members of the ZIP archive at filePath in archive
// order. A bare file yields nil.
func Members(filePath string) ([]string, error) {
	zr, err := zip.OpenReader(filePath)
	if errors.Is(err, zip.ErrFormat) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open ZIP archive: %w", err)
	}
	defer zr.Close()

	var names []string
	for _, zf := range zr.File {
		if isXML(zf) {
			names = append(names, zf.Name)
		}
	}
	return names, nil
}

func selectMember(zr *zip.Reader, member string) (*zip.File, error) {
	for _, zf := range zr.File {
		if member == "" && isXML(zf) {
			return zf, nil
		}
		if member != "" && (zf.Name == member || path.Base(zf.Name) == member) {
			return zf, nil
		}
	}
	if member != "" {
		return nil, fmt.Errorf("%w: %s", ErrMemberNotFound, member)
	}
	return nil, ErrNoXML
}

func isXML(zf *zip.File) bool {
	return !zf.FileInfo().IsDir() && strings.HasSuffix(strings.ToLower(zf.Name), ".xml")
}

// memberReader closes the archive together with the member.
type memberReader struct {
	io.ReadCloser
	archive *zip.ReadCloser
}

func (m *memberReader) Close() error {
	err := m.ReadCloser.Close()
	if cerr := m.archive.Close(); err == nil {
		err = cerr
	}
	return err
}
