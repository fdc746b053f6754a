package filemap

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"
)

// DefaultMaxFileSize is the per-entry size ceiling applied during archive
// extraction. Oversized entries are skipped, not fatal.
const DefaultMaxFileSize = 2 << 20

// ErrEmptyArchive is returned when an archive yields no loadable entries.
var ErrEmptyArchive = errors.New("filemap: archive contains no files")

// LoadOptions tune archive extraction.
type LoadOptions struct {
	// MaxFileSize caps individual entry sizes; <=0 uses DefaultMaxFileSize.
	MaxFileSize int64
}

func (o LoadOptions) maxSize() int64 {
	if o.MaxFileSize <= 0 {
		return DefaultMaxFileSize
	}
	return o.MaxFileSize
}

// FromZip extracts a zip archive (the GitHub codeload format) into a FileMap.
// The single top-level folder is stripped; entry paths become repo-relative.
func FromZip(r io.ReaderAt, size int64, opts LoadOptions) (*FileMap, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("filemap: open zip: %w", err)
	}

	fm := &FileMap{files: make(map[string][]byte, len(zr.File))}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		clean, ok := sanitizePath(f.Name)
		if !ok {
			fm.Skipped = append(fm.Skipped, f.Name)
			continue
		}
		root, rest := splitRoot(clean)
		if rest == "" {
			continue
		}
		if fm.Root == "" {
			fm.Root = root
		}
		if f.UncompressedSize64 > uint64(opts.maxSize()) {
			fm.Skipped = append(fm.Skipped, rest)
			continue
		}
		rc, err := f.Open()
		if err != nil {
			fm.Skipped = append(fm.Skipped, rest)
			continue
		}
		b, err := io.ReadAll(io.LimitReader(rc, opts.maxSize()+1))
		rc.Close()
		if err != nil || int64(len(b)) > opts.maxSize() {
			fm.Skipped = append(fm.Skipped, rest)
			continue
		}
		fm.files[rest] = b
	}
	return finishLoad(fm)
}

// FromTarGz extracts a gzipped tarball into a FileMap. Same path handling as
// FromZip.
func FromTarGz(r io.Reader, opts LoadOptions) (*FileMap, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("filemap: open gzip: %w", err)
	}
	defer gz.Close()

	fm := &FileMap{files: make(map[string][]byte)}
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("filemap: read tar: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		clean, ok := sanitizePath(hdr.Name)
		if !ok {
			fm.Skipped = append(fm.Skipped, hdr.Name)
			continue
		}
		root, rest := splitRoot(clean)
		if rest == "" {
			continue
		}
		if fm.Root == "" {
			fm.Root = root
		}
		if hdr.Size > opts.maxSize() {
			fm.Skipped = append(fm.Skipped, rest)
			// Advance past the entry body.
			_, _ = io.Copy(io.Discard, tr)
			continue
		}
		b, err := io.ReadAll(io.LimitReader(tr, opts.maxSize()+1))
		if err != nil || int64(len(b)) > opts.maxSize() {
			fm.Skipped = append(fm.Skipped, rest)
			continue
		}
		fm.files[rest] = b
	}
	return finishLoad(fm)
}

func finishLoad(fm *FileMap) (*FileMap, error) {
	if len(fm.files) == 0 {
		return nil, ErrEmptyArchive
	}
	sort.Strings(fm.Skipped)
	if len(fm.Skipped) > 0 {
		log.Printf("filemap: skipped %d archive entries (unsafe path or oversized): %s",
			len(fm.Skipped), strings.Join(head(fm.Skipped, 5), ", "))
	}
	return fm, nil
}

func head(ss []string, n int) []string {
	if len(ss) <= n {
		return ss
	}
	return ss[:n]
}
