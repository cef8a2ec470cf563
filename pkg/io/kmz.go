package io

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"

	apperr "github.com/matzehuels/kmltool/pkg/errors"
)

// DefaultDocName is the archive entry name used for a document that did not
// come from an archive.
const DefaultDocName = "doc.kml"

var (
	// ErrNoDocument is returned by [SplitPackage] when an archive holds no
	// .kml entry.
	ErrNoDocument = errors.New("archive contains no KML file")

	// ErrMultipleDocuments is returned by [SplitPackage] when an archive
	// holds more than one .kml entry.
	ErrMultipleDocuments = errors.New("archive contains more than one KML file")
)

// Entry is a named file inside an archive. Name uses forward slashes.
type Entry struct {
	Name string
	Data []byte
}

// IsDocumentEntry reports whether name is a KML document entry, matched by
// a case-insensitive ".kml" extension.
func IsDocumentEntry(name string) bool {
	return strings.EqualFold(path.Ext(name), ".kml")
}

// WriteKMZ writes a KMZ archive to w. Every regular file below assetsDir
// (which may be empty) is stored first at its path relative to assetsDir,
// then entries in order. An asset with the same name as an entry is
// skipped. All files are deflated at the best compression level.
func WriteKMZ(w io.Writer, entries []Entry, assetsDir string) error {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	names := make(map[string]bool, len(entries))
	for _, e := range entries {
		names[e.Name] = true
	}

	if assetsDir != "" {
		assets, err := listAssets(assetsDir)
		if err != nil {
			return err
		}
		for _, name := range assets {
			if names[name] {
				continue
			}
			if err := addFile(zw, name, filepath.Join(assetsDir, filepath.FromSlash(name))); err != nil {
				return err
			}
		}
	}

	for _, e := range entries {
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: e.Name, Method: zip.Deflate})
		if err != nil {
			return fmt.Errorf("create entry %s: %w", e.Name, err)
		}
		if _, err := fw.Write(e.Data); err != nil {
			return fmt.Errorf("write entry %s: %w", e.Name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}
	return nil
}

// PackKMZ is like [WriteKMZ] but returns the archive bytes.
func PackKMZ(entries []Entry, assetsDir string) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteKMZ(&buf, entries, assetsDir); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func listAssets(dir string) ([]string, error) {
	var names []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list assets in %s: %w", dir, err)
	}
	sort.Strings(names)
	return names, nil
}

func addFile(zw *zip.Writer, name, src string) error {
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open asset %s: %w", src, err)
	}
	defer f.Close()

	fw, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate})
	if err != nil {
		return fmt.Errorf("create entry %s: %w", name, err)
	}
	if _, err := io.Copy(fw, f); err != nil {
		return fmt.Errorf("write entry %s: %w", name, err)
	}
	return nil
}

// UnpackKMZ returns the file entries of a KMZ archive in archive order.
// Directory entries are skipped.
func UnpackKMZ(b []byte) ([]Entry, error) {
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	var out []Entry
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		data, err := readZipFile(f)
		if err != nil {
			return nil, err
		}
		out = append(out, Entry{Name: f.Name, Data: data})
	}
	return out, nil
}

// ReadKMZFile reads and unpacks the KMZ archive at path.
func ReadKMZFile(path string) ([]Entry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	entries, err := UnpackKMZ(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open entry %s: %w", f.Name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read entry %s: %w", f.Name, err)
	}
	return data, nil
}

// SplitPackage separates the single document entry of an archive from its
// assets. It fails with [ErrNoDocument] or [ErrMultipleDocuments] when the
// archive does not hold exactly one .kml entry.
func SplitPackage(entries []Entry) (doc Entry, assets []Entry, err error) {
	found := 0
	for _, e := range entries {
		if IsDocumentEntry(e.Name) {
			doc = e
			found++
			continue
		}
		assets = append(assets, e)
	}
	switch {
	case found == 0:
		return Entry{}, nil, ErrNoDocument
	case found > 1:
		return Entry{}, nil, ErrMultipleDocuments
	}
	return doc, assets, nil
}

// ExtractAssets writes entries below dir, creating subdirectories as
// needed. Entry names that would escape dir are rejected.
func ExtractAssets(entries []Entry, dir string) error {
	for _, e := range entries {
		if err := apperr.ValidateArchivePath(e.Name); err != nil {
			return err
		}
		dst := filepath.Join(dir, filepath.FromSlash(e.Name))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return fmt.Errorf("create directory for %s: %w", e.Name, err)
		}
		if err := os.WriteFile(dst, e.Data, 0o644); err != nil {
			return fmt.Errorf("extract %s: %w", e.Name, err)
		}
	}
	return nil
}
