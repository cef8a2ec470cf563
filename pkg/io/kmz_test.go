package io

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	apperr "github.com/matzehuels/kmltool/pkg/errors"
)

func writeAsset(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestPackUnpackKMZ(t *testing.T) {
	assets := t.TempDir()
	icon := bytes.Repeat([]byte{0x89, 'P', 'N', 'G', 0, 1, 2}, 100)
	writeAsset(t, assets, "files/icon.png", icon)
	writeAsset(t, assets, "legend.txt", []byte("legend"))
	writeAsset(t, assets, "files/doc.kml", []byte("stale"))

	docData := []byte("<kml/>")
	b, err := PackKMZ([]Entry{{Name: "files/doc.kml", Data: docData}}, assets)
	if err != nil {
		t.Fatalf("PackKMZ() error = %v", err)
	}

	entries, err := UnpackKMZ(b)
	if err != nil {
		t.Fatalf("UnpackKMZ() error = %v", err)
	}
	want := []Entry{
		{Name: "files/icon.png", Data: icon},
		{Name: "legend.txt", Data: []byte("legend")},
		{Name: "files/doc.kml", Data: docData},
	}
	if diff := cmp.Diff(want, entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestPackKMZ_NoAssets(t *testing.T) {
	b, err := PackKMZ([]Entry{{Name: DefaultDocName, Data: []byte("x")}}, "")
	if err != nil {
		t.Fatal(err)
	}
	entries, err := UnpackKMZ(b)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name != "doc.kml" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestPackKMZ_MissingAssetsDir(t *testing.T) {
	_, err := PackKMZ(nil, filepath.Join(t.TempDir(), "gone"))
	if err == nil {
		t.Error("PackKMZ() with missing assets dir: error = nil")
	}
}

func TestUnpackKMZ_NotAZip(t *testing.T) {
	if _, err := UnpackKMZ([]byte("plain text")); err == nil {
		t.Error("UnpackKMZ() error = nil, want error")
	}
}

func TestIsDocumentEntry(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"doc.kml", true},
		{"files/Doc.KML", true},
		{"doc.kmz", false},
		{"kml", false},
		{"doc.kml.bak", false},
		{"images/x.png", false},
	}
	for _, tt := range tests {
		if got := IsDocumentEntry(tt.name); got != tt.want {
			t.Errorf("IsDocumentEntry(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSplitPackage(t *testing.T) {
	doc := Entry{Name: "sub/Network.KML", Data: []byte("<kml/>")}
	icon := Entry{Name: "files/icon.png", Data: []byte{1}}

	gotDoc, assets, err := SplitPackage([]Entry{icon, doc})
	if err != nil {
		t.Fatal(err)
	}
	if gotDoc.Name != doc.Name {
		t.Errorf("doc = %s, want %s", gotDoc.Name, doc.Name)
	}
	if len(assets) != 1 || assets[0].Name != icon.Name {
		t.Errorf("assets = %+v", assets)
	}

	if _, _, err := SplitPackage([]Entry{icon}); !errors.Is(err, ErrNoDocument) {
		t.Errorf("no document: error = %v, want %v", err, ErrNoDocument)
	}
	if _, _, err := SplitPackage([]Entry{doc, {Name: "b.kml"}}); !errors.Is(err, ErrMultipleDocuments) {
		t.Errorf("two documents: error = %v, want %v", err, ErrMultipleDocuments)
	}
}

func TestExtractAssets(t *testing.T) {
	dir := t.TempDir()
	entries := []Entry{
		{Name: "files/icons/a.png", Data: []byte("a")},
		{Name: "b.txt", Data: []byte("b")},
	}
	if err := ExtractAssets(entries, dir); err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		got, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(e.Name)))
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got, e.Data) {
			t.Errorf("%s = %q, want %q", e.Name, got, e.Data)
		}
	}
}

func TestExtractAssets_Traversal(t *testing.T) {
	dir := t.TempDir()
	err := ExtractAssets([]Entry{{Name: "../evil.sh", Data: []byte("x")}}, dir)
	if !apperr.Is(err, apperr.ErrCodeInvalidPath) {
		t.Errorf("ExtractAssets() error = %v, want %s", err, apperr.ErrCodeInvalidPath)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(dir), "evil.sh")); err == nil {
		t.Error("traversal entry was written outside the directory")
	}
}
