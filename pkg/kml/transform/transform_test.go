package transform

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/kmltool/pkg/kml"
)

func placemarkNames(t *kml.Tree) []string {
	var names []string
	var walk func(kml.Feature)
	walk = func(f kml.Feature) {
		if p, ok := f.(*kml.Placemark); ok {
			names = append(names, p.Name)
		}
		if c, ok := f.(kml.Container); ok {
			for _, m := range c.Members().Features {
				walk(m)
			}
		}
	}
	walk(t.Root)
	return names
}

func folderNames(t *kml.Tree) []string {
	var names []string
	var walk func(kml.Feature)
	walk = func(f kml.Feature) {
		if fo, ok := f.(*kml.Folder); ok {
			names = append(names, fo.Name)
		}
		if c, ok := f.(kml.Container); ok {
			for _, m := range c.Members().Features {
				walk(m)
			}
		}
	}
	walk(t.Root)
	return names
}

func TestFlattenExtendedData_TwoPairs(t *testing.T) {
	doc := kml.NewDocument("doc")
	p := kml.NewPlacemark("p", nil)
	p.Description = "old"
	p.ExtendedData = &kml.ExtendedData{Data: []kml.Data{
		{Name: "material", Value: "PE"},
		{Name: "dn", Value: "110"},
	}}
	doc.Contents.AddFeature(p)
	tree := kml.NewTree(doc)

	if n := FlattenExtendedData(tree); n != 1 {
		t.Errorf("FlattenExtendedData() = %d, want 1", n)
	}

	want := "<center><table border='0'>\n" +
		"<tr bgcolor='#E3E3F3'><th>material</th><td>PE</td></tr>\n" +
		"<tr bgcolor='#FFFFFF'><th>dn</th><td>110</td></tr>\n" +
		"</table></center>"
	if p.Description != want {
		t.Errorf("Description =\n%s\nwant\n%s", p.Description, want)
	}
	if p.ExtendedData != nil {
		t.Errorf("ExtendedData = %+v, want nil", p.ExtendedData)
	}
}

func TestFlattenExtendedData_SchemaDataFirst(t *testing.T) {
	f := kml.NewFolder("f")
	f.ExtendedData = &kml.ExtendedData{
		Data: []kml.Data{{Name: "c", Value: "3"}},
		SchemaData: []kml.SchemaData{{
			SchemaURL:  "#s",
			SimpleData: []kml.SimpleData{{Name: "a", Value: "1"}, {Name: "b", Value: "<b>2</b>"}},
		}},
	}
	doc := kml.NewDocument("doc")
	doc.Schemas = []*kml.Schema{{ID: "s"}}
	doc.ExtendedData = &kml.ExtendedData{Data: []kml.Data{{Name: "doc", Value: "x"}}}
	doc.Contents.AddFeature(f)
	tree := kml.NewTree(doc)

	FlattenExtendedData(tree)

	rows := strings.Split(f.Description, "\n")
	wantRows := []string{
		"<center><table border='0'>",
		"<tr bgcolor='#E3E3F3'><th>a</th><td>1</td></tr>",
		"<tr bgcolor='#FFFFFF'><th>b</th><td><b>2</b></td></tr>",
		"<tr bgcolor='#E3E3F3'><th>c</th><td>3</td></tr>",
		"</table></center>",
	}
	if diff := cmp.Diff(wantRows, rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	if doc.Schemas != nil {
		t.Errorf("document schemas = %v, want nil", doc.Schemas)
	}
	if doc.ExtendedData == nil || doc.Description != "" {
		t.Error("document extended data should be left alone")
	}
}

func TestFlattenExtendedData_EmptyTable(t *testing.T) {
	doc := kml.NewDocument("doc")
	p := kml.NewPlacemark("p", nil)
	p.Description = "keep me"
	p.ExtendedData = &kml.ExtendedData{}
	plain := kml.NewPlacemark("plain", nil)
	plain.Description = "untouched"
	doc.Contents.AddFeature(p)
	doc.Contents.AddFeature(plain)

	if n := FlattenExtendedData(kml.NewTree(doc)); n != 0 {
		t.Errorf("FlattenExtendedData() = %d, want 0", n)
	}
	if p.Description != "keep me" || p.ExtendedData != nil {
		t.Errorf("empty table: description %q, extended data %v", p.Description, p.ExtendedData)
	}
	if plain.Description != "untouched" {
		t.Errorf("plain description = %q", plain.Description)
	}
}

func TestDescriptionTable_NoPairs(t *testing.T) {
	if got := DescriptionTable(nil); got != "<center><table border='0'>\n</table></center>" {
		t.Errorf("DescriptionTable(nil) = %q", got)
	}
}

// partitionTree builds a document with placemarks P0..P9 spread over
// nested folders.
func partitionTree() *kml.Tree {
	doc := kml.NewDocument("doc")
	doc.Contents.AddStyleSelector(kml.NewStyle("s"))
	a := kml.NewFolder("A")
	b := kml.NewFolder("B")
	c := kml.NewFolder("C")
	for i := 0; i < 3; i++ {
		a.Contents.AddFeature(kml.NewPlacemark(fmt.Sprintf("P%d", i), nil))
	}
	for i := 3; i < 5; i++ {
		b.Contents.AddFeature(kml.NewPlacemark(fmt.Sprintf("P%d", i), nil))
	}
	for i := 5; i < 8; i++ {
		c.Contents.AddFeature(kml.NewPlacemark(fmt.Sprintf("P%d", i), nil))
	}
	b.Contents.AddFeature(c)
	doc.Contents.AddFeature(a)
	doc.Contents.AddFeature(b)
	doc.Contents.AddFeature(kml.NewPlacemark("P8", nil))
	doc.Contents.AddFeature(kml.NewPlacemark("P9", nil))
	return kml.NewTree(doc)
}

func TestCountPlacemarks(t *testing.T) {
	if n := CountPlacemarks(partitionTree()); n != 10 {
		t.Errorf("CountPlacemarks() = %d, want 10", n)
	}
	if n := CountPlacemarks(kml.NewTree(kml.NewDocument("empty"))); n != 0 {
		t.Errorf("CountPlacemarks(empty) = %d, want 0", n)
	}
}

func TestKeepPlacemarkRange_Partition(t *testing.T) {
	const total, files = 10, 3
	per := (total + files - 1) / files

	var union []string
	var counts []int
	for k := 0; k < files; k++ {
		tree := partitionTree()
		removed := KeepPlacemarkRange(tree, k*per, k*per+per-1)
		names := placemarkNames(tree)
		if removed+len(names) != total {
			t.Errorf("file %d: removed %d + kept %d != %d", k, removed, len(names), total)
		}
		counts = append(counts, len(names))
		union = append(union, names...)
	}

	if diff := cmp.Diff([]int{4, 4, 2}, counts); diff != "" {
		t.Errorf("per-file counts mismatch (-want +got):\n%s", diff)
	}
	want := placemarkNames(partitionTree())
	if diff := cmp.Diff(want, union); diff != "" {
		t.Errorf("union mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoveEmptyFolders(t *testing.T) {
	tests := []struct {
		name        string
		start, end  int
		wantFolders []string
		wantRemoved int
	}{
		{"keep all", 0, 9, []string{"A", "B", "C"}, 0},
		// B loses its own placemarks but keeps nested C.
		{"nested survivor", 5, 7, []string{"B", "C"}, 1},
		// C and then B become empty.
		{"only A", 0, 2, []string{"A"}, 2},
		{"only document placemarks", 8, 9, nil, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := partitionTree()
			KeepPlacemarkRange(tree, tt.start, tt.end)
			if got := RemoveEmptyFolders(tree); got != tt.wantRemoved {
				t.Errorf("RemoveEmptyFolders() = %d, want %d", got, tt.wantRemoved)
			}
			if diff := cmp.Diff(tt.wantFolders, folderNames(tree)); diff != "" {
				t.Errorf("folders mismatch (-want +got):\n%s", diff)
			}
			// Styles stay even when nothing references them any more.
			if n := len(tree.Document().Contents.StyleSelectors); n != 1 {
				t.Errorf("style selectors = %d, want 1", n)
			}
		})
	}
}

func TestRemoveEmptyFolders_FolderWithOnlyStyles(t *testing.T) {
	doc := kml.NewDocument("doc")
	f := kml.NewFolder("styles-only")
	f.Contents.AddStyleSelector(kml.NewStyle("s"))
	doc.Contents.AddFeature(f)
	tree := kml.NewTree(doc)

	if n := RemoveEmptyFolders(tree); n != 1 {
		t.Errorf("RemoveEmptyFolders() = %d, want 1", n)
	}
}

func TestRemovePlacemarks(t *testing.T) {
	tree := partitionTree()
	n := RemovePlacemarks(tree, func(p *kml.Placemark) bool {
		return strings.HasSuffix(p.Name, "1") || strings.HasSuffix(p.Name, "8")
	})
	if n != 2 {
		t.Errorf("RemovePlacemarks() = %d, want 2", n)
	}
	want := []string{"P0", "P2", "P3", "P4", "P5", "P6", "P7", "P9"}
	if diff := cmp.Diff(want, placemarkNames(tree)); diff != "" {
		t.Errorf("placemarks mismatch (-want +got):\n%s", diff)
	}
}
