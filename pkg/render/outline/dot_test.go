package outline

import (
	"strings"
	"testing"

	"github.com/matzehuels/kmltool/pkg/kml"
)

func sampleTree() *kml.Tree {
	doc := kml.NewDocument("net")
	a := kml.NewFolder("A")
	a.Contents.AddFeature(kml.NewPlacemark("p1", &kml.Point{}))
	a.Contents.AddFeature(kml.NewPlacemark("", &kml.LineString{}))
	doc.Contents.AddFeature(a)
	doc.Contents.AddStyleSelector(kml.NewStyle("pipe"))
	return kml.NewTree(doc)
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sampleTree(), Options{})

	for _, want := range []string{
		"digraph G {",
		`n0 [label="net", penwidth=2];`,
		`n1 [label="A\n2 placemarks"];`,
		`n2 [label="Style\n#pipe", style="rounded,filled,dashed"`,
		"n0 -> n1;",
		"n0 -> n2 [style=dashed, arrowhead=none];",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q in:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "ellipse") {
		t.Error("ToDOT() drew placemarks without Options.Placemarks")
	}
}

func TestToDOT_Placemarks(t *testing.T) {
	dot := ToDOT(sampleTree(), Options{Placemarks: true})
	for _, want := range []string{
		`n2 [label="p1", shape=ellipse`,
		`n3 [label="linestring", shape=ellipse`,
		"n1 -> n2;",
		"n1 -> n3;",
		"n0 -> n4 [style=dashed",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q in:\n%s", want, dot)
		}
	}
}

func TestToDOT_Empty(t *testing.T) {
	dot := ToDOT(nil, Options{})
	if !strings.HasPrefix(dot, "digraph G {") || !strings.HasSuffix(dot, "}\n") {
		t.Errorf("ToDOT(nil) = %q", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 10.00 20.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10.00 20.00" width="10" height="20"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}
	if got := string(normalizeViewBox([]byte("<svg/>"))); got != "<svg/>" {
		t.Errorf("normalizeViewBox(no viewBox) = %s", got)
	}
}
