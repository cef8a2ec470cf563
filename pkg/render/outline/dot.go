package outline

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/kmltool/pkg/kml"
	"github.com/matzehuels/kmltool/pkg/kml/crawl"
)

// Options configures outline rendering.
type Options struct {
	// Placemarks draws every placemark as a leaf node. When false, each
	// container only shows how many placemarks it holds directly.
	Placemarks bool
}

// ToDOT converts the container hierarchy of t to Graphviz DOT.
// The resulting DOT string can be rendered with [RenderSVG].
//
// Style selectors are drawn with dashed outlines next to the container
// that declares them.
func ToDOT(t *kml.Tree, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")

	if t == nil || t.Root == nil {
		buf.WriteString("}\n")
		return buf.String()
	}

	ids := map[kml.Node]string{}
	id := func(n kml.Node) string {
		if s, ok := ids[n]; ok {
			return s
		}
		s := "n" + strconv.Itoa(len(ids))
		ids[n] = s
		return s
	}

	var nodes, edges bytes.Buffer
	_ = crawl.Crawl(t.Root, crawl.Funcs{
		Feature: func(it crawl.Item) error {
			switch n := it.Node.(type) {
			case kml.Container:
				fmt.Fprintf(&nodes, "  %s [%s];\n", id(n), strings.Join(containerAttrs(n), ", "))
			case *kml.Placemark:
				if !opts.Placemarks {
					return nil
				}
				fmt.Fprintf(&nodes, "  %s [label=%q, shape=ellipse, style=filled, fillcolor=\"#E3E3F3\"];\n", id(n), placemarkLabel(n))
			}
			if p := it.Parent(); p != nil {
				fmt.Fprintf(&edges, "  %s -> %s;\n", id(p), id(it.Node))
			}
			return nil
		},
		StyleSelector: func(it crawl.Item) error {
			n := it.Node.(kml.StyleSelector)
			fmt.Fprintf(&nodes, "  %s [label=%q, style=\"rounded,filled,dashed\", fillcolor=lightgrey, fontcolor=black];\n",
				id(n), styleLabel(n))
			fmt.Fprintf(&edges, "  %s -> %s [style=dashed, arrowhead=none];\n", id(it.Parent()), id(n))
			return nil
		},
	})

	buf.Write(nodes.Bytes())
	buf.WriteString("\n")
	buf.Write(edges.Bytes())
	buf.WriteString("}\n")
	return buf.String()
}

func containerAttrs(c kml.Container) []string {
	f := c.(kml.Feature)
	name := f.Base().Name
	if name == "" {
		name = "(unnamed)"
	}
	placemarks := 0
	for _, ch := range c.Members().Features {
		if ch.Kind() == kml.KindPlacemark {
			placemarks++
		}
	}
	label := name
	if placemarks > 0 {
		label += fmt.Sprintf("\n%d placemarks", placemarks)
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if f.Kind() == kml.KindDocument {
		attrs = append(attrs, "penwidth=2")
	}
	return attrs
}

func placemarkLabel(p *kml.Placemark) string {
	if p.Name != "" {
		return p.Name
	}
	if p.Geometry == nil {
		return "placemark"
	}
	return strings.ToLower(p.Geometry.Kind().String())
}

func styleLabel(s kml.StyleSelector) string {
	return s.Kind().String() + "\n#" + s.SelectorID()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the drawing scales from
// its own viewBox origin.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
