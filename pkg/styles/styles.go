// Package styles lists and edits the styles of a document tree.
//
// [Extract] returns every [kml.Style] in document order. The returned
// pointers are shared with the tree, so editing a style through the list
// edits the document. [Table] wraps that list in a row/column model for
// interactive editors.
package styles

import (
	"github.com/matzehuels/kmltool/pkg/kml"
	"github.com/matzehuels/kmltool/pkg/kml/crawl"
)

// Extract returns the styles of t in document order, without
// deduplication. StyleMaps are not included.
func Extract(t *kml.Tree) []*kml.Style {
	if t == nil || t.Root == nil {
		return nil
	}
	var out []*kml.Style
	_ = crawl.Crawl(t.Root, crawl.Funcs{StyleSelector: func(it crawl.Item) error {
		if s, ok := it.Node.(*kml.Style); ok {
			out = append(out, s)
		}
		return nil
	}})
	return out
}
