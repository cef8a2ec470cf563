package transform

import (
	"strings"

	"github.com/matzehuels/kmltool/pkg/kml"
	"github.com/matzehuels/kmltool/pkg/kml/crawl"
)

const (
	rowHighlight = "#E3E3F3"
	rowPlain     = "#FFFFFF"
)

// FlattenExtendedData rewrites every feature's extended data into an HTML
// table stored as its description and reports how many features were
// rewritten. Documents keep their own extended data but lose their schema
// definitions. An extended data element without values is dropped and the
// description is left as it was.
func FlattenExtendedData(t *kml.Tree) int {
	n := 0
	_ = crawl.Crawl(t.Root, crawl.Funcs{Feature: func(it crawl.Item) error {
		if d, ok := it.Node.(*kml.Document); ok {
			d.Schemas = nil
			return nil
		}
		b := it.Feature().Base()
		if b.ExtendedData == nil {
			return nil
		}
		if pairs := b.ExtendedData.Pairs(); len(pairs) > 0 {
			b.Description = DescriptionTable(pairs)
			n++
		}
		b.ExtendedData = nil
		return nil
	}})
	return n
}

// DescriptionTable renders name/value pairs as an HTML table with rows
// alternating between a highlighted and a plain background, starting
// highlighted.
func DescriptionTable(pairs []kml.Pair) string {
	var b strings.Builder
	b.WriteString("<center><table border='0'>\n")
	for i, p := range pairs {
		bg := rowHighlight
		if i%2 == 1 {
			bg = rowPlain
		}
		b.WriteString("<tr bgcolor='")
		b.WriteString(bg)
		b.WriteString("'><th>")
		b.WriteString(p.Name)
		b.WriteString("</th><td>")
		b.WriteString(p.Value)
		b.WriteString("</td></tr>\n")
	}
	b.WriteString("</table></center>")
	return b.String()
}
