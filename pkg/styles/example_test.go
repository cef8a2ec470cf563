package styles_test

import (
	"fmt"

	"github.com/matzehuels/kmltool/pkg/kml"
	"github.com/matzehuels/kmltool/pkg/styles"
)

func ExampleTable() {
	doc := kml.NewDocument("network")
	pipe := kml.NewStyle("pipe")
	pipe.EnsureLineStyle()
	doc.Contents.AddStyleSelector(pipe)
	tree := kml.NewTree(doc)

	tb := styles.NewTable(tree)
	_ = tb.SetString(tb.Find("pipe"), styles.ColLineColor, "ff0000ff")
	_ = tb.SetString(tb.Find("pipe"), styles.ColLineWidth, "2.5")

	fmt.Println(pipe.LineStyle.Color, pipe.LineStyle.Width)
	// Output: ff0000ff 2.5
}
