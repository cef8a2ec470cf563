package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kmltool/pkg/index"
)

// infoCommand creates the info command for summarizing a document.
func (c *CLI) infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "info [file]",
		Short:             "Show feature and style counts and the extent of a document",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeFiles("kml", "kmz", "dxf"),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := c.openSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer sess.Release()

			tree := sess.Tree()
			st := tree.Stats()
			idx := index.Build(tree)

			fmt.Println(StyleTitle.Render(tree.Root.Base().Name))
			if sess.Source.Packaged {
				printKeyValue("Document", sess.Source.DocPath)
			}
			printKeyValue("Folders", fmt.Sprint(st.Folders))
			printKeyValue("Placemarks", fmt.Sprintf("%d (%d points, %d lines)", st.Placemarks, st.Points, st.LineStrings))
			printKeyValue("Coordinates", fmt.Sprint(st.Coordinates))
			printKeyValue("Styles", fmt.Sprintf("%d (%d style maps)", st.Styles, st.StyleMaps))
			printKeyValue("Extended data", fmt.Sprintf("%d features, %d schemas", st.ExtendedData, st.Schemas))
			if b := idx.Bounds(); !b.IsEmpty() {
				printKeyValue("Bounds", b.String())
			} else {
				printKeyValue("Bounds", "—")
			}
			if st.ExtendedData > 0 {
				printDetail("Web map viewers ignore extended data; export with --maps to flatten it")
			}
			return nil
		},
	}
}
