package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kmltool/pkg/proj"
)

// crsCommand creates the crs command listing the supported reference systems.
func (c *CLI) crsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "crs",
		Short: "List the reference systems drawings can be converted from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(proj.Supported()))
			for _, code := range proj.Supported() {
				p, err := proj.Lookup(code)
				if err != nil {
					return err
				}
				def := ""
				if code == c.Config.Convert.CRS {
					def = StyleSuccess.Render("default")
				}
				rows = append(rows, []string{code, p.Name(), def})
			}
			fmt.Println(renderTable([]string{"Code", "Name", ""}, rows))
			return nil
		},
	}
}
