package cli

import (
	"github.com/spf13/cobra"
)

// exportCommand creates the export command for re-packaging documents.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		flags exportFlags
		bbox  string
	)

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export a KML, KMZ or DXF file as KMZ archives",
		Long: `Export a KML, KMZ or DXF file as KMZ archives.

By default the whole document is written to one archive for desktop globe
viewers. Icons and overlays of a KMZ input are carried over unchanged.

With --maps, extended data is flattened into HTML description tables and the
document is split into numbered archives of at most --threshold bytes of KML
each, as web map viewers require. Every part keeps the folder structure and
all styles.

With --bbox, only placemarks intersecting the box are exported.`,
		Example: `  kmltool export network.kmz --maps
  kmltool export network.kml -o city.kmz --bbox 8.4,47.3,8.6,47.4`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeFiles("kml", "kmz", "dxf"),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.options(args[0], &flags)
			opts.Region = bbox
			if opts.SourceCRS == "" {
				opts.SourceCRS = c.Config.Convert.CRS
			}
			return c.runPipeline(cmd.Context(), opts, flags.noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&bbox, "bbox", "", "export only placemarks inside minLon,minLat,maxLon,maxLat")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable the conversion cache for DXF inputs")

	return cmd
}
