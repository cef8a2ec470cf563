package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	apperr "github.com/matzehuels/kmltool/pkg/errors"
	"github.com/matzehuels/kmltool/pkg/pipeline"
)

// convertCommand creates the convert command for turning drawings into archives.
func (c *CLI) convertCommand() *cobra.Command {
	var (
		flags exportFlags
		crs   string
	)

	cmd := &cobra.Command{
		Use:   "convert [file.dxf]",
		Short: "Convert a DXF drawing to a KMZ archive",
		Long: `Convert a DXF drawing to a KMZ archive.

Every layer except "0" becomes a folder with one style derived from the layer
color and line weight. Points and polylines are reprojected from the source
reference system (--crs, default from the config file) to WGS84.

Conversions are cached by the drawing's content so exporting the same drawing
again, for example with --maps, skips reprojection. See 'kmltool crs' for the
supported reference systems.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeFiles("dxf"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if kind, err := pipeline.InputKind(args[0]); err != nil || kind != pipeline.KindDXF {
				return apperr.New(apperr.ErrCodeUnsupported, "convert expects a .dxf drawing, got %s", filepath.Base(args[0]))
			}
			opts := c.options(args[0], &flags)
			opts.SourceCRS = crs
			if opts.SourceCRS == "" {
				opts.SourceCRS = c.Config.Convert.CRS
			}
			return c.runPipeline(cmd.Context(), opts, flags.noCache)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&crs, "crs", "", "source reference system, e.g. EPSG:2056")
	_ = cmd.RegisterFlagCompletionFunc("crs", completeCRS)
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable the conversion cache")

	return cmd
}

// runPipeline loads, exports and reports one input.
func (c *CLI) runPipeline(ctx context.Context, opts pipeline.Options, noCache bool) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinner(ctx, fmt.Sprintf("Loading %s...", filepath.Base(opts.Input)))
	spinner.Start()

	sess, hit, err := runner.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		spinner.StopWithError("Load failed")
		return err
	}
	defer sess.Release()

	spinner.SetMessage(fmt.Sprintf("Exporting for %s...", modeLabel(opts.Mode)))
	res, err := runner.Export(ctx, sess, opts)
	if err != nil {
		spinner.StopWithError("Export failed")
		return err
	}
	spinner.Stop()
	res.CacheHit = hit

	kind, _ := pipeline.InputKind(opts.Input)
	printResult(res, opts.Mode, kind == pipeline.KindDXF)
	if !opts.IsMaps() {
		printNextStep("Prepare for web maps", fmt.Sprintf("kmltool export %s --maps", res.Files[0]))
	}
	return nil
}
