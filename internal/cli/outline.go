package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	apperr "github.com/matzehuels/kmltool/pkg/errors"
	"github.com/matzehuels/kmltool/pkg/render/outline"
)

// outlineCommand creates the outline command for drawing the folder hierarchy.
func (c *CLI) outlineCommand() *cobra.Command {
	var (
		format string
		output string
		opts   outline.Options
	)

	cmd := &cobra.Command{
		Use:   "outline [file]",
		Short: "Draw the folder hierarchy of a document as DOT or SVG",
		Long: `Draw the folder hierarchy of a document as DOT or SVG.

Containers are labeled with their placemark counts. Shared styles hang off the
container that defines them. With --placemarks every placemark is drawn too,
which is only readable for small documents.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeFiles("kml", "kmz", "dxf"),
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			if format != "dot" && format != "svg" {
				return apperr.New(apperr.ErrCodeInvalidInput, "invalid format: %q (must be one of: dot, svg)", format)
			}
			sess, err := c.openSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer sess.Release()

			prog := newProgress(loggerFromContext(cmd.Context()))
			data := []byte(outline.ToDOT(sess.Tree(), opts))
			if format == "svg" {
				if data, err = outline.RenderSVG(string(data)); err != nil {
					return fmt.Errorf("render outline: %w", err)
				}
			}

			if output == "" {
				_, err := os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return apperr.Export(err, "could not write %s", output)
			}
			prog.done("Rendered outline")
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "dot", "output format: dot, svg")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions([]string{"dot", "svg"}, cobra.ShellCompDirectiveNoFileComp))
	cmd.Flags().BoolVar(&opts.Placemarks, "placemarks", false, "draw placemarks as well as containers")

	return cmd
}
