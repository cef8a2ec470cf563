package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	apperr "github.com/matzehuels/kmltool/pkg/errors"
	"github.com/matzehuels/kmltool/pkg/session"
	"github.com/matzehuels/kmltool/pkg/styles"
)

// Output formats of "styles list".
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// stylesCommand creates the styles command group.
func (c *CLI) stylesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "styles",
		Short: "List and edit document styles",
	}

	cmd.AddCommand(c.stylesListCommand())
	cmd.AddCommand(c.stylesSetCommand())
	cmd.AddCommand(c.stylesEditCommand())

	return cmd
}

// stylesListCommand creates the "styles list" subcommand.
func (c *CLI) stylesListCommand() *cobra.Command {
	var format, columns string

	cmd := &cobra.Command{
		Use:               "list [file]",
		Short:             "List the styles of a document",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeFiles("kml", "kmz", "dxf"),
		RunE: func(cmd *cobra.Command, args []string) error {
			cols, err := selectColumns(columns)
			if err != nil {
				return err
			}
			sess, err := c.openSession(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer sess.Release()
			return writeStyles(os.Stdout, styles.NewTable(sess.Tree()), format, cols)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format: table, json, yaml")
	cmd.Flags().StringVar(&columns, "columns", "", "comma-separated columns for the table (default: all)")
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions([]string{formatTable, formatJSON, formatYAML}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

// stylesSetCommand creates the "styles set" subcommand.
func (c *CLI) stylesSetCommand() *cobra.Command {
	var (
		flags        exportFlags
		id, field, v string
	)

	cmd := &cobra.Command{
		Use:   "set [file]",
		Short: "Change one style property and export the document",
		Example: `  kmltool styles set network.kmz --style pipe --field line-width --value 3
  kmltool styles set network.kml --style valve --field icon-scale --value 1.5 -o valves.kmz`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeFiles("kml", "kmz", "dxf"),
		RunE: func(cmd *cobra.Command, args []string) error {
			col, err := styles.ParseColumn(field)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			sess, err := c.openSession(ctx, args[0])
			if err != nil {
				return err
			}
			defer sess.Release()

			table := styles.NewTable(sess.Tree())
			row := table.Find(id)
			if row < 0 {
				return apperr.New(apperr.ErrCodeInvalidInput, "no style with id %q", id)
			}
			if err := table.SetString(row, col, v); err != nil {
				return err
			}
			printSuccess("Set %s of %s to %s", col, StyleValue.Render(id), StyleNumber.Render(v))
			return c.exportSession(ctx, sess, args[0], &flags)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&id, "style", "", "style id")
	cmd.Flags().StringVar(&field, "field", "", "property: line-width, line-color, icon-url, icon-scale, icon-heading")
	cmd.Flags().StringVar(&v, "value", "", "new value")
	_ = cmd.MarkFlagRequired("style")
	_ = cmd.MarkFlagRequired("field")
	_ = cmd.MarkFlagRequired("value")

	return cmd
}

// stylesEditCommand creates the "styles edit" subcommand.
func (c *CLI) stylesEditCommand() *cobra.Command {
	var flags exportFlags

	cmd := &cobra.Command{
		Use:   "edit [file]",
		Short: "Edit styles interactively and export the document",
		Long: `Edit styles interactively and export the document.

Opens a table of every style. Move with the arrow keys, press enter to edit a
cell, s to save and export, q to quit without saving. Cells of sub-styles a
style does not have cannot be edited.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeFiles("kml", "kmz", "dxf"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := c.openSession(ctx, args[0])
			if err != nil {
				return err
			}
			defer sess.Release()

			table := styles.NewTable(sess.Tree())
			if table.Len() == 0 {
				printInfo("%s has no styles", args[0])
				return nil
			}

			final, err := tea.NewProgram(NewStyleEditorModel(table), tea.WithContext(ctx)).Run()
			if err != nil {
				return fmt.Errorf("style editor: %w", err)
			}
			m := final.(StyleEditorModel)
			if !m.Saved {
				printInfo("No changes saved")
				return nil
			}
			printSuccess("Edited %d cells", m.Edits)
			return c.exportSession(ctx, sess, args[0], &flags)
		},
	}

	flags.register(cmd)

	return cmd
}

// openSession loads input without exporting it.
func (c *CLI) openSession(ctx context.Context, input string) (*session.Session, error) {
	runner, err := c.newRunner(false)
	if err != nil {
		return nil, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := c.options(input, &exportFlags{})
	opts.SourceCRS = c.Config.Convert.CRS
	return runner.Load(ctx, opts)
}

// exportSession writes an edited session like the export command would.
func (c *CLI) exportSession(ctx context.Context, sess *session.Session, input string, flags *exportFlags) error {
	runner, err := c.newRunner(true)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := c.options(input, flags)
	res, err := runner.Export(ctx, sess, opts)
	if err != nil {
		return err
	}
	printResult(res, opts.Mode, false)
	return nil
}

// =============================================================================
// Listing
// =============================================================================

// styleRecord is the machine-readable form of one style.
type styleRecord struct {
	ID          string   `json:"id" yaml:"id"`
	LineWidth   *float64 `json:"line_width,omitempty" yaml:"line_width,omitempty"`
	LineColor   string   `json:"line_color,omitempty" yaml:"line_color,omitempty"`
	IconURL     *string  `json:"icon_url,omitempty" yaml:"icon_url,omitempty"`
	IconScale   *float64 `json:"icon_scale,omitempty" yaml:"icon_scale,omitempty"`
	IconHeading *float64 `json:"icon_heading,omitempty" yaml:"icon_heading,omitempty"`
}

func styleRecords(t *styles.Table) []styleRecord {
	out := make([]styleRecord, t.Len())
	for i := range out {
		out[i].ID = t.Style(i).ID
		for _, col := range styles.Columns() {
			v, ok := t.Value(i, col)
			if !ok {
				continue
			}
			switch col {
			case styles.ColLineWidth:
				f := v.(float64)
				out[i].LineWidth = &f
			case styles.ColLineColor:
				out[i].LineColor = v.(string)
			case styles.ColIconURL:
				s := v.(string)
				out[i].IconURL = &s
			case styles.ColIconScale:
				f := v.(float64)
				out[i].IconScale = &f
			case styles.ColIconHeading:
				f := v.(float64)
				out[i].IconHeading = &f
			}
		}
	}
	return out
}

// selectColumns parses --columns. The name column is always shown first.
func selectColumns(s string) ([]styles.Column, error) {
	keys := parseColumns(s)
	if len(keys) == 0 {
		return styles.Columns(), nil
	}
	cols := []styles.Column{styles.ColName}
	for _, k := range keys {
		col, err := styles.ParseColumn(k)
		if err != nil {
			return nil, err
		}
		if col != styles.ColName {
			cols = append(cols, col)
		}
	}
	return cols, nil
}

func writeStyles(w io.Writer, t *styles.Table, format string, cols []styles.Column) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(styleRecords(t))
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(styleRecords(t)); err != nil {
			return err
		}
		return enc.Close()
	case formatTable:
		headers := make([]string, len(cols))
		for i, col := range cols {
			headers[i] = col.String()
		}
		rows := make([][]string, 0, t.Len())
		for _, r := range t.Rows() {
			cells := make([]string, len(cols))
			for i, col := range cols {
				cells[i] = r.Cells[col]
				if cells[i] == "" && !r.Editable[col] && col != styles.ColName {
					cells[i] = "—"
				}
			}
			rows = append(rows, cells)
		}
		_, err := fmt.Fprintln(w, renderTable(headers, rows))
		return err
	default:
		return apperr.New(apperr.ErrCodeInvalidInput, "invalid format: %q (must be one of: table, json, yaml)", format)
	}
}
