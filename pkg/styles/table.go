package styles

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	apperr "github.com/matzehuels/kmltool/pkg/errors"
	"github.com/matzehuels/kmltool/pkg/kml"
)

// Column identifies an editable style property.
type Column int

const (
	ColName Column = iota
	ColLineWidth
	ColLineColor
	ColIconURL
	ColIconScale
	ColIconHeading
	numColumns
)

var columnNames = [...]string{
	"Name", "Line width", "Line color", "Icon URL", "Icon scale", "Icon heading",
}

var columnKeys = [...]string{
	"name", "line-width", "line-color", "icon-url", "icon-scale", "icon-heading",
}

// Columns returns every column in display order.
func Columns() []Column {
	out := make([]Column, numColumns)
	for i := range out {
		out[i] = Column(i)
	}
	return out
}

func (c Column) String() string {
	if c < 0 || c >= numColumns {
		return fmt.Sprintf("Column(%d)", int(c))
	}
	return columnNames[c]
}

// Key returns the command-line name of the column, e.g. "line-width".
func (c Column) Key() string {
	if c < 0 || c >= numColumns {
		return ""
	}
	return columnKeys[c]
}

// ParseColumn looks a column up by its key.
func ParseColumn(key string) (Column, error) {
	k := strings.ToLower(strings.TrimSpace(key))
	for i, ck := range columnKeys {
		if ck == k {
			return Column(i), nil
		}
	}
	return 0, apperr.New(apperr.ErrCodeInvalidInput, "unknown style field %q (valid: %s)", key, strings.Join(columnKeys[:], ", "))
}

// Row is the display form of one style.
type Row struct {
	Cells    [numColumns]string
	Editable [numColumns]bool
}

// Table is a two-way view over a style list.
type Table struct {
	styles []*kml.Style
}

// NewTable returns a table over the styles of t.
func NewTable(t *kml.Tree) *Table {
	return &Table{styles: Extract(t)}
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.styles) }

// Style returns the style shown in row.
func (t *Table) Style(row int) *kml.Style {
	if row < 0 || row >= len(t.styles) {
		return nil
	}
	return t.styles[row]
}

// Find returns the first row showing the style with the given id, or -1.
func (t *Table) Find(id string) int {
	for i, s := range t.styles {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// Value returns the cell value: a string for Name, LineColor and IconURL,
// a float64 otherwise. ok is false when the row does not exist or the
// style lacks the sub-style the column belongs to.
func (t *Table) Value(row int, col Column) (v any, ok bool) {
	s := t.Style(row)
	if s == nil {
		return nil, false
	}
	switch col {
	case ColName:
		return s.ID, true
	case ColLineWidth, ColLineColor:
		if s.LineStyle == nil {
			return nil, false
		}
		if col == ColLineWidth {
			return s.LineStyle.Width, true
		}
		return s.LineStyle.Color.String(), true
	case ColIconURL, ColIconScale, ColIconHeading:
		if s.IconStyle == nil {
			return nil, false
		}
		switch col {
		case ColIconURL:
			return s.IconStyle.Href, true
		case ColIconScale:
			return s.IconStyle.Scale, true
		default:
			return s.IconStyle.Heading, true
		}
	}
	return nil, false
}

// Editable reports whether a cell may be changed. Names never are;
// other cells only when the style has the matching sub-style.
func (t *Table) Editable(row int, col Column) bool {
	if col == ColName {
		return false
	}
	_, ok := t.Value(row, col)
	return ok
}

// Set assigns v to a cell. Width, scale and heading take a float64 (or
// int), the line color a kml.Color or its string form, the icon URL a
// string.
func (t *Table) Set(row int, col Column, v any) error {
	if !t.Editable(row, col) {
		return apperr.New(apperr.ErrCodeInvalidStyle, "%s of row %d is not editable", col, row)
	}
	s := t.styles[row]
	switch col {
	case ColLineWidth:
		f, err := toFloat(v)
		if err != nil {
			return err
		}
		if err := checkPositive(col, f); err != nil {
			return err
		}
		s.LineStyle.Width = f
	case ColLineColor:
		switch c := v.(type) {
		case kml.Color:
			s.LineStyle.Color = c
		case string:
			parsed, err := kml.ParseColor(c)
			if err != nil {
				return apperr.Wrap(apperr.ErrCodeInvalidStyle, err, "invalid line color")
			}
			s.LineStyle.Color = parsed
		default:
			return apperr.New(apperr.ErrCodeInvalidStyle, "line color must be a color, got %T", v)
		}
	case ColIconURL:
		href, ok := v.(string)
		if !ok {
			return apperr.New(apperr.ErrCodeInvalidStyle, "icon URL must be a string, got %T", v)
		}
		s.IconStyle.Href = href
	case ColIconScale, ColIconHeading:
		f, err := toFloat(v)
		if err != nil {
			return err
		}
		if col == ColIconScale {
			if err := checkPositive(col, f); err != nil {
				return err
			}
			s.IconStyle.Scale = f
		} else {
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return apperr.New(apperr.ErrCodeInvalidStyle, "%s must be a finite number, got %g", col, f)
			}
			s.IconStyle.Heading = f
		}
	}
	return nil
}

// SetString parses text for the column and assigns it.
func (t *Table) SetString(row int, col Column, text string) error {
	switch col {
	case ColLineWidth, ColIconScale, ColIconHeading:
		f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return apperr.New(apperr.ErrCodeInvalidStyle, "%s: %q is not a number", col, text)
		}
		return t.Set(row, col, f)
	}
	return t.Set(row, col, text)
}

// Rows returns the display form of every row.
func (t *Table) Rows() []Row {
	rows := make([]Row, len(t.styles))
	for i := range t.styles {
		for _, col := range Columns() {
			v, ok := t.Value(i, col)
			if !ok {
				continue
			}
			rows[i].Cells[col] = formatValue(v)
			rows[i].Editable[col] = col != ColName
		}
	}
	return rows
}

func formatValue(v any) string {
	switch v := v.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return v
	}
	return fmt.Sprint(v)
}

// checkPositive rejects widths and scales that are not finite and positive.
func checkPositive(col Column, f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return apperr.New(apperr.ErrCodeInvalidStyle, "%s must be a positive number, got %g", col, f)
	}
	return nil
}

func toFloat(v any) (float64, error) {
	switch f := v.(type) {
	case float64:
		return f, nil
	case float32:
		return float64(f), nil
	case int:
		return float64(f), nil
	}
	return 0, apperr.New(apperr.ErrCodeInvalidStyle, "expected a number, got %T", v)
}
