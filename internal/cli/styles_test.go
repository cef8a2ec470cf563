package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	apperr "github.com/matzehuels/kmltool/pkg/errors"
	"github.com/matzehuels/kmltool/pkg/styles"
)

func TestSelectColumns(t *testing.T) {
	tests := []struct {
		in   string
		want []styles.Column
	}{
		{"", styles.Columns()},
		{"line-width", []styles.Column{styles.ColName, styles.ColLineWidth}},
		{"icon-url, name ,icon-scale", []styles.Column{styles.ColName, styles.ColIconURL, styles.ColIconScale}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := selectColumns(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("selectColumns(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}

	if _, err := selectColumns("line-width,fill"); !apperr.Is(err, apperr.ErrCodeInvalidInput) {
		t.Errorf("selectColumns(fill) error = %v, want INVALID_INPUT", err)
	}
}

func ptr[T any](v T) *T { return &v }

func TestWriteStyles_Records(t *testing.T) {
	want := []styleRecord{
		{ID: "pipe", LineWidth: ptr(2.0), LineColor: "ffffffff"},
		{ID: "valve", IconURL: ptr(""), IconScale: ptr(1.0), IconHeading: ptr(0.0)},
	}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := writeStyles(&buf, editorTable(), formatJSON, nil); err != nil {
			t.Fatal(err)
		}
		var got []styleRecord
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("json mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		if err := writeStyles(&buf, editorTable(), formatYAML, nil); err != nil {
			t.Fatal(err)
		}
		var got []styleRecord
		if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("yaml mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestWriteStyles_Table(t *testing.T) {
	var buf bytes.Buffer
	cols := []styles.Column{styles.ColName, styles.ColLineWidth}
	if err := writeStyles(&buf, editorTable(), formatTable, cols); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Name", "Line width", "pipe", "valve", "—"} {
		if !strings.Contains(out, want) {
			t.Errorf("table is missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Icon URL") {
		t.Errorf("table shows an unselected column:\n%s", out)
	}
}

func TestWriteStyles_BadFormat(t *testing.T) {
	err := writeStyles(&bytes.Buffer{}, editorTable(), "csv", nil)
	if !apperr.Is(err, apperr.ErrCodeInvalidInput) {
		t.Errorf("writeStyles(csv) error = %v, want INVALID_INPUT", err)
	}
}
