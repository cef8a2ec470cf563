// Package pipeline provides the load → export pipeline of kmltool.
//
// The CLI commands share this logic so that converting a drawing, exporting
// a document and saving edited styles all produce archives the same way.
//
// # Stages
//
//  1. Load: open a KML or KMZ file, or convert a DXF drawing (cached by the
//     drawing's content hash and source reference system)
//  2. Export: optionally cut the tree to a region, then write one archive
//     ("earth" mode) or flattened, size-limited archives ("maps" mode)
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input: "network.dxf",
//	    Mode:  pipeline.ModeMaps,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Files)
//
// Run the stages separately to work on the session in between:
//
//	sess, err := runner.Load(ctx, opts)
//	defer sess.Release()
//	// ... edit sess.Styles() ...
//	result, err := runner.Export(ctx, sess, opts)
package pipeline

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/kmltool/pkg/cache"
	"github.com/matzehuels/kmltool/pkg/convert"
	apperr "github.com/matzehuels/kmltool/pkg/errors"
	"github.com/matzehuels/kmltool/pkg/export"
	"github.com/matzehuels/kmltool/pkg/index"
)

// Export modes.
const (
	// ModeEarth writes the whole document into one archive for desktop
	// globe viewers.
	ModeEarth = "earth"

	// ModeMaps flattens extended data and splits the document into archives
	// below the threshold for web map viewers.
	ModeMaps = "maps"
)

// DefaultMode is the export mode used when none is given.
const DefaultMode = ModeEarth

// Input kinds, derived from the file extension.
const (
	KindKML = "kml"
	KindKMZ = "kmz"
	KindDXF = "dxf"
)

// ValidModes is the set of supported export modes.
var ValidModes = map[string]bool{
	ModeEarth: true,
	ModeMaps:  true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
type Options struct {
	// Load options
	Input     string `json:"input"`
	SourceCRS string `json:"source_crs,omitempty"` // drawings only
	NoCache   bool   `json:"no_cache,omitempty"`

	// Export options
	Output    string `json:"output,omitempty"`
	Mode      string `json:"mode,omitempty"`
	Threshold int    `json:"threshold,omitempty"`
	Region    string `json:"region,omitempty"`   // "minLon,minLat,maxLon,maxLat"
	DocName   string `json:"doc_name,omitempty"` // entry name for new archives

	// Runtime options (not serialized). Logger overrides the runner's
	// logger for one run.
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Files are the written archive paths, in part order.
	Files []string

	// Stats contains counts and timings.
	Stats Stats

	// CacheHit is true when a drawing conversion came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Placemarks int
	Styles     int
	Archives   int
	Bytes      int
	LoadTime   time.Duration
	ExportTime time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateMode checks that an export mode is valid.
func ValidateMode(mode string) error {
	if !ValidModes[mode] {
		return apperr.New(apperr.ErrCodeInvalidInput, "invalid mode: %q (must be one of: earth, maps)", mode)
	}
	return nil
}

// InputKind returns the kind of the file at path by its extension.
func InputKind(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".kml":
		return KindKML, nil
	case ".kmz":
		return KindKMZ, nil
	case ".dxf":
		return KindDXF, nil
	default:
		return "", apperr.New(apperr.ErrCodeUnsupported, "unsupported input %s (want .kml, .kmz or .dxf)", filepath.Base(path))
	}
}

// DefaultOutput returns the archive path written for input when no output
// is given: the input with a .kmz extension, or "<name>_export.kmz" when
// that would overwrite the input.
func DefaultOutput(input string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	out := base + ".kmz"
	if out == input {
		out = base + "_export.kmz"
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForExport(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks the input and applies load defaults.
func (o *Options) ValidateForLoad() error {
	if o.Input == "" {
		return apperr.New(apperr.ErrCodeInvalidInput, "input file is required")
	}
	kind, err := InputKind(o.Input)
	if err != nil {
		return err
	}
	if kind == KindDXF && o.SourceCRS == "" {
		o.SourceCRS = convert.DefaultCRS
	}
	return nil
}

// SetExportDefaults sets default values for exporting.
func (o *Options) SetExportDefaults() {
	if o.Mode == "" {
		o.Mode = DefaultMode
	}
	if o.Threshold <= 0 {
		o.Threshold = export.DefaultThreshold
	}
	if o.Output == "" && o.Input != "" {
		o.Output = DefaultOutput(o.Input)
	}
}

// ValidateForExport validates and sets defaults for exporting.
func (o *Options) ValidateForExport() error {
	o.SetExportDefaults()
	if err := ValidateMode(o.Mode); err != nil {
		return err
	}
	if err := apperr.ValidateOutputPath(o.Output); err != nil {
		return err
	}
	if o.DocName != "" {
		if err := apperr.ValidateArchivePath(o.DocName); err != nil {
			return err
		}
	}
	if o.Region != "" {
		if _, err := index.ParseBounds(o.Region); err != nil {
			return err
		}
	}
	return nil
}

// IsMaps returns true if the export splits for web map viewers.
func (o *Options) IsMaps() bool {
	return o.Mode == ModeMaps
}

// ConversionKeyOpts returns cache key options for a drawing conversion.
func (o *Options) ConversionKeyOpts() cache.ConversionKeyOpts {
	return cache.ConversionKeyOpts{
		CRS:     o.SourceCRS,
		DocName: convert.DocumentName(o.Input),
	}
}
