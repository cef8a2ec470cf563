package cache

// ConversionKeyOpts are the conversion settings that change its output.
type ConversionKeyOpts struct {
	CRS     string `json:"crs"`
	DocName string `json:"doc_name"`
}

// Keyer generates cache keys.
type Keyer interface {
	// ConversionKey returns the key of a drawing conversion.
	ConversionKey(contentHash string, opts ConversionKeyOpts) string
}

// DefaultKeyer produces keys of the form "convert:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ConversionKey hashes the content hash together with the options.
func (DefaultKeyer) ConversionKey(contentHash string, opts ConversionKeyOpts) string {
	return hashKey("convert", contentHash, opts)
}

var _ Keyer = DefaultKeyer{}
