package cache

// ScopedKeyer wraps a Keyer with a prefix so several tools or cache
// layouts can share one directory without colliding.
//
// Example usage:
//
//	// Keys written by a newer entry format
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "v2:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ConversionKey generates a prefixed conversion key.
func (k *ScopedKeyer) ConversionKey(contentHash string, opts ConversionKeyOpts) string {
	return k.prefix + k.inner.ConversionKey(contentHash, opts)
}
