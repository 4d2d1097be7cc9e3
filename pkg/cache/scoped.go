package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// The CLI scopes keys by release so that outlines cached by an older
// binary are never served by a newer one.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "v1.2.0:")
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

// OutlineKey generates a prefixed key for outline caching.
func (k *ScopedKeyer) OutlineKey(mapHash string, opts OutlineKeyOpts) string {
	return k.prefix + k.inner.OutlineKey(mapHash, opts)
}
