package cache

import "github.com/wafertools/wafermap/pkg/wafer"

// ScopedKeyer wraps a Keyer with a prefix so that separate deployments or
// tenants sharing one Redis instance get disjoint key namespaces.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "fab7:")
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

// LayoutKey generates a prefixed key for a computed layout.
func (k *ScopedKeyer) LayoutKey(spec wafer.WaferSpec) string {
	return k.prefix + k.inner.LayoutKey(spec)
}

// ArtifactKey generates a prefixed key for an exported artifact.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
