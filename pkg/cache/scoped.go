package cache

import "strings"

// ScopedKeyer prefixes every key of an inner Keyer, so entries written by one
// build (or one tenant of a shared Redis) are never read by another.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer scopes inner under prefix. A ":" separator is appended to a
// non-empty prefix that lacks one; a nil inner uses the default keyer.
//
//	keyer := NewScopedKeyer(nil, buildinfo.Version) // "v0.3.0:artifact:..."
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	if prefix != "" && !strings.HasSuffix(prefix, ":") {
		prefix += ":"
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) LayoutKey(dataHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(dataHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
