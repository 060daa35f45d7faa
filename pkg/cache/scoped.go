package cache

// ScopedKeyer wraps a Keyer with a prefix, so that several users or server
// profiles can share one backend without seeing each other's entries:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "user:alice:")
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

// DeliveryKey generates a prefixed delivery key.
func (k *ScopedKeyer) DeliveryKey(publisher, destination, documentHash string) string {
	return k.prefix + k.inner.DeliveryKey(publisher, destination, documentHash)
}
