package cache

// ScopedKeyer prefixes every key of an inner Keyer, so several deployments
// can share one Redis without seeing each other's reports.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "tether:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner uses DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ReportKey generates a prefixed report key.
func (k *ScopedKeyer) ReportKey(scenarioHash string, opts ReportKeyOpts) string {
	return k.prefix + k.inner.ReportKey(scenarioHash, opts)
}
