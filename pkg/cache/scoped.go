package cache

// ScopedKeyer prefixes every key produced by another Keyer. The server
// uses it to keep mirrors of the archive apart when the base URL is
// overridden, so records from a test mirror never shadow the real one.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner so every generated key carries prefix.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// PageKey generates a prefixed page key.
func (k *ScopedKeyer) PageKey(kind, url string) string {
	return k.prefix + k.inner.PageKey(kind, url)
}

// CaseKey generates a prefixed case key.
func (k *ScopedKeyer) CaseKey(caseID string) string {
	return k.prefix + k.inner.CaseKey(caseID)
}

// PlanKey generates a prefixed plan key.
func (k *ScopedKeyer) PlanKey(structureHash string, opts PlanKeyOpts) string {
	return k.prefix + k.inner.PlanKey(structureHash, opts)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(planHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(planHash, opts)
}
