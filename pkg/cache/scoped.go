package cache

// ScopedKeyer prefixes every key of an inner keyer. The server uses one
// namespace per deployment so that several instances can share a Redis.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) PlanKey(segmentsHash string, opts PlanKeyOpts) string {
	return k.prefix + k.inner.PlanKey(segmentsHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(planHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(planHash, opts)
}
