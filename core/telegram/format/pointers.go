package format

// Deref safely dereferences a pointer, returning def when it is nil.
func Deref[T any](p *T, def T) T {
	if p != nil {
		return *p
	}
	return def
}
