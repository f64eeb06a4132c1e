package manifest

// HandleMap corrects runtime handles whose names differ from the ones
// derived from package ids.
type HandleMap map[string]string

// DefaultHandleMap returns the known WordPress mismatches.
func DefaultHandleMap() HandleMap {
	return HandleMap{
		"wp-blockEditor": "wp-blocks",
	}
}

// With returns a copy of m extended with extra; extra wins on conflicts.
func (m HandleMap) With(extra map[string]string) HandleMap {
	out := make(HandleMap, len(m)+len(extra))
	for k, v := range m {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// Resolve returns the corrected handle, or handle itself when unmapped.
func (m HandleMap) Resolve(handle string) string {
	if mapped, ok := m[handle]; ok {
		return mapped
	}
	return handle
}
