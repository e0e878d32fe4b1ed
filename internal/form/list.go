package form

// The list helpers never modify their input: each returns a freshly
// allocated slice so held form values can be compared by replacement.

// AppendItem returns a copy of list with item appended.
func AppendItem[E any](list []E, item E) []E {
	out := make([]E, 0, len(list)+1)
	out = append(out, list...)
	return append(out, item)
}

// UpdateItem returns a copy of list where the element identified by key is
// replaced by merge(element). Order is preserved. An unknown key yields an
// unchanged copy.
func UpdateItem[E any, K comparable](list []E, key K, keyOf func(E) K, merge func(E) E) []E {
	out := make([]E, len(list))
	copy(out, list)
	for i := range out {
		if keyOf(out[i]) == key {
			out[i] = merge(out[i])
			break
		}
	}
	return out
}

// RemoveItem returns a copy of list without the elements identified by key.
func RemoveItem[E any, K comparable](list []E, key K, keyOf func(E) K) []E {
	out := make([]E, 0, len(list))
	for _, item := range list {
		if keyOf(item) == key {
			continue
		}
		out = append(out, item)
	}
	return out
}

// ContainsKey reports whether some element of list is identified by key.
func ContainsKey[E any, K comparable](list []E, key K, keyOf func(E) K) bool {
	for _, item := range list {
		if keyOf(item) == key {
			return true
		}
	}
	return false
}
