package algo

// DistinctOrdered returns the distinct values of field in order of first occurrence.
func DistinctOrdered[T any, K comparable](items []T, field func(T) K) []K {
	seen := make(map[K]struct{})
	var out []K
	for _, item := range items {
		k := field(item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
