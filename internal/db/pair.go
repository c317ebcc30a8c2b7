package db

// CanonicalPair orders two identities lexicographically so an unordered
// pair always has exactly one storage form. Match rows and pair-scoped
// transactions key off this ordering.
func CanonicalPair(a, b string) (string, string) {
	if a <= b {
		return a, b
	}
	return b, a
}
