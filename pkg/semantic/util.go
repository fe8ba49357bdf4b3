package semantic

// isSymbolEqual reports whether two symbols, possibly from different
// snapshots, denote the same declaration. Symbols match when they share the
// declaration handle (the file was not reparsed) or, failing that, when both
// carry the same stable name in the same file. Unresolved placeholders never
// match anything, not even themselves, so any comparison they take part in
// degrades to "changed".
func isSymbolEqual(a, b Symbol) bool {
	if isUnresolved(a) || isUnresolved(b) {
		return false
	}
	if a.Decl() == b.Decl() {
		return true
	}
	if a.StableName() == "" || b.StableName() == "" {
		return false
	}
	return a.Path() == b.Path() && a.StableName() == b.StableName()
}

// isArrayEqual compares two lists element-wise using equal. Order matters: a
// permutation of the same elements is a difference. A nil list is distinct
// from an empty one (declaring nothing differs from not declaring at all).
func isArrayEqual[T any](a, b []T, equal func(a, b T) bool) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func isStringArrayEqual(a, b []string) bool {
	return isArrayEqual(a, b, func(x, y string) bool { return x == y })
}
