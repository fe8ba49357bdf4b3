package semantic

// unresolvedSymbol stands in for a declaration outside the analyzed set, such
// as a symbol from an external library or a file the frontend skipped this
// build. It always compares as different: wherever partial information takes
// part in a decision, the decision degrades to re-emission, never to a false
// "unchanged".
type unresolvedSymbol struct {
	symbolBase
}

func (s *unresolvedSymbol) IsPublicAPIAffected(previous Symbol) bool {
	return true
}

func isUnresolved(sym Symbol) bool {
	_, ok := sym.(*unresolvedSymbol)
	return ok
}
