package semantic

// PipeSymbol represents a reusable value transform that templates invoke by
// name. Its name is its entire public API: templates bind to nothing else.
type PipeSymbol struct {
	symbolBase

	pipeName string
}

// PipeName returns the name templates use to invoke the transform.
func (s *PipeSymbol) PipeName() string {
	return s.pipeName
}

// IsPublicAPIAffected reports a difference when the previous equivalent is
// not a pipe, or when the invocation name changed.
func (s *PipeSymbol) IsPublicAPIAffected(previous Symbol) bool {
	prev, ok := previous.(*PipeSymbol)
	if !ok {
		return true
	}
	return s.pipeName != prev.pipeName
}
