package decl

// Ref identifies one declaration within a single parse of its containing
// file. Handles are compared by pointer identity only: as long as a file is
// not reparsed its declarations keep their handles, while reparsing mints
// fresh handles for every declaration in the file. A handle must never be
// compared against handles minted for a different build by value.
type Ref struct {
	name     string
	topLevel bool
}

// New creates a handle for a declaration. name is the declaration's name
// token text ("" for anonymous declarations); topLevel reports whether the
// declaration's immediate syntactic parent is the file itself.
func New(name string, topLevel bool) *Ref {
	return &Ref{name: name, topLevel: topLevel}
}

// Name returns the declaration's name token text, or "" when anonymous.
func (r *Ref) Name() string {
	return r.name
}

// StableName returns the reparse-surviving identifier for this declaration.
// Only top-level, directly named declarations have one; everything else
// (nested or anonymous declarations) returns "" and can be re-identified
// across builds by handle identity alone.
func (r *Ref) StableName() string {
	if !r.topLevel {
		return ""
	}
	return r.name
}
