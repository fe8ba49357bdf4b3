package semantic

import (
	"github.com/ritzau/emit-analyzer/pkg/decl"
)

// ComponentSymbol represents a templated component. A component has the full
// directive surface plus emit-relevant state of its own: the ordered lists of
// directives and pipes its template uses, and whether its scope is resolved
// remotely by the module that declares it.
type ComponentSymbol struct {
	DirectiveSymbol

	remotelyScoped bool

	// Raw usage facts, resolved to symbols during the connect pass.
	usedDirectiveRefs []*decl.Ref
	usedPipeRefs      []*decl.Ref

	usedDirectives []Symbol
	usedPipes      []Symbol
}

// IsRemotelyScoped reports whether the component's scope is provided by a
// remote setter in its module rather than inline in the component's output.
func (s *ComponentSymbol) IsRemotelyScoped() bool {
	return s.remotelyScoped
}

// UsedDirectives returns the directive symbols the component's template uses,
// in template order. Valid only after the graph has been finalized.
func (s *ComponentSymbol) UsedDirectives() []Symbol {
	return s.usedDirectives
}

// UsedPipes returns the pipe symbols the component's template uses, in
// template order. Valid only after the graph has been finalized.
func (s *ComponentSymbol) UsedPipes() []Symbol {
	return s.usedPipes
}

func (s *ComponentSymbol) connect(resolve resolver) {
	s.usedDirectives = resolveAll(s.usedDirectiveRefs, resolve)
	s.usedPipes = resolveAll(s.usedPipeRefs, resolve)
}

// IsEmitAffected reports a difference when the previous equivalent is not a
// component, the remote-scoping strategy flipped, or any used directive or
// pipe no longer resolves to the same, unchanged declaration. Pointing at the
// same declaration is not enough: if that declaration's own public API
// changed, the generated output here changes too.
func (s *ComponentSymbol) IsEmitAffected(previous Symbol, publicAPIAffected SymbolSet) bool {
	prev, ok := previous.(*ComponentSymbol)
	if !ok {
		return true
	}

	isUsageEqual := func(current, prior Symbol) bool {
		return isSymbolEqual(current, prior) && !publicAPIAffected.Has(current)
	}

	return s.remotelyScoped != prev.remotelyScoped ||
		!isArrayEqual(s.usedDirectives, prev.usedDirectives, isUsageEqual) ||
		!isArrayEqual(s.usedPipes, prev.usedPipes, isUsageEqual)
}

func resolveAll(refs []*decl.Ref, resolve resolver) []Symbol {
	symbols := make([]Symbol, len(refs))
	for i, ref := range refs {
		symbols[i] = resolve(ref)
	}
	return symbols
}
