package semantic

import (
	"github.com/ritzau/emit-analyzer/pkg/decl"
)

// ModuleSymbol represents a module-like grouping of declarations. A module
// exposes no public API of its own, nothing another declaration compiles
// against, yet its emitted output still depends on whether any directly
// declared component is remotely scoped, because the remote scope setters are
// emitted in the module's file.
type ModuleSymbol struct {
	symbolBase

	memberRefs []*decl.Ref

	// Derived during the connect pass, once member declarations can be
	// resolved to symbols.
	members         []Symbol
	hasRemoteScopes bool
}

// Members returns the symbols the module directly declares. Valid only after
// the graph has been finalized.
func (s *ModuleSymbol) Members() []Symbol {
	return s.members
}

// HasRemoteScopes reports whether any directly declared component uses remote
// scoping. Valid only after the graph has been finalized.
func (s *ModuleSymbol) HasRemoteScopes() bool {
	return s.hasRemoteScopes
}

func (s *ModuleSymbol) connect(resolve resolver) {
	s.members = resolveAll(s.memberRefs, resolve)
	s.hasRemoteScopes = false
	for _, member := range s.members {
		if component, ok := member.(*ComponentSymbol); ok && component.remotelyScoped {
			s.hasRemoteScopes = true
			return
		}
	}
}

// IsPublicAPIAffected always reports no difference: module membership has no
// surface that other declarations' generated output consumes.
func (s *ModuleSymbol) IsPublicAPIAffected(previous Symbol) bool {
	return false
}

// IsEmitAffected reports a difference when the previous equivalent is not a
// module or the derived remote-scoping state changed.
func (s *ModuleSymbol) IsEmitAffected(previous Symbol, publicAPIAffected SymbolSet) bool {
	prev, ok := previous.(*ModuleSymbol)
	if !ok {
		return true
	}
	return s.hasRemoteScopes != prev.hasRemoteScopes
}
