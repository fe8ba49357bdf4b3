package semantic

import (
	"github.com/ritzau/emit-analyzer/pkg/decl"
)

// DirectiveMeta carries the analysis facts for one directive or component
// declaration, as reported by the semantic-analysis frontend.
type DirectiveMeta struct {
	Decl        *decl.Ref
	IsComponent bool
	Selector    string
	Inputs      []string
	Outputs     []string
	ExportAs    []string // nil when the declaration has no exportAs clause
}

// DirectiveSymbol represents a directive: a declaration other templates match
// by selector and bind to through its ordered input, output, and exportAs
// names. Order is part of the contract consumers compile against, so the
// comparisons below are ordered, not set-based.
type DirectiveSymbol struct {
	symbolBase

	selector string
	inputs   []string
	outputs  []string
	exportAs []string
}

// Selector returns the directive's template selector.
func (s *DirectiveSymbol) Selector() string {
	return s.selector
}

// directiveLike gives access to the directive attributes of a symbol,
// whether it is a plain directive or a component embedding one.
type directiveLike interface {
	directive() *DirectiveSymbol
}

func (s *DirectiveSymbol) directive() *DirectiveSymbol {
	return s
}

// IsPublicAPIAffected reports a difference when the previous equivalent has
// no directive surface at all, or when the selector or any of the ordered
// binding-name lists changed.
func (s *DirectiveSymbol) IsPublicAPIAffected(previous Symbol) bool {
	prev, ok := previous.(directiveLike)
	if !ok {
		return true
	}
	p := prev.directive()
	return s.selector != p.selector ||
		!isStringArrayEqual(s.inputs, p.inputs) ||
		!isStringArrayEqual(s.outputs, p.outputs) ||
		!isStringArrayEqual(s.exportAs, p.exportAs)
}
