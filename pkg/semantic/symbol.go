// Package semantic implements the semantic dependency graph that drives
// incremental re-emission: one immutable Graph snapshot per build, plus an
// Updater that is fed analysis facts, wires usage edges, and decides which
// files need to be emitted again by comparing the in-progress snapshot
// against the previous build's snapshot.
package semantic

import (
	"github.com/ritzau/emit-analyzer/pkg/decl"
)

// FileLocator maps a declaration to the absolute path of the file that
// declares it. Implementations must return the same path for a given handle
// for the duration of one build.
type FileLocator interface {
	FileOf(ref *decl.Ref) string
}

// Symbol represents one analyzable declaration as it exists in a single
// build's dependency graph. Symbols are owned by the snapshot that created
// them and are never shared across snapshots.
type Symbol interface {
	// Decl returns the declaration handle this symbol was created for.
	Decl() *decl.Ref

	// Path returns the absolute path of the file containing the declaration.
	Path() string

	// StableName returns the reparse-surviving identifier of the declaration,
	// or "" when the declaration has none.
	StableName() string

	// IsPublicAPIAffected reports whether this symbol's externally observable
	// contract differs from previous, its equivalent in the prior build.
	IsPublicAPIAffected(previous Symbol) bool
}

// EmitAware is implemented by symbol kinds whose emitted output depends on
// more than their own declaration: it may differ even when the declaration
// itself is untouched, because a used declaration's public API changed.
type EmitAware interface {
	Symbol

	// IsEmitAffected reports whether the symbol's generated output would
	// differ from the previous build's. publicAPIAffected is the set of
	// current-build symbols whose public API changed.
	IsEmitAffected(previous Symbol, publicAPIAffected SymbolSet) bool
}

// SymbolSet is a set of symbols from a single snapshot.
type SymbolSet map[Symbol]struct{}

// Add inserts sym into the set.
func (s SymbolSet) Add(sym Symbol) {
	s[sym] = struct{}{}
}

// Has reports whether sym is in the set.
func (s SymbolSet) Has(sym Symbol) bool {
	_, ok := s[sym]
	return ok
}

// resolver maps a raw declaration handle to its symbol in the current build,
// or to a cached unresolved placeholder when the declaration was not
// analyzed this build.
type resolver func(ref *decl.Ref) Symbol

// connectable is implemented by symbols with deferred edges: fields that can
// only be computed once every symbol of the build has been registered.
type connectable interface {
	connect(resolve resolver)
}

// symbolBase carries the identity fields shared by all symbol kinds.
type symbolBase struct {
	ref  *decl.Ref
	path string
	name string
}

func newSymbolBase(ref *decl.Ref, locator FileLocator) symbolBase {
	return symbolBase{
		ref:  ref,
		path: locator.FileOf(ref),
		name: ref.StableName(),
	}
}

func (b *symbolBase) Decl() *decl.Ref {
	return b.ref
}

func (b *symbolBase) Path() string {
	return b.path
}

func (b *symbolBase) StableName() string {
	return b.name
}
