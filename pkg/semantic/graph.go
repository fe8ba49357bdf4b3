package semantic

import (
	"fmt"

	"github.com/ritzau/emit-analyzer/pkg/decl"
)

// Graph is the complete set of symbols for one build. It is append-only
// while the build's Updater is feeding it and immutable once finalized; the
// finalized graph is retained verbatim as the previous snapshot of the next
// rebuild and is never touched again.
type Graph struct {
	// symbols preserves registration order for deterministic walks.
	symbols []Symbol
	byDecl  map[*decl.Ref]Symbol
	byName  map[string]map[string]Symbol // path -> stable name -> symbol
}

func newGraph() *Graph {
	return &Graph{
		byDecl: make(map[*decl.Ref]Symbol),
		byName: make(map[string]map[string]Symbol),
	}
}

// SymbolByDecl returns the symbol registered for ref, or nil. The handle is
// only meaningful against the snapshot whose build produced it.
func (g *Graph) SymbolByDecl(ref *decl.Ref) Symbol {
	return g.byDecl[ref]
}

// SymbolByName returns the symbol registered under the given file path and
// stable name, or nil.
func (g *Graph) SymbolByName(path, name string) Symbol {
	return g.byName[path][name]
}

// Symbols returns all symbols in registration order.
func (g *Graph) Symbols() []Symbol {
	symbols := make([]Symbol, len(g.symbols))
	copy(symbols, g.symbols)
	return symbols
}

// Equivalent finds this snapshot's symbol for the same logical declaration as
// sym, which belongs to another snapshot. The declaration handle matches only
// when the file was not reparsed between the two builds; the (path, stable
// name) fallback recovers identity across a reparse of an unchanged top-level
// declaration. Declarations that cannot be uniquely named are conservatively
// always different, so nil is returned for them once their handle is gone.
func (g *Graph) Equivalent(sym Symbol) Symbol {
	if found, ok := g.byDecl[sym.Decl()]; ok {
		return found
	}
	if name := sym.StableName(); name != "" {
		return g.SymbolByName(sym.Path(), name)
	}
	return nil
}

// register stores sym under its declaration handle, and under its
// (path, stable name) when it has one. Registering two symbols for the same
// declaration is caller error; the last write wins.
func (g *Graph) register(sym Symbol) {
	g.symbols = append(g.symbols, sym)
	g.byDecl[sym.Decl()] = sym

	name := sym.StableName()
	if name == "" {
		return
	}
	file := g.byName[sym.Path()]
	if file == nil {
		file = make(map[string]Symbol)
		g.byName[sym.Path()] = file
	}
	file[name] = sym
}

// Result is the outcome of finalizing one build.
type Result struct {
	// NeedsEmit holds the absolute paths of files whose emitted output may
	// differ from the previous build's.
	NeedsEmit map[string]bool

	// Graph is the finalized snapshot, to be retained as the previous
	// snapshot of the next rebuild.
	Graph *Graph
}

// Updater accumulates the semantic facts of one rebuild and runs the
// invalidation decision against the previous build's snapshot. One Updater
// serves exactly one rebuild; an abandoned updater must be discarded, never
// resumed.
type Updater struct {
	prior   *Graph // nil on the first build
	next    *Graph
	locator FileLocator

	// unresolved caches placeholders per declaration handle so repeated
	// resolution of the same external declaration yields the same instance.
	unresolved map[*decl.Ref]*unresolvedSymbol

	// pending holds symbols with deferred edges awaiting the connect pass.
	pending []connectable
}

// NewUpdater creates the updater for one rebuild. prior is the snapshot
// retained from the previous build, or nil when this is the first build.
func NewUpdater(prior *Graph, locator FileLocator) *Updater {
	return &Updater{
		prior:      prior,
		next:       newGraph(),
		locator:    locator,
		unresolved: make(map[*decl.Ref]*unresolvedSymbol),
	}
}

// AddPipe registers a pipe-like transform declaration.
func (u *Updater) AddPipe(ref *decl.Ref, name string) {
	u.next.register(&PipeSymbol{
		symbolBase: newSymbolBase(ref, u.locator),
		pipeName:   name,
	})
}

// AddDirective registers a directive or component declaration. Component
// usage facts arrive separately through RegisterUsage.
func (u *Updater) AddDirective(meta DirectiveMeta) {
	directive := DirectiveSymbol{
		symbolBase: newSymbolBase(meta.Decl, u.locator),
		selector:   meta.Selector,
		inputs:     meta.Inputs,
		outputs:    meta.Outputs,
		exportAs:   meta.ExportAs,
	}
	if !meta.IsComponent {
		u.next.register(&directive)
		return
	}
	component := &ComponentSymbol{DirectiveSymbol: directive}
	u.next.register(component)
	u.pending = append(u.pending, component)
}

// AddModule registers a module-like grouping and the declarations it
// directly declares. Members are resolved during the connect pass.
func (u *Updater) AddModule(ref *decl.Ref, members []*decl.Ref) {
	module := &ModuleSymbol{
		symbolBase: newSymbolBase(ref, u.locator),
		memberRefs: members,
	}
	u.next.register(module)
	u.pending = append(u.pending, module)
}

// RegisterUsage records which directives and pipes a component's template
// uses, and whether the component is remotely scoped. The component must
// already have been registered through AddDirective; anything else means the
// caller drove the updater out of order, which leaves the graph incoherent
// and is reported by panicking.
func (u *Updater) RegisterUsage(ref *decl.Ref, usedDirectives, usedPipes []*decl.Ref, remotelyScoped bool) {
	sym := u.next.SymbolByDecl(ref)
	if sym == nil {
		panic(fmt.Sprintf("semantic: usage registered for %q before its component", ref.Name()))
	}
	component, ok := sym.(*ComponentSymbol)
	if !ok {
		panic(fmt.Sprintf("semantic: usage registered for %q, which is %T, not a component", ref.Name(), sym))
	}
	component.usedDirectiveRefs = usedDirectives
	component.usedPipeRefs = usedPipes
	component.remotelyScoped = remotelyScoped
}

// Finalize runs the connect pass and, when a previous snapshot exists, the
// invalidation pass. On the first build every file is implicitly new, so the
// needs-emit set is empty and the caller emits everything anyway.
func (u *Updater) Finalize() Result {
	u.connect()

	if u.prior == nil {
		return Result{NeedsEmit: make(map[string]bool), Graph: u.next}
	}

	affected := u.publicAPIAffected()

	needsEmit := make(map[string]bool)
	for _, sym := range u.next.symbols {
		emitter, ok := sym.(EmitAware)
		if !ok {
			continue
		}
		previous := u.prior.Equivalent(sym)
		if previous == nil || emitter.IsEmitAffected(previous, affected) {
			needsEmit[sym.Path()] = true
		}
	}

	return Result{NeedsEmit: needsEmit, Graph: u.next}
}

// connect resolves every deferred edge now that the full symbol set of this
// build is known.
func (u *Updater) connect() {
	for _, sym := range u.pending {
		sym.connect(u.resolveSymbol)
	}
	u.pending = nil
}

func (u *Updater) resolveSymbol(ref *decl.Ref) Symbol {
	if sym := u.next.SymbolByDecl(ref); sym != nil {
		return sym
	}
	if placeholder, ok := u.unresolved[ref]; ok {
		return placeholder
	}
	placeholder := &unresolvedSymbol{symbolBase: symbolBase{ref: ref}}
	u.unresolved[ref] = placeholder
	return placeholder
}

// publicAPIAffected collects the current-build symbols whose public API
// differs from their previous equivalent, or that have no equivalent at all.
func (u *Updater) publicAPIAffected() SymbolSet {
	affected := make(SymbolSet)
	for _, sym := range u.next.symbols {
		previous := u.prior.Equivalent(sym)
		if previous == nil || sym.IsPublicAPIAffected(previous) {
			affected.Add(sym)
		}
	}
	return affected
}
