package cycles

import (
	"testing"

	"github.com/ritzau/emit-analyzer/pkg/decl"
	"github.com/ritzau/emit-analyzer/pkg/graph"
	"github.com/ritzau/emit-analyzer/pkg/semantic"
)

type locator map[*decl.Ref]string

func (l locator) FileOf(ref *decl.Ref) string { return l[ref] }

func buildGraph(wire func(u *semantic.Updater)) *graph.UsageGraph {
	u := semantic.NewUpdater(nil, locator{})
	wire(u)
	return graph.BuildUsageGraph(u.Finalize().Graph)
}

func addComponent(u *semantic.Updater, ref *decl.Ref, selector string) {
	u.AddDirective(semantic.DirectiveMeta{Decl: ref, IsComponent: true, Selector: selector})
}

func TestFindUsageCycles_NoCycles(t *testing.T) {
	a := decl.New("A", true)
	b := decl.New("B", true)
	c := decl.New("C", true)

	// Acyclic usage chain: A -> B -> C
	ug := buildGraph(func(u *semantic.Updater) {
		addComponent(u, a, "a-cmp")
		addComponent(u, b, "b-cmp")
		addComponent(u, c, "c-cmp")
		u.RegisterUsage(a, []*decl.Ref{b}, nil, false)
		u.RegisterUsage(b, []*decl.Ref{c}, nil, false)
		u.RegisterUsage(c, nil, nil, false)
	})

	cycles := FindUsageCycles(ug)
	if len(cycles) != 0 {
		t.Errorf("Expected no cycles, but found %d", len(cycles))
	}
}

func TestFindUsageCycles_MutualUsage(t *testing.T) {
	a := decl.New("A", true)
	b := decl.New("B", true)

	// A's template uses B and B's template uses A
	ug := buildGraph(func(u *semantic.Updater) {
		addComponent(u, a, "a-cmp")
		addComponent(u, b, "b-cmp")
		u.RegisterUsage(a, []*decl.Ref{b}, nil, false)
		u.RegisterUsage(b, []*decl.Ref{a}, nil, false)
	})

	cycles := FindUsageCycles(ug)
	if len(cycles) != 1 {
		t.Fatalf("Expected 1 cycle, but found %d", len(cycles))
	}

	names := make(map[string]bool)
	for _, name := range cycles[0].Names() {
		names[name] = true
	}
	if !names["A"] || !names["B"] {
		t.Errorf("Expected cycle to contain A and B, got %v", cycles[0].Names())
	}
}

func TestFindUsageCycles_ThroughModule(t *testing.T) {
	cmp := decl.New("Widget", true)
	mod := decl.New("WidgetModule", true)

	// WidgetModule declares Widget; Widget's template (recursively) uses a
	// declaration from its own module.
	ug := buildGraph(func(u *semantic.Updater) {
		addComponent(u, cmp, "widget")
		u.AddModule(mod, []*decl.Ref{cmp})
		u.RegisterUsage(cmp, []*decl.Ref{mod}, nil, false)
	})

	cycles := FindUsageCycles(ug)
	if len(cycles) != 1 {
		t.Fatalf("Expected 1 cycle, but found %d", len(cycles))
	}
	if len(cycles[0].Symbols) != 2 {
		t.Errorf("Expected cycle of length 2, got %d", len(cycles[0].Symbols))
	}
}

func TestFindUsageCycles_MultipleCycles(t *testing.T) {
	a := decl.New("A", true)
	b := decl.New("B", true)
	c := decl.New("C", true)
	d := decl.New("D", true)

	// Two independent mutual-usage pairs
	ug := buildGraph(func(u *semantic.Updater) {
		for ref, sel := range map[*decl.Ref]string{a: "a", b: "b", c: "c", d: "d"} {
			addComponent(u, ref, sel)
		}
		u.RegisterUsage(a, []*decl.Ref{b}, nil, false)
		u.RegisterUsage(b, []*decl.Ref{a}, nil, false)
		u.RegisterUsage(c, []*decl.Ref{d}, nil, false)
		u.RegisterUsage(d, []*decl.Ref{c}, nil, false)
	})

	cycles := FindUsageCycles(ug)
	if len(cycles) != 2 {
		t.Fatalf("Expected 2 cycles, but found %d", len(cycles))
	}
}
