package graph

import (
	"testing"

	"github.com/ritzau/emit-analyzer/pkg/decl"
	"github.com/ritzau/emit-analyzer/pkg/semantic"
)

type locator map[*decl.Ref]string

func (l locator) FileOf(ref *decl.Ref) string { return l[ref] }

func TestBuildUsageGraphFromSnapshot(t *testing.T) {
	button := decl.New("Button", true)
	app := decl.New("App", true)
	mod := decl.New("AppModule", true)
	files := locator{button: "/src/button.ts", app: "/src/app.ts", mod: "/src/module.ts"}

	u := semantic.NewUpdater(nil, files)
	u.AddDirective(semantic.DirectiveMeta{Decl: button, Selector: "[btn]"})
	u.AddDirective(semantic.DirectiveMeta{Decl: app, IsComponent: true, Selector: "app-root"})
	u.AddModule(mod, []*decl.Ref{app, button})
	u.RegisterUsage(app, []*decl.Ref{button}, nil, false)
	result := u.Finalize()

	ug := BuildUsageGraph(result.Graph)

	nodes := ug.Nodes()
	if len(nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(nodes))
	}
	if nodes[0].Name != "Button" || nodes[0].Kind != "directive" {
		t.Errorf("first node: %+v", nodes[0])
	}

	edges := ug.Edges()
	if len(edges) != 3 {
		t.Fatalf("expected 3 edges, got %d", len(edges))
	}

	appNode := ug.Node(result.Graph.SymbolByDecl(app))
	deps := ug.Dependencies(result.Graph.SymbolByDecl(app))
	if len(deps) != 1 || deps[0].Name != "Button" {
		t.Errorf("App dependencies: %+v", deps)
	}

	var declares int
	for _, e := range edges {
		if e.Kind == EdgeDeclares && e.From.Name != "AppModule" {
			t.Errorf("declares edge from %q", e.From.Name)
		}
		if e.Kind == EdgeDeclares {
			declares++
		}
		if e.Kind == EdgeUses && (e.From != appNode || e.To.Name != "Button") {
			t.Errorf("uses edge %q -> %q", e.From.Name, e.To.Name)
		}
	}
	if declares != 2 {
		t.Errorf("expected 2 declares edges, got %d", declares)
	}
}

func TestUnresolvedUsageBecomesNode(t *testing.T) {
	app := decl.New("App", true)
	files := locator{app: "/src/app.ts"}

	u := semantic.NewUpdater(nil, files)
	u.AddDirective(semantic.DirectiveMeta{Decl: app, IsComponent: true, Selector: "app-root"})
	u.RegisterUsage(app, []*decl.Ref{decl.New("MatButton", false)}, nil, false)
	result := u.Finalize()

	ug := BuildUsageGraph(result.Graph)

	// The placeholder is not registered in the snapshot, only reachable
	// through the component's usage list.
	var found *SymbolNode
	for _, n := range ug.Nodes() {
		if n.Kind == "unresolved" {
			found = n
		}
	}
	if found == nil {
		t.Fatal("unresolved reference missing from graph")
	}
	if found.Name != "MatButton" || found.Path != "" {
		t.Errorf("unresolved node: %+v", found)
	}
}

func TestDuplicateEdgesCollapse(t *testing.T) {
	pipe := decl.New("CasePipe", true)
	app := decl.New("App", true)
	files := locator{pipe: "/src/pipe.ts", app: "/src/app.ts"}

	u := semantic.NewUpdater(nil, files)
	u.AddPipe(pipe, "case")
	u.AddDirective(semantic.DirectiveMeta{Decl: app, IsComponent: true, Selector: "app-root"})
	u.RegisterUsage(app, nil, []*decl.Ref{pipe, pipe}, false)
	result := u.Finalize()

	ug := BuildUsageGraph(result.Graph)
	if got := len(ug.Edges()); got != 1 {
		t.Errorf("expected 1 edge, got %d", got)
	}
}
