package web

import (
	"testing"
)

func TestComputeDiffWithoutSnapshotIsFullGraph(t *testing.T) {
	payload := &GraphPayload{
		Nodes: []GraphNode{{ID: "a", Label: "A", Type: "component"}},
		Edges: []GraphEdge{{Source: "a", Target: "b", Type: "uses"}},
	}

	diff := ComputeDiff(nil, payload)

	if !diff.FullGraph {
		t.Error("expected full graph diff for missing snapshot")
	}
	if len(diff.AddedNodes) != 1 || len(diff.AddedEdges) != 1 {
		t.Errorf("full graph diff: %d nodes, %d edges", len(diff.AddedNodes), len(diff.AddedEdges))
	}
}

func TestComputeDiffDetectsChanges(t *testing.T) {
	old := &GraphPayload{
		Nodes: []GraphNode{
			{ID: "a", Label: "A", Type: "component", Path: "/src/a.ts"},
			{ID: "b", Label: "B", Type: "directive", Path: "/src/b.ts"},
		},
		Edges: []GraphEdge{{Source: "a", Target: "b", Type: "uses"}},
	}
	snapshot := CreateSnapshot(old)

	next := &GraphPayload{
		Nodes: []GraphNode{
			{ID: "a", Label: "A", Type: "component", Path: "/src/a.ts"},
			{ID: "c", Label: "C", Type: "pipe", Path: "/src/c.ts"},
		},
		Edges: []GraphEdge{{Source: "a", Target: "c", Type: "uses"}},
	}

	diff := ComputeDiff(snapshot, next)

	if diff.FullGraph {
		t.Error("expected incremental diff")
	}
	if len(diff.AddedNodes) != 1 || diff.AddedNodes[0].ID != "c" {
		t.Errorf("added nodes: %+v", diff.AddedNodes)
	}
	if len(diff.RemovedNodes) != 1 || diff.RemovedNodes[0] != "b" {
		t.Errorf("removed nodes: %v", diff.RemovedNodes)
	}
	if len(diff.AddedEdges) != 1 || len(diff.RemovedEdges) != 1 {
		t.Errorf("edges: added=%d removed=%d", len(diff.AddedEdges), len(diff.RemovedEdges))
	}
}

func TestComputeDiffDetectsModifiedNode(t *testing.T) {
	old := &GraphPayload{
		Nodes: []GraphNode{{ID: "a", Label: "A", Type: "directive", Path: "/src/a.ts"}},
		Edges: []GraphEdge{},
	}
	snapshot := CreateSnapshot(old)

	// The declaration turned into a component
	next := &GraphPayload{
		Nodes: []GraphNode{{ID: "a", Label: "A", Type: "component", Path: "/src/a.ts"}},
		Edges: []GraphEdge{},
	}

	diff := ComputeDiff(snapshot, next)

	if len(diff.ModifiedNodes) != 1 || diff.ModifiedNodes[0].Type != "component" {
		t.Errorf("modified nodes: %+v", diff.ModifiedNodes)
	}
	if !diffIsOnlyModification(diff) {
		t.Errorf("unexpected additions or removals: %+v", diff)
	}
}

func diffIsOnlyModification(d *GraphDiff) bool {
	return len(d.AddedNodes) == 0 && len(d.RemovedNodes) == 0 &&
		len(d.AddedEdges) == 0 && len(d.RemovedEdges) == 0
}

func TestEmptyDiff(t *testing.T) {
	payload := &GraphPayload{Nodes: []GraphNode{{ID: "a"}}, Edges: []GraphEdge{}}
	snapshot := CreateSnapshot(payload)

	diff := ComputeDiff(snapshot, payload)
	if !diff.Empty() {
		t.Errorf("expected empty diff, got %+v", diff)
	}
}
