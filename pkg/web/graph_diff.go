package web

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
)

// GraphDiff represents the difference between two usage graph states
type GraphDiff struct {
	AddedNodes    []GraphNode `json:"addedNodes"`
	RemovedNodes  []string    `json:"removedNodes"`  // Node IDs
	ModifiedNodes []GraphNode `json:"modifiedNodes"` // Nodes with changed properties
	AddedEdges    []GraphEdge `json:"addedEdges"`
	RemovedEdges  []string    `json:"removedEdges"` // Edge IDs (source|target|type)
	FullGraph     bool        `json:"fullGraph"`    // True if this is a full graph, not a diff
}

// Empty reports whether the diff carries no changes.
func (d *GraphDiff) Empty() bool {
	return !d.FullGraph &&
		len(d.AddedNodes) == 0 &&
		len(d.RemovedNodes) == 0 &&
		len(d.ModifiedNodes) == 0 &&
		len(d.AddedEdges) == 0 &&
		len(d.RemovedEdges) == 0
}

// GraphSnapshot represents a cached graph state for diffing
type GraphSnapshot struct {
	Hash  string
	Nodes map[string]GraphNode // nodeID -> node
	Edges map[string]GraphEdge // edgeKey -> edge
}

// CreateSnapshot creates a snapshot from graph data for diffing
func CreateSnapshot(graph *GraphPayload) *GraphSnapshot {
	snapshot := &GraphSnapshot{
		Nodes: make(map[string]GraphNode),
		Edges: make(map[string]GraphEdge),
	}

	for _, node := range graph.Nodes {
		snapshot.Nodes[node.ID] = node
	}

	for _, edge := range graph.Edges {
		snapshot.Edges[edgeKey(edge.Source, edge.Target, edge.Type)] = edge
	}

	jsonData, _ := json.Marshal(graph)
	hash := sha256.Sum256(jsonData)
	snapshot.Hash = fmt.Sprintf("%x", hash)

	return snapshot
}

// ComputeDiff computes the difference between a snapshot and a new graph
func ComputeDiff(oldSnapshot *GraphSnapshot, newGraph *GraphPayload) *GraphDiff {
	// If no old snapshot, return full graph
	if oldSnapshot == nil {
		return &GraphDiff{
			AddedNodes: newGraph.Nodes,
			AddedEdges: newGraph.Edges,
			FullGraph:  true,
		}
	}

	diff := &GraphDiff{
		AddedNodes:    make([]GraphNode, 0),
		RemovedNodes:  make([]string, 0),
		ModifiedNodes: make([]GraphNode, 0),
		AddedEdges:    make([]GraphEdge, 0),
		RemovedEdges:  make([]string, 0),
	}

	newNodes := make(map[string]GraphNode)
	newEdges := make(map[string]GraphEdge)

	for _, node := range newGraph.Nodes {
		newNodes[node.ID] = node
	}
	for _, edge := range newGraph.Edges {
		newEdges[edgeKey(edge.Source, edge.Target, edge.Type)] = edge
	}

	// Find added and modified nodes
	for id, newNode := range newNodes {
		if oldNode, exists := oldSnapshot.Nodes[id]; exists {
			if oldNode != newNode {
				diff.ModifiedNodes = append(diff.ModifiedNodes, newNode)
			}
		} else {
			diff.AddedNodes = append(diff.AddedNodes, newNode)
		}
	}

	// Find removed nodes
	for id := range oldSnapshot.Nodes {
		if _, exists := newNodes[id]; !exists {
			diff.RemovedNodes = append(diff.RemovedNodes, id)
		}
	}

	// Find added edges
	for key, newEdge := range newEdges {
		if _, exists := oldSnapshot.Edges[key]; !exists {
			diff.AddedEdges = append(diff.AddedEdges, newEdge)
		}
	}

	// Find removed edges
	for key := range oldSnapshot.Edges {
		if _, exists := newEdges[key]; !exists {
			diff.RemovedEdges = append(diff.RemovedEdges, key)
		}
	}

	return diff
}

// edgeKey creates a unique key for an edge
func edgeKey(source, target, edgeType string) string {
	return fmt.Sprintf("%s|%s|%s", source, target, edgeType)
}
