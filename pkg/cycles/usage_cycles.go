package cycles

import (
	"github.com/ritzau/emit-analyzer/pkg/graph"
)

// UsageCycle represents a circular usage chain between declarations, e.g. a
// component using a directive whose module declares the component.
type UsageCycle struct {
	Symbols []*graph.SymbolNode
}

// Names returns the display names of the declarations in the cycle.
func (c UsageCycle) Names() []string {
	names := make([]string, len(c.Symbols))
	for i, node := range c.Symbols {
		names[i] = node.Name
	}
	return names
}

// FindUsageCycles finds all circular usage chains in the usage graph.
func FindUsageCycles(ug *graph.UsageGraph) []UsageCycle {
	tarjan := NewTarjanSCC(ug.Graph())
	sccs := tarjan.FindSCCs()

	cycles := make([]UsageCycle, 0)
	for _, scc := range sccs {
		symbols := make([]*graph.SymbolNode, 0, len(scc))
		for _, nodeID := range scc {
			if node := ug.NodeByID(nodeID); node != nil {
				symbols = append(symbols, node)
			}
		}

		if len(symbols) > 1 {
			cycles = append(cycles, UsageCycle{Symbols: symbols})
		}
	}

	return cycles
}
