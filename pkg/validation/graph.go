package validation

import (
	"sort"

	"github.com/fluxion-ai/fluxion/pkg/models"
)

// CycleNodes runs Kahn's algorithm over the workflow graph and returns
// the ids of nodes involved in cycles, or nil if the graph is acyclic.
// Nodes left with positive residual in-degree are a diagnostic superset
// of the minimal cycle. Edges with endpoints that do not resolve to
// declared nodes are ignored; they are reported separately.
func CycleNodes(wf *models.WorkflowMetamodel) []string {
	declared := make(map[string]bool, len(wf.Nodes))
	for _, node := range wf.Nodes {
		declared[node.ID] = true
	}

	inDegree := make(map[string]int, len(wf.Nodes))
	outgoing := make(map[string][]string, len(wf.Nodes))

	for _, node := range wf.Nodes {
		inDegree[node.ID] = 0
	}

	for _, edge := range wf.Edges {
		if !declared[edge.SourceNodeID] || !declared[edge.TargetNodeID] {
			continue
		}

		outgoing[edge.SourceNodeID] = append(outgoing[edge.SourceNodeID], edge.TargetNodeID)
		inDegree[edge.TargetNodeID]++
	}

	queue := make([]string, 0, len(wf.Nodes))
	for _, node := range wf.Nodes {
		if inDegree[node.ID] == 0 {
			queue = append(queue, node.ID)
		}
	}

	processed := 0

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		processed++

		for _, target := range outgoing[id] {
			inDegree[target]--
			if inDegree[target] == 0 {
				queue = append(queue, target)
			}
		}
	}

	if processed == len(wf.Nodes) {
		return nil
	}

	var cycleNodes []string

	for id, degree := range inDegree {
		if degree > 0 {
			cycleNodes = append(cycleNodes, id)
		}
	}

	sort.Strings(cycleNodes)

	return cycleNodes
}
