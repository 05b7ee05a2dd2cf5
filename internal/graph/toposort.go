package graph

// Sort orders the graph's targets dependency-first using Kahn's algorithm
// over the build-edge subgraph; include dependencies never constrain order.
//
// For every build edge (A depends on B), B appears strictly before A in the
// result. Tie-breaking among simultaneously-ready nodes is graph insertion
// order. If a cycle exists the whole sort fails with a *CycleError naming the
// unplaced remainder; a partial order is never returned.
func Sort(g *BuildGraph) ([]*Target, error) {
	// In-degree counts only build dependencies that are themselves nodes.
	// dependents is the reverse adjacency: dep path -> targets waiting on it.
	inDegree := make(map[string]int, g.Len())
	dependents := make(map[string][]string)

	for _, p := range g.order {
		inDegree[p] = 0
	}
	for _, p := range g.order {
		for _, dep := range g.buildDeps[p] {
			if _, exists := g.nodes[dep]; !exists {
				continue
			}
			inDegree[p]++
			dependents[dep] = append(dependents[dep], p)
		}
	}

	queue := make([]string, 0, g.Len())
	for _, p := range g.order {
		if inDegree[p] == 0 {
			queue = append(queue, p)
		}
	}

	result := make([]*Target, 0, g.Len())
	placed := make(map[string]struct{}, g.Len())
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		result = append(result, g.nodes[current])
		placed[current] = struct{}{}

		for _, waiting := range dependents[current] {
			inDegree[waiting]--
			if inDegree[waiting] == 0 {
				queue = append(queue, waiting)
			}
		}
	}

	if len(result) != g.Len() {
		cycle := &CycleError{}
		for _, p := range g.order {
			if _, ok := placed[p]; !ok {
				cycle.Nodes = append(cycle.Nodes, p)
			}
		}
		return nil, cycle
	}
	return result, nil
}
