package sparse

// ReverseCuthillMcKee computes a bandwidth-reducing reordering of a's
// rows, supplementing spec.md with the ordering utility present in
// original_source/core/src/ordering.c. The returned permutation maps new
// index -> original index; apply it with Permute.
func ReverseCuthillMcKee(a *CSR) []int {
	n := a.Row
	adj := make([][]int, n)
	for i := 0; i < n; i++ {
		for k := a.IA[i]; k < a.IA[i+1]; k++ {
			j := a.JA[k]
			if j != i {
				adj[i] = append(adj[i], j)
			}
		}
	}

	visited := make([]bool, n)
	order := make([]int, 0, n)

	degree := func(i int) int { return len(adj[i]) }

	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}
		// Find an unvisited vertex; prefer the lowest-degree unvisited
		// vertex as the component root, a standard CM heuristic.
		root := -1
		for i := 0; i < n; i++ {
			if !visited[i] && (root == -1 || degree(i) < degree(root)) {
				root = i
			}
		}
		if root == -1 {
			break
		}
		visited[root] = true
		queue := []int{root}
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			order = append(order, v)
			neighbors := append([]int(nil), adj[v]...)
			// Sort neighbors by ascending degree (Cuthill-McKee rule).
			for i := 1; i < len(neighbors); i++ {
				for j := i; j > 0 && degree(neighbors[j-1]) > degree(neighbors[j]); j-- {
					neighbors[j-1], neighbors[j] = neighbors[j], neighbors[j-1]
				}
			}
			for _, w := range neighbors {
				if !visited[w] {
					visited[w] = true
					queue = append(queue, w)
				}
			}
		}
		if len(order) == n {
			break
		}
	}

	// Reverse.
	perm := make([]int, n)
	for i, v := range order {
		perm[n-1-i] = v
	}
	return perm
}

// Permute returns a new CSR matrix B such that B = P*A*Pᵀ where P is the
// permutation matrix with B[i][:] = A[perm[i]] reindexed through perm.
func Permute(a *CSR, perm []int) *CSR {
	n := a.Row
	inv := make([]int, n)
	for newIdx, orig := range perm {
		inv[orig] = newIdx
	}
	ia := make([]int, n+1)
	for newIdx, orig := range perm {
		ia[newIdx+1] = a.IA[orig+1] - a.IA[orig]
	}
	for i := 0; i < n; i++ {
		ia[i+1] += ia[i]
	}
	ja := make([]int, len(a.JA))
	val := make([]float64, len(a.Val))
	for newIdx, orig := range perm {
		dst := ia[newIdx]
		for k := a.IA[orig]; k < a.IA[orig+1]; k++ {
			ja[dst] = inv[a.JA[k]]
			val[dst] = a.Val[k]
			dst++
		}
	}
	out := &CSR{Row: n, Col: a.Col, IA: ia, JA: ja, Val: val}
	out.SortRows()
	return out
}
