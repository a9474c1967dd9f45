package amg

import (
	"container/list"

	"github.com/fasp-go/fasp/param"
	"github.com/fasp-go/fasp/smoother"
	"github.com/fasp-go/fasp/sparse"
)

// lambdaQueue is a bucket priority queue keyed by integer λ-measure, with
// "most recently entered" tie-breaking among equal keys (new entries go
// to the front of their bucket). It is the Go shape of the
// linked-list-of-lists (LinkList, enter_list/remove_point) that
// original_source/core/src/coarsening_rs.c builds by hand with raw
// pointers; container/list gives the same O(1) insert/remove without a
// hand-rolled allocator, and no graph/priority-queue library in the pack
// models this FASP-specific bucket structure.
type lambdaQueue struct {
	buckets map[int]*list.List
	elem    []*list.Element
	bucket  []int
	max     int
}

func newLambdaQueue(n int) *lambdaQueue {
	return &lambdaQueue{
		buckets: make(map[int]*list.List),
		elem:    make([]*list.Element, n),
		bucket:  make([]int, n),
	}
}

func (q *lambdaQueue) push(i, lam int) {
	l, ok := q.buckets[lam]
	if !ok {
		l = list.New()
		q.buckets[lam] = l
	}
	q.elem[i] = l.PushFront(i)
	q.bucket[i] = lam
	if lam > q.max {
		q.max = lam
	}
}

func (q *lambdaQueue) remove(i int) {
	e := q.elem[i]
	if e == nil {
		return
	}
	lam := q.bucket[i]
	l := q.buckets[lam]
	l.Remove(e)
	q.elem[i] = nil
	if l.Len() == 0 {
		delete(q.buckets, lam)
	}
}

// reenter removes i from its current bucket (if queued) and pushes it
// into bucket newLam, mirroring the original's remove_point followed by
// enter_list when a λ-measure changes.
func (q *lambdaQueue) reenter(i, newLam int) {
	q.remove(i)
	if newLam > 0 {
		q.push(i, newLam)
	}
}

func (q *lambdaQueue) popMax() (int, bool) {
	for q.max >= 0 {
		if l, ok := q.buckets[q.max]; ok && l.Len() > 0 {
			i := l.Front().Value.(int)
			q.remove(i)
			return i, true
		}
		if q.max == 0 {
			break
		}
		q.max--
	}
	return 0, false
}

// Split computes the CF-splitting of a's vertices given its strength
// graph s, per spec.md §4.6. When p.Coarsening is CoarseningCR, pass 1
// is replaced by the compatible-relaxation loop (§4.4); otherwise pass 1
// is the classical maximal-independent-set construction on Sᵀ, grounded
// on form_coarse_level in original_source/core/src/coarsening_rs.c, and
// pass 2 is the interpolatory-neighbor check from the same function.
func Split(a *sparse.CSR, s *Strength, p param.AMGParam) []Mark {
	n := a.Row
	mark := make([]Mark, n)

	if p.Coarsening == param.CoarseningCR {
		splitCompatibleRelaxation(a, s, p, mark)
	} else {
		splitMIS(s, mark)
	}
	interpolatoryNeighborCheck(s, mark)
	return mark
}

// splitMIS is coarsening phase one: a maximal independent set on Sᵀ
// selected greedily by λ-measure (in-degree of j in S), ties broken by
// most-recently-entered.
func splitMIS(s *Strength, mark []Mark) {
	n := s.N
	lambda := make([]int, n)
	for i := 0; i < n; i++ {
		lambda[i] = len(s.Trans[i])
	}

	q := newLambdaQueue(n)
	numLeft := 0
	for i := 0; i < n; i++ {
		if len(s.Adj[i]) < 1 && len(s.Trans[i]) < 1 {
			mark[i] = Isolated
			lambda[i] = 0
			continue
		}
		mark[i] = Undecided
		numLeft++
	}

	// Variables with nonpositive measure become F immediately, per
	// form_coarse_level step 3, promoting their strong dependents'
	// λ-measure along the way.
	for i := 0; i < n; i++ {
		if mark[i] == Isolated {
			continue
		}
		if lambda[i] > 0 {
			q.push(i, lambda[i])
			continue
		}
		mark[i] = Fine
		numLeft--
		for _, j := range s.Adj[i] {
			if mark[j] == Isolated || mark[j] != Undecided {
				continue
			}
			lambda[j]++
			// j < i has already been pushed into the queue (or decided) by
			// an earlier iteration of this same loop, so its entry must be
			// re-positioned; j > i hasn't been visited yet and will be
			// pushed with its final λ once the loop reaches it — reentering
			// it here too would leave a stale duplicate node behind.
			if j < i {
				q.reenter(j, lambda[j])
			}
		}
	}

	for numLeft > 0 {
		i, ok := q.popMax()
		if !ok {
			break
		}
		mark[i] = Coarse
		lambda[i] = 0
		numLeft--

		// Every j that strongly depends on i (j ∈ Sᵀ_i, i.e. i ∈ S_j)
		// becomes Fine; its own strong dependents get promoted.
		for _, j := range s.Trans[i] {
			if mark[j] != Undecided {
				continue
			}
			mark[j] = Fine
			q.remove(j)
			numLeft--
			for _, k := range s.Adj[j] {
				if mark[k] != Undecided {
					continue
				}
				lambda[k]++
				q.reenter(k, lambda[k])
			}
		}

		// Every k that i itself strongly depends on loses a potential
		// dependent and has its λ-measure decremented; at zero it too
		// becomes Fine.
		for _, j := range s.Adj[i] {
			if mark[j] != Undecided {
				continue
			}
			lambda[j]--
			if lambda[j] > 0 {
				q.reenter(j, lambda[j])
			} else {
				q.remove(j)
				mark[j] = Fine
				numLeft--
				for _, k := range s.Adj[j] {
					if mark[k] != Undecided {
						continue
					}
					lambda[k]++
					q.reenter(k, lambda[k])
				}
			}
		}
	}

	for i := 0; i < n; i++ {
		if mark[i] == Undecided {
			mark[i] = Fine
		}
	}
}

// splitCompatibleRelaxation replaces pass 1 with the GS-on-F-points
// contraction-factor loop of spec.md §4.4: starting from every vertex
// Fine, repeatedly measure the contraction factor and promote
// independent-set candidates from F to C (by λ-measure, same MIS
// ordering as splitMIS but restricted to the still-fine set) until the
// measured ρ clears CRThreshold or a safety cap on rounds is hit.
func splitCompatibleRelaxation(a *sparse.CSR, s *Strength, p param.AMGParam, mark []Mark) {
	n := s.N
	for i := 0; i < n; i++ {
		if len(s.Adj[i]) < 1 && len(s.Trans[i]) < 1 {
			mark[i] = Isolated
		} else {
			mark[i] = Fine
		}
	}

	threshold := p.CRThreshold
	if threshold <= 0 {
		threshold = smoother.CRThreshold
	}

	const maxRounds = 20
	for round := 0; round < maxRounds; round++ {
		cfBits := toCFMark(mark)
		res := smoother.CompatibleRelaxation(a, cfBits, 2, int64(round)+1)
		if res.Rho <= threshold {
			return
		}

		// Promote additional coarse points from the F-set using the same
		// λ-measure independent-set heuristic as splitMIS, restricted to
		// currently-Fine vertices: rebuild λ over the F-subgraph and run
		// one MIS pass, folding newly-Coarse vertices into mark.
		sub := restrictToFine(s, mark)
		subMark := make([]Mark, n)
		for i := 0; i < n; i++ {
			if mark[i] != Fine {
				subMark[i] = mark[i]
			} else {
				subMark[i] = Undecided
			}
		}
		splitMISRestricted(sub, subMark)
		promoted := false
		for i := 0; i < n; i++ {
			if mark[i] == Fine && subMark[i] == Coarse {
				mark[i] = Coarse
				promoted = true
			}
		}
		if !promoted {
			return
		}
	}
}

func toCFMark(mark []Mark) []smoother.CFMark {
	out := make([]smoother.CFMark, len(mark))
	for i, m := range mark {
		if m == Coarse {
			out[i] = smoother.Coarse
		} else {
			out[i] = smoother.Fine
		}
	}
	return out
}

// restrictToFine returns the strength graph restricted to vertices that
// are still Undecided (marked Fine by the caller), so splitMISRestricted
// only ever promotes among candidates still eligible to become coarse.
func restrictToFine(s *Strength, mark []Mark) *Strength {
	adj := make([][]int, s.N)
	for i, row := range s.Adj {
		if mark[i] != Fine {
			continue
		}
		for _, j := range row {
			if mark[j] == Fine {
				adj[i] = append(adj[i], j)
			}
		}
	}
	return newStrength(s.N, adj)
}

// splitMISRestricted runs one pass of the λ-measure independent-set
// selection over the subset of vertices already marked Undecided in
// subMark, leaving every other vertex's mark untouched.
func splitMISRestricted(sub *Strength, subMark []Mark) {
	n := sub.N
	lambda := make([]int, n)
	q := newLambdaQueue(n)
	numLeft := 0
	for i := 0; i < n; i++ {
		if subMark[i] != Undecided {
			continue
		}
		lambda[i] = len(sub.Trans[i])
		if lambda[i] > 0 {
			q.push(i, lambda[i])
			numLeft++
		} else {
			subMark[i] = Fine
		}
	}
	for numLeft > 0 {
		i, ok := q.popMax()
		if !ok {
			break
		}
		subMark[i] = Coarse
		numLeft--
		for _, j := range sub.Trans[i] {
			if subMark[j] != Undecided {
				continue
			}
			subMark[j] = Fine
			q.remove(j)
			numLeft--
		}
	}
}

// interpolatoryNeighborCheck is coarsening phase two: for every Fine
// vertex i, each Fine strong neighbor j of i must share a common Coarse
// strong neighbor with i; if none does, one of the fine candidates (or i
// itself) is promoted to Coarse. Grounded directly on form_coarse_level's
// second loop in original_source/core/src/coarsening_rs.c.
func interpolatoryNeighborCheck(s *Strength, mark []Mark) {
	n := s.N
	graph := make([]int, n)
	for i := range graph {
		graph[i] = -1
	}

	for i := 0; i < n; i++ {
		if mark[i] != Fine {
			continue
		}

		for _, j := range s.Adj[i] {
			if mark[j] == Coarse {
				graph[j] = i
			}
		}

		var ciTilde = -1
		cINonEmpty := false
		for _, j := range s.Adj[i] {
			if mark[j] != Fine {
				continue
			}
			commonFound := false
			for _, k := range s.Adj[j] {
				if graph[k] == i {
					commonFound = true
					break
				}
			}
			if commonFound {
				continue
			}
			if cINonEmpty {
				mark[i] = Coarse
				if ciTilde > -1 {
					mark[ciTilde] = Fine
					ciTilde = -1
				}
				cINonEmpty = false
				break
			}
			ciTilde = j
			mark[j] = Coarse
			cINonEmpty = true
		}
	}
}
