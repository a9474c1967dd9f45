package parallel

import (
	"errors"
	"sync"
	"testing"
)

func TestRangeCoversAll(t *testing.T) {
	n := 10000
	seen := make([]int32, n)
	err := Range(n, func(lo, hi int) error {
		for i := lo; i < hi; i++ {
			seen[i]++
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range seen {
		if v != 1 {
			t.Fatalf("index %d visited %d times", i, v)
		}
	}
}

func TestRangePropagatesError(t *testing.T) {
	sentinel := errors.New("boom")
	err := Range(10000, func(lo, hi int) error {
		if lo == 0 {
			return sentinel
		}
		return nil
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}
}

func TestSumReduceDeterministic(t *testing.T) {
	n := 100000
	fn := func(lo, hi int) float64 {
		var s float64
		for i := lo; i < hi; i++ {
			s += float64(i)
		}
		return s
	}
	want := SumReduce(n, fn)
	for i := 0; i < 5; i++ {
		got := SumReduce(n, fn)
		if got != want {
			t.Fatalf("non-deterministic sum: %v vs %v", got, want)
		}
	}
}

func TestRunColored(t *testing.T) {
	c := Coloring{Classes: [][]int{{0, 1, 2}, {3, 4}, {5}}}
	var order []int
	var mu sortableAppender
	err := RunColored(c, func(i int) error {
		mu.append(i)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	order = mu.values()
	if len(order) != 6 {
		t.Fatalf("expected 6 visits, got %d", len(order))
	}
}

type sortableAppender struct {
	mu sync.Mutex
	vs []int
}

func (s *sortableAppender) append(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vs = append(s.vs, i)
}

func (s *sortableAppender) values() []int {
	return s.vs
}
