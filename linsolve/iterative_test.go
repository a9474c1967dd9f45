package linsolve

import (
	"math"
	"math/rand"
	"testing"

	"github.com/fasp-go/fasp/param"
	"github.com/fasp-go/fasp/vecalg"
)

func TestDefaultMethodDefaultSettings(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	testCases := spdTestCases(rnd)
	testCases = append(testCases,
		nonsym3x3(),
		nonsymTridiag(100),
		newGreenbaum54(1, 1, rnd),
		newGreenbaum54(1, 2, rnd),
		newGreenbaum54(2, 4, rnd),
		newGreenbaum54(10, 0, rnd),
		newGreenbaum54(10, 20, rnd),
		newGreenbaum73(16, 16, rnd),
		newPDENonsymmetric(16, 16, rnd),
		newPDEYang(16, 16, rnd),
	)
	for _, tc := range testCases {
		testMethodWithSettings(t, nil, nil, tc)
	}
}

func TestCG(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	testCases := spdTestCases(rnd)
	for _, tc := range testCases {
		s := newTestSettings(rnd, tc)
		testMethodWithSettings(t, &CG{}, s, tc)
	}
}

func TestCGDefaultSettings(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	testCases := spdTestCases(rnd)
	for _, tc := range testCases {
		testMethodWithSettings(t, &CG{}, nil, tc)
	}
}

func TestBiCG(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	testCases := spdTestCases(rnd)
	testCases = append(testCases,
		nonsym3x3(),
		nonsymTridiag(100),
		newGreenbaum54(1, 1, rnd),
		newGreenbaum54(1, 2, rnd),
		newGreenbaum54(2, 4, rnd),
		newGreenbaum54(10, 0, rnd),
		newGreenbaum54(10, 20, rnd),
		newGreenbaum73(16, 16, rnd),
		newPDEYang(16, 16, rnd),
	)
	for _, tc := range testCases {
		s := newTestSettings(rnd, tc)
		s.Params.Tolerance = 1e-10
		testMethodWithSettings(t, &BiCG{}, s, tc)
	}
}

func TestBiCGDefaultSettings(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	testCases := spdTestCases(rnd)
	testCases = append(testCases,
		nonsym3x3(),
		nonsymTridiag(100),
		newGreenbaum54(1, 1, rnd),
		newGreenbaum54(1, 2, rnd),
		newGreenbaum54(2, 4, rnd),
		newGreenbaum54(10, 0, rnd),
		newGreenbaum54(10, 20, rnd),
		newGreenbaum73(16, 16, rnd),
		newPDENonsymmetric(16, 16, rnd),
		newPDEYang(16, 16, rnd),
	)
	for _, tc := range testCases {
		testMethodWithSettings(t, &BiCG{}, nil, tc)
	}
}

func TestBiCGStab(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	testCases := spdTestCases(rnd)
	testCases = append(testCases,
		nonsym3x3(),
		nonsymTridiag(100),
		newGreenbaum54(1, 1, rnd),
		newGreenbaum54(1, 2, rnd),
		newGreenbaum54(2, 4, rnd),
		newGreenbaum54(10, 0, rnd),
		newGreenbaum54(10, 20, rnd),
		newGreenbaum73(16, 16, rnd),
	)
	for _, tc := range testCases {
		s := newTestSettings(rnd, tc)
		testMethodWithSettings(t, &BiCGStab{}, s, tc)
	}
}

func TestBiCGStabDefaultSettings(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	testCases := spdTestCases(rnd)
	testCases = append(testCases,
		nonsym3x3(),
		nonsymTridiag(100),
		newGreenbaum54(1, 1, rnd),
		newGreenbaum54(1, 2, rnd),
		newGreenbaum54(2, 4, rnd),
		newGreenbaum54(10, 0, rnd),
		newGreenbaum54(10, 20, rnd),
		newGreenbaum73(16, 16, rnd),
	)
	for _, tc := range testCases {
		testMethodWithSettings(t, &BiCGStab{}, nil, tc)
	}
}

func TestGMRES(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	testCases := spdTestCases(rnd)
	testCases = append(testCases,
		nonsym3x3(),
		nonsymTridiag(100),
		newGreenbaum54(1, 1, rnd),
		newGreenbaum54(1, 2, rnd),
		newGreenbaum54(2, 4, rnd),
		newGreenbaum54(10, 0, rnd),
		newGreenbaum54(10, 20, rnd),
		newGreenbaum73(16, 16, rnd),
		newPDENonsymmetric(16, 16, rnd),
		newPDEYang(16, 16, rnd),
	)
	for _, tc := range testCases {
		s := newTestSettings(rnd, tc)
		testMethodWithSettings(t, &GMRES{}, s, tc)
	}
}

func TestGMRESDefaultSettings(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	testCases := spdTestCases(rnd)
	testCases = append(testCases,
		nonsym3x3(),
		nonsymTridiag(100),
		newGreenbaum54(1, 1, rnd),
		newGreenbaum54(1, 2, rnd),
		newGreenbaum54(2, 4, rnd),
		newGreenbaum54(10, 0, rnd),
		newGreenbaum54(10, 20, rnd),
		newGreenbaum73(16, 16, rnd),
		newPDENonsymmetric(16, 16, rnd),
		newPDEYang(16, 16, rnd),
	)
	for _, tc := range testCases {
		testMethodWithSettings(t, &GMRES{}, nil, tc)
	}
}

func newTestSettings(rnd *rand.Rand, tc testCase) *Settings {
	n := len(tc.b)

	initX := make([]float64, n)
	for i := range initX {
		initX[i] = rnd.NormFloat64()
	}

	dst := make([]float64, n)
	for i := range dst {
		dst[i] = math.NaN()
	}

	work := NewContext(n)
	for i := range work.X {
		work.X[i] = math.NaN()
		work.Src[i] = math.NaN()
		work.Dst[i] = math.NaN()
	}
	work.ResidualNorm = math.NaN()

	return &Settings{
		InitX: initX,
		Dst:   dst,
		Params: param.ITSParam{
			Tolerance:     tc.tol,
			MaxIterations: 5 * n,
		},
		Precon: tc.Precon,
		Work:   work,
	}
}

func testMethodWithSettings(t *testing.T, m Method, s *Settings, tc testCase) {
	wantTol := 1e-9
	if s == nil {
		// Settings' default tolerance is not as tight as tc.tol, so a
		// default-settings solve needs a looser accuracy check.
		wantTol = 1e-7
	}

	n := len(tc.b)
	b := append([]float64(nil), tc.b...)

	result, err := Iterative(tc.op, b, m, s)
	if err != nil {
		t.Errorf("%v: unexpected error %v", tc.name, err)
		return
	}

	for i := range b {
		if b[i] != tc.b[i] {
			t.Errorf("%v: unexpected modification of b", tc.name)
			break
		}
	}

	diff := make([]float64, n)
	for i := range diff {
		diff[i] = result.X[i] - tc.want[i]
	}
	dist := vecalg.Norm2(diff) / vecalg.Norm2(tc.want)
	if dist > wantTol {
		t.Errorf("%v: unexpected solution, |want-got|/|want|=%v", tc.name, dist)
	}

	if s == nil {
		return
	}

	if s.Params.MaxIterations > 0 && result.Stats.Iterations > s.Params.MaxIterations {
		t.Errorf("%v: Result.Stats.Iterations greater than Settings.Params.MaxIterations", tc.name)
	}

	if s.Dst != nil {
		for i := range s.Dst {
			if s.Dst[i] != result.X[i] {
				t.Errorf("%v: Settings.Dst and Result.X not equal\n%v\n%v", tc.name, s.Dst, result.X)
				break
			}
		}
		result.X[0] = 123456.7
		if s.Dst[0] != result.X[0] {
			t.Errorf("%v: Settings.Dst and Result.X are not the same slice", tc.name)
		}
	}
}
