package linsolve_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/fasp-go/fasp/linsolve"
	"github.com/fasp-go/fasp/param"
	"github.com/fasp-go/fasp/sparse"
	"github.com/fasp-go/fasp/vecalg"
	"github.com/stretchr/testify/require"
)

// allenCahnFD implements a semi-implicit finite difference scheme for the
// solution of the one-dimensional Allen-Cahn equation
//
//	u_t = u_xx - 1/ξ²·f'(u)  in (0,L)×(0,T)
//	u_x = 0                  on (0,T)
//	u(0) = u0                on (0,L)
//
// where f is a double-well-shaped function with two minima at ±1
//
//	f(s) = 1/4·(s²-1)²
//
// The equation arises in materials science in the description of phase
// transitions, e.g. solidification in crystal growth. Starting the
// evolution from an initial distribution u0, the solution develops a thin
// steep layer, an interface between regions where u is constant and close
// to one of the minima of f.
//
// allenCahnFD approximates derivatives by finite differences and advances
// the solution in time with a semi-implicit Euler scheme where the
// nonlinear term is taken from the previous time step, so a linear system
// must be solved at every step.
type allenCahnFD struct {
	// xi is the ξ parameter that determines the interface width.
	xi float64

	// initCond is the initial condition u0.
	initCond func(x float64) float64

	h   float64 // Spatial step size
	tau float64 // Time step size

	a *sparse.CSR
	b []float64
	u []float64

	ls       linsolve.Method
	settings linsolve.Settings
}

// fPrime returns the value of the derivative of the double-well potential f
// at s.
//
//	f'(s) = s·(s²-1)
func fPrime(s float64) float64 {
	return s * (s*s - 1)
}

// setup initializes the receiver for solving the Allen-Cahn equation on a
// uniform grid with n+1 nodes on the spatial interval (0,L) and with the
// time step size tau.
func (ac *allenCahnFD) setup(n int, L float64, tau float64) {
	ac.h = L / float64(n)
	ac.tau = tau

	// Replacing the spatial derivative with a central difference and the
	// time derivative with semi-implicit Euler (the nonlinear term taken
	// at the previous time level) gives, with C:=tau/h²,
	//  -C*u^{k+1}_{i-1} + (1+2*C)*u^{k+1}_i - C*u^{k+1}_{i+1} = u^k_i - tau/ξ²*f'(u^k_i)
	// for every interior node. Eliminating the ghost nodes outside [0,L]
	// via the zero-flux boundary condition and halving the two boundary
	// rows to keep the matrix symmetric gives
	//  (1/2+C)*u^{k+1}_0 - C*u^{k+1}_1 = ...
	//  -C*u^{k+1}_{n-1} + (1/2+C)*u^{k+1}_n = ...
	// The resulting matrix is tridiagonal and symmetric positive-definite.
	c := ac.tau / ac.h / ac.h
	coo := sparse.NewCOO(n+1, n+1)
	coo.Append(0, 0, 0.5+c)
	coo.Append(0, 1, -c)
	coo.Append(1, 0, -c)
	for i := 1; i < n; i++ {
		coo.Append(i, i, 1+2*c)
		if i+1 <= n {
			coo.Append(i, i+1, -c)
			coo.Append(i+1, i, -c)
		}
	}
	coo.Append(n, n, 0.5+c)
	ac.a = coo.ToCSR()

	ac.b = make([]float64, n+1)
	ac.u = make([]float64, n+1)
	for i := range ac.u {
		ac.u[i] = ac.initCond(float64(i) * ac.h)
	}

	ac.ls = &linsolve.CG{}
	ac.settings = linsolve.Settings{
		// Solution from the previous time step is a good initial estimate.
		InitX: append([]float64(nil), ac.u...),
		Dst:   ac.u,
		Work:  linsolve.NewContext(n + 1),
		Params: param.ITSParam{
			Tolerance: 1e-10,
		},
	}
}

// step advances the solution one step in time.
func (ac *allenCahnFD) step() error {
	tauXi2 := ac.tau / ac.xi / ac.xi
	n := len(ac.u)
	for i, ui := range ac.u {
		bi := ui - tauXi2*fPrime(ui)
		if i == 0 || i == n-1 {
			bi *= 0.5
		}
		ac.b[i] = bi
	}
	ac.settings.InitX = append(ac.settings.InitX[:0], ac.u...)
	_, err := linsolve.Iterative(ac.a, ac.b, ac.ls, &ac.settings)
	return err
}

func TestAllenCahnEvolution(t *testing.T) {
	const (
		L   = 10.0
		nx  = 200
		nt  = 20
		tau = 0.1 * L / nx
		xi  = 6.0 * L / nx
	)
	rnd := rand.New(rand.NewSource(1))
	ac := allenCahnFD{
		xi: xi,
		initCond: func(x float64) float64 {
			// Perturbation of the unstable zero state, the peak of f.
			return 0.01 * rnd.NormFloat64()
		},
	}
	ac.setup(nx, L, tau)

	for i := 1; i <= nt; i++ {
		require.NoError(t, ac.step())
		require.False(t, vecalg.HasNaN(ac.u))
		for _, v := range ac.u {
			require.Less(t, math.Abs(v), 2.0)
		}
	}
}
