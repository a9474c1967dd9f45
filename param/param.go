// Package param holds the immutable configuration value types passed by
// reference to solvers and the AMG setup/cycle engine. Mirroring
// gonum.org/v1/gonum/linsolve's Settings, values are plain structs with a
// defaulting pass; nothing here is mutated once a solve begins.
package param

// Verbosity controls how much an iterative process logs. Values are
// ordered from quietest to loudest.
type Verbosity int

const (
	// VerbNone prints nothing.
	VerbNone Verbosity = iota
	// VerbMin logs nothing in linsolve.Iterative; no final-outcome line
	// is printed at any level.
	VerbMin
	// VerbSome makes linsolve.Iterative log "iter=N absres=R" once per
	// iteration; the relative residual and the convergence factor are
	// not logged.
	VerbSome
	// VerbMore logs the same per-iteration line as VerbSome; restarts,
	// stagnations and true-residual recomputations are not logged.
	VerbMore
	// VerbMost logs the same per-iteration line as VerbSome.
	VerbMost
)

// StopType selects the residual-based stopping criterion used by the
// Krylov engine, per spec.md §4.5.
type StopType int

const (
	// StopRelRes checks ‖r‖ / ‖b‖.
	StopRelRes StopType = iota
	// StopRelPrecRes checks √(⟨r, M⁻¹r⟩) / ‖b‖.
	StopRelPrecRes
	// StopModRelRes checks ‖r‖ / ‖x‖.
	StopModRelRes
)

// Numeric sentinels from spec.md §6.
const (
	SmallReal = 1e-20
	BigReal   = 1e36
)

// Safe-net constants from spec.md §4.5.
const (
	DefaultMaxStag    = 20
	DefaultMaxRestart = 20
	StagRatio         = 1e-2
)

// ITSParam configures a Krylov solve. The zero value is not directly
// usable; call WithDefaults to fill in unset fields before use, exactly
// as gonum's defaultSettings fills a Settings value.
type ITSParam struct {
	Tolerance     float64
	AbsTolerance  float64
	MaxIterations int
	Restart       int // 0 means dim(A); Iterative does not pass it on, GMRES/VGMRES read their own Restart field.
	StopType      StopType
	MaxStag       int
	MaxRestart    int
	Verbosity     Verbosity
}

// WithDefaults returns a copy of p with zero fields replaced by defaults
// appropriate for a system of the given dimension.
func (p ITSParam) WithDefaults(dim int) ITSParam {
	if p.Tolerance <= 0 {
		p.Tolerance = 1e-8
	}
	if p.MaxIterations <= 0 {
		p.MaxIterations = 2 * dim
	}
	if p.MaxStag <= 0 {
		p.MaxStag = DefaultMaxStag
	}
	if p.MaxRestart <= 0 {
		p.MaxRestart = DefaultMaxRestart
	}
	if p.Restart <= 0 {
		p.Restart = dim
	}
	if p.Restart > dim {
		p.Restart = dim
	}
	return p
}

// CoarseningType selects the AMG strength-of-connection / CF-splitting
// policy, per spec.md §4.6.
type CoarseningType int

const (
	// CoarseningModifiedRS is the modified Ruge-Stüben strength test.
	CoarseningModifiedRS CoarseningType = iota
	// CoarseningClassicalNeg uses classical negative-only couplings.
	CoarseningClassicalNeg
	// CoarseningClassicalAbs uses classical absolute-value couplings.
	CoarseningClassicalAbs
	// CoarseningCR replaces pass 1 of CF-splitting with compatible
	// relaxation.
	CoarseningCR
)

// CycleType selects the AMG multi-level cycle shape, per spec.md §4.7.
type CycleType int

const (
	// CycleV is the standard V-cycle (one recursive call per level).
	CycleV CycleType = iota
	// CycleW is the W-cycle (two recursive calls per level).
	CycleW
	// CycleFMG is full multigrid.
	CycleFMG
	// CycleNLAMLI is nonlinear AMLI (Krylov-accelerated coarse solve).
	CycleNLAMLI
)

// SmootherType selects the relaxation scheme used at each AMG level.
type SmootherType int

const (
	SmootherJacobi SmootherType = iota
	SmootherGSForward
	SmootherGSBackward
	SmootherGSSymmetric
	SmootherSOR
	SmootherPoly
	SmootherILU
	SmootherSchwarz
)

// AMGParam configures hierarchy setup and the cycle engine.
type AMGParam struct {
	MaxLevels     int
	CoarsestMaxN  int
	Coarsening    CoarseningType
	StrengthTheta float64 // θ_str
	MaxRowSum     float64 // θ_max
	CRThreshold   float64 // ρ threshold for compatible relaxation, default 0.8

	Cycle        CycleType
	CycleCount   int // 1 = V, 2 = W; 0 means 2 for CycleW, else 1; only meaningful when Cycle != CycleFMG/CycleNLAMLI
	PreSweeps    int
	PostSweeps   int
	Smoother     SmootherType
	SORWeight    float64
	PolyDegree   int
	AMLIDegree   int // k inner Krylov iterations for nonlinear AMLI

	Verbosity Verbosity
}

// WithDefaults fills zero fields of p with FASP-typical defaults.
func (p AMGParam) WithDefaults() AMGParam {
	if p.MaxLevels <= 0 {
		p.MaxLevels = 20
	}
	if p.CoarsestMaxN <= 0 {
		p.CoarsestMaxN = 50
	}
	if p.StrengthTheta <= 0 {
		p.StrengthTheta = 0.25
	}
	if p.MaxRowSum <= 0 {
		p.MaxRowSum = 0.9
	}
	if p.CRThreshold <= 0 {
		p.CRThreshold = 0.8
	}
	if p.CycleCount <= 0 {
		p.CycleCount = 1
		if p.Cycle == CycleW {
			p.CycleCount = 2
		}
	}
	if p.PreSweeps <= 0 {
		p.PreSweeps = 1
	}
	if p.PostSweeps <= 0 {
		p.PostSweeps = 1
	}
	if p.SORWeight <= 0 {
		p.SORWeight = 1.0
	}
	if p.PolyDegree <= 0 {
		p.PolyDegree = 3
	}
	if p.AMLIDegree <= 0 {
		p.AMLIDegree = 2
	}
	return p
}
