/*
Package linsolve provides iterative (Krylov subspace) methods for solving
sparse linear systems.

Background

A system of linear equations can be written as

 A * x = b,

where A is a given n×n non-singular matrix, b is a given n-vector (the
right-hand side), and x is an unknown n-vector.

Direct methods such as the LU or Cholesky decomposition compute (in the
absence of roundoff errors) the exact solution after a finite number of
steps. For a general sparse matrix A arising from a discretized PDE they are
usually infeasible at scale: fill-in during factorization turns an O(n)-
nonzero matrix into an O(n^2)-nonzero factor.

Iterative methods, in contrast, generally do not compute the exact solution
x. Starting from an initial estimate x_0, they instead compute a sequence x_i
of increasingly accurate approximations to x, stopping once the estimated
residual falls below a prescribed threshold. The methods implemented in this
package do not access the elements of A directly; they instead ask for the
result of matrix-vector products with A (see sparse.Operator), which can
exploit whatever storage scheme (CSR, BSR, STR, ...) the caller chose for A.

Using linsolve

The two most important elements of the API are the sparse.Operator interface
and the Iterative function.

sparse.Operator interface

The sparse.Operator interface represents the system matrix A. This abstracts
the details of any particular matrix storage, and allows the caller to
exploit the properties of their particular matrix. The sparse package's CSR,
COO, BSR, STR, BlockCSR and CSRL types all implement it. BiCG additionally
requires Aᵀ products, which a caller exposes by also implementing
sparse.Transposer (sparse.CSR does).

Iterative function

Iterative is the entry point to the functionality provided by this package.
It takes the matrix A (via sparse.Operator), the right-hand side b, the
iterative method, and Settings controlling the stopping criterion,
preconditioner, and iteration cap.

Choosing an iterative method

The choice of method is guided by the properties of A: CG requires A and the
preconditioner to be symmetric positive definite and is the default choice
when that holds. GCG tolerates indefinite symmetric A at the cost of memory
growing linearly with the iteration count. BiCG and BiCGStab handle general
nonsymmetric A; BiCGStab is usually preferred since it avoids the Aᵀ
multiplication BiCG needs and tends to converge more smoothly. GMRES handles
general nonsymmetric A without requiring Aᵀ, at the cost of restart-length
dependent storage. VBiCGStab and VGMRES are the same algorithms adapted to
tolerate a preconditioner that is not a fixed linear operator (for instance
an inner iterative solve run to loose tolerance, or an AMG cycle whose
relaxation pattern varies): VBiCGStab re-synchronizes its shadow residual
when bi-orthogonality collapses rather than declaring breakdown immediately,
and GMRES is implemented right-preconditioned from the start, which already
gives it this tolerance (VGMRES exists for API symmetry only).

Preconditioning

Preconditioning is a family of techniques that attempt to transform the
linear system into one that has the same solution but more favorable
eigenspectrum. The transformation is called a preconditioner. A good
preconditioner reduces the number of iterations needed to find a good
approximate solution (hopefully enough to overcome the cost of applying it),
and for indefinite or ill-conditioned systems is often necessary for any
convergence at all. In linsolve a preconditioner is specified by
Settings.Precon; the amg package's cycle engine is the preconditioner this
toolkit is built around, but any PreconSolve works, including the identity
(NoPreconditioner).

The safe net

Krylov recurrences compute the residual norm incrementally rather than by
explicitly forming b-A*x at every step, which is what makes them cheap — but
it also means the recurrence's estimate of the residual can drift from the
true residual, and the underlying three-term recurrences can break down when
an inner product vanishes. Iterative wraps every Method in one shared state
machine that tracks the best iterate seen, detects a collapsed or NaN
iterate, detects stagnation (successive iterates barely differing) and false
convergence (the recurrence disagreeing with a freshly recomputed true
residual), and recovers from each up to a fixed budget before finally
restoring the best iterate and returning a typed *ferr.SolverError. This logic
lives once in Iterative rather than being duplicated in each Method, since it
applies uniformly regardless of which Krylov recurrence produced x.

Implementing Method interface

This package allows external implementations of iterative solvers by means
of the Method interface. It uses a reverse-communication style of API to
"outsource" operations such as matrix-vector multiplication, preconditioner
solve, or convergence checks to the caller (Iterative). The caller performs
the commanded operation and passes the result again to Method.Iterate. The
matrix A and the right-hand side b are not directly available to Methods,
which keeps their implementation free of assumptions about matrix storage.
See the documentation for Method, Operation, and Context for more
information.

References

Further details about computational practice and mathematical theory of
iterative methods can be found in the following references:

 - Barrett, Richard et al. (1994). Templates for the Solution of Linear Systems:
   Building Blocks for Iterative Methods (2nd ed.). Philadelphia, PA: SIAM.
   Retrieved from http://www.netlib.org/templates/templates.pdf
 - Saad, Yousef (2003). Iterative methods for sparse linear systems (2nd ed.).
   Philadelphia, PA: SIAM. Retrieved from
   http://www-users.cs.umn.edu/~saad/IterMethBook_2ndEd.pdf
 - Greenbaum, A. (1997). Iterative methods for solving linear systems.
   Philadelphia, PA: SIAM.
*/
package linsolve
