package solver

import (
	"fmt"
	"math"
	"sync"

	"github.com/james-bowman/sparse"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

const (
	defaultTol         = 1e-12
	defaultIterFactor  = 10
	minDefaultMaxIters = 200
)

// Solver assembles and solves the global linear system for a bilinear
// form over a global function space.
type Solver struct {
	Space   *GlobalFunctionSpace
	Form    BilinearForm
	Verbose bool

	// MaxIter and Tol control conjugate gradients; zero values select
	// defaults proportional to the system size.
	MaxIter int
	Tol     float64

	sys  *sparse.CSR
	rhs  []float64
	coef []float64
}

// NewSolver validates the form and pairs it with the space.
func NewSolver(space *GlobalFunctionSpace, form BilinearForm) (*Solver, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	return &Solver{Space: space, Form: form}, nil
}

type cellContribution struct {
	dofs []int
	mat  [][]float64
	load []float64
}

// Assemble computes every cell's local matrices in parallel and scatters
// them into the global sparse system, eliminating Dirichlet DOFs by
// identity rows.
func (s *Solver) Assemble() error {
	sp := s.Space
	if err := sp.ComputeAll(); err != nil {
		return err
	}

	contribs := make([]*cellContribution, len(sp.CellSpaces))
	var mu sync.Mutex
	var g errgroup.Group
	for idx := range sp.CellSpaces {
		idx := idx
		g.Go(func() error {
			c, err := s.cellMatrices(idx)
			if err != nil {
				return fmt.Errorf("cell %d: %w", idx, err)
			}
			mu.Lock()
			contribs[idx] = c
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	n := sp.NumDOF()
	dok := sparse.NewDOK(n, n)
	rhs := make([]float64, n)
	for _, c := range contribs {
		for i, ri := range c.dofs {
			if sp.IsDirichlet(ri) {
				continue
			}
			rhs[ri] += c.load[i]
			for j, rj := range c.dofs {
				if sp.IsDirichlet(rj) {
					continue
				}
				dok.Set(ri, rj, dok.At(ri, rj)+c.mat[i][j])
			}
		}
	}
	for i := 0; i < n; i++ {
		if sp.IsDirichlet(i) {
			dok.Set(i, i, 1)
			rhs[i] = 0
		}
	}
	s.sys = dok.ToCSR()
	s.rhs = rhs
	s.coef = nil
	if s.Verbose {
		fmt.Printf("assembled %d x %d system, %d nonzeros\n", n, n, s.sys.NNZ())
	}
	return nil
}

func (s *Solver) cellMatrices(idx int) (*cellContribution, error) {
	cs := s.Space.CellSpaces[idx]
	funs := cs.Funs()
	f, err := s.Form.RHSFun(s.Space.Solvers[idx])
	if err != nil {
		return nil, err
	}

	c := &cellContribution{
		dofs: make([]int, len(funs)),
		mat:  make([][]float64, len(funs)),
		load: make([]float64, len(funs)),
	}
	for i, v := range funs {
		c.dofs[i] = v.Key.GlobIdx
		c.mat[i] = make([]float64, len(funs))
		c.load[i], err = f.L2InnerProduct(v)
		if err != nil {
			return nil, err
		}
		for j, w := range funs {
			if j > i {
				break
			}
			b, err := s.Form.Eval(v, w)
			if err != nil {
				return nil, err
			}
			c.mat[i][j] = b
		}
	}
	// The form is symmetric; mirror the lower triangle.
	for i := range funs {
		for j := i + 1; j < len(funs); j++ {
			c.mat[i][j] = c.mat[j][i]
		}
	}
	return c, nil
}

// Solve runs Jacobi-preconditioned conjugate gradients on the assembled
// system.
func (s *Solver) Solve() error {
	if s.sys == nil {
		return ErrNotAssembled
	}
	n := len(s.rhs)
	tol := s.Tol
	if tol == 0 {
		tol = defaultTol
	}
	maxIter := s.MaxIter
	if maxIter == 0 {
		maxIter = defaultIterFactor * n
		if maxIter < minDefaultMaxIters {
			maxIter = minDefaultMaxIters
		}
	}

	invDiag := make([]float64, n)
	for i := 0; i < n; i++ {
		d := s.sys.At(i, i)
		if d == 0 {
			d = 1
		}
		invDiag[i] = 1 / d
	}

	x := make([]float64, n)
	r := append([]float64(nil), s.rhs...)
	z := make([]float64, n)
	for i := range z {
		z[i] = invDiag[i] * r[i]
	}
	p := append([]float64(nil), z...)
	ap := make([]float64, n)

	rz := floats.Dot(r, z)
	bnorm := floats.Norm(s.rhs, 2)
	if bnorm == 0 {
		s.coef = x
		return nil
	}

	for iter := 0; iter < maxIter; iter++ {
		sparse.MulMatRawVec(s.sys, p, ap)
		alpha := rz / floats.Dot(p, ap)
		floats.AddScaled(x, alpha, p)
		floats.AddScaled(r, -alpha, ap)

		res := floats.Norm(r, 2) / bnorm
		if s.Verbose && iter%50 == 0 {
			fmt.Printf("cg iter %4d relative residual %.3e\n", iter, res)
		}
		if res < tol || math.IsNaN(res) {
			if math.IsNaN(res) {
				return ErrNoConvergence
			}
			s.coef = x
			if s.Verbose {
				fmt.Printf("cg converged in %d iterations\n", iter+1)
			}
			return nil
		}

		for i := range z {
			z[i] = invDiag[i] * r[i]
		}
		rzNext := floats.Dot(r, z)
		beta := rzNext / rz
		rz = rzNext
		for i := range p {
			p[i] = z[i] + beta*p[i]
		}
	}
	return ErrNoConvergence
}

// Coefficients returns the solved DOF vector.
func (s *Solver) Coefficients() ([]float64, error) {
	if s.coef == nil {
		return nil, ErrNotSolved
	}
	return append([]float64(nil), s.coef...), nil
}

// Solution wraps the coefficients for per-cell reconstruction.
func (s *Solver) Solution() (*GlobalSolution, error) {
	coef, err := s.Coefficients()
	if err != nil {
		return nil, err
	}
	return &GlobalSolution{Space: s.Space, Coef: coef}, nil
}
