package poly

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Term is a single monomial coef * x1^I * x2^J.
type Term struct {
	Coef float64
	I, J int
}

// Index returns the upper-triangular multi-index position of the term.
func (t Term) Index() int { return Index(t.I, t.J) }

// Eval evaluates the monomial at (x, y).
func (t Term) Eval(x, y float64) float64 {
	return t.Coef * intPow(x, t.I) * intPow(y, t.J)
}

// Index maps the exponent pair (i, j) to its upper-triangular position.
func Index(i, j int) int {
	n := i + j
	return n*(n+1)/2 + j
}

// Exponents inverts Index, recovering (i, j) from an upper-triangular
// position.
func Exponents(idx int) (i, j int) {
	n := 0
	for (n+1)*(n+2)/2 <= idx {
		n++
	}
	j = idx - n*(n+1)/2
	return n - j, j
}

// DimDegree returns the dimension of the space of polynomials of total
// degree at most deg.
func DimDegree(deg int) int { return (deg + 1) * (deg + 2) / 2 }

// Poly is a polynomial in two variables stored as consolidated terms sorted
// by multi-index. The zero value is the zero polynomial.
type Poly struct {
	Terms []Term
}

// New builds a polynomial from coefficient/exponent triples.
func New(terms ...Term) Poly {
	p := Poly{Terms: append([]Term(nil), terms...)}
	p.consolidate()
	return p
}

// Constant returns the constant polynomial c.
func Constant(c float64) Poly {
	return New(Term{Coef: c})
}

// FromIndexed builds a polynomial from parallel coefficient and
// upper-triangular index slices.
func FromIndexed(coefs []float64, idxs []int) (Poly, error) {
	if len(coefs) != len(idxs) {
		return Poly{}, fmt.Errorf("%w: %d coefficients, %d indices",
			ErrLengthMismatch, len(coefs), len(idxs))
	}
	terms := make([]Term, 0, len(coefs))
	for k, c := range coefs {
		if idxs[k] < 0 {
			return Poly{}, fmt.Errorf("%w: index %d", ErrBadIndex, idxs[k])
		}
		i, j := Exponents(idxs[k])
		terms = append(terms, Term{Coef: c, I: i, J: j})
	}
	return New(terms...), nil
}

// Monomial returns the monomial with unit coefficient at the given
// upper-triangular index.
func Monomial(idx int) Poly {
	i, j := Exponents(idx)
	return New(Term{Coef: 1, I: i, J: j})
}

func (p *Poly) consolidate() {
	sort.SliceStable(p.Terms, func(a, b int) bool {
		return p.Terms[a].Index() < p.Terms[b].Index()
	})
	out := p.Terms[:0]
	for _, t := range p.Terms {
		if len(out) > 0 && out[len(out)-1].Index() == t.Index() {
			out[len(out)-1].Coef += t.Coef
			continue
		}
		out = append(out, t)
	}
	keep := out[:0]
	for _, t := range out {
		if t.Coef != 0 {
			keep = append(keep, t)
		}
	}
	p.Terms = keep
}

// IsZero reports whether the polynomial has no nonzero terms.
func (p Poly) IsZero() bool { return len(p.Terms) == 0 }

// Degree returns the total degree, or -1 for the zero polynomial.
func (p Poly) Degree() int {
	deg := -1
	for _, t := range p.Terms {
		if d := t.I + t.J; d > deg {
			deg = d
		}
	}
	return deg
}

// Eval evaluates the polynomial at a single point.
func (p Poly) Eval(x, y float64) float64 {
	var v float64
	for _, t := range p.Terms {
		v += t.Eval(x, y)
	}
	return v
}

// EvalSlice evaluates the polynomial at each point of two parallel
// coordinate slices.
func (p Poly) EvalSlice(x, y []float64) []float64 {
	vals := make([]float64, len(x))
	for k := range x {
		vals[k] = p.Eval(x[k], y[k])
	}
	return vals
}

// Add returns p + q.
func (p Poly) Add(q Poly) Poly {
	terms := make([]Term, 0, len(p.Terms)+len(q.Terms))
	terms = append(terms, p.Terms...)
	terms = append(terms, q.Terms...)
	return New(terms...)
}

// Sub returns p - q.
func (p Poly) Sub(q Poly) Poly { return p.Add(q.Scale(-1)) }

// AddConst returns p + c.
func (p Poly) AddConst(c float64) Poly { return p.Add(Constant(c)) }

// Scale returns c * p.
func (p Poly) Scale(c float64) Poly {
	terms := make([]Term, len(p.Terms))
	for k, t := range p.Terms {
		terms[k] = Term{Coef: c * t.Coef, I: t.I, J: t.J}
	}
	return New(terms...)
}

// Mul returns the product p * q.
func (p Poly) Mul(q Poly) Poly {
	terms := make([]Term, 0, len(p.Terms)*len(q.Terms))
	for _, a := range p.Terms {
		for _, b := range q.Terms {
			terms = append(terms, Term{
				Coef: a.Coef * b.Coef,
				I:    a.I + b.I,
				J:    a.J + b.J,
			})
		}
	}
	return New(terms...)
}

// Pow raises p to a nonnegative integer power.
func (p Poly) Pow(k int) (Poly, error) {
	if k < 0 {
		return Poly{}, fmt.Errorf("%w: exponent %d", ErrBadExponent, k)
	}
	out := Constant(1)
	for e := 0; e < k; e++ {
		out = out.Mul(p)
	}
	return out, nil
}

// Compose returns p(q1(x, y), q2(x, y)).
func (p Poly) Compose(q1, q2 Poly) (Poly, error) {
	out := Poly{}
	for _, t := range p.Terms {
		a, err := q1.Pow(t.I)
		if err != nil {
			return Poly{}, err
		}
		b, err := q2.Pow(t.J)
		if err != nil {
			return Poly{}, err
		}
		out = out.Add(a.Mul(b).Scale(t.Coef))
	}
	return out, nil
}

// PartialX returns the partial derivative with respect to x1.
func (p Poly) PartialX() Poly {
	terms := make([]Term, 0, len(p.Terms))
	for _, t := range p.Terms {
		if t.I > 0 {
			terms = append(terms, Term{Coef: t.Coef * float64(t.I), I: t.I - 1, J: t.J})
		}
	}
	return New(terms...)
}

// PartialY returns the partial derivative with respect to x2.
func (p Poly) PartialY() Poly {
	terms := make([]Term, 0, len(p.Terms))
	for _, t := range p.Terms {
		if t.J > 0 {
			terms = append(terms, Term{Coef: t.Coef * float64(t.J), I: t.I, J: t.J - 1})
		}
	}
	return New(terms...)
}

// Grad returns both partial derivatives.
func (p Poly) Grad() (gx, gy Poly) {
	return p.PartialX(), p.PartialY()
}

// Laplacian returns the Laplacian of p.
func (p Poly) Laplacian() Poly {
	gx, gy := p.Grad()
	return gx.PartialX().Add(gy.PartialY())
}

// AntiLaplacian returns the canonical polynomial P with Laplacian(P) = p,
// built monomial by monomial from iterated Laplacians weighted against
// powers of |x|^2. The construction is deterministic, so equal inputs give
// identical outputs.
func (p Poly) AntiLaplacian() Poly {
	sq := New(Term{Coef: 1, I: 2}, Term{Coef: 1, J: 2})
	out := Poly{}
	for _, t := range p.Terms {
		order := t.I + t.J
		n := order / 2

		pk := sq
		lk := New(t)
		scale := 0.25 / float64(1+order)
		pa := pk.Mul(lk).Scale(scale)

		for k := 1; k <= n; k++ {
			pk = pk.Mul(sq)
			lk = lk.Laplacian()
			scale *= -0.25 / float64((k+1)*(order+1-k))
			pa = pa.Add(pk.Mul(lk).Scale(scale))
		}
		out = out.Add(pa)
	}
	return out
}

// AntiDerivX returns the partial antiderivative of p with respect to x1.
// Paired with the divergence theorem it reduces cell-interior integrals of
// p to boundary integrals against the first normal component.
func (p Poly) AntiDerivX() Poly {
	terms := make([]Term, len(p.Terms))
	for k, t := range p.Terms {
		terms[k] = Term{Coef: t.Coef / float64(t.I+1), I: t.I + 1, J: t.J}
	}
	return New(terms...)
}

// Equal reports whether p and q have identical consolidated terms up to tol
// in each coefficient.
func (p Poly) Equal(q Poly, tol float64) bool {
	d := p.Sub(q)
	for _, t := range d.Terms {
		if math.Abs(t.Coef) > tol {
			return false
		}
	}
	return true
}

func intPow(x float64, k int) float64 {
	v := 1.0
	for e := 0; e < k; e++ {
		v *= x
	}
	return v
}

func (p Poly) String() string {
	if p.IsZero() {
		return "+ (0)"
	}
	var b strings.Builder
	for _, t := range p.Terms {
		fmt.Fprintf(&b, "+ (%g) x^%d y^%d ", t.Coef, t.I, t.J)
	}
	return strings.TrimSpace(b.String())
}
