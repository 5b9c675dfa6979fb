// Package fraction implements the small exact rational arithmetic used to
// combine inheritance shares. Denominators stay tiny (the largest classical
// problem base is 24, scaled by head counts), so int64 is ample.
package fraction

import (
	"fmt"
	"strconv"
)

// Frac is a rational number kept in lowest terms with a positive denominator.
// The zero value is 0/1 once normalized; use New or Zero to build values.
type Frac struct {
	Num int64
	Den int64
}

var (
	Zero = Frac{0, 1}
	One  = Frac{1, 1}
)

// New returns num/den in lowest terms. It panics on a zero denominator,
// which only a programming error can produce.
func New(num, den int64) Frac {
	if den == 0 {
		panic("fraction: zero denominator")
	}
	if den < 0 {
		num, den = -num, -den
	}
	g := GCD(abs(num), den)
	if g == 0 {
		return Zero
	}
	return Frac{num / g, den / g}
}

func (f Frac) norm() Frac {
	if f.Den == 0 {
		return Zero
	}
	return New(f.Num, f.Den)
}

func (f Frac) Add(o Frac) Frac {
	f, o = f.norm(), o.norm()
	l := LCM(f.Den, o.Den)
	return New(f.Num*(l/f.Den)+o.Num*(l/o.Den), l)
}

func (f Frac) Sub(o Frac) Frac {
	o = o.norm()
	return f.Add(Frac{-o.Num, o.Den})
}

func (f Frac) Mul(o Frac) Frac {
	f, o = f.norm(), o.norm()
	// cross-reduce first to keep intermediates small
	g1 := GCD(abs(f.Num), o.Den)
	g2 := GCD(abs(o.Num), f.Den)
	if g1 == 0 {
		g1 = 1
	}
	if g2 == 0 {
		g2 = 1
	}
	return New((f.Num/g1)*(o.Num/g2), (f.Den/g2)*(o.Den/g1))
}

// Div returns f/o. o must be non-zero.
func (f Frac) Div(o Frac) Frac {
	o = o.norm()
	if o.Num == 0 {
		panic("fraction: division by zero")
	}
	return f.Mul(New(o.Den, o.Num))
}

func (f Frac) MulInt(n int64) Frac {
	return f.Mul(Frac{n, 1})
}

func (f Frac) DivInt(n int64) Frac {
	return f.Div(Frac{n, 1})
}

// Cmp returns -1, 0 or +1.
func (f Frac) Cmp(o Frac) int {
	d := f.Sub(o)
	switch {
	case d.Num < 0:
		return -1
	case d.Num > 0:
		return 1
	}
	return 0
}

func (f Frac) IsZero() bool {
	return f.Num == 0
}

func (f Frac) IsPositive() bool {
	return f.norm().Num > 0
}

func (f Frac) Float64() float64 {
	f = f.norm()
	return float64(f.Num) / float64(f.Den)
}

func (f Frac) String() string {
	f = f.norm()
	return strconv.FormatInt(f.Num, 10) + "/" + strconv.FormatInt(f.Den, 10)
}

// Percent formats f as a percentage with two decimals, e.g. "16.67%".
func (f Frac) Percent() string {
	return fmt.Sprintf("%.2f%%", f.Float64()*100)
}

// Over expresses f with the given denominator. ok is false when base is not
// a multiple of f's reduced denominator.
func (f Frac) Over(base int64) (num int64, ok bool) {
	f = f.norm()
	if base <= 0 || base%f.Den != 0 {
		return 0, false
	}
	return f.Num * (base / f.Den), true
}

// Sum adds fractions.
func Sum(fs ...Frac) Frac {
	total := Zero
	for _, f := range fs {
		total = total.Add(f)
	}
	return total
}

func GCD(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func LCM(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	return a / GCD(a, b) * b
}

// LCMOf folds LCM over dens; it returns 1 for no input.
func LCMOf(dens ...int64) int64 {
	l := int64(1)
	for _, d := range dens {
		l = LCM(l, d)
	}
	return l
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
