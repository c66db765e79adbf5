// Copyright © 2026 The Verst authors

// Package units implements the dimensional-analysis registry consumed by
// the evaluator when arithmetic is applied to quantity values.  The
// evaluator only routes operator application here and surfaces whatever
// error the registry raises.
package units

import (
	"fmt"
	"math/big"
	"strings"
)

// Dim is a vector of exponents over the seven SI base dimensions.
type Dim struct {
	Length, Mass, Time, Current, Temperature, Amount, Luminosity int
}

// Scalar reports whether d is dimensionless.
func (d Dim) Scalar() bool {
	return d == Dim{}
}

func (d Dim) add(o Dim) Dim {
	return Dim{
		d.Length + o.Length, d.Mass + o.Mass, d.Time + o.Time,
		d.Current + o.Current, d.Temperature + o.Temperature,
		d.Amount + o.Amount, d.Luminosity + o.Luminosity,
	}
}

func (d Dim) sub(o Dim) Dim {
	return Dim{
		d.Length - o.Length, d.Mass - o.Mass, d.Time - o.Time,
		d.Current - o.Current, d.Temperature - o.Temperature,
		d.Amount - o.Amount, d.Luminosity - o.Luminosity,
	}
}

func (d Dim) scale(n int) Dim {
	return Dim{
		d.Length * n, d.Mass * n, d.Time * n,
		d.Current * n, d.Temperature * n,
		d.Amount * n, d.Luminosity * n,
	}
}

// String renders the dimension in base-unit notation, e.g. "m*s^-1".
func (d Dim) String() string {
	parts := []struct {
		name string
		exp  int
	}{
		{"m", d.Length}, {"kg", d.Mass}, {"s", d.Time}, {"A", d.Current},
		{"K", d.Temperature}, {"mol", d.Amount}, {"cd", d.Luminosity},
	}
	var b strings.Builder
	for _, p := range parts {
		if p.exp == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("*")
		}
		b.WriteString(p.name)
		if p.exp != 1 {
			fmt.Fprintf(&b, "^%d", p.exp)
		}
	}
	if b.Len() == 0 {
		return "1"
	}
	return b.String()
}

// MismatchError reports an operation on quantities of incompatible
// dimensions, or a conversion between them.
type MismatchError struct {
	Op   string
	A, B Dim
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s: incompatible dimensions %s and %s", e.Op, e.A, e.B)
}

// UnknownUnitError reports a unit name absent from the registry.
type UnknownUnitError struct {
	Name string
}

func (e *UnknownUnitError) Error() string {
	return fmt.Sprintf("unknown unit: %s", e.Name)
}

// unit is a registered unit: a dimension and a conversion factor to the
// coherent base unit of that dimension.
type unit struct {
	dim    Dim
	factor *big.Rat
}

// Registry holds unit definitions for one session.
type Registry struct {
	units map[string]unit
}

// NewRegistry returns a registry seeded with SI base units and common
// derived and scaled units.
func NewRegistry() *Registry {
	r := &Registry{units: make(map[string]unit)}
	def := func(name string, dim Dim, num, den int64) {
		r.units[name] = unit{dim: dim, factor: big.NewRat(num, den)}
	}
	length := Dim{Length: 1}
	mass := Dim{Mass: 1}
	tim := Dim{Time: 1}
	def("m", length, 1, 1)
	def("km", length, 1000, 1)
	def("cm", length, 1, 100)
	def("mm", length, 1, 1000)
	def("kg", mass, 1, 1)
	def("g", mass, 1, 1000)
	def("mg", mass, 1, 1000000)
	def("s", tim, 1, 1)
	def("ms", tim, 1, 1000)
	def("min", tim, 60, 1)
	def("h", tim, 3600, 1)
	def("A", Dim{Current: 1}, 1, 1)
	def("K", Dim{Temperature: 1}, 1, 1)
	def("mol", Dim{Amount: 1}, 1, 1)
	def("cd", Dim{Luminosity: 1}, 1, 1)
	def("Hz", Dim{Time: -1}, 1, 1)
	def("N", Dim{Length: 1, Mass: 1, Time: -2}, 1, 1)
	def("J", Dim{Length: 2, Mass: 1, Time: -2}, 1, 1)
	def("W", Dim{Length: 2, Mass: 1, Time: -3}, 1, 1)
	def("L", Dim{Length: 3}, 1, 1000)
	return r
}

// Define registers a unit with the given dimension and a rational factor
// converting it to the coherent base unit.
func (r *Registry) Define(name string, dim Dim, factor *big.Rat) {
	r.units[name] = unit{dim: dim, factor: new(big.Rat).Set(factor)}
}

// Known reports whether name is a registered unit.
func (r *Registry) Known(name string) bool {
	_, ok := r.units[name]
	return ok
}

// Quantity is a magnitude with a dimension.  The magnitude is stored in
// coherent base units; Unit records the display unit when the quantity was
// built from a single named unit.
type Quantity struct {
	Mag  *big.Rat
	Dim  Dim
	Unit string // display hint; empty for computed dimensions
}

// Make builds a quantity of mag expressed in the named unit.
func (r *Registry) Make(mag *big.Rat, unitName string) (*Quantity, error) {
	u, ok := r.units[unitName]
	if !ok {
		return nil, &UnknownUnitError{Name: unitName}
	}
	return &Quantity{
		Mag:  new(big.Rat).Mul(mag, u.factor),
		Dim:  u.dim,
		Unit: unitName,
	}, nil
}

// Convert re-expresses q in the named unit.  The unit must share q's
// dimension.
func (r *Registry) Convert(q *Quantity, unitName string) (*Quantity, error) {
	u, ok := r.units[unitName]
	if !ok {
		return nil, &UnknownUnitError{Name: unitName}
	}
	if u.dim != q.Dim {
		return nil, &MismatchError{Op: "convert", A: q.Dim, B: u.dim}
	}
	return &Quantity{Mag: new(big.Rat).Set(q.Mag), Dim: q.Dim, Unit: unitName}, nil
}

// Add returns a+b.  The operands must share a dimension; the result keeps
// a's display unit.
func (r *Registry) Add(a, b *Quantity) (*Quantity, error) {
	if a.Dim != b.Dim {
		return nil, &MismatchError{Op: "+", A: a.Dim, B: b.Dim}
	}
	return &Quantity{Mag: new(big.Rat).Add(a.Mag, b.Mag), Dim: a.Dim, Unit: a.Unit}, nil
}

// Sub returns a-b under the same rules as Add.
func (r *Registry) Sub(a, b *Quantity) (*Quantity, error) {
	if a.Dim != b.Dim {
		return nil, &MismatchError{Op: "-", A: a.Dim, B: b.Dim}
	}
	return &Quantity{Mag: new(big.Rat).Sub(a.Mag, b.Mag), Dim: a.Dim, Unit: a.Unit}, nil
}

// Mul returns a*b with composed dimensions.
func (r *Registry) Mul(a, b *Quantity) *Quantity {
	q := &Quantity{Mag: new(big.Rat).Mul(a.Mag, b.Mag), Dim: a.Dim.add(b.Dim)}
	if q.Dim == a.Dim {
		q.Unit = a.Unit
	}
	return q
}

// Div returns a/b with composed dimensions.
func (r *Registry) Div(a, b *Quantity) (*Quantity, error) {
	if b.Mag.Sign() == 0 {
		return nil, fmt.Errorf("division by zero quantity")
	}
	q := &Quantity{Mag: new(big.Rat).Quo(a.Mag, b.Mag), Dim: a.Dim.sub(b.Dim)}
	if q.Dim == a.Dim {
		q.Unit = a.Unit
	}
	return q, nil
}

// Pow raises q to an integer power.
func (r *Registry) Pow(q *Quantity, n int) *Quantity {
	mag := big.NewRat(1, 1)
	base := new(big.Rat).Set(q.Mag)
	k := n
	if k < 0 {
		k = -k
	}
	for i := 0; i < k; i++ {
		mag.Mul(mag, base)
	}
	if n < 0 {
		mag.Inv(mag)
	}
	return &Quantity{Mag: mag, Dim: q.Dim.scale(n)}
}

// Cmp compares two quantities of the same dimension.
func (r *Registry) Cmp(a, b *Quantity) (int, error) {
	if a.Dim != b.Dim {
		return 0, &MismatchError{Op: "compare", A: a.Dim, B: b.Dim}
	}
	return a.Mag.Cmp(b.Mag), nil
}

// Scale multiplies q by a dimensionless rational.
func (r *Registry) Scale(q *Quantity, k *big.Rat) *Quantity {
	return &Quantity{Mag: new(big.Rat).Mul(q.Mag, k), Dim: q.Dim, Unit: q.Unit}
}

// String renders the quantity in base-unit notation.  Use Registry.Format
// to render in the recorded display unit.
func (q *Quantity) String() string {
	s := ratString(q.Mag)
	if q.Dim.Scalar() {
		return s
	}
	return s + " " + q.Dim.String()
}

// DisplayMag returns the magnitude expressed in q's display unit given the
// registry that produced q.
func (r *Registry) DisplayMag(q *Quantity) *big.Rat {
	if q.Unit == "" {
		return new(big.Rat).Set(q.Mag)
	}
	u, ok := r.units[q.Unit]
	if !ok {
		return new(big.Rat).Set(q.Mag)
	}
	return new(big.Rat).Quo(q.Mag, u.factor)
}

// Format renders q for user display using r to convert back into the
// display unit.
func (r *Registry) Format(q *Quantity) string {
	if q.Unit == "" {
		return q.String()
	}
	mag := r.DisplayMag(q)
	return ratString(mag) + " " + q.Unit
}

func ratString(x *big.Rat) string {
	if x.IsInt() {
		return x.Num().String()
	}
	return x.RatString()
}
