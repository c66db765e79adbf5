// Copyright © 2026 The Verst authors

package lang

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatNormalization(t *testing.T) {
	v := Rat(big.NewRat(4, 2))
	require.Equal(t, KInt, v.Kind)
	assert.Equal(t, "2", v.String())

	v = Rat(big.NewRat(1, 3))
	require.Equal(t, KRat, v.Kind)
	assert.Equal(t, "1/3", v.String())
}

func TestBoolSingletons(t *testing.T) {
	assert.Same(t, Bool(true), Bool(true))
	assert.Same(t, Bool(false), Bool(false))
	assert.Same(t, Unit(), Unit())
	assert.NotSame(t, Bool(true), Bool(false))
}

func TestNumericEqual(t *testing.T) {
	eq := func(a, b *Val) bool {
		r := a.Equal(b)
		require.Equal(t, KBool, r.Kind)
		return r.Bool
	}
	assert.True(t, eq(Int(1), Int(1)))
	assert.True(t, eq(Int(1), Float(1.0)))
	assert.True(t, eq(Rat(big.NewRat(1, 2)), Float(0.5)))
	assert.False(t, eq(Int(1), Rat(big.NewRat(1, 2))))
	assert.False(t, eq(Float(1.5), Int(2)))
}

func TestNonFiniteFloatComparison(t *testing.T) {
	inf := Float(math.Inf(1))
	neg := Float(math.Inf(-1))

	r := inf.Equal(Int(0))
	require.Equal(t, KBool, r.Kind)
	assert.False(t, r.Bool)

	c, ok := numCmp(neg, Int(0))
	require.True(t, ok)
	assert.Equal(t, -1, c)

	c, ok = numCmp(inf, neg)
	require.True(t, ok)
	assert.Equal(t, 1, c)

	c, ok = numCmp(inf, Float(math.Inf(1)))
	require.True(t, ok)
	assert.Equal(t, 0, c)

	_, ok = numCmp(Float(math.NaN()), Int(0))
	assert.False(t, ok)

	r = Float(math.NaN()).Equal(Int(0))
	require.Equal(t, KError, r.Kind)
	assert.Equal(t, CondTypeMismatch, r.Str)
}

func TestEqualRejectsMixedKinds(t *testing.T) {
	r := String("a").Equal(Int(1))
	require.Equal(t, KError, r.Kind)
	assert.Equal(t, CondTypeMismatch, r.Str)

	r = Bool(true).Equal(Unit())
	require.Equal(t, KError, r.Kind)
	assert.Equal(t, CondTypeMismatch, r.Str)
}

func TestCompositeEqual(t *testing.T) {
	a := List([]*Val{Int(1), String("x")})
	b := List([]*Val{Int(1), String("x")})
	c := List([]*Val{Int(1), String("y")})
	assert.True(t, a.Equal(b).Bool)
	assert.False(t, a.Equal(c).Bool)
	assert.False(t, a.Equal(List([]*Val{Int(1)})).Bool)

	// Lists and tuples do not compare even with equal elements.
	r := a.Equal(Tuple([]*Val{Int(1), String("x")}))
	require.Equal(t, KError, r.Kind)
}

func TestRecordOps(t *testing.T) {
	rec := Record()
	rec.RecordSet("x", Int(1))
	rec.RecordSet("y", Int(2))
	rec.RecordSet("x", Int(9)) // overwrite keeps insertion order
	assert.Equal(t, []string{"x", "y"}, rec.Keys)
	assert.Equal(t, "9", rec.RecordGet("x").String())
	assert.Nil(t, rec.RecordGet("z"))
	assert.Equal(t, "{x: 9, y: 2}", rec.String())

	other := Record()
	other.RecordSet("y", Int(2))
	other.RecordSet("x", Int(9))
	// Field order does not matter for equality.
	assert.True(t, rec.Equal(other).Bool)
}

func TestCellOps(t *testing.T) {
	c := NewCell(Int(0))
	assert.Equal(t, "cell(0)", c.String())
	c.CellSet(Int(5))
	assert.Equal(t, "5", c.CellGet().String())

	// Cells compare by identity, not contents.
	other := NewCell(Int(5))
	assert.False(t, c.Equal(other).Bool)
	assert.True(t, c.Equal(c).Bool)
}

func TestValString(t *testing.T) {
	assert.Equal(t, "()", Unit().String())
	assert.Equal(t, "true", Bool(true).String())
	assert.Equal(t, `"a"`, String("a").String())
	assert.Equal(t, "'c'", Char('c').String())
	assert.Equal(t, ":name", Symbol(1, "name").String())
	assert.Equal(t, "(1, 2)", Tuple([]*Val{Int(1), Int(2)}).String())
	assert.Equal(t, "#<builtin +>",
		Fun("<builtin ``+''>", "+", func(env *Env, args *Val) *Val { return Unit() }).String())
}

func TestErrorVal(t *testing.T) {
	lerr := Errorf(CondTypeMismatch, "bad value: %d", 7)
	require.Equal(t, KError, lerr.Kind)
	ev := (*ErrorVal)(lerr)
	assert.Equal(t, CondTypeMismatch, ev.Condition())
	assert.Equal(t, "bad value: 7", ev.ErrorMessage())
	assert.Equal(t, "type-mismatch: bad value: 7", ev.Error())

	generic := Errorf(CondError, "plain failure")
	assert.Equal(t, "plain failure", (*ErrorVal)(generic).Error())

	assert.Error(t, GoError(lerr))
	assert.NoError(t, GoError(Int(1)))
	assert.NoError(t, GoError(nil))
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, Int(1).IsNumeric())
	assert.True(t, Rat(big.NewRat(1, 3)).IsNumeric())
	assert.True(t, Float(1).IsNumeric())
	assert.False(t, String("1").IsNumeric())
	assert.False(t, Bool(true).IsNumeric())
}

func TestLen(t *testing.T) {
	assert.Equal(t, 3, String("abc").Len())
	assert.Equal(t, 2, List([]*Val{Int(1), Int(2)}).Len())
	assert.Equal(t, -1, Int(1).Len())
}
