// Copyright © 2026 The Verst authors

package units

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeConvertsToBase(t *testing.T) {
	r := NewRegistry()
	q, err := r.Make(big.NewRat(5, 1), "km")
	require.NoError(t, err)
	assert.Equal(t, 0, q.Mag.Cmp(big.NewRat(5000, 1)))
	assert.Equal(t, Dim{Length: 1}, q.Dim)
	assert.Equal(t, "km", q.Unit)
}

func TestMakeUnknownUnit(t *testing.T) {
	r := NewRegistry()
	_, err := r.Make(big.NewRat(1, 1), "parsec")
	require.Error(t, err)
	assert.Equal(t, "unknown unit: parsec", err.Error())
}

func TestAddSubRequireSameDimension(t *testing.T) {
	r := NewRegistry()
	m, err := r.Make(big.NewRat(5, 1), "m")
	require.NoError(t, err)
	km, err := r.Make(big.NewRat(1, 1), "km")
	require.NoError(t, err)
	s, err := r.Make(big.NewRat(3, 1), "s")
	require.NoError(t, err)

	sum, err := r.Add(m, km)
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Mag.Cmp(big.NewRat(1005, 1)))
	assert.Equal(t, "m", sum.Unit)

	_, err = r.Add(m, s)
	require.Error(t, err)
	assert.Equal(t, "+: incompatible dimensions m and s", err.Error())

	diff, err := r.Sub(km, m)
	require.NoError(t, err)
	assert.Equal(t, 0, diff.Mag.Cmp(big.NewRat(995, 1)))

	_, err = r.Sub(m, s)
	require.Error(t, err)
}

func TestMulDivComposeDimensions(t *testing.T) {
	r := NewRegistry()
	d, err := r.Make(big.NewRat(6, 1), "m")
	require.NoError(t, err)
	tm, err := r.Make(big.NewRat(2, 1), "s")
	require.NoError(t, err)

	area := r.Mul(d, d)
	assert.Equal(t, Dim{Length: 2}, area.Dim)
	assert.Equal(t, 0, area.Mag.Cmp(big.NewRat(36, 1)))

	speed, err := r.Div(d, tm)
	require.NoError(t, err)
	assert.Equal(t, Dim{Length: 1, Time: -1}, speed.Dim)
	assert.Equal(t, 0, speed.Mag.Cmp(big.NewRat(3, 1)))

	// Dividing matching dimensions yields a scalar.
	ratio, err := r.Div(d, d)
	require.NoError(t, err)
	assert.True(t, ratio.Dim.Scalar())
	assert.Equal(t, 0, ratio.Mag.Cmp(big.NewRat(1, 1)))
}

func TestDivByZeroQuantity(t *testing.T) {
	r := NewRegistry()
	d, err := r.Make(big.NewRat(1, 1), "m")
	require.NoError(t, err)
	zero, err := r.Make(big.NewRat(0, 1), "s")
	require.NoError(t, err)
	_, err = r.Div(d, zero)
	require.Error(t, err)
}

func TestConvert(t *testing.T) {
	r := NewRegistry()
	d, err := r.Make(big.NewRat(5, 1), "m")
	require.NoError(t, err)
	q, err := r.Convert(d, "km")
	require.NoError(t, err)
	// The base magnitude does not change; only the display unit does.
	assert.Equal(t, 0, q.Mag.Cmp(big.NewRat(5, 1)))
	assert.Equal(t, "km", q.Unit)
	assert.Equal(t, 0, r.DisplayMag(q).Cmp(big.NewRat(1, 200)))

	_, err = r.Convert(d, "s")
	require.Error(t, err)
	assert.Equal(t, "convert: incompatible dimensions m and s", err.Error())
}

func TestPow(t *testing.T) {
	r := NewRegistry()
	d, err := r.Make(big.NewRat(2, 1), "m")
	require.NoError(t, err)
	cube := r.Pow(d, 3)
	assert.Equal(t, Dim{Length: 3}, cube.Dim)
	assert.Equal(t, 0, cube.Mag.Cmp(big.NewRat(8, 1)))

	inv := r.Pow(d, -1)
	assert.Equal(t, Dim{Length: -1}, inv.Dim)
	assert.Equal(t, 0, inv.Mag.Cmp(big.NewRat(1, 2)))
}

func TestCmp(t *testing.T) {
	r := NewRegistry()
	cm, err := r.Make(big.NewRat(100, 1), "cm")
	require.NoError(t, err)
	m, err := r.Make(big.NewRat(1, 1), "m")
	require.NoError(t, err)
	c, err := r.Cmp(cm, m)
	require.NoError(t, err)
	assert.Equal(t, 0, c)

	s, err := r.Make(big.NewRat(1, 1), "s")
	require.NoError(t, err)
	_, err = r.Cmp(m, s)
	require.Error(t, err)
}

func TestQuantityString(t *testing.T) {
	r := NewRegistry()
	d, err := r.Make(big.NewRat(5, 1), "m")
	require.NoError(t, err)
	tm, err := r.Make(big.NewRat(2, 1), "s")
	require.NoError(t, err)
	speed, err := r.Div(d, tm)
	require.NoError(t, err)
	assert.Equal(t, "5 m", d.String())
	assert.Equal(t, "5/2 m*s^-1", speed.String())

	n, err := r.Make(big.NewRat(3, 1), "N")
	require.NoError(t, err)
	assert.Equal(t, "3 m*kg*s^-2", n.String())
}

func TestFormatUsesDisplayUnit(t *testing.T) {
	r := NewRegistry()
	d, err := r.Make(big.NewRat(5, 1), "km")
	require.NoError(t, err)
	assert.Equal(t, "5 km", r.Format(d))
	assert.Equal(t, "5000 m", d.String())

	half, err := r.Make(big.NewRat(1, 2), "h")
	require.NoError(t, err)
	assert.Equal(t, "1/2 h", r.Format(half))
}

func TestDefine(t *testing.T) {
	r := NewRegistry()
	assert.False(t, r.Known("mi"))
	r.Define("mi", Dim{Length: 1}, big.NewRat(1609344, 1000))
	assert.True(t, r.Known("mi"))
	q, err := r.Make(big.NewRat(1, 1), "mi")
	if assert.NoError(t, err) {
		assert.Equal(t, 0, q.Mag.Cmp(big.NewRat(1609344, 1000)))
	}
}

func TestDimString(t *testing.T) {
	assert.Equal(t, "1", Dim{}.String())
	assert.Equal(t, "m", Dim{Length: 1}.String())
	assert.Equal(t, "m^2*kg*s^-3", Dim{Length: 2, Mass: 1, Time: -3}.String())
}
