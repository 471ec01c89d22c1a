package gene

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gaengine/internal/rng"
)

func roundTrip(t *testing.T, g Gene) {
	t.Helper()
	twin := g.NewGene()
	require.NoError(t, twin.SetValueFromPersistentRepresentation(g.PersistentRepresentation()))
	assert.Equal(t, 0, twin.Compare(g), "decoded %s differs from %s", twin, g)
	assert.Equal(t, g.PersistentRepresentation(), twin.PersistentRepresentation())
}

func mustInteger(t *testing.T, lower, upper int) *IntegerGene {
	t.Helper()
	g, err := NewIntegerGene(lower, upper)
	require.NoError(t, err)
	return g
}

func mustDouble(t *testing.T, lower, upper float64) *DoubleGene {
	t.Helper()
	g, err := NewDoubleGene(lower, upper)
	require.NoError(t, err)
	return g
}

func TestRoundTripEveryVariant(t *testing.T) {
	src := rng.NewStock(11)

	booleans := []any{nil, true, false}
	for _, v := range booleans {
		g := NewBooleanGene()
		require.NoError(t, g.SetAllele(v))
		roundTrip(t, g)
	}

	ig := mustInteger(t, -5, 10)
	roundTrip(t, ig)
	for i := 0; i < 20; i++ {
		ig.SetToRandomValue(src)
		roundTrip(t, ig)
	}

	dg := mustDouble(t, -1.5, 2.25)
	roundTrip(t, dg)
	for i := 0; i < 20; i++ {
		dg.SetToRandomValue(src)
		roundTrip(t, dg)
	}

	bg, err := NewFixedBinaryGene(13)
	require.NoError(t, err)
	bg.SetToRandomValue(src)
	roundTrip(t, bg)

	sg, err := NewSetGene("red", 7, 2.5, true, "a:b,c")
	require.NoError(t, err)
	roundTrip(t, sg)
	require.NoError(t, sg.SetAllele("a:b,c"))
	roundTrip(t, sg)
	require.NoError(t, sg.SetAllele(7))
	roundTrip(t, sg)

	mg := NewMapGene()
	require.NoError(t, mg.AddAllele("k1", 1))
	require.NoError(t, mg.AddAllele(2, "v=2"))
	roundTrip(t, mg)
	require.NoError(t, mg.SetAllele("v=2"))
	roundTrip(t, mg)

	str, err := NewStringGene(0, 8, "")
	require.NoError(t, err)
	roundTrip(t, str)
	for _, v := range []string{"", "null", "a:b#c", "é|x"} {
		require.NoError(t, str.SetAllele(v))
		roundTrip(t, str)
	}

	cg, err := NewCompositeGene(mustInteger(t, 0, 9), NewBooleanGene(), str.Clone(), sg.Clone())
	require.NoError(t, err)
	roundTrip(t, cg)
	cg.SetToRandomValue(src)
	roundTrip(t, cg)
}

func TestBoundsInvariantHolds(t *testing.T) {
	ig := mustInteger(t, 0, 10)
	for _, v := range []int{-1, 11, math.MinInt64, math.MaxInt64, 1 << 40, -(1 << 40), 5} {
		require.NoError(t, ig.SetAllele(v))
		got := ig.IntValue()
		assert.GreaterOrEqual(t, got, 0)
		assert.LessOrEqual(t, got, 10)
	}

	dg := mustDouble(t, 1, 2)
	for _, v := range []float64{-1e300, 1e300, math.Inf(1), math.Inf(-1), 0, 3, 1.5} {
		require.NoError(t, dg.SetAllele(v))
		got := dg.Float64Value()
		assert.GreaterOrEqual(t, got, 1.0)
		assert.LessOrEqual(t, got, 2.0)
	}
	assert.ErrorIs(t, dg.SetAllele(math.NaN()), ErrInvalidArgument)

	src := rng.NewStock(1)
	for _, bounds := range [][2]int{{math.MinInt, math.MaxInt}, {-1, math.MaxInt}, {math.MinInt, 1}} {
		wide := mustInteger(t, bounds[0], bounds[1])
		for i := 0; i < 50; i++ {
			require.NotPanics(t, func() { wide.SetToRandomValue(src) })
			assert.GreaterOrEqual(t, wide.IntValue(), bounds[0])
			assert.LessOrEqual(t, wide.IntValue(), bounds[1])
		}
		require.NoError(t, wide.ApplyMutation(0, 1))
		assert.LessOrEqual(t, wide.IntValue(), bounds[1])
	}

	full := mustDouble(t, -math.MaxFloat64, math.MaxFloat64)
	for i := 0; i < 50; i++ {
		full.SetToRandomValue(src)
		got := full.Float64Value()
		assert.False(t, math.IsNaN(got) || math.IsInf(got, 0), "got %v", got)
	}
	for _, v := range []float64{math.Inf(-1), math.Inf(1)} {
		require.NoError(t, full.SetAllele(v))
		got := full.Float64Value()
		assert.False(t, math.IsNaN(got) || math.IsInf(got, 0), "got %v", got)
	}
	require.NoError(t, full.ApplyMutation(0, 1))
	assert.Equal(t, math.MaxFloat64, full.Float64Value())
}

func TestIntegerRemapPreservesPosition(t *testing.T) {
	ig := mustInteger(t, 0, 10)
	require.NoError(t, ig.SetAllele(11))
	assert.Equal(t, 5, ig.IntValue())
	require.NoError(t, ig.SetAllele(math.MaxInt64))
	assert.Equal(t, 10, ig.IntValue())
	require.NoError(t, ig.SetAllele(math.MinInt64))
	assert.Equal(t, 0, ig.IntValue())
}

func TestNumericMutationShiftsByRange(t *testing.T) {
	ig := mustInteger(t, 0, 10)
	require.NoError(t, ig.SetAllele(2))
	require.NoError(t, ig.ApplyMutation(0, 0.5))
	assert.Equal(t, 7, ig.IntValue())

	null := mustInteger(t, 0, 10)
	require.NoError(t, null.ApplyMutation(0, 0.3))
	assert.Equal(t, 3, null.IntValue())

	dg := mustDouble(t, 0, 4)
	require.NoError(t, dg.SetAllele(1.0))
	require.NoError(t, dg.ApplyMutation(0, -0.25))
	assert.InDelta(t, 0.0, dg.Float64Value(), 1e-12)
}

func TestBooleanMutationForcesValue(t *testing.T) {
	g := NewBooleanGene()
	require.NoError(t, g.ApplyMutation(0, 0.1))
	assert.Equal(t, true, g.Allele())
	require.NoError(t, g.ApplyMutation(0, -0.1))
	assert.Equal(t, false, g.Allele())
	require.NoError(t, g.ApplyMutation(0, 0))
	assert.Equal(t, false, g.Allele())
}

func TestFixedBinaryMutationSetsSingleBit(t *testing.T) {
	g, err := NewFixedBinaryGene(8)
	require.NoError(t, err)
	require.NoError(t, g.ApplyMutation(3, 0.5))
	for i := 0; i < 8; i++ {
		assert.Equal(t, i == 3, g.Bit(i), "bit %d", i)
	}
	require.NoError(t, g.ApplyMutation(3, -0.5))
	assert.Equal(t, 0, g.OnesCount())
	assert.ErrorIs(t, g.ApplyMutation(8, 0.5), ErrIndexOutOfRange)
	assert.Equal(t, 8, g.Size())
}

func TestNullOrdersBeforeSetAllele(t *testing.T) {
	a := mustInteger(t, 0, 10)
	b := mustInteger(t, 0, 10)
	require.NoError(t, b.SetAllele(0))
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))

	x := NewBooleanGene()
	y := NewBooleanGene()
	require.NoError(t, y.SetAllele(false))
	assert.Equal(t, -1, x.Compare(y))
}

type priority int

func (p priority) CompareTo(other any) int {
	o := other.(priority)
	switch {
	case p < o:
		return -1
	case p > o:
		return 1
	}
	return 0
}

func TestApplicationDataBreaksTies(t *testing.T) {
	a := mustInteger(t, 0, 10)
	b := mustInteger(t, 0, 10)
	require.NoError(t, a.SetAllele(4))
	require.NoError(t, b.SetAllele(4))
	a.SetApplicationData(priority(1))
	b.SetApplicationData(priority(2))
	assert.Equal(t, 0, a.Compare(b))

	a.SetCompareApplicationData(true)
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, priority(1), a.Clone().ApplicationData())
}

func TestMalformedRepresentationsAreRejected(t *testing.T) {
	ig := mustInteger(t, 0, 10)
	require.NoError(t, ig.SetAllele(4))
	cases := []struct {
		name string
		gene Gene
		repr string
	}{
		{"integer token count", ig, "4:0"},
		{"integer value", ig, "four:0:10"},
		{"integer bounds", ig, "4:10:0"},
		{"double value", mustDouble(t, 0, 1), "x:0:1"},
		{"boolean", NewBooleanGene(), "yes"},
		{"set member", &SetGene{}, "s~z:s~a,s~b"},
		{"set tag", &SetGene{}, "null:q~a"},
		{"map entry", NewMapGene(), "null:s~a"},
		{"string fields", &StringGene{}, "abc:0:3"},
		{"composite enclosure", &CompositeGene{}, "IntegerGene|1:0:2"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			before := tc.gene.PersistentRepresentation()
			err := tc.gene.SetValueFromPersistentRepresentation(tc.repr)
			assert.ErrorIs(t, err, ErrRepresentation)
			assert.Equal(t, before, tc.gene.PersistentRepresentation())
		})
	}

	bg, err := NewFixedBinaryGene(4)
	require.NoError(t, err)
	assert.ErrorIs(t, bg.SetValueFromPersistentRepresentation("4:01x1"), ErrRepresentation)
	assert.ErrorIs(t, bg.SetValueFromPersistentRepresentation("5:01011"), ErrRepresentation)
}

func TestConstructorArgumentsAreValidated(t *testing.T) {
	_, err := NewIntegerGene(3, 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = NewDoubleGene(math.NaN(), 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = NewFixedBinaryGene(-1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = NewStringGene(-1, 3, "")
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = NewStringGene(4, 3, "")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCompositeRejectsNestingAndMismatchedAlleles(t *testing.T) {
	inner, err := NewCompositeGene(NewBooleanGene())
	require.NoError(t, err)
	_, err = NewCompositeGene(inner)
	assert.ErrorIs(t, err, ErrNestedComposite)

	cg, err := NewCompositeGene(mustInteger(t, 0, 5), NewBooleanGene())
	require.NoError(t, err)
	require.NoError(t, cg.SetAllele([]any{3, true}))
	assert.ErrorIs(t, cg.SetAllele([]any{3}), ErrAlleleType)
	assert.ErrorIs(t, cg.SetAllele([]any{true, 3}), ErrAlleleType)
	assert.Equal(t, []any{3, true}, cg.Allele())

	require.NoError(t, cg.ApplyMutation(0, 0.4))
	assert.Equal(t, 5, cg.GeneAt(0).Allele())
	assert.ErrorIs(t, cg.ApplyMutation(2, 0.4), ErrIndexOutOfRange)
}

func TestSetAndMapGenesStayWithinRegisteredValues(t *testing.T) {
	src := rng.NewStock(3)
	sg, err := NewSetGene("a", "b", "c")
	require.NoError(t, err)
	assert.ErrorIs(t, sg.SetAllele("d"), ErrAlleleType)
	for i := 0; i < 30; i++ {
		sg.SetToRandomValue(src)
		assert.Contains(t, []any{"a", "b", "c"}, sg.Allele())
	}
	require.NoError(t, sg.SetAllele("a"))
	require.NoError(t, sg.ApplyMutation(0, 0.3))
	assert.Equal(t, "b", sg.Allele())
	require.NoError(t, sg.ApplyMutation(0, -0.6))
	assert.Equal(t, "c", sg.Allele())

	mg := NewMapGene()
	require.NoError(t, mg.AddAllele("x", 1))
	require.NoError(t, mg.AddAllele("y", 2))
	v, ok := mg.Lookup("y")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
	mg.SetToRandomValue(src)
	assert.Contains(t, []any{1, 2}, mg.Allele())
	assert.ErrorIs(t, mg.SetAllele(3), ErrAlleleType)
}

func TestStringGeneMutationStaysInAlphabet(t *testing.T) {
	g, err := NewStringGene(3, 3, "abcd")
	require.NoError(t, err)
	require.NoError(t, g.SetAllele("abc"))
	require.NoError(t, g.ApplyMutation(1, 0.5))
	assert.Equal(t, "adc", g.StringValue())
	assert.ErrorIs(t, g.SetAllele("abz"), ErrAlleleType)
	assert.ErrorIs(t, g.SetAllele("ab"), ErrAlleleType)

	src := rng.NewStock(5)
	g.SetToRandomValue(src)
	assert.Len(t, g.StringValue(), 3)
	assert.NoError(t, g.validate(g.StringValue()))
}

func TestEncodeDecodeIntoChecksKind(t *testing.T) {
	ig := mustInteger(t, 0, 3)
	require.NoError(t, ig.SetAllele(2))
	token := Encode(ig)
	assert.Equal(t, "IntegerGene|2:0:3", token)

	twin := ig.NewGene()
	require.NoError(t, DecodeInto(twin, token))
	assert.Equal(t, 2, twin.Allele())
	assert.ErrorIs(t, DecodeInto(NewBooleanGene(), token), ErrRepresentation)
}
