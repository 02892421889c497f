package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nova-lang/nova/internal/types"
)

func TestBoolTruthAndString(t *testing.T) {
	assert.Equal(t, "true", types.True.String())
	assert.Equal(t, "false", types.False.String())
	assert.True(t, bool(types.True.Truth()))
}

func TestIntLongDoubleWidening(t *testing.T) {
	v, err := types.Binary("+", types.Int(1), types.Long(2))
	require.NoError(t, err)
	assert.Equal(t, types.Long(3), v)

	v, err = types.Binary("+", types.Int(1), types.Double(2.5))
	require.NoError(t, err)
	assert.Equal(t, types.Double(3.5), v)

	v, err = types.Binary("*", types.Int(6), types.Int(7))
	require.NoError(t, err)
	assert.Equal(t, types.Int(42), v)
}

func TestBinaryDivisionByZero(t *testing.T) {
	_, err := types.Binary("/", types.Int(1), types.Int(0))
	assert.Error(t, err)
}

func TestStringConcatenation(t *testing.T) {
	v, err := types.Binary("+", types.String("foo"), types.String("bar"))
	require.NoError(t, err)
	assert.Equal(t, types.String("foobar"), v)
}

func TestStringIndexAndLenAreCodepointBased(t *testing.T) {
	s := types.String("héllo")
	assert.Equal(t, 5, s.Len())
	assert.Equal(t, types.Char('h'), s.Index(0))
	assert.Equal(t, types.Char('é'), s.Index(1))
}

func TestStringIterateYieldsChars(t *testing.T) {
	s := types.String("ab")
	it := s.Iterate()
	defer it.Done()
	var v types.Value
	var got []rune
	for it.Next(&v) {
		got = append(got, rune(v.(types.Char)))
	}
	assert.Equal(t, []rune{'a', 'b'}, got)
}

func TestCharArithmetic(t *testing.T) {
	v, err := types.Binary("+", types.Char('a'), types.Int(1))
	require.NoError(t, err)
	assert.Equal(t, types.Char('b'), v)

	v, err = types.Binary("-", types.Char('c'), types.Char('a'))
	require.NoError(t, err)
	assert.Equal(t, types.Int(2), v)
}

func TestListAppendAndFreeze(t *testing.T) {
	l := types.NewList(nil)
	require.NoError(t, l.Append(types.Int(1)))
	require.NoError(t, l.Append(types.Int(2)))
	assert.Equal(t, 2, l.Len())

	l.Freeze()
	err := l.Append(types.Int(3))
	assert.Error(t, err)
}

func TestListIterationGuardsMutation(t *testing.T) {
	l := types.NewList([]types.Value{types.Int(1), types.Int(2)})
	it := l.Iterate()
	err := l.Append(types.Int(3))
	assert.Error(t, err, "appending during iteration should fail")
	it.Done()
	assert.NoError(t, l.Append(types.Int(4)))
}

func TestListConcatenation(t *testing.T) {
	a := types.NewList([]types.Value{types.Int(1)})
	b := types.NewList([]types.Value{types.Int(2)})
	v, err := types.Binary("+", a, b)
	require.NoError(t, err)
	merged := v.(*types.List)
	require.Equal(t, 2, merged.Len())
	assert.Equal(t, types.Int(1), merged.Index(0))
	assert.Equal(t, types.Int(2), merged.Index(1))
}

func TestMapPreservesInsertionOrder(t *testing.T) {
	m := types.NewMap(4)
	require.NoError(t, m.SetKey(types.String("b"), types.Int(2)))
	require.NoError(t, m.SetKey(types.String("a"), types.Int(1)))
	require.NoError(t, m.SetKey(types.String("b"), types.Int(20))) // overwrite, order unchanged

	items := m.Items()
	require.Len(t, items, 2)
	assert.Equal(t, types.String("b"), items[0].First)
	assert.Equal(t, types.Int(20), items[0].Second)
	assert.Equal(t, types.String("a"), items[1].First)
}

func TestMapRejectsUnhashableKey(t *testing.T) {
	m := types.NewMap(1)
	err := m.SetKey(types.NewList(nil), types.Int(1))
	assert.Error(t, err)
}

func TestMapGetMissing(t *testing.T) {
	m := types.NewMap(1)
	_, found, err := m.Get(types.String("missing"))
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSetUnionIntersectDifference(t *testing.T) {
	a := types.NewSet(2)
	require.NoError(t, a.Add(types.Int(1)))
	require.NoError(t, a.Add(types.Int(2)))
	b := types.NewSet(2)
	require.NoError(t, b.Add(types.Int(2)))
	require.NoError(t, b.Add(types.Int(3)))

	union, err := types.Binary("|", a, b)
	require.NoError(t, err)
	assert.Equal(t, 3, union.(*types.Set).Len())

	inter, err := types.Binary("&", a, b)
	require.NoError(t, err)
	assert.Equal(t, 1, inter.(*types.Set).Len())

	diff, err := types.Binary("-", a, b)
	require.NoError(t, err)
	assert.Equal(t, 1, diff.(*types.Set).Len())
}

func TestRangeLenInclusiveExclusive(t *testing.T) {
	r := types.Range{Start: 0, End: 5, Step: 1, Inclusive: false}
	assert.Equal(t, 5, r.Len())

	r2 := types.Range{Start: 0, End: 5, Step: 1, Inclusive: true}
	assert.Equal(t, 6, r2.Len())
}

func TestRangeIterateNegativeStep(t *testing.T) {
	r := types.Range{Start: 5, End: 0, Step: -1, Inclusive: true}
	it := r.Iterate()
	var v types.Value
	var got []int64
	for it.Next(&v) {
		got = append(got, int64(v.(types.Int)))
	}
	assert.Equal(t, []int64{5, 4, 3, 2, 1, 0}, got)
}

func TestPairEquality(t *testing.T) {
	p1 := types.Pair{First: types.Int(1), Second: types.String("x")}
	p2 := types.Pair{First: types.Int(1), Second: types.String("x")}
	eq, err := types.Equals(p1, p2)
	require.NoError(t, err)
	assert.True(t, eq)
}

func TestEqualsRecursesIntoLists(t *testing.T) {
	a := types.NewList([]types.Value{types.Int(1), types.NewList([]types.Value{types.Int(2)})})
	b := types.NewList([]types.Value{types.Int(1), types.NewList([]types.Value{types.Int(2)})})
	eq, err := types.Equals(a, b)
	require.NoError(t, err)
	assert.True(t, eq)

	c := types.NewList([]types.Value{types.Int(1), types.NewList([]types.Value{types.Int(3)})})
	eq, err = types.Equals(a, c)
	require.NoError(t, err)
	assert.False(t, eq)
}

func TestCompareOrdersNumbersAcrossTags(t *testing.T) {
	c, err := types.Compare(types.Int(1), types.Long(2))
	require.NoError(t, err)
	assert.Negative(t, c)
}

func TestRegexMatch(t *testing.T) {
	re, err := types.NewRegex(`^\d+$`)
	require.NoError(t, err)
	assert.True(t, re.MatchString("123"))
	assert.False(t, re.MatchString("abc"))
}

func TestNullTruthAndEquality(t *testing.T) {
	assert.False(t, bool(types.NullValue.Truth()))
	eq, err := types.Equals(types.NullValue, types.Null{})
	require.NoError(t, err)
	assert.True(t, eq)
}
