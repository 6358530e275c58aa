package bitset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestSetTestClear(t *testing.T) {
	b := New(4)
	assert.False(t, b.Test(3))
	b.Set(3)
	assert.True(t, b.Test(3))
	b.Clear(3)
	assert.False(t, b.Test(3))
}

func TestUntouchedIndexIsEmptySentinel(t *testing.T) {
	b := New(0)
	assert.False(t, b.Test(1000), "untouched rank must report false (empty sentinel)")
}

func TestGrowsOnDemand(t *testing.T) {
	b := New(0)
	b.Set(500)
	assert.True(t, b.Test(500))
	assert.Equal(t, 1, b.Count())
}

func TestResetClearsAllBits(t *testing.T) {
	b := New(10)
	for i := 0; i < 10; i++ {
		b.Set(i)
	}
	require.Equal(t, 10, b.Count())
	b.Reset()
	assert.Equal(t, 0, b.Count())
	for i := 0; i < 10; i++ {
		assert.False(t, b.Test(i))
	}
}

func TestUnionIntersect(t *testing.T) {
	a := New(8)
	a.Set(1)
	a.Set(2)
	c := New(8)
	c.Set(2)
	c.Set(3)

	u := a.Clone()
	u.Union(c)
	assert.True(t, u.Test(1))
	assert.True(t, u.Test(2))
	assert.True(t, u.Test(3))

	inter := a.Clone()
	inter.Intersect(c)
	assert.False(t, inter.Test(1))
	assert.True(t, inter.Test(2))
	assert.False(t, inter.Test(3))
}

func TestCloneIsIndependent(t *testing.T) {
	a := New(4)
	a.Set(1)
	c := a.Clone()
	c.Set(2)
	assert.False(t, a.Test(2))
	assert.True(t, c.Test(2))
}

// TestRapidSetCountMatchesReference is a property test: for any sequence
// of Set/Clear operations, Count matches a reference map[int]bool model.
func TestRapidSetCountMatchesReference(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		b := New(0)
		model := map[int]bool{}
		ops := rapid.SliceOfN(rapid.IntRange(0, 2000), 1, 200).Draw(rt, "indices")
		for _, idx := range ops {
			if rapid.Bool().Draw(rt, "set") {
				b.Set(idx)
				model[idx] = true
			} else {
				b.Clear(idx)
				model[idx] = false
			}
		}
		want := 0
		for _, v := range model {
			if v {
				want++
			}
		}
		assert.Equal(rt, want, b.Count())
		for idx, v := range model {
			assert.Equal(rt, v, b.Test(idx))
		}
	})
}
