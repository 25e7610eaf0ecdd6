package kv

import (
	randv2 "math/rand/v2"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestIntSet(t *testing.T, seed uint64) *LinearHashSet[int] {
	s, err := NewLinearHashSet[int](IntegerHashFunc[int], WithLinearHashSetRand(randv2.New(randv2.NewPCG(seed, seed))))
	require.NoError(t, err)
	return s
}

func TestNewLinearHashSet_NilHashFunc(t *testing.T) {
	s, err := NewLinearHashSet[int](nil)
	require.ErrorIs(t, err, errNilHashFunc)
	require.Nil(t, s)
}

func TestLinearHashSet_Hand(t *testing.T) {
	s := newTestIntSet(t, 1)
	require.False(t, s.Contains(0))
	require.Equal(t, int64(0), s.Len())

	require.True(t, s.Insert(0))
	require.True(t, s.Contains(0))
	require.Equal(t, int64(1), s.Len())

	require.True(t, s.Insert(1))
	require.True(t, s.Contains(1))
	require.Equal(t, int64(2), s.Len())

	require.True(t, s.Remove(0))
	require.False(t, s.Contains(0))
	require.Equal(t, int64(1), s.Len())

	require.False(t, s.Insert(1))
	require.True(t, s.Contains(1))
	require.Equal(t, int64(1), s.Len())

	require.False(t, s.Remove(0))
	require.Equal(t, int64(1), s.Len())
}

func TestLinearHashSet_LoadFactor(t *testing.T) {
	s := newTestIntSet(t, 2)
	for i := 0; i < 100; i++ {
		if i%2 == 0 {
			require.True(t, s.Insert(i))
		}
		require.LessOrEqual(t, 2*s.q, int64(len(s.slots)))
		require.Equal(t, 1<<s.d, len(s.slots))
	}
	require.Equal(t, int64(50), s.Len())
	for i := 0; i < 100; i++ {
		require.Equal(t, i%2 == 0, s.Contains(i))
	}

	for i := 0; i < 100; i += 2 {
		require.True(t, s.Remove(i))
		if s.n > 0 {
			require.GreaterOrEqual(t, 8*s.n, int64(len(s.slots)))
		}
	}
	require.Equal(t, int64(0), s.Len())
}

func TestLinearHashSet_SameSeedSameLayout(t *testing.T) {
	s1, s2 := newTestIntSet(t, 42), newTestIntSet(t, 42)
	for i := 0; i < 1000; i += 7 {
		s1.Insert(i)
		s2.Insert(i)
	}
	keys1, keys2 := make([]int, 0, s1.Len()), make([]int, 0, s2.Len())
	s1.Foreach(func(idx int64, key int) bool {
		keys1 = append(keys1, key)
		return true
	})
	s2.Foreach(func(idx int64, key int) bool {
		keys2 = append(keys2, key)
		return true
	})
	require.Equal(t, keys1, keys2)
}

func TestLinearHashSet_RandomOracle(t *testing.T) {
	rng := randv2.New(randv2.NewPCG(3, 5))
	s := newTestIntSet(t, 7)
	oracle := make(map[int]struct{})
	for i := 0; i < 20000; i++ {
		key := rng.IntN(2048)
		_, present := oracle[key]
		if rng.IntN(3) == 0 {
			require.Equal(t, present, s.Remove(key))
			delete(oracle, key)
		} else {
			require.Equal(t, !present, s.Insert(key))
			oracle[key] = struct{}{}
		}
		require.Equal(t, int64(len(oracle)), s.Len())
	}
	for key := range oracle {
		require.True(t, s.Contains(key))
	}

	s.Clear()
	require.Equal(t, int64(0), s.Len())
	require.False(t, s.Contains(1))
	require.True(t, s.Insert(1))
}

func TestLinearHashSet_String(t *testing.T) {
	s, err := NewLinearHashSet[string](StringHashFunc)
	require.NoError(t, err)
	for i := 0; i < 512; i++ {
		require.True(t, s.Insert("key-"+strconv.Itoa(i)))
	}
	require.False(t, s.Insert("key-0"))
	require.True(t, s.Contains("key-511"))
	require.False(t, s.Contains("key-512"))

	visited := 0
	s.Foreach(func(idx int64, key string) bool {
		visited++
		return idx < 9
	})
	require.Equal(t, 10, visited)
}

func TestLinearHashSet_HighBitsKeys(t *testing.T) {
	require.NotEqual(t, IntegerHashFunc[int64](1<<32), IntegerHashFunc[int64](2<<32))

	s, err := NewLinearHashSet[int64](IntegerHashFunc[int64], WithLinearHashSetRand(randv2.New(randv2.NewPCG(7, 7))))
	require.NoError(t, err)
	const n = 4096
	for i := int64(1); i <= n; i++ {
		require.True(t, s.Insert(i<<32))
	}
	require.Equal(t, int64(n), s.Len())

	homes := make(map[uint64]struct{}, n)
	for i := int64(1); i <= n; i++ {
		key := i << 32
		require.True(t, s.Contains(key))
		homes[s.hash(key)] = struct{}{}
	}
	require.Greater(t, len(homes), n/4)
}

func BenchmarkLinearHashSet_Insert(b *testing.B) {
	b.StopTimer()
	s, err := NewLinearHashSet[int](IntegerHashFunc[int])
	if err != nil {
		b.Fatal(err)
	}
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		s.Insert(i)
	}
}
