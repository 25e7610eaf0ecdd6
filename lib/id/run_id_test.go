package id

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNanoRunID(t *testing.T) {
	_, err := NanoRunID("x", 1)
	require.ErrorIs(t, err, errInvalidRunIDLength)
	_, err = NanoRunID("x", 256)
	require.ErrorIs(t, err, errInvalidRunIDLength)

	gen, err := NanoRunID("stress", 12)
	require.NoError(t, err)
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		runID := gen()
		require.True(t, strings.HasPrefix(runID, "stress."))
		require.Len(t, runID, len("stress.")+12)
		for _, r := range strings.TrimPrefix(runID, "stress.") {
			require.True(t, strings.ContainsRune(runIDAlphabet, r))
		}
		seen[runID] = struct{}{}
	}
	require.Len(t, seen, 1000)

	gen, err = NanoRunID("", 8)
	require.NoError(t, err)
	require.Len(t, gen(), 8)
}

func TestNanoRunID_Concurrent(t *testing.T) {
	gen, err := NanoRunID("", 16)
	require.NoError(t, err)
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[string]struct{}, 800)
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				runID := gen()
				mu.Lock()
				seen[runID] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Len(t, seen, 800)
}

func BenchmarkNanoRunID(b *testing.B) {
	gen, err := NanoRunID("bench", 8)
	require.NoError(b, err)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = gen()
	}
	b.ReportAllocs()
}
