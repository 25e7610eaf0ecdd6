package id

import (
	crand "crypto/rand"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// RunIDGen returns a new random id on every call, it is safe for
// concurrent use.
type RunIDGen func() string

const runIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

var errInvalidRunIDLength = errors.New("[run-id] length out of range [2, 255]")

// NanoRunID builds nano-id styled run ids, prefix and the random part
// are joined by a dot.
//
//	stress.V1StGXR8_Z5jdHi6B-myT
func NanoRunID(prefix string, length int) (RunIDGen, error) {
	if length < 2 || length > 255 {
		return nil, errInvalidRunIDLength
	}

	// One crypto read serves 64 ids.
	pool := make([]byte, length<<6)
	if _, err := crand.Read(pool); err != nil {
		return nil, fmt.Errorf("[run-id] fill random pool failed, %w", err)
	}
	offset := 0
	mask := byte(len(runIDAlphabet) - 1)

	var mu sync.Mutex
	return func() string {
		mu.Lock()
		defer mu.Unlock()

		if offset == len(pool) {
			if _, err := crand.Read(pool); /* impossible */ err != nil {
				panic(fmt.Errorf("[run-id] refill random pool failed, %w", err))
			}
			offset = 0
		}

		builder := strings.Builder{}
		builder.Grow(len(prefix) + 1 + length)
		if prefix != "" {
			builder.WriteString(prefix)
			builder.WriteByte('.')
		}
		for _, b := range pool[offset : offset+length] {
			builder.WriteByte(runIDAlphabet[b&mask])
		}
		offset += length
		return builder.String()
	}, nil
}
