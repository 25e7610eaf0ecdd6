package xsort

import (
	randv2 "math/rand/v2"

	"github.com/n4o847/sig-datastructures-2020/lib/infra"
)

// References:
// https://opendatastructures.org/ods-java/11_1_Comparison_Based_Sorti.html#SECTION001412000000000000000

/*
Three-way partition around a random pivot x.

	 i         p        j          q        i+n
	 |  < x   |  == x  |    ?     |   > x   |

p is the last index of the "less" part, q is the first index of the
"greater" part, everything in [p+1, j) equals x.
*/

// Quicksort sorts the slice in place, rng picks the pivots.
func Quicksort[E any](arr []E, cmp infra.OrderedKeyComparator[E], rng *randv2.Rand) {
	if cmp == nil || rng == nil {
		panic( /* debug assertion */ "[xsort] comparator or rng is nil")
	}
	quicksort(arr, cmp, rng)
}

func QuicksortOrdered[E infra.OrderedKey](arr []E, rng *randv2.Rand) {
	Quicksort[E](arr, infra.Ascending[E], rng)
}

func quicksort[E any](arr []E, cmp infra.OrderedKeyComparator[E], rng *randv2.Rand) {
	for len(arr) > 1 {
		x := arr[rng.IntN(len(arr))]
		p, j, q := -1, 0, len(arr)
		for j < q {
			switch res := cmp(arr[j], x); {
			case res < 0:
				p++
				arr[j], arr[p] = arr[p], arr[j]
				j++
			case res > 0:
				q--
				arr[j], arr[q] = arr[q], arr[j]
			default:
				j++
			}
		}
		// Recurse into the smaller part, loop on the larger one.
		less, greater := arr[:p+1], arr[q:]
		if len(less) < len(greater) {
			quicksort(less, cmp, rng)
			arr = greater
		} else {
			quicksort(greater, cmp, rng)
			arr = less
		}
	}
}
