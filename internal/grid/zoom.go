package grid

import "math/bits"

// IsPowerOfTwo reports whether n is a positive power of two (1 included).
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// MinZoom classifies sample (i, j) for thinning with a power-of-two base.
//
// With b = log2(base), a sample whose indices are both divisible by 2^k (k <= b,
// k maximal) first appears at zoom b-k: multiples of base show from zoom 0,
// odd indices only from zoom b. base must be a power of two.
func MinZoom(i, j, base int) int {
	b := bits.TrailingZeros(uint(base))
	k := 0
	for k < b {
		step := 1 << (k + 1)
		if i%step != 0 || j%step != 0 {
			break
		}
		k++
	}
	return b - k
}
