package services

import "math/rand"

// RandomizeSlice returns a uniformly random permutation of the input using
// Fisher-Yates. The input slice is not modified.
func RandomizeSlice[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	for i := len(out) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
