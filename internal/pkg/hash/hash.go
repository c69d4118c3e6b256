package hash

// Hash computes and verifies keyed or one-way hashes of short strings.
type Hash interface {
	// Hash returns the hash of the input string.
	Hash(str string) ([]byte, error)
	// Verify reports whether str matches the given hash.
	Verify(hashed, str string) bool
}
