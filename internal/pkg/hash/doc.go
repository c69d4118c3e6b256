// Package hash provides helpers for computing and verifying keyed hashes.
//
// Typical usage is signing values handed to clients, such as session cookie
// ids: store nothing, sign the value on the way out, and verify the signature
// on the way back in. Implementations live behind a small interface.
package hash
