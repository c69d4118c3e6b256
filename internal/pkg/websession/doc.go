// Package websession manages server-side web sessions stored in an external
// key-value store with a sliding TTL.
//
// The session payload is a typed State struct rather than an untyped attribute
// bag; business code reads and writes named fields and must call Save
// explicitly after mutating them (there is no implicit flush). Session
// identity travels in an HMAC-signed cookie resolved per request by Manager.
package websession
