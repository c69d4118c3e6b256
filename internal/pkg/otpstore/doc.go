// Package otpstore issues and redeems short-lived one-time codes keyed by
// subject identity.
//
// Unlike TOTP, codes here are random, stored server-side, and strictly
// single-use: a successful validation consumes the code atomically so that
// concurrent redemption attempts for the same subject cannot both succeed.
package otpstore
