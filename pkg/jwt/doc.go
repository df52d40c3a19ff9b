// Package jwt issues and authenticates the bearer tokens that act as
// capability proofs for an established identity. Tokens carry {sub, email,
// exp} signed with HMAC-SHA256 and a process-wide key; verification
// distinguishes malformed input from cryptographic rejection so callers can
// map the two to different failure classes.
package jwt
