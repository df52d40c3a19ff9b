// Package password wraps bcrypt hashing and verification behind a Vault
// with a configurable work factor, and implements the password-reuse ban
// consulted by password change operations.
package password
