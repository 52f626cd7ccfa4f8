// Package auth provides the authentication primitives used by the services:
// HS256 session tokens that carry the account ID as their subject, and
// bcrypt password hashing.
package auth
