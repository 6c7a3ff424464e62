// Package auth issues and verifies session tokens. Sessions are HS256 JWTs
// carried in an httpOnly cookie; the middleware resolves them into claims on
// the request context for handlers downstream.
package auth
