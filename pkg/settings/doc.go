// Package settings provides the persisted gateway configuration. Stored
// overrides live in a small SQLite key/value table and are merged over the
// environment defaults on every read, so a change saved through the admin
// surface takes effect on the next proxied request without a restart.
package settings
