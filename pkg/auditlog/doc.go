// Package auditlog records one immutable entry per completed chat request.
//
// Two storage backends exist: a SQLite table (preferred, queryable) and an
// append-only NDJSON file. The backend is chosen once at startup by probing
// the SQLite open; a per-write failure in the SQLite backend still lands the
// entry in the NDJSON file. The Logger facade never returns errors and never
// panics: losing a request because of a logging fault is the one failure
// mode this package exists to prevent, and failing the request over it would
// be worse.
package auditlog
