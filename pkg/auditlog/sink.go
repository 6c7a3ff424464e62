package auditlog

// Backend names a storage implementation.
type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendNDJSON Backend = "ndjson"
)

// Sink persists entries. Implementations are safe for concurrent use.
type Sink interface {
	Write(Entry) error
	// ReadRecent returns up to limit entries, newest first.
	ReadRecent(limit int) ([]Entry, error)
	Close() error
}
