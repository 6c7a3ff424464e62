package auditlog

import (
	"log/slog"

	"github.com/TociNwaoha/IQBandit/pkg/telemetry/metrics"
)

// Logger is the request-facing facade. Log never returns an error and never
// panics; ReadRecent returns an empty slice on failure. Both contain every
// storage fault inside this package.
type Logger struct {
	sink     Sink
	fallback Sink
	backend  Backend
	logger   *slog.Logger
}

// NewLogger opens the audit store under dir. The SQLite backend is probed
// once here; if it cannot be opened the NDJSON backend takes over for the
// process lifetime. When SQLite is active, the NDJSON sink stays around as
// the per-entry rescue path for failed writes.
func NewLogger(dir string) *Logger {
	log := slog.Default().With("component", "auditlog")
	ndjson := NewNDJSONSink(dir)

	sqlite, err := NewSQLiteSink(dir)
	if err != nil {
		log.Warn("sqlite audit backend unavailable, using ndjson fallback",
			"dir", dir,
			"error", err,
		)
		return &Logger{sink: ndjson, backend: BackendNDJSON, logger: log}
	}

	return &Logger{sink: sqlite, fallback: ndjson, backend: BackendSQLite, logger: log}
}

// Backend reports which backend was selected at startup.
func (l *Logger) Backend() Backend {
	return l.backend
}

// Log persists one entry. A primary-backend failure routes that single entry
// to the fallback; a fallback failure is reported to the server log and the
// entry is dropped. Callers never see an error either way.
func (l *Logger) Log(e Entry) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("panic while writing audit entry", "panic", r)
		}
	}()

	err := l.sink.Write(e)
	if err == nil {
		return
	}
	metrics.AuditWriteFailures.WithLabelValues(string(l.backend)).Inc()
	l.logger.Error("audit write failed", "backend", l.backend, "error", err)

	if l.fallback == nil {
		return
	}
	if err := l.fallback.Write(e); err != nil {
		metrics.AuditWriteFailures.WithLabelValues(string(BackendNDJSON)).Inc()
		l.logger.Error("audit fallback write failed, entry lost", "error", err)
	}
}

// ReadRecent returns up to limit entries, newest first, or an empty slice on
// failure.
func (l *Logger) ReadRecent(limit int) []Entry {
	entries, err := l.sink.ReadRecent(limit)
	if err != nil {
		l.logger.Error("audit read failed", "backend", l.backend, "error", err)
		return []Entry{}
	}
	return entries
}

// Close releases the underlying sinks.
func (l *Logger) Close() error {
	if l.fallback != nil {
		l.fallback.Close()
	}
	return l.sink.Close()
}

// SQLite returns the SQLite sink when that backend is active, for retention
// pruning. Nil when the process fell back to NDJSON.
func (l *Logger) SQLite() *SQLiteSink {
	if s, ok := l.sink.(*SQLiteSink); ok {
		return s
	}
	return nil
}
