package proxy

import (
	"context"
	"io"
	"net/http"

	"github.com/TociNwaoha/IQBandit/pkg/telemetry/metrics"
)

// RelayOutcome is how a stream relay ended. Client disconnect is an expected
// outcome, not an error.
type RelayOutcome int

const (
	// RelayComplete means the upstream closed the stream normally.
	RelayComplete RelayOutcome = iota
	// RelayClientGone means the downstream client disconnected mid-stream.
	RelayClientGone
	// RelayUpstreamFailed means the upstream read failed mid-stream.
	RelayUpstreamFailed
)

// RelayResult reports the outcome and how many bytes reached the client.
type RelayResult struct {
	Outcome RelayOutcome
	// Bytes is the exact count of relayed bytes: the sum of all chunk
	// lengths written downstream.
	Bytes int64
	// Err carries the upstream read error for RelayUpstreamFailed.
	Err error
}

// Relay copies upstream bytes to the client unmodified, counting them and
// flushing after every chunk so events are delivered as they arrive. It
// returns when the upstream closes, the upstream read fails, or the client
// goes away; it never panics and never raises on disconnect.
func Relay(ctx context.Context, w http.ResponseWriter, upstream io.Reader) RelayResult {
	flusher, _ := w.(http.Flusher)
	buf := make([]byte, 32*1024)
	var total int64

	for {
		if ctx.Err() != nil {
			return RelayResult{Outcome: RelayClientGone, Bytes: total}
		}

		n, readErr := upstream.Read(buf)
		if n > 0 {
			written, writeErr := w.Write(buf[:n])
			total += int64(written)
			metrics.StreamedBytes.Add(float64(written))
			if writeErr != nil {
				return RelayResult{Outcome: RelayClientGone, Bytes: total}
			}
			if flusher != nil {
				flusher.Flush()
			}
		}

		if readErr == io.EOF {
			return RelayResult{Outcome: RelayComplete, Bytes: total}
		}
		if readErr != nil {
			// A read cut short by the client's context going away is
			// a disconnect, not an upstream fault.
			if ctx.Err() != nil {
				return RelayResult{Outcome: RelayClientGone, Bytes: total}
			}
			return RelayResult{Outcome: RelayUpstreamFailed, Bytes: total, Err: readErr}
		}
	}
}
