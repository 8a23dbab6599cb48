package ports

import (
	"context"

	"roshambo/internal/bot/brain"
)

// TraceLogPort consumes finalized decision traces. The engine hands traces
// over as opaque records; how they are stored is adapter-local and not a
// public contract.
type TraceLogPort interface {
	// WriteTrace persists one finalized trace for the given match and player.
	WriteTrace(ctx context.Context, matchID, userID string, trace *brain.Trace) error
}
