package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"roshambo/internal/bot/brain"
	"roshambo/internal/ports"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

const traceCollection = "decision_traces"

// storageWriter is the slice of NakamaModule the trace adapter needs.
type storageWriter interface {
	StorageWrite(ctx context.Context, writes []*runtime.StorageWrite) ([]*api.StorageObjectAck, error)
}

// traceRecord is the stored shape: the finalized trace plus where it came
// from. Adapter-local, not a public contract.
type traceRecord struct {
	MatchID string       `json:"match_id"`
	Trace   *brain.Trace `json:"trace"`
}

// TraceLogAdapter persists finalized decision traces as per-player storage
// objects keyed by trace id, owner-readable so a client can audit why the
// bot played what it played.
type TraceLogAdapter struct {
	nk storageWriter
}

// NewTraceLogAdapter creates a new trace log adapter.
func NewTraceLogAdapter(nk storageWriter) *TraceLogAdapter {
	return &TraceLogAdapter{nk: nk}
}

// WriteTrace persists one finalized trace.
func (a *TraceLogAdapter) WriteTrace(ctx context.Context, matchID, userID string, trace *brain.Trace) error {
	if trace == nil || !trace.Final {
		return fmt.Errorf("trace must be finalized before writing")
	}

	value, err := json.Marshal(traceRecord{MatchID: matchID, Trace: trace})
	if err != nil {
		return fmt.Errorf("failed to marshal trace %s: %w", trace.ID, err)
	}

	_, err = a.nk.StorageWrite(ctx, []*runtime.StorageWrite{
		{
			Collection:      traceCollection,
			Key:             trace.ID,
			UserID:          userID,
			Value:           string(value),
			PermissionRead:  runtime.STORAGE_PERMISSION_OWNER_READ,
			PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to write trace %s: %w", trace.ID, err)
	}
	return nil
}

var _ ports.TraceLogPort = (*TraceLogAdapter)(nil)
