package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"roshambo/internal/ports"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

const (
	statsCollection = "player_stats"
	statsKey        = "record_v1"
)

// statsStorage is the slice of NakamaModule the stats adapter needs.
type statsStorage interface {
	StorageRead(ctx context.Context, reads []*runtime.StorageRead) ([]*api.StorageObject, error)
	StorageWrite(ctx context.Context, writes []*runtime.StorageWrite) ([]*api.StorageObjectAck, error)
}

// StatsAdapter implements ports.StatsPort over Nakama storage.
type StatsAdapter struct {
	nk statsStorage
}

// NewStatsAdapter creates a new stats adapter.
func NewStatsAdapter(nk statsStorage) *StatsAdapter {
	return &StatsAdapter{nk: nk}
}

// GetStats returns the player's aggregate record, zero-valued when the
// player has none yet.
func (a *StatsAdapter) GetStats(ctx context.Context, userID string) (ports.PlayerStats, error) {
	objects, err := a.nk.StorageRead(ctx, []*runtime.StorageRead{
		{Collection: statsCollection, Key: statsKey, UserID: userID},
	})
	if err != nil {
		return ports.PlayerStats{}, fmt.Errorf("failed to read stats for %s: %w", userID, err)
	}
	if len(objects) == 0 {
		return ports.PlayerStats{UserID: userID}, nil
	}

	var stats ports.PlayerStats
	if err := json.Unmarshal([]byte(objects[0].Value), &stats); err != nil {
		return ports.PlayerStats{}, fmt.Errorf("failed to unmarshal stats for %s: %w", userID, err)
	}
	stats.UserID = userID
	return stats, nil
}

// SaveStats overwrites the player's aggregate record.
func (a *StatsAdapter) SaveStats(ctx context.Context, stats ports.PlayerStats) error {
	value, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats for %s: %w", stats.UserID, err)
	}

	_, err = a.nk.StorageWrite(ctx, []*runtime.StorageWrite{
		{
			Collection:      statsCollection,
			Key:             statsKey,
			UserID:          stats.UserID,
			Value:           string(value),
			PermissionRead:  runtime.STORAGE_PERMISSION_OWNER_READ,
			PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to write stats for %s: %w", stats.UserID, err)
	}
	return nil
}

var _ ports.StatsPort = (*StatsAdapter)(nil)

// leaderboardWriter is the slice of NakamaModule the leaderboard adapter needs.
type leaderboardWriter interface {
	LeaderboardRecordWrite(ctx context.Context, id, ownerID, username string, score, subscore int64, metadata map[string]interface{}, overrideOperator *int) (*api.LeaderboardRecord, error)
}

// LeaderboardAdapter submits win rates to a Nakama leaderboard. Score is
// win rate in permille, subscore the round volume so ties rank the more
// active player higher.
type LeaderboardAdapter struct {
	nk leaderboardWriter
	id string
}

// NewLeaderboardAdapter creates a leaderboard adapter for the given board id.
func NewLeaderboardAdapter(nk leaderboardWriter, id string) *LeaderboardAdapter {
	return &LeaderboardAdapter{nk: nk, id: id}
}

// SubmitWinRate records the player's current win rate.
func (a *LeaderboardAdapter) SubmitWinRate(ctx context.Context, userID, username string, stats ports.PlayerStats) error {
	_, err := a.nk.LeaderboardRecordWrite(ctx, a.id, userID, username, stats.WinRatePermille(), int64(stats.Rounds), nil, nil)
	if err != nil {
		return fmt.Errorf("failed to submit win rate for %s: %w", userID, err)
	}
	return nil
}

var _ ports.LeaderboardPort = (*LeaderboardAdapter)(nil)
