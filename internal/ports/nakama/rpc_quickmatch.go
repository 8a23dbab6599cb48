package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/heroiclabs/nakama-common/runtime"
)

// rpcQuickMatch finds an open match for the caller or creates a fresh one.
// Seat assignment happens in MatchJoin; the server stays authoritative.
func rpcQuickMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	// Lobby matches with an open human seat.
	query := "+label.game:roshambo +label.phase:lobby +label.open:>=1"

	limit := 1
	authoritative := true
	minSize := 0
	maxSize := 1

	matches, err := nk.MatchList(ctx, limit, authoritative, "", &minSize, &maxSize, query)
	if err != nil {
		logger.Error("rpcQuickMatch [user:%s]: failed to list matches: %v", userID, err)
		return "", runtime.NewError("failed to list matches", 13)
	}

	if len(matches) > 0 {
		resp := QuickMatchResponse{MatchID: matches[0].MatchId, IsNew: false}
		b, _ := json.Marshal(resp)
		logger.Info("rpcQuickMatch [user:%s]: found existing match %s", userID, resp.MatchID)
		return string(b), nil
	}

	matchID, err := nk.MatchCreate(ctx, MatchNameRoshambo, map[string]interface{}{})
	if err != nil {
		logger.Error("rpcQuickMatch [user:%s]: failed to create match: %v", userID, err)
		return "", runtime.NewError("failed to create match", 13)
	}

	resp := QuickMatchResponse{MatchID: matchID, IsNew: true}
	b, _ := json.Marshal(resp)
	logger.Info("rpcQuickMatch [user:%s]: created new match %s", userID, matchID)
	return string(b), nil
}
