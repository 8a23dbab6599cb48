package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"roshambo/internal/app"
	"roshambo/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// rpcShareToken mints a signed stat-share token for the calling user. The
// signing secret comes from the runtime environment; without it the RPC is
// disabled.
func rpcShareToken(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, ok := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if !ok || userID == "" {
		return "", runtime.NewError("authentication required", 16)
	}

	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	secret := env["roshambo_share_secret"]
	if secret == "" {
		logger.Warn("rpcShareToken: share secret missing from env.")
		return "", runtime.NewError("share tokens not configured", 9)
	}

	stats, err := NewStatsAdapter(nk).GetStats(ctx, userID)
	if err != nil {
		logger.Error("rpcShareToken: failed to load stats for %s: %v", userID, err)
		return "", runtime.NewError("failed to load stats", 13)
	}

	cfg := config.GetGameConfig()
	svc := app.NewShareService(secret, "roshambo", time.Duration(cfg.ShareTokenTTLSeconds)*time.Second)
	token, err := svc.GenerateToken(userID, app.SharedStats{
		Rounds:     stats.Rounds,
		Wins:       stats.Wins,
		Losses:     stats.Losses,
		Ties:       stats.Ties,
		BestStreak: stats.BestStreak,
	})
	if err != nil {
		logger.Error("rpcShareToken: failed to sign token for %s: %v", userID, err)
		return "", runtime.NewError("failed to sign token", 13)
	}

	b, _ := json.Marshal(ShareTokenResponse{Token: token})
	return string(b), nil
}
