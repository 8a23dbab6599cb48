package nakama

import (
	"context"
	"database/sql"

	"roshambo/internal/bot"

	"github.com/heroiclabs/nakama-common/runtime"
)

// InitModule wires RPCs, hooks and the match handler for the Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	if err := initializer.RegisterRpc(RpcQuickMatch, rpcQuickMatch); err != nil {
		return err
	}
	if err := initializer.RegisterRpc(RpcShareToken, rpcShareToken); err != nil {
		return err
	}

	if err := initializer.RegisterAfterAuthenticateDevice(AfterAuthenticateDevice); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNameRoshambo, NewMatch); err != nil {
		return err
	}

	if err := bot.LoadIdentities("data/bot_identities.json"); err != nil {
		logger.Warn("InitModule: could not load bot identities: %v", err)
	} else if err := bot.ProvisionBots(ctx, nk, logger); err != nil {
		logger.Warn("InitModule: could not provision bots: %v", err)
	}

	logger.Info("Roshambo Go module loaded.")
	return nil
}
