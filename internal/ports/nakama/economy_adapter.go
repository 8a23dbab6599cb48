package nakama

import (
	"context"
	"encoding/json"
	"fmt"

	"roshambo/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

const currencyKey = "coins"

// EconomyAdapter implements ports.EconomyPort using Nakama's wallet system.
type EconomyAdapter struct {
	nk runtime.NakamaModule
}

// NewEconomyAdapter creates a new economy adapter.
func NewEconomyAdapter(nk runtime.NakamaModule) *EconomyAdapter {
	return &EconomyAdapter{nk: nk}
}

// GetBalance retrieves the current coin balance for a user.
func (a *EconomyAdapter) GetBalance(ctx context.Context, userID string) (int64, error) {
	account, err := a.nk.AccountGetId(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get account: %w", err)
	}

	var wallet map[string]int64
	if err := json.Unmarshal([]byte(account.Wallet), &wallet); err != nil {
		return 0, fmt.Errorf("failed to unmarshal wallet: %w", err)
	}

	return wallet[currencyKey], nil
}

// UpdateBalances applies multiple wallet changes.
func (a *EconomyAdapter) UpdateBalances(ctx context.Context, updates []ports.WalletUpdate) error {
	for _, update := range updates {
		if update.Amount == 0 {
			continue
		}

		changes := map[string]int64{currencyKey: update.Amount}
		if _, _, err := a.nk.WalletUpdate(ctx, update.UserID, changes, update.Metadata, true); err != nil {
			return fmt.Errorf("failed to update wallet for user %s: %w", update.UserID, err)
		}
	}
	return nil
}

var _ ports.EconomyPort = (*EconomyAdapter)(nil)
