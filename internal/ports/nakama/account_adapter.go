package nakama

import (
	"context"

	"roshambo/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// AccountAdapter implements ports.AccountPort using Nakama's account API.
type AccountAdapter struct {
	nk runtime.NakamaModule
}

// NewAccountAdapter creates a new account adapter.
func NewAccountAdapter(nk runtime.NakamaModule) *AccountAdapter {
	return &AccountAdapter{nk: nk}
}

// UpdateProfile updates the account username and display name in Nakama.
func (a *AccountAdapter) UpdateProfile(ctx context.Context, userID, username, displayName string) error {
	return a.nk.AccountUpdateId(ctx, userID, username, nil, displayName, "", "", "", "")
}

var _ ports.AccountPort = (*AccountAdapter)(nil)
