package ports

import "context"

// WelcomeBonusPort seeds a new player's wallet with starting coins, at most
// once per account regardless of how many times onboarding retries.
type WelcomeBonusPort interface {
	// GrantWelcomeBonusOnce attempts the one-time coin grant. Returns
	// granted=false when an earlier grant already went through.
	GrantWelcomeBonusOnce(ctx context.Context, userID string, amount int64, metadata map[string]interface{}) (bool, error)
}
