package onboarding

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"roshambo/internal/ports"
)

const defaultWelcomeBonusCoins = 500

// Result captures non-fatal onboarding outcomes.
type Result struct {
	// ProfileUpdateErr is set when the profile update failed but onboarding continued.
	ProfileUpdateErr error
	// WelcomeBonusGranted is false when the bonus was already granted earlier.
	WelcomeBonusGranted bool
}

// Service handles post-auth onboarding for new users: a friendly display
// name, an empty match record, and a one-time coin grant.
type Service struct {
	accounts ports.AccountPort
	stats    ports.StatsPort
	bonuses  ports.WelcomeBonusPort
	rng      *rand.Rand
}

// NewService constructs an onboarding service with required ports.
// All ports must be non-nil; rng may be nil to use a time-seeded default.
func NewService(accounts ports.AccountPort, stats ports.StatsPort, bonuses ports.WelcomeBonusPort, rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		accounts: accounts,
		stats:    stats,
		bonuses:  bonuses,
		rng:      rng,
	}
}

// OnboardNewUser initializes profile, match record and wallet for a newly
// created account. The profile update is best-effort; the stats record and
// the bonus grant are required.
func (s *Service) OnboardNewUser(ctx context.Context, userID string) (Result, error) {
	if s.accounts == nil || s.stats == nil || s.bonuses == nil {
		return Result{}, fmt.Errorf("onboarding service not configured")
	}

	result := Result{}
	displayName := s.generateFriendlyName()
	if err := s.accounts.UpdateProfile(ctx, userID, displayName, displayName); err != nil {
		result.ProfileUpdateErr = err
	}

	if err := s.stats.SaveStats(ctx, ports.PlayerStats{UserID: userID}); err != nil {
		return result, fmt.Errorf("failed to initialize player stats: %w", err)
	}

	granted, err := s.bonuses.GrantWelcomeBonusOnce(ctx, userID, defaultWelcomeBonusCoins, map[string]interface{}{
		"reason": "welcome_bonus",
	})
	if err != nil {
		return result, fmt.Errorf("failed to grant welcome bonus: %w", err)
	}
	result.WelcomeBonusGranted = granted

	return result, nil
}

func (s *Service) generateFriendlyName() string {
	adjectives := []string{"Happy", "Shiny", "Brave", "Clever", "Swift", "Calm", "Mighty", "Witty", "Sly", "Wild"}
	nouns := []string{"Panda", "Tiger", "Eagle", "Dolphin", "Wolf", "Otter", "Falcon", "Bear", "Fox", "Lion"}

	adj := adjectives[s.rng.Intn(len(adjectives))]
	noun := nouns[s.rng.Intn(len(nouns))]
	num := s.rng.Intn(9000) + 1000

	return fmt.Sprintf("%s%s%d", adj, noun, num)
}
