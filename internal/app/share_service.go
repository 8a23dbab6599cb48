package app

import (
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

// ShareService mints HS256-signed read-only stat tokens. A player hands the
// token to a third party as a verifiable claim of their match record; the
// server never stores it.
type ShareService struct {
	secret string
	issuer string
	ttl    time.Duration
}

// SharedStats is the claim body embedded in a share token.
type SharedStats struct {
	Rounds     int `json:"rounds"`
	Wins       int `json:"wins"`
	Losses     int `json:"losses"`
	Ties       int `json:"ties"`
	BestStreak int `json:"best_streak"`
}

// NewShareService constructs a ShareService. TTL values of zero or below
// fall back to one hour.
func NewShareService(secret, issuer string, ttl time.Duration) *ShareService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ShareService{secret: secret, issuer: issuer, ttl: ttl}
}

// GenerateToken signs a share token for the given user's stats.
func (s *ShareService) GenerateToken(userID string, stats SharedStats) (string, error) {
	if s == nil {
		return "", fmt.Errorf("share service is nil")
	}
	if userID == "" {
		return "", fmt.Errorf("user is required")
	}
	if s.secret == "" || s.issuer == "" {
		return "", fmt.Errorf("share token config is incomplete")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iss": s.issuer,
		"sub": userID,
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
		"stats": map[string]interface{}{
			"rounds":      stats.Rounds,
			"wins":        stats.Wins,
			"losses":      stats.Losses,
			"ties":        stats.Ties,
			"best_streak": stats.BestStreak,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}
