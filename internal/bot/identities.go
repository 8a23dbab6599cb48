package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/heroiclabs/nakama-common/runtime"
)

// BotIdentity is one entry of the opponent roster file. Difficulty is one of
// "fair", "normal" or "ruthless" and selects the aggression level of the
// brain built for this identity.
type BotIdentity struct {
	DeviceID    string `json:"device_id"`
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Difficulty  string `json:"difficulty"`
	AvatarIndex int    `json:"avatar_index"`
}

// Level returns the identity's aggression level, defaulting to normal when
// the roster entry carries an unknown difficulty string.
func (b BotIdentity) Level() Level {
	level, err := ParseLevel(b.Difficulty)
	if err != nil {
		return LevelNormal
	}
	return level
}

var (
	botIdentities []BotIdentity
	botConfigMap  map[string]BotIdentity
	loadOnce      sync.Once
	provisionOnce sync.Once
	loadErr       error
)

// LoadIdentities loads the opponent roster from the given path. Safe to call
// more than once; only the first call reads the file.
func LoadIdentities(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read bot identities: %w", err)
			return
		}

		if err := json.Unmarshal(data, &botIdentities); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal bot identities: %w", err)
			return
		}

		botConfigMap = make(map[string]BotIdentity)
		for _, identity := range botIdentities {
			if identity.UserID != "" {
				botConfigMap[identity.UserID] = identity
			}
		}
	})
	return loadErr
}

// ProvisionBots authenticates every roster entry against Nakama so the bot
// accounts exist with is_bot metadata before the first match asks for one.
func ProvisionBots(ctx context.Context, nk runtime.NakamaModule, logger runtime.Logger) error {
	var err error
	provisionOnce.Do(func() {
		for i := range botIdentities {
			identity := &botIdentities[i]
			if identity.DeviceID == "" {
				continue
			}

			userID, username, _, authErr := nk.AuthenticateDevice(ctx, identity.DeviceID, identity.Username, true)
			if authErr != nil {
				logger.Error("ProvisionBots: failed to authenticate bot %s: %v", identity.Username, authErr)
				continue
			}

			identity.UserID = userID
			identity.Username = username

			metadata := map[string]interface{}{
				"is_bot":       true,
				"difficulty":   identity.Difficulty,
				"avatar_index": identity.AvatarIndex,
			}
			authErr = nk.AccountUpdateId(ctx, userID, identity.Username, metadata, identity.DisplayName, "", "", "", "")
			if authErr != nil {
				logger.Warn("ProvisionBots: failed to update bot account %s: %v", userID, authErr)
			}

			botConfigMap[identity.UserID] = *identity

			logger.Info("ProvisionBots: bot %s (%s) ready, difficulty %s", identity.DisplayName, userID, identity.Difficulty)
		}
	})
	return err
}

// GetBotConfig returns the roster entry for a provisioned bot user ID.
func GetBotConfig(userID string) (BotIdentity, bool) {
	config, ok := botConfigMap[userID]
	return config, ok
}

// GetBotDisplayName returns the display name for a bot ID, falling back to
// the username and then to empty for non-bot IDs.
func GetBotDisplayName(userID string) string {
	config, ok := botConfigMap[userID]
	if !ok {
		return ""
	}
	if config.DisplayName != "" {
		return config.DisplayName
	}
	return config.Username
}

// GetBotIdentity returns a roster entry by index (mod pool size), with a
// synthetic normal-difficulty fallback when no roster was loaded.
func GetBotIdentity(index int) BotIdentity {
	if len(botIdentities) == 0 {
		return BotIdentity{
			UserID:      fmt.Sprintf("bot-%d", index),
			DisplayName: fmt.Sprintf("AI Player %d", index),
			Difficulty:  LevelNormal.String(),
		}
	}
	return botIdentities[index%len(botIdentities)]
}

// IsBot reports whether the given user ID belongs to the opponent pool.
func IsBot(userID string) bool {
	if botConfigMap == nil {
		return false
	}
	_, ok := botConfigMap[userID]
	return ok
}

// GetAllBotIDs returns every provisioned bot user ID.
func GetAllBotIDs() []string {
	ids := make([]string, 0, len(botConfigMap))
	for id := range botConfigMap {
		ids = append(ids, id)
	}
	return ids
}
