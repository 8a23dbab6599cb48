package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"roshambo/internal/app"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// gameConfigSchema rejects malformed config files before unmarshal so a bad
// deploy fails at module load, not mid-match.
const gameConfigSchema = `{
  "type": "object",
  "properties": {
    "training_rounds": {"type": "integer", "minimum": 0},
    "target_score": {"type": "integer", "minimum": 0},
    "default_difficulty": {"enum": ["fair", "normal", "ruthless"]},
    "bot_auto_fill_delay_seconds": {"type": "integer", "minimum": 0},
    "leaderboard_id": {"type": "string", "minLength": 1},
    "share_token_ttl_seconds": {"type": "integer", "minimum": 60},
    "win_reward_coins": {"type": "integer", "minimum": 0}
  },
  "required": ["training_rounds", "target_score", "default_difficulty"],
  "additionalProperties": false
}`

// GameConfig holds the deploy-time pacing and reward knobs.
type GameConfig struct {
	// TrainingRounds is how many rounds the opponent plays fair before its
	// difficulty takes effect.
	TrainingRounds int `json:"training_rounds"`
	// TargetScore ends the match when either side reaches it; 0 disables.
	TargetScore       int    `json:"target_score"`
	DefaultDifficulty string `json:"default_difficulty"`
	// BotAutoFillDelaySeconds is how long a solo lobby waits before a bot
	// takes the empty seat.
	BotAutoFillDelaySeconds int    `json:"bot_auto_fill_delay_seconds"`
	LeaderboardID           string `json:"leaderboard_id"`
	ShareTokenTTLSeconds    int    `json:"share_token_ttl_seconds"`
	WinRewardCoins          int64  `json:"win_reward_coins"`
}

// Default returns the configuration used when no file is present.
func Default() GameConfig {
	return GameConfig{
		TrainingRounds:          app.DefaultTrainingRounds,
		TargetScore:             app.DefaultTargetScore,
		DefaultDifficulty:       "normal",
		BotAutoFillDelaySeconds: 5,
		LeaderboardID:           "win_rate",
		ShareTokenTTLSeconds:    3600,
		WinRewardCoins:          100,
	}
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads and validates the game configuration from the given
// path. Only the first call reads the file.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		c, err := parseGameConfig(data)
		if err != nil {
			loadErr = err
			return
		}
		cfg = c
	})
	return loadErr
}

func parseGameConfig(data []byte) (*GameConfig, error) {
	schema, err := jsonschema.CompileString("game_config.schema.json", gameConfigSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to compile game config schema: %w", err)
	}

	var raw interface{}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode game config: %w", err)
	}
	if err := schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("game config failed validation: %w", err)
	}

	c := Default()
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game config: %w", err)
	}
	return &c, nil
}

// GetGameConfig returns the loaded configuration, or the defaults when no
// file was loaded.
func GetGameConfig() GameConfig {
	if cfg == nil {
		return Default()
	}
	return *cfg
}
