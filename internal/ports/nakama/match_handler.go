package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"time"

	"roshambo/internal/app"
	"roshambo/internal/bot"
	"roshambo/internal/config"
	"roshambo/internal/domain"
	"roshambo/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// MatchState holds the authoritative runtime state for the Nakama match
// handler. One human seat, one bot seat.
type MatchState struct {
	PlayerID string `json:"player_id"`
	BotID    string `json:"bot_id"`
	Tick     int64  `json:"tick"`

	// LobbySinceTick is when the human started waiting alone; the bot seat
	// auto-fills BotAutoFillDelay ticks later.
	LobbySinceTick   int64 `json:"lobby_since_tick"`
	BotAutoFillDelay int   `json:"bot_auto_fill_delay"`

	Difficulty string `json:"difficulty"`

	Presences map[string]runtime.Presence `json:"-"`
	App       *app.Service                `json:"-"`
	Game      *domain.Game                `json:"-"`
	Agent     *bot.Agent                  `json:"-"`
	Record    ports.PlayerStats           `json:"-"`

	Traces      ports.TraceLogPort    `json:"-"`
	Stats       ports.StatsPort       `json:"-"`
	Leaderboard ports.LeaderboardPort `json:"-"`
	Economy     ports.EconomyPort     `json:"-"`

	WinRewardCoins int64  `json:"-"`
	Seed           uint64 `json:"-"`
}

func (ms *MatchState) openSeats() int {
	if ms.PlayerID == "" {
		return 1
	}
	return 0
}

func (ms *MatchState) phase() string {
	if ms.Game == nil || ms.Game.Phase != domain.PhasePlaying {
		return "lobby"
	}
	return "playing"
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: initializing match handler.")

	if err := bot.LoadIdentities("data/bot_identities.json"); err != nil {
		logger.Warn("MatchInit: could not load bot identities: %v", err)
	}
	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("MatchInit: could not load game config: %v", err)
	}
	cfg := config.GetGameConfig()

	state := &MatchState{
		Presences:        make(map[string]runtime.Presence),
		App:              app.NewService(cfg.TrainingRounds, cfg.TargetScore),
		BotAutoFillDelay: cfg.BotAutoFillDelaySeconds,
		Difficulty:       cfg.DefaultDifficulty,
		Traces:           NewTraceLogAdapter(nk),
		Stats:            NewStatsAdapter(nk),
		Leaderboard:      NewLeaderboardAdapter(nk, cfg.LeaderboardID),
		Economy:          NewEconomyAdapter(nk),
		WinRewardCoins:   cfg.WinRewardCoins,
		Seed:             uint64(time.Now().UnixNano()),
	}

	// Per-match overrides from create params, then environment.
	if v, ok := params["difficulty"].(string); ok && v != "" {
		state.Difficulty = v
	}
	if v, ok := params["seed"].(string); ok {
		if seed, err := strconv.ParseUint(v, 10, 64); err == nil {
			state.Seed = seed
		}
	}
	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		if v, ok := env["roshambo_difficulty"]; ok && v != "" {
			state.Difficulty = v
		}
		if v, ok := env["roshambo_bot_auto_fill_delay_sec"]; ok {
			if i, err := strconv.Atoi(v); err == nil {
				state.BotAutoFillDelay = i
			}
		}
	}
	if _, err := bot.ParseLevel(state.Difficulty); err != nil {
		logger.Warn("MatchInit: unknown difficulty %q, using normal", state.Difficulty)
		state.Difficulty = bot.LevelNormal.String()
	}

	labelBytes, err := json.Marshal(MatchLabel{Game: "roshambo", Phase: state.phase(), Open: state.openSeats()})
	if err != nil {
		logger.Error("MatchInit: failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1
	return state, tickRate, string(labelBytes)
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	userID := presence.GetUserId()
	if matchState.PlayerID != "" && matchState.PlayerID != userID {
		return state, false, "Match full"
	}
	if bot.IsBot(userID) {
		return state, false, "Bots cannot join as players"
	}

	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p
		if matchState.PlayerID == "" {
			matchState.PlayerID = p.GetUserId()
			matchState.LobbySinceTick = matchState.Tick

			record, err := matchState.Stats.GetStats(ctx, p.GetUserId())
			if err != nil {
				logger.Warn("MatchJoin: could not load stats for %s: %v", p.GetUserId(), err)
				record = ports.PlayerStats{UserID: p.GetUserId()}
			}
			matchState.Record = record
			logger.Info("MatchJoin: player %s seated.", p.GetUserId())
		}

		if joined, err := json.Marshal(app.PlayerJoinedPayload{UserID: p.GetUserId(), Owner: p.GetUserId() == matchState.PlayerID}); err == nil {
			dispatcher.BroadcastMessage(OpPlayerJoined, joined, nil, nil, true)
		}
	}

	mh.updateLabel(matchState, dispatcher, logger)
	mh.broadcastSnapshot(matchState, dispatcher, logger)

	return matchState
}

// MatchLeave is called when the player disconnects. With the only human
// gone the match has no reason to live.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())
		if left, err := json.Marshal(app.PlayerLeftPayload{UserID: p.GetUserId()}); err == nil {
			dispatcher.BroadcastMessage(OpPlayerLeft, left, nil, nil, true)
		}
		if matchState.PlayerID == p.GetUserId() {
			mh.persistRecord(ctx, matchState, logger)
			logger.Info("MatchLeave: player %s left, terminating match.", p.GetUserId())
			return nil
		}
	}

	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartMatch:
			mh.handleStartMatch(ctx, matchState, dispatcher, logger, msg)
		case OpPlayMove:
			mh.handlePlayMove(ctx, matchState, dispatcher, logger, msg)
		case OpResetTraining:
			mh.handleResetTraining(ctx, matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: unknown opcode received: %d", msg.GetOpCode())
		}
	}

	// Auto-fill the bot seat once the human has waited long enough.
	if matchState.PlayerID != "" && matchState.BotID == "" &&
		matchState.Tick-matchState.LobbySinceTick >= int64(matchState.BotAutoFillDelay) {
		mh.seatBot(matchState, logger)
		mh.broadcastSnapshot(matchState, dispatcher, logger)
	}

	return matchState
}

// seatBot picks a roster identity matching the match difficulty and builds
// its agent.
func (mh *matchHandler) seatBot(state *MatchState, logger runtime.Logger) {
	identity := bot.GetBotIdentity(0)
	for _, id := range bot.GetAllBotIDs() {
		if cfg, ok := bot.GetBotConfig(id); ok && cfg.Difficulty == state.Difficulty {
			identity = cfg
			break
		}
	}
	if identity.Difficulty != state.Difficulty {
		// No roster match; force the configured difficulty.
		identity.Difficulty = state.Difficulty
	}

	state.BotID = identity.UserID
	state.Agent = bot.NewAgent(identity, state.Seed)
	logger.Info("seatBot: bot %s (%s) seated at difficulty %s.", identity.DisplayName, identity.UserID, identity.Difficulty)
}

func (mh *matchHandler) handleStartMatch(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if senderID != state.PlayerID {
		logger.Warn("StartMatch: user %s is not the seated player.", senderID)
		return
	}

	if state.BotID == "" {
		// Player is eager; seat the bot immediately instead of waiting out
		// the auto-fill delay.
		mh.seatBot(state, logger)
		mh.broadcastSnapshot(state, dispatcher, logger)
	}

	if state.Game != nil && state.Game.Phase == domain.PhasePlaying {
		logger.Warn("StartMatch: match already in progress.")
		return
	}

	state.Game = domain.NewGame()
	state.Agent.Brain.Reset()

	events, err := state.App.StartMatch(state.Game, state.PlayerID, state.BotID)
	if err != nil {
		logger.Error("StartMatch: failed to start: %v", err)
		state.Game = nil
		return
	}

	mh.updateLabel(state, dispatcher, logger)
	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}

	logger.Info("StartMatch: match started for %s vs %s.", state.PlayerID, state.BotID)
}

func (mh *matchHandler) handlePlayMove(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	if state.Game == nil {
		mh.sendError(state, dispatcher, logger, senderID, 400, "match not started")
		return
	}

	var request PlayMoveRequest
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Warn("handlePlayMove: invalid payload from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, "invalid payload")
		return
	}
	move, ok := domain.ParseMove(request.Move)
	if !ok {
		mh.sendError(state, dispatcher, logger, senderID, 400, "unknown move: "+request.Move)
		return
	}

	events, err := state.App.PlayRound(state.Game, state.Agent, senderID, move)
	if err != nil {
		logger.Warn("handlePlayMove: user %s failed to play: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}

	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) handleResetTraining(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if senderID != state.PlayerID {
		logger.Warn("ResetTraining: user %s is not the seated player.", senderID)
		return
	}
	if state.Game == nil {
		mh.sendError(state, dispatcher, logger, senderID, 400, "match not started")
		return
	}

	events, err := state.App.ResetTraining(state.Game, state.Agent)
	if err != nil {
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}

	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

// broadcastEvent converts app events to wire messages and applies their
// side effects: trace persistence per round, stats/leaderboard/reward on
// match end.
func (mh *matchHandler) broadcastEvent(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	var opCode int64

	switch ev.Kind {
	case app.EventPlayerJoined:
		opCode = OpPlayerJoined
	case app.EventPlayerLeft:
		opCode = OpPlayerLeft
	case app.EventMatchStarted:
		opCode = OpMatchStarted
	case app.EventRoundResolved:
		opCode = OpRoundResolved
		p := ev.Payload.(app.RoundResolvedPayload)
		state.Record.RecordOutcome(p.Outcome)
		if state.Traces != nil && p.Trace != nil {
			matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)
			if err := state.Traces.WriteTrace(ctx, matchID, state.PlayerID, p.Trace); err != nil {
				logger.Error("Failed to write decision trace: %v", err)
			}
		}
	case app.EventTrainingReset:
		opCode = OpTrainingReset
	case app.EventMatchEnded:
		opCode = OpMatchEnded
		p := ev.Payload.(app.MatchEndedPayload)
		mh.persistRecord(ctx, state, logger)
		if p.WinnerID == state.PlayerID && state.Economy != nil && state.WinRewardCoins > 0 {
			matchID, _ := ctx.Value(runtime.RUNTIME_CTX_MATCH_ID).(string)
			updates := []ports.WalletUpdate{{
				UserID: state.PlayerID,
				Amount: state.WinRewardCoins,
				Metadata: map[string]interface{}{
					"match_id": matchID,
					"reason":   "match_victory",
				},
			}}
			if err := state.Economy.UpdateBalances(ctx, updates); err != nil {
				logger.Error("Failed to award victory purse: %v", err)
			}
		}
		// Back to the lobby; the next start gets a fresh game and brain.
		state.Game = nil
		mh.updateLabel(state, dispatcher, logger)
	default:
		logger.Warn("Unknown event kind: %v", ev.Kind)
		return
	}

	bytes, err := json.Marshal(ev.Payload)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}

	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, uid := range ev.Recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}
		// Targeted recipients that are not connected (the bot) must not
		// fall back to a broadcast.
		if len(recipients) == 0 {
			return
		}
	}

	dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true)
}

// persistRecord saves the running stats record and refreshes the
// leaderboard entry.
func (mh *matchHandler) persistRecord(ctx context.Context, state *MatchState, logger runtime.Logger) {
	if state.PlayerID == "" || state.Record.Rounds == 0 {
		return
	}
	if state.Stats != nil {
		if err := state.Stats.SaveStats(ctx, state.Record); err != nil {
			logger.Error("Failed to save stats for %s: %v", state.PlayerID, err)
		}
	}
	if state.Leaderboard != nil {
		username := state.PlayerID
		if p, ok := state.Presences[state.PlayerID]; ok {
			username = p.GetUsername()
		}
		if err := state.Leaderboard.SubmitWinRate(ctx, state.PlayerID, username, state.Record); err != nil {
			logger.Error("Failed to submit win rate for %s: %v", state.PlayerID, err)
		}
	}
}

func (mh *matchHandler) broadcastSnapshot(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	var seats []SeatState
	if state.PlayerID != "" {
		displayName := state.PlayerID
		if p, ok := state.Presences[state.PlayerID]; ok {
			displayName = p.GetUsername()
		}
		seats = append(seats, SeatState{UserID: state.PlayerID, DisplayName: displayName})
	}
	if state.BotID != "" {
		seats = append(seats, SeatState{
			UserID:      state.BotID,
			DisplayName: bot.GetBotDisplayName(state.BotID),
			IsBot:       true,
			Difficulty:  state.Difficulty,
		})
	}

	round := 0
	if state.Game != nil {
		round = state.Game.Round()
	}

	bytes, err := json.Marshal(MatchStateSnapshot{Seats: seats, Phase: state.phase(), Round: round})
	if err != nil {
		logger.Error("Failed to marshal match snapshot: %v", err)
		return
	}
	dispatcher.BroadcastMessage(OpMatchState, bytes, nil, nil, true)
}

// sendError sends an ErrorEvent to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	bytes, err := json.Marshal(ErrorEvent{Code: code, Message: message})
	if err != nil {
		logger.Error("Failed to marshal error event: %v", err)
		return
	}

	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: presence not found", userID)
		return
	}

	dispatcher.BroadcastMessage(OpError, bytes, []runtime.Presence{presence}, nil, true)
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	labelBytes, err := json.Marshal(MatchLabel{Game: "roshambo", Phase: state.phase(), Open: state.openSeats()})
	if err != nil {
		logger.Error("UpdateLabel: failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(string(labelBytes)); err != nil {
		logger.Error("UpdateLabel: failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	if matchState, ok := state.(*MatchState); ok {
		mh.persistRecord(ctx, matchState, logger)
	}
	logger.Debug("MatchTerminate: match terminated for reason %d", reason)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}
