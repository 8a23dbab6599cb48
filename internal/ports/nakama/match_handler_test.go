package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"roshambo/internal/app"
	"roshambo/internal/bot"
	"roshambo/internal/bot/brain"
	"roshambo/internal/domain"
	"roshambo/internal/ports"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

// mockDispatcher records match dispatcher calls for assertions.
type mockDispatcher struct {
	broadcastCount int
	labelUpdates   int
	lastOpCode     int64
	lastData       []byte
}

func (md *mockDispatcher) BroadcastMessage(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	md.broadcastCount++
	md.lastOpCode = opCode
	md.lastData = append([]byte(nil), data...)
	return nil
}

func (md *mockDispatcher) BroadcastMessageDeferred(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	return nil
}

func (md *mockDispatcher) MatchKick(presences []runtime.Presence) error {
	return nil
}

func (md *mockDispatcher) MatchLabelUpdate(label string) error {
	md.labelUpdates++
	return nil
}

// mockStorage records storage reads and writes for the adapter tests.
type mockStorage struct {
	objects map[string]string // collection/key/user -> value
	writes  []*runtime.StorageWrite
	readErr error
}

func storageKey(collection, key, userID string) string {
	return collection + "/" + key + "/" + userID
}

func (ms *mockStorage) StorageRead(ctx context.Context, reads []*runtime.StorageRead) ([]*api.StorageObject, error) {
	if ms.readErr != nil {
		return nil, ms.readErr
	}
	var objects []*api.StorageObject
	for _, r := range reads {
		if value, ok := ms.objects[storageKey(r.Collection, r.Key, r.UserID)]; ok {
			objects = append(objects, &api.StorageObject{
				Collection: r.Collection,
				Key:        r.Key,
				UserId:     r.UserID,
				Value:      value,
			})
		}
	}
	return objects, nil
}

func (ms *mockStorage) StorageWrite(ctx context.Context, writes []*runtime.StorageWrite) ([]*api.StorageObjectAck, error) {
	ms.writes = append(ms.writes, writes...)
	return nil, nil
}

type mockLeaderboard struct {
	id       string
	ownerID  string
	username string
	score    int64
	subscore int64
	calls    int
}

func (ml *mockLeaderboard) LeaderboardRecordWrite(ctx context.Context, id, ownerID, username string, score, subscore int64, metadata map[string]interface{}, overrideOperator *int) (*api.LeaderboardRecord, error) {
	ml.calls++
	ml.id = id
	ml.ownerID = ownerID
	ml.username = username
	ml.score = score
	ml.subscore = subscore
	return nil, nil
}

// fakeTraceLog records traces handed to the port.
type fakeTraceLog struct {
	traces []*brain.Trace
	err    error
}

func (f *fakeTraceLog) WriteTrace(ctx context.Context, matchID, userID string, trace *brain.Trace) error {
	if f.err != nil {
		return f.err
	}
	f.traces = append(f.traces, trace)
	return nil
}

type fakeStatsPort struct {
	saved *ports.PlayerStats
}

func (f *fakeStatsPort) GetStats(ctx context.Context, userID string) (ports.PlayerStats, error) {
	return ports.PlayerStats{UserID: userID}, nil
}

func (f *fakeStatsPort) SaveStats(ctx context.Context, stats ports.PlayerStats) error {
	f.saved = &stats
	return nil
}

type fakeLeaderboardPort struct {
	submitted *ports.PlayerStats
}

func (f *fakeLeaderboardPort) SubmitWinRate(ctx context.Context, userID, username string, stats ports.PlayerStats) error {
	f.submitted = &stats
	return nil
}

type mockEconomy struct {
	updates []ports.WalletUpdate
}

func (me *mockEconomy) GetBalance(ctx context.Context, userID string) (int64, error) {
	return 0, errors.New("balance not found")
}

func (me *mockEconomy) UpdateBalances(ctx context.Context, updates []ports.WalletUpdate) error {
	me.updates = append(me.updates, updates...)
	return nil
}

func init() {
	// Load bot identities for testing.
	if err := bot.LoadIdentities("test_bot_identities.json"); err != nil {
		panic("Failed to load bot identities for tests: " + err.Error())
	}
}

func TestMatchStateOpenSeatsAndPhase(t *testing.T) {
	tests := []struct {
		name      string
		state     *MatchState
		wantOpen  int
		wantPhase string
	}{
		{
			name:      "EmptyLobby",
			state:     &MatchState{},
			wantOpen:  1,
			wantPhase: "lobby",
		},
		{
			name:      "SeatedNotStarted",
			state:     &MatchState{PlayerID: "user-1"},
			wantOpen:  0,
			wantPhase: "lobby",
		},
		{
			name: "Playing",
			state: &MatchState{
				PlayerID: "user-1",
				BotID:    "test-bot-1",
				Game:     &domain.Game{Phase: domain.PhasePlaying},
			},
			wantOpen:  0,
			wantPhase: "playing",
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			if got := test.state.openSeats(); got != test.wantOpen {
				t.Fatalf("openSeats() = %d, want %d", got, test.wantOpen)
			}
			if got := test.state.phase(); got != test.wantPhase {
				t.Fatalf("phase() = %s, want %s", got, test.wantPhase)
			}
		})
	}
}

func TestSeatBotPrefersDifficultyMatch(t *testing.T) {
	handler := &matchHandler{}
	state := &MatchState{Difficulty: "ruthless", Seed: 7}

	handler.seatBot(state, noopLogger{})

	if state.BotID == "" {
		t.Fatalf("Expected a bot to be seated")
	}
	identity, ok := bot.GetBotConfig(state.BotID)
	if !ok {
		t.Fatalf("Seated bot %s not in roster", state.BotID)
	}
	if identity.Difficulty != "ruthless" {
		t.Fatalf("Expected ruthless roster bot, got %s", identity.Difficulty)
	}
	if state.Agent == nil || state.Agent.Brain.Level() != bot.LevelRuthless {
		t.Fatalf("Expected ruthless agent")
	}
}

func TestSeatBotForcesDifficultyWithoutRosterMatch(t *testing.T) {
	// The test roster carries no fair bot, so the configured difficulty is
	// forced onto whichever identity gets the seat.
	handler := &matchHandler{}
	state := &MatchState{Difficulty: "fair", Seed: 7}

	handler.seatBot(state, noopLogger{})

	if state.Agent == nil || state.Agent.Brain.Level() != bot.LevelFair {
		t.Fatalf("Expected forced fair agent")
	}
}

func TestBroadcastEventRoundResolved(t *testing.T) {
	handler := &matchHandler{}
	dispatcher := &mockDispatcher{}
	traces := &fakeTraceLog{}
	state := &MatchState{
		PlayerID:  "user-1",
		Presences: make(map[string]runtime.Presence),
		Traces:    traces,
	}

	trace := &brain.Trace{ID: "trace-1", Final: true}
	ev := app.Event{
		Kind: app.EventRoundResolved,
		Payload: app.RoundResolvedPayload{
			Round:      1,
			PlayerMove: domain.Rock,
			BotMove:    domain.Paper,
			Outcome:    domain.OutcomeLose,
			Trace:      trace,
		},
	}

	handler.broadcastEvent(context.Background(), state, dispatcher, noopLogger{}, ev)

	if dispatcher.broadcastCount != 1 || dispatcher.lastOpCode != OpRoundResolved {
		t.Fatalf("Expected one round_resolved broadcast, got %d with opcode %d", dispatcher.broadcastCount, dispatcher.lastOpCode)
	}
	if len(traces.traces) != 1 || traces.traces[0].ID != "trace-1" {
		t.Fatalf("Expected trace to be persisted")
	}
	if state.Record.Rounds != 1 || state.Record.Losses != 1 {
		t.Fatalf("Expected record to absorb the loss, got %+v", state.Record)
	}

	var payload app.RoundResolvedPayload
	if err := json.Unmarshal(dispatcher.lastData, &payload); err != nil {
		t.Fatalf("Failed to unmarshal broadcast payload: %v", err)
	}
	if payload.PlayerMove != domain.Rock || payload.BotMove != domain.Paper {
		t.Fatalf("Broadcast payload moves mismatch: %+v", payload)
	}
}

func TestBroadcastEventMatchEndedAwardsPurse(t *testing.T) {
	handler := &matchHandler{}
	dispatcher := &mockDispatcher{}
	stats := &fakeStatsPort{}
	board := &fakeLeaderboardPort{}
	economy := &mockEconomy{}
	state := &MatchState{
		PlayerID:       "user-1",
		BotID:          "test-bot-1",
		Presences:      make(map[string]runtime.Presence),
		Game:           &domain.Game{Phase: domain.PhaseEnded},
		Record:         ports.PlayerStats{UserID: "user-1", Rounds: 12, Wins: 10, Losses: 2},
		Stats:          stats,
		Leaderboard:    board,
		Economy:        economy,
		WinRewardCoins: 100,
	}

	ev := app.Event{
		Kind:    app.EventMatchEnded,
		Payload: app.MatchEndedPayload{WinnerID: "user-1", Rounds: 12},
	}
	handler.broadcastEvent(context.Background(), state, dispatcher, noopLogger{}, ev)

	if dispatcher.lastOpCode != OpMatchEnded {
		t.Fatalf("Expected match_ended opcode, got %d", dispatcher.lastOpCode)
	}
	if stats.saved == nil || stats.saved.Wins != 10 {
		t.Fatalf("Expected stats to be persisted at match end")
	}
	if board.submitted == nil {
		t.Fatalf("Expected leaderboard submission at match end")
	}
	if len(economy.updates) != 1 || economy.updates[0].Amount != 100 || economy.updates[0].UserID != "user-1" {
		t.Fatalf("Expected a 100 coin victory purse, got %+v", economy.updates)
	}
	if state.Game != nil {
		t.Fatalf("Expected game cleared back to lobby")
	}
	if dispatcher.labelUpdates != 1 {
		t.Fatalf("Expected label update after match end, got %d", dispatcher.labelUpdates)
	}
}

func TestBroadcastEventBotVictorySkipsPurse(t *testing.T) {
	handler := &matchHandler{}
	dispatcher := &mockDispatcher{}
	economy := &mockEconomy{}
	state := &MatchState{
		PlayerID:       "user-1",
		BotID:          "test-bot-1",
		Presences:      make(map[string]runtime.Presence),
		Game:           &domain.Game{Phase: domain.PhaseEnded},
		Record:         ports.PlayerStats{UserID: "user-1", Rounds: 12, Wins: 2, Losses: 10},
		Stats:          &fakeStatsPort{},
		Leaderboard:    &fakeLeaderboardPort{},
		Economy:        economy,
		WinRewardCoins: 100,
	}

	ev := app.Event{
		Kind:    app.EventMatchEnded,
		Payload: app.MatchEndedPayload{WinnerID: "test-bot-1", Rounds: 12},
	}
	handler.broadcastEvent(context.Background(), state, dispatcher, noopLogger{}, ev)

	if len(economy.updates) != 0 {
		t.Fatalf("Expected no purse for a bot victory, got %+v", economy.updates)
	}
}

func TestBroadcastEventDropsUnreachableRecipients(t *testing.T) {
	handler := &matchHandler{}
	dispatcher := &mockDispatcher{}
	state := &MatchState{
		PlayerID:  "user-1",
		Presences: make(map[string]runtime.Presence),
	}

	// A targeted event for a disconnected recipient must not leak to everyone.
	ev := app.Event{
		Kind:       app.EventMatchStarted,
		Payload:    app.MatchStartedPayload{PlayerID: "user-1", BotID: "test-bot-1"},
		Recipients: []string{"test-bot-1"},
	}
	handler.broadcastEvent(context.Background(), state, dispatcher, noopLogger{}, ev)

	if dispatcher.broadcastCount != 0 {
		t.Fatalf("Expected no broadcast for unreachable recipients, got %d", dispatcher.broadcastCount)
	}
}

func TestPersistRecordSkipsEmptyRecord(t *testing.T) {
	handler := &matchHandler{}
	stats := &fakeStatsPort{}
	state := &MatchState{
		PlayerID: "user-1",
		Record:   ports.PlayerStats{UserID: "user-1"},
		Stats:    stats,
	}

	handler.persistRecord(context.Background(), state, noopLogger{})

	if stats.saved != nil {
		t.Fatalf("Expected zero-round record to be skipped")
	}
}

func TestTraceLogAdapterRejectsPendingTrace(t *testing.T) {
	adapter := NewTraceLogAdapter(&mockStorage{})

	err := adapter.WriteTrace(context.Background(), "match-1", "user-1", &brain.Trace{ID: "trace-1"})
	if err == nil {
		t.Fatalf("Expected error for a trace that was never committed")
	}
}

func TestTraceLogAdapterWritesFinalTrace(t *testing.T) {
	storage := &mockStorage{}
	adapter := NewTraceLogAdapter(storage)

	trace := &brain.Trace{ID: "trace-1", Policy: brain.PolicyFallback, Final: true}
	if err := adapter.WriteTrace(context.Background(), "match-1", "user-1", trace); err != nil {
		t.Fatalf("WriteTrace failed: %v", err)
	}

	if len(storage.writes) != 1 {
		t.Fatalf("Expected one storage write, got %d", len(storage.writes))
	}
	write := storage.writes[0]
	if write.Collection != "decision_traces" || write.Key != "trace-1" || write.UserID != "user-1" {
		t.Fatalf("Unexpected storage location: %s/%s/%s", write.Collection, write.Key, write.UserID)
	}
	if !strings.Contains(write.Value, `"match_id":"match-1"`) {
		t.Fatalf("Expected match id in stored trace, got %s", write.Value)
	}
	if write.PermissionWrite != runtime.STORAGE_PERMISSION_NO_WRITE {
		t.Fatalf("Traces must not be client writable")
	}
}

func TestStatsAdapterZeroValueWhenAbsent(t *testing.T) {
	adapter := NewStatsAdapter(&mockStorage{})

	stats, err := adapter.GetStats(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.UserID != "user-1" || stats.Rounds != 0 || stats.Wins != 0 {
		t.Fatalf("Expected zero-valued record, got %+v", stats)
	}
}

func TestStatsAdapterRoundtrip(t *testing.T) {
	storage := &mockStorage{objects: make(map[string]string)}
	adapter := NewStatsAdapter(storage)

	record := ports.PlayerStats{UserID: "user-1", Rounds: 9, Wins: 5, Losses: 3, Ties: 1, BestStreak: 4}
	if err := adapter.SaveStats(context.Background(), record); err != nil {
		t.Fatalf("SaveStats failed: %v", err)
	}
	if len(storage.writes) != 1 {
		t.Fatalf("Expected one storage write, got %d", len(storage.writes))
	}
	write := storage.writes[0]
	storage.objects[storageKey(write.Collection, write.Key, write.UserID)] = write.Value

	loaded, err := adapter.GetStats(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if loaded != record {
		t.Fatalf("Roundtrip mismatch: got %+v, want %+v", loaded, record)
	}
}

func TestLeaderboardAdapterSubmitsPermille(t *testing.T) {
	board := &mockLeaderboard{}
	adapter := NewLeaderboardAdapter(board, "win_rate")

	stats := ports.PlayerStats{UserID: "user-1", Rounds: 4, Wins: 3, Losses: 1}
	if err := adapter.SubmitWinRate(context.Background(), "user-1", "Alice", stats); err != nil {
		t.Fatalf("SubmitWinRate failed: %v", err)
	}

	if board.calls != 1 || board.id != "win_rate" {
		t.Fatalf("Expected one write to win_rate, got %d to %s", board.calls, board.id)
	}
	if board.score != 750 {
		t.Fatalf("Expected 750 permille, got %d", board.score)
	}
	if board.subscore != 4 {
		t.Fatalf("Expected round volume as subscore, got %d", board.subscore)
	}
}
