// Command arena pits the adaptive opponent against scripted player models
// for offline tuning. It prints win rates and expert weight evolution, and
// can persist every decision trace into a local SQLite database.
package main

import (
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"roshambo/internal/bot"
	"roshambo/internal/bot/brain"
	"roshambo/internal/domain"

	_ "modernc.org/sqlite"
)

var (
	rounds   = flag.Int("rounds", 200, "Number of rounds to simulate")
	level    = flag.String("level", "ruthless", "Opponent aggression: fair, normal or ruthless")
	player   = flag.String("player", "wsls", "Scripted player model: constant, cycle, wsls or random")
	seed     = flag.Uint64("seed", 0, "RNG seed (0 picks the current time)")
	training = flag.Int("training", 10, "Rounds before the opponent starts exploiting")
	report   = flag.Int("report", 25, "Print expert standings every N rounds (0 disables)")
	dbPath   = flag.String("db", "", "Optional SQLite file to persist decision traces")
)

// playerModel scripts the human side of the simulation.
type playerModel interface {
	name() string
	next(g *domain.Game, rng *brain.Rand) domain.Move
}

type constantPlayer struct{ move domain.Move }

func (p constantPlayer) name() string { return "constant-" + p.move.String() }

func (p constantPlayer) next(*domain.Game, *brain.Rand) domain.Move { return p.move }

type cyclePlayer struct{}

func (cyclePlayer) name() string { return "cycle" }

func (cyclePlayer) next(g *domain.Game, _ *brain.Rand) domain.Move {
	return domain.Move(g.Round() % domain.NumMoves)
}

// wslsPlayer stays on its move after a win and shifts forward otherwise,
// the most common human heuristic in the literature.
type wslsPlayer struct{}

func (wslsPlayer) name() string { return "wsls" }

func (wslsPlayer) next(g *domain.Game, rng *brain.Rand) domain.Move {
	n := g.Round()
	if n == 0 {
		return domain.Move(rng.Intn(domain.NumMoves))
	}
	last := g.PlayerMoves[n-1]
	if g.Outcomes[n-1] == domain.OutcomeWin {
		return last
	}
	return (last + 1) % domain.NumMoves
}

type randomPlayer struct{}

func (randomPlayer) name() string { return "random" }

func (randomPlayer) next(_ *domain.Game, rng *brain.Rand) domain.Move {
	return domain.Move(rng.Intn(domain.NumMoves))
}

func buildPlayer(kind string) (playerModel, error) {
	switch kind {
	case "constant":
		return constantPlayer{move: domain.Rock}, nil
	case "cycle":
		return cyclePlayer{}, nil
	case "wsls":
		return wslsPlayer{}, nil
	case "random":
		return randomPlayer{}, nil
	}
	return nil, fmt.Errorf("unknown player model %q", kind)
}

// traceSink persists finalized traces for offline inspection.
type traceSink struct {
	db     *sql.DB
	insert *sql.Stmt
}

const traceSchema = `
CREATE TABLE IF NOT EXISTS decision_traces (
	id          TEXT PRIMARY KEY,
	round       INTEGER NOT NULL,
	policy      TEXT NOT NULL,
	bot_move    TEXT NOT NULL,
	player_move TEXT NOT NULL,
	outcome     TEXT NOT NULL,
	confidence  REAL NOT NULL,
	trace_json  TEXT NOT NULL,
	created_at  TEXT NOT NULL
);
`

func openTraceSink(path string) (*traceSink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(traceSchema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	insert, err := db.Prepare(`INSERT INTO decision_traces
		(id, round, policy, bot_move, player_move, outcome, confidence, trace_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("prepare insert: %w", err)
	}
	return &traceSink{db: db, insert: insert}, nil
}

func (s *traceSink) write(trace *brain.Trace) error {
	blob, err := json.Marshal(trace)
	if err != nil {
		return fmt.Errorf("marshal trace %s: %w", trace.ID, err)
	}
	_, err = s.insert.Exec(
		trace.ID, trace.Round, string(trace.Policy),
		trace.Move.String(), trace.PlayerMove.String(), trace.Outcome.String(),
		trace.Confidence, string(blob), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert trace %s: %w", trace.ID, err)
	}
	return nil
}

func (s *traceSink) close() {
	s.insert.Close()
	s.db.Close()
}

func printStandings(round int, standings []brain.ExpertStanding) {
	fmt.Printf("round %4d  ", round)
	for _, st := range standings {
		fmt.Printf("%s=%.3f  ", st.Name, st.Weight)
	}
	fmt.Println()
}

func main() {
	flag.Parse()

	aggression, err := brain.ParseAggression(*level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "arena: %v\n", err)
		os.Exit(2)
	}
	model, err := buildPlayer(*player)
	if err != nil {
		fmt.Fprintf(os.Stderr, "arena: %v\n", err)
		os.Exit(2)
	}
	if *rounds <= 0 {
		fmt.Fprintln(os.Stderr, "arena: rounds must be positive")
		os.Exit(2)
	}

	s := *seed
	if s == 0 {
		s = uint64(time.Now().UnixNano())
	}

	var sink *traceSink
	if *dbPath != "" {
		sink, err = openTraceSink(*dbPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "arena: %v\n", err)
			os.Exit(2)
		}
		defer sink.close()
	}

	engine := brain.NewEngine(bot.DefaultTuning)
	botRng := brain.NewRand(s)
	playerRng := brain.NewRand(s ^ 0xa5a5a5a5a5a5a5a5)
	game := domain.NewGame()
	game.Phase = domain.PhasePlaying

	fmt.Printf("arena: %d rounds, level %s, player %s, seed %d\n", *rounds, aggression, model.name(), s)

	policyCounts := make(map[brain.PolicyPath]int)
	every := *report
	for i := 0; i < *rounds; i++ {
		ctx := brain.Context{
			PlayerMoves: game.PlayerMoves,
			BotMoves:    game.BotMoves,
			Outcomes:    game.Outcomes,
			Rand:        botRng,
		}

		exploit := game.Trained(*training)
		botMove, _ := engine.Decide(ctx, aggression, exploit)
		playerMove := model.next(game, playerRng)

		trace := engine.Commit(ctx, playerMove)
		policyCounts[trace.Policy]++
		game.AppendRound(playerMove, botMove, trace.Outcome)

		if sink != nil {
			if err := sink.write(trace); err != nil {
				fmt.Fprintf(os.Stderr, "arena: %v\n", err)
				os.Exit(1)
			}
		}
		if every > 0 && (i+1)%every == 0 {
			printStandings(i+1, engine.Snapshot())
		}
	}

	score := game.Score
	total := float64(game.Round())
	fmt.Printf("\nplayer wins %d (%.1f%%), bot wins %d (%.1f%%), ties %d (%.1f%%)\n",
		score.PlayerWins, float64(score.PlayerWins)/total*100,
		score.BotWins, float64(score.BotWins)/total*100,
		score.Ties, float64(score.Ties)/total*100)
	fmt.Printf("policies: ensemble %d, fallback %d, heuristic %d\n",
		policyCounts[brain.PolicyEnsemble], policyCounts[brain.PolicyFallback], policyCounts[brain.PolicyHeuristic])
	if sink != nil {
		fmt.Printf("traces written to %s\n", *dbPath)
	}
}
