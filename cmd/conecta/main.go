package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/conecta/automatic"
	"github.com/domino14/conecta/config"
	"github.com/domino14/conecta/connectfour"
	"github.com/domino14/conecta/gomoku"
	"github.com/domino14/conecta/minimax"
	"github.com/domino14/conecta/montecarlo"
)

var (
	GitVersion string
)

//go:embed conecta.txt
var conectabanner string

func main() {

	// Determine the directory of the executable. Relative output paths
	// (logs, profiles) are anchored there.
	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}
	exPath := filepath.Dir(ex)
	fmt.Println(conectabanner)
	fmt.Println(GitVersion)

	log.Info().Msgf("executable path: %v", exPath)

	cfg := &config.Config{}
	args := os.Args[1:]
	if err := cfg.Load(args); err != nil {
		panic(err)
	}
	log.Info().Msgf("Loaded config: %v", cfg.SanitizedSettings())
	cfg.AdjustRelativePaths(exPath)

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	output.FormatMessage = func(i interface{}) string {
		return fmt.Sprintf("%s", i)
	}
	output.FormatFieldName = func(i interface{}) string {
		return fmt.Sprintf("%s:", i)
	}

	var logger zerolog.Logger
	if cfg.GetBool("debug") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logger = zerolog.New(output).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		logger = zerolog.New(output).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	}
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
	logger.Debug().Msg("Debug logging is on")

	if cfg.GetString("cpu-profile") != "" {
		f, err := os.Create(cfg.GetString("cpu-profile"))
		if err != nil {
			panic("could not create CPU profile: " + err.Error())
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			panic("could not start CPU profile: " + err.Error())
		}
		defer pprof.StopCPUProfile()
	}

	ctx, cancel := context.WithCancel(context.Background())
	sig := make(chan os.Signal, 1)
	go func() {
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		// We received an interrupt signal, shut down.
		log.Info().Msg("got quit signal...")
		cancel()
	}()

	var runErr error
	switch mode := cfg.GetString("mode"); mode {
	case "selfplay":
		runErr = runSelfplay(ctx, cfg)
	case "gomoku-selfplay":
		runErr = runGomokuSelfplay(ctx, cfg)
	case "c4":
		runErr = runConnectFour(ctx, cfg)
	case "gomoku":
		runErr = runGomoku(ctx, cfg)
	default:
		runErr = fmt.Errorf("unknown mode %q", mode)
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Fatal().Err(runErr).Msg("run-failed")
	}

	if cfg.GetString("mem-profile") != "" {
		f, err := os.Create(cfg.GetString("mem-profile"))
		if err != nil {
			panic("could not create memory profile: " + err.Error())
		}
		defer f.Close()
		memstats := &runtime.MemStats{}
		runtime.ReadMemStats(memstats)
		log.Info().Interface("memstats", memstats).Msg("memory-stats")
		if err := pprof.WriteHeapProfile(f); err != nil {
			panic("could not write memory profile: " + err.Error())
		}
		log.Info().Msg("wrote memory profile")
	}
}

func mctsOptions(cfg *config.Config) []montecarlo.Option {
	opts := []montecarlo.Option{
		montecarlo.WithMaxTime(cfg.GetDuration("mcts-max-time")),
		montecarlo.WithMaxDepth(cfg.GetInt("mcts-max-depth")),
	}
	if c := cfg.GetFloat64("mcts-exploration"); c > 0 {
		opts = append(opts, montecarlo.WithExploration(c))
	}
	switch cfg.GetInt("mcts-stop") {
	case 95:
		opts = append(opts, montecarlo.WithStoppingCondition(montecarlo.Stop95))
	case 98:
		opts = append(opts, montecarlo.WithStoppingCondition(montecarlo.Stop98))
	case 99:
		opts = append(opts, montecarlo.WithStoppingCondition(montecarlo.Stop99))
	}
	return opts
}

func minimaxOptions(cfg *config.Config) []minimax.Option {
	return []minimax.Option{
		minimax.WithDepth(cfg.GetInt("search-depth")),
		minimax.WithMaxTime(cfg.GetDuration("search-max-time")),
		minimax.WithTableMemFraction(cfg.GetFloat64("ttable-mem-fraction")),
	}
}

// runSelfplay plays a batch of connect-four games and prints the log
// analysis. A cancelled batch still analyzes whatever finished.
func runSelfplay(ctx context.Context, cfg *config.Config) error {
	logfile := cfg.GetString("selfplay-log")
	err := automatic.StartCompVCompGames(ctx,
		cfg.GetInt("selfplay-games"), cfg.GetInt("selfplay-threads"), logfile,
		cfg.GetString("player1"), cfg.GetString("player2"), mctsOptions(cfg)...)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	analysis, aerr := automatic.AnalyzeLogFile(logfile)
	if aerr == nil {
		fmt.Println(analysis)
	} else if err == nil {
		return aerr
	}
	return err
}

func runGomokuSelfplay(ctx context.Context, cfg *config.Config) error {
	logfile := cfg.GetString("selfplay-log")
	err := automatic.StartGomokuSelfPlayGames(ctx,
		cfg.GetInt("selfplay-games"), cfg.GetInt("selfplay-threads"), logfile,
		cfg.GetInt("board-size"), minimaxOptions(cfg)...)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	analysis, aerr := automatic.AnalyzeLogFile(logfile)
	if aerr == nil {
		fmt.Println(analysis)
	} else if err == nil {
		return aerr
	}
	return err
}

// runConnectFour answers a single position. The position arrives as a
// comma-separated list of drop columns, e.g. --moves 3,3,4.
func runConnectFour(ctx context.Context, cfg *config.Config) error {
	state := connectfour.Start()
	if movestr := cfg.GetString("moves"); movestr != "" {
		for _, tok := range strings.Split(movestr, ",") {
			col, err := strconv.Atoi(strings.TrimSpace(tok))
			if err != nil {
				return fmt.Errorf("bad column %q: %w", tok, err)
			}
			if !state.IsLegalMove(col) {
				return fmt.Errorf("illegal move %v", col)
			}
			state = state.Update(col)
		}
	}
	if w := state.Winner(); w != connectfour.Nobody {
		return fmt.Errorf("game is already over, %v won", w)
	}

	engine := montecarlo.NewEngine(mctsOptions(cfg)...)
	if simlog := cfg.GetString("sim-log"); simlog != "" {
		f, err := os.Create(simlog)
		if err != nil {
			return err
		}
		defer f.Close()
		engine.SetLogStream(f)
		log.Info().Str("sim-log", simlog).Msg("logging-playouts")
	}
	engine.UpdateGameState(state)
	col, err := engine.BestMove(ctx)
	if err != nil {
		return err
	}
	fmt.Println(state.String())
	fmt.Println(engine.DetailsString())
	fmt.Printf("%v plays column %v\n", state.Turn(), col)
	return nil
}

// runGomoku answers a single position. The position arrives as
// space-separated row,col,piece triples, e.g. --position "7,7,X 7,8,O".
func runGomoku(ctx context.Context, cfg *config.Config) error {
	board := gomoku.NewBoard(cfg.GetInt("board-size"))
	if posstr := cfg.GetString("position"); posstr != "" {
		for _, tok := range strings.Fields(posstr) {
			parts := strings.Split(tok, ",")
			if len(parts) != 3 {
				return fmt.Errorf("bad placement %q, want row,col,piece", tok)
			}
			row, err := strconv.Atoi(parts[0])
			if err != nil {
				return fmt.Errorf("bad row %q: %w", parts[0], err)
			}
			col, err := strconv.Atoi(parts[1])
			if err != nil {
				return fmt.Errorf("bad col %q: %w", parts[1], err)
			}
			piece, err := parsePiece(parts[2])
			if err != nil {
				return err
			}
			if err := board.UserPlacePiece(row, col, piece); err != nil {
				return fmt.Errorf("placement %q: %w", tok, err)
			}
			if w := board.Winner(); w != gomoku.Empty {
				return fmt.Errorf("game is already over, %v won", w)
			}
		}
	}
	mover, err := parsePiece(cfg.GetString("mover"))
	if err != nil {
		return err
	}

	solver := minimax.NewSolver(board, minimaxOptions(cfg)...)
	score, row, col, err := solver.BestMove(ctx, mover)
	if err != nil {
		return err
	}
	fmt.Println(board.String())
	fmt.Printf("%v plays %v,%v (score %v)\n", mover, row, col, score)
	return nil
}

func parsePiece(s string) (gomoku.Piece, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "X":
		return gomoku.X, nil
	case "O":
		return gomoku.O, nil
	}
	return gomoku.Empty, fmt.Errorf("bad piece %q, want X or O", s)
}
