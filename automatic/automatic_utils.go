package automatic

// Data collection for automatic games. Allow computer vs computer games, etc.

import (
	"context"
	"errors"
	"expvar"
	"os"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/conecta/minimax"
	"github.com/domino14/conecta/montecarlo"
)

var (
	CVCCounter *expvar.Int
	IsPlaying  *expvar.Int
)

func init() {
	CVCCounter = expvar.NewInt("cvcCounter")
	IsPlaying = expvar.NewInt("isPlaying")
}

// CSVHeader names the row written once per finished game.
const CSVHeader = "gameID,winner,plies,seconds\n"

type Job struct{}

// A gameRunner plays one full computer-vs-computer game per call, sending
// its own CSV row on the log channel it was built with.
type gameRunner interface {
	CompVsCompGame(ctx context.Context) error
}

// StartCompVCompGames plays numGames connect-four games across the given
// number of worker goroutines, one engine pair per worker, and writes one
// CSV row per game to outputFilename. It returns after every game has
// finished and the log file is closed.
func StartCompVCompGames(ctx context.Context, numGames, threads int,
	outputFilename, player1, player2 string, opts ...montecarlo.Option) error {

	return startGames(ctx, numGames, threads, outputFilename,
		func(logchan chan string) gameRunner {
			return NewGameRunner(logchan, player1, player2, opts...)
		})
}

// StartGomokuSelfPlayGames is the five-in-a-row counterpart: each worker
// owns one board and one solver pair.
func StartGomokuSelfPlayGames(ctx context.Context, numGames, threads int,
	outputFilename string, boardSize int, opts ...minimax.Option) error {

	return startGames(ctx, numGames, threads, outputFilename,
		func(logchan chan string) gameRunner {
			return NewGomokuGameRunner(logchan, boardSize, opts...)
		})
}

func startGames(ctx context.Context, numGames, threads int,
	outputFilename string, newRunner func(logchan chan string) gameRunner) error {

	if IsPlaying.Value() > 0 {
		return errors.New("games are already being played, please wait till complete")
	}
	if threads < 1 {
		threads = 1
	}
	logfile, err := os.Create(outputFilename)
	if err != nil {
		return err
	}
	log.Debug().Msgf("Starting %v games, %v threads", numGames, threads)

	CVCCounter.Set(0)
	jobs := make(chan Job, 100)
	logChan := make(chan string, 100)

	g := errgroup.Group{}
	for i := 0; i < threads; i++ {
		g.Go(func() error {
			r := newRunner(logChan)
			IsPlaying.Add(1)
			defer IsPlaying.Add(-1)
			for range jobs {
				if err := r.CompVsCompGame(ctx); err != nil {
					return err
				}
				CVCCounter.Add(1)
			}
			return nil
		})
	}

	go func() {
	gameLoop:
		for i := 1; i < numGames+1; i++ {
			select {
			case jobs <- Job{}:
			case <-ctx.Done():
				log.Info().Msg("got stop signal, no longer queueing games")
				break gameLoop
			}
			if i%100 == 0 {
				log.Debug().Msgf("Queued %v jobs", i)
			}
		}
		close(jobs)
		log.Debug().Msg("Finished queueing all jobs.")
	}()

	writerDone := make(chan struct{})
	go func() {
		logfile.WriteString(CSVHeader)
		for msg := range logChan {
			logfile.WriteString(msg)
		}
		logfile.Close()
		close(writerDone)
	}()

	err = g.Wait()
	close(logChan)
	<-writerDone
	log.Info().Int64("games", CVCCounter.Value()).Msg("all games finished")
	return err
}
