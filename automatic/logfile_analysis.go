package automatic

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/aybabtme/uniplot/histogram"

	"github.com/domino14/conecta/stats"
)

// AnalyzeLogFile analyzes the given game CSV file and spits out a bunch of
// statistics, including a histogram of game lengths and a 95% confidence
// interval on the first player's win rate.
func AnalyzeLogFile(filepath string) (string, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return "", err
	}
	defer file.Close()
	r := csv.NewReader(file)

	// Record looks like:
	// gameID,winner,plies,seconds

	plyStats := &stats.Statistic{}
	secondsStats := &stats.Statistic{}
	p1wl := float64(0)
	draws := 0
	gamesPlayed := 0
	plies := []float64{}
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if record[0] == "gameID" {
			// this is the header line
			continue
		}
		p, err := strconv.Atoi(record[2])
		if err != nil {
			return "", err
		}
		secs, err := strconv.ParseFloat(record[3], 64)
		if err != nil {
			return "", err
		}
		plyStats.Push(float64(p))
		secondsStats.Push(secs)
		plies = append(plies, float64(p))
		switch record[1] {
		case "X":
			p1wl += 1.0
		case "-":
			p1wl += 0.5
			draws++
		}
		gamesPlayed++
	}
	if gamesPlayed == 0 {
		return "", errors.New("no games in log file")
	}

	winFraction := p1wl / float64(gamesPlayed)
	ci := stats.ZVal(95) * math.Sqrt(winFraction*(1-winFraction)/float64(gamesPlayed))

	var sb strings.Builder
	fmt.Fprintf(&sb, "Games played: %d\n", gamesPlayed)
	fmt.Fprintf(&sb, "Draws: %d\n", draws)
	fmt.Fprintf(&sb, "First player wins: %.1f (%.3f%% ± %.3f%%)\n",
		p1wl, 100.0*winFraction, 100.0*ci)
	fmt.Fprintf(&sb, "Plies: mean %.3f stdev %.3f min %v max %v\n",
		plyStats.Mean(), plyStats.Stdev(), plyStats.Min(), plyStats.Max())
	fmt.Fprintf(&sb, "Seconds per game: mean %.4f stdev %.4f\n",
		secondsStats.Mean(), secondsStats.Stdev())

	sb.WriteString("\nGame length distribution:\n")
	bins := 10
	if gamesPlayed < bins {
		bins = gamesPlayed
	}
	hist := histogram.Hist(bins, plies)
	if err := histogram.Fprint(&sb, hist, histogram.Linear(40)); err != nil {
		return "", err
	}
	return sb.String(), nil
}
