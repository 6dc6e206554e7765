package automatic

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLog(t *testing.T, rows string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "games.csv")
	require.NoError(t, os.WriteFile(path, []byte(CSVHeader+rows), 0644))
	return path
}

func TestAnalyzeLogFile(t *testing.T) {
	path := writeLog(t,
		"8f0c1d2e3a4b5c6d,X,17,0.3510\n"+
			"1a2b3c4d5e6f7a8b,O,24,0.5120\n"+
			"deadbeefdeadbeef,-,42,0.9001\n"+
			"cafebabecafebabe,X,9,0.1200\n")

	analysis, err := AnalyzeLogFile(path)
	require.NoError(t, err)
	assert.Contains(t, analysis, "Games played: 4")
	assert.Contains(t, analysis, "Draws: 1")
	// 1 + 0 + 0.5 + 1
	assert.Contains(t, analysis, "First player wins: 2.5")
	assert.Contains(t, analysis, "Plies: mean 23.000")
	assert.Contains(t, analysis, "min 9 max 42")
	assert.Contains(t, analysis, "Game length distribution:")
}

func TestAnalyzeLogFileNoGames(t *testing.T) {
	path := writeLog(t, "")
	_, err := AnalyzeLogFile(path)
	assert.EqualError(t, err, "no games in log file")
}

func TestAnalyzeLogFileMissing(t *testing.T) {
	_, err := AnalyzeLogFile(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
