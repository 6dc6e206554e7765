// Package config loads engine settings from command-line flags and the
// environment. Every flag can also be set with a CONECTA_ variable, with
// dashes turned into underscores.
package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "conecta"

type Config struct {
	v *viper.Viper
}

func (c *Config) Load(args []string) error {
	c.v = viper.New()
	fs := pflag.NewFlagSet(envPrefix, pflag.ContinueOnError)

	fs.Bool("debug", false, "debug logging on")
	fs.String("cpu-profile", "", "write cpu profile to file")
	fs.String("mem-profile", "", "write memory profile to file")
	fs.String("mode", "selfplay", "what to run: selfplay, gomoku-selfplay, c4, gomoku")

	fs.Duration("mcts-max-time", 5*time.Second, "wall-clock budget per monte carlo move")
	fs.Int("mcts-max-depth", 50, "playout depth cap in plies")
	fs.Float64("mcts-exploration", 0, "UCB exploration constant; 0 picks sqrt(2)")
	fs.Int("mcts-stop", 0, "stop playouts early at this confidence: 95, 98 or 99")
	fs.String("sim-log", "", "write one YAML document per playout to this file")

	fs.Int("board-size", 15, "five-in-a-row board dimension")
	fs.Int("search-depth", 4, "alpha-beta deepening target in plies")
	fs.Duration("search-max-time", 15*time.Second, "wall-clock budget per alpha-beta move")
	fs.Float64("ttable-mem-fraction", 0.25, "transposition table share of system memory")

	fs.Int("selfplay-games", 8, "number of games to play in selfplay modes")
	fs.Int("selfplay-threads", 1, "worker goroutines for selfplay modes")
	fs.String("selfplay-log", "/tmp/games.csv", "per-game CSV log for selfplay modes")
	fs.String("player1", "montecarlo", "first connect-four seat: montecarlo or random")
	fs.String("player2", "montecarlo", "second connect-four seat: montecarlo or random")

	fs.String("moves", "", "comma-separated drop columns for c4 mode, e.g. 3,3,4")
	fs.String("position", "", "space-separated row,col,piece triples for gomoku mode")
	fs.String("mover", "X", "side to move in gomoku mode")

	err := fs.Parse(args)
	if err != nil {
		return err
	}
	c.v.SetEnvPrefix(envPrefix)
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()
	return c.v.BindPFlags(fs)
}

func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

func (c *Config) GetDuration(key string) time.Duration {
	return c.v.GetDuration(key)
}

// Set overrides a single key, mostly for tests.
func (c *Config) Set(key string, value any) {
	c.v.Set(key, value)
}

// SanitizedSettings returns everything currently loaded, for logging at
// startup. Nothing here is secret, so nothing is redacted.
func (c *Config) SanitizedSettings() map[string]any {
	return c.v.AllSettings()
}

// AdjustRelativePaths anchors output-file settings to the executable's
// directory when they are given as relative paths.
func (c *Config) AdjustRelativePaths(basePath string) {
	for _, key := range []string{"cpu-profile", "mem-profile", "sim-log", "selfplay-log"} {
		p := c.v.GetString(key)
		if p == "" || filepath.IsAbs(p) {
			continue
		}
		c.v.Set(key, filepath.Join(basePath, p))
	}
}
