package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/kristbsy/alpha-scuffed/experiments"
	"github.com/kristbsy/alpha-scuffed/game"
	"github.com/kristbsy/alpha-scuffed/hex"
	"github.com/kristbsy/alpha-scuffed/searcher"
	"github.com/kristbsy/alpha-scuffed/selfplay"
	"github.com/kristbsy/alpha-scuffed/tictactoe"
)

type config struct {
	Mode        string `mapstructure:"mode"`
	Game        string `mapstructure:"game"`
	HexSide     int    `mapstructure:"hex_side"`
	Games       int    `mapstructure:"games"`
	Simulations int    `mapstructure:"simulations"`
	Output      string `mapstructure:"output"`
	Debug       bool   `mapstructure:"debug"`
}

func loadConfig(path string) (*config, error) {
	viper.SetDefault("mode", "selfplay")
	viper.SetDefault("game", "tictactoe")
	viper.SetDefault("hex_side", 4)
	viper.SetDefault("games", 10)
	viper.SetDefault("simulations", searcher.SIMULATIONS)
	viper.SetDefault("output", "data")
	viper.SetDefault("debug", false)

	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, err
		}
		log.Warn().Str("path", path).Msg("config file not found, using defaults")
	}

	var cfg config
	err := viper.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func newGameFn(cfg *config) (func() game.Game, error) {
	switch cfg.Game {
	case "tictactoe":
		return func() game.Game { return tictactoe.New() }, nil
	case "hex":
		side := cfg.HexSide
		return func() game.Game { return hex.New(side) }, nil
	default:
		return nil, fmt.Errorf("unknown game %q", cfg.Game)
	}
}

func main() {
	cfgPath := flag.String("config", "config.yaml", "Path to the config file")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cfg, err := loadConfig(*cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	newGame, err := newGameFn(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("bad game config")
	}

	policy := game.NewRandomPolicy(nil)
	mcts := searcher.NewMCTS(
		searcher.WithSimulations(cfg.Simulations),
		searcher.WithMetrics(),
	)

	switch cfg.Mode {
	case "selfplay":
		runSelfplay(cfg, newGame, policy, mcts)
	case "play":
		runMatch(newGame, policy, mcts)
	default:
		log.Fatal().Str("mode", cfg.Mode).Msg("unknown mode")
	}
}

func runSelfplay(cfg *config, newGame func() game.Game, policy game.Policy, mcts *searcher.MCTS) {
	log.Info().Str("game", cfg.Game).Int("games", cfg.Games).Int("simulations", cfg.Simulations).
		Msg("generating self-play dataset")

	ds, metrics, err := selfplay.CreateDataset(cfg.Games, newGame, policy, mcts)
	if err != nil {
		log.Fatal().Err(err).Msg("self-play failed")
	}

	if err := os.MkdirAll(cfg.Output, 0755); err != nil {
		log.Fatal().Err(err).Msg("failed to create output directory")
	}
	path := filepath.Join(cfg.Output, fmt.Sprintf("dataset-%s.json", uuid.NewString()))
	if err := ds.Save(path); err != nil {
		log.Fatal().Err(err).Msg("failed to save dataset")
	}
	log.Info().Str("path", path).Int("rows", ds.Len()).Msg("dataset saved")

	writer, err := experiments.NewWriter(filepath.Join(cfg.Output, "runs"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create metrics writer")
	}
	if err := writer.WriteSearchMetrics(metrics); err != nil {
		log.Fatal().Err(err).Msg("failed to write search metrics")
	}
	log.Info().Str("run", writer.RunID()).Msg("search metrics written")
}

func runMatch(newGame func() game.Game, policy game.Policy, mcts *searcher.MCTS) {
	g := newGame()
	winner, ok, err := selfplay.PlayMatch(g, policy, mcts)
	if err != nil {
		log.Fatal().Err(err).Msg("match failed")
	}
	fmt.Println(g)
	switch {
	case !ok:
		log.Info().Msg("game drawn")
	case winner == game.Self:
		log.Info().Msg("engine won")
	default:
		log.Info().Msg("engine lost")
	}
}
