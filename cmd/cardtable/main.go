package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Neenack/ScaryCardGame/internal/cambio"
	"github.com/Neenack/ScaryCardGame/internal/cards"
	"github.com/Neenack/ScaryCardGame/internal/config"
	"github.com/Neenack/ScaryCardGame/internal/oldmaid"
	"github.com/Neenack/ScaryCardGame/internal/table"
)

var (
	configFile string
	seed       uint64
	fast       bool
	noStacking bool
	playerList []string
)

var rootCmd = &cobra.Command{
	Use:   "cardtable",
	Short: "Tabletop card game simulations",
	Long:  "cardtable runs AI-driven games of Cambio and Old Maid at a simulated table.",
}

var cambioCmd = &cobra.Command{
	Use:   "cambio",
	Short: "Run a game of Cambio",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		engine, rules := cambio.NewGame(cfg.Players, false, cards.StandardCatalog(),
			[]cambio.RulesOption{cambio.WithStacking(cfg.Stacking)},
			engineOptions(cfg)...)

		runGame(engine)

		if result := rules.Result(); result != nil {
			renderCambioResult(result)
		}
		return nil
	},
}

var oldmaidCmd = &cobra.Command{
	Use:   "oldmaid",
	Short: "Run a game of Old Maid",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		engine, rules := oldmaid.NewGame(cfg.Players, false, oldmaid.Catalog(),
			engineOptions(cfg)...)

		runGame(engine)

		if result := rules.Result(); result != nil {
			renderOldMaidResult(result)
		}
		return nil
	},
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return cfg, err
	}

	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("fast") {
		cfg.Fast = fast
	}
	if noStacking {
		cfg.Stacking = false
	}
	if len(playerList) > 0 {
		cfg.Players = playerList
	}
	if len(cfg.Players) < 2 {
		return cfg, fmt.Errorf("at least 2 players required, got %d", len(cfg.Players))
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return cfg, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	log.SetLevel(level)
	return cfg, nil
}

func engineOptions(cfg config.Config) []table.EngineOption {
	opts := []table.EngineOption{table.WithDelays(cfg.Delays())}
	if cfg.Seed != 0 {
		opts = append(opts, table.WithSeed(cfg.Seed))
	}
	if cfg.Fast {
		opts = append(opts, table.WithScheduler(table.ImmediateScheduler{}))
	}
	return opts
}

// runGame starts the engine and blocks until the ended notification. With
// the immediate scheduler the whole game finishes inside StartGame and
// the channel is already closed by the time we wait on it. Every card
// shown at the table is reported through the hands' show notifications.
func runGame(engine *table.Engine) {
	done := make(chan struct{})
	engine.OnGameStarted = func() {
		for _, p := range engine.Players() {
			p := p
			p.Hand().OnShowAnyCard = func(c *cards.PlayingCard) {
				log.WithFields(log.Fields{"player": p.Name(), "card": c.String()}).Info("card shown")
			}
		}
	}
	engine.OnGameEnded = func() { close(done) }
	engine.StartGame()
	<-done
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default cardtable.yaml)")
	rootCmd.PersistentFlags().Uint64Var(&seed, "seed", 0, "random seed for a reproducible game")
	rootCmd.PersistentFlags().BoolVar(&fast, "fast", false, "collapse all waits and run instantly")
	rootCmd.PersistentFlags().StringSliceVar(&playerList, "players", nil, "comma-separated player names")

	cambioCmd.Flags().BoolVar(&noStacking, "no-stacking", false, "disable the stacking side-play")

	rootCmd.AddCommand(cambioCmd, oldmaidCmd)
}

func main() {
	_ = godotenv.Load()
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
