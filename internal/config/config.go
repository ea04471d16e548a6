// Package config loads table settings from YAML and the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Neenack/ScaryCardGame/internal/table"
)

// Timing holds the pacing waits in milliseconds.
type Timing struct {
	DealIntervalMs   int `mapstructure:"deal_interval_ms"`
	CardViewingMs    int `mapstructure:"card_viewing_ms"`
	BetweenRevealsMs int `mapstructure:"between_reveals_ms"`
	AIThinkingMs     int `mapstructure:"ai_thinking_ms"`
	StackSettleMs    int `mapstructure:"stack_settle_ms"`
	EndHoldMs        int `mapstructure:"end_hold_ms"`
}

// Config is the full table configuration.
type Config struct {
	Players  []string `mapstructure:"players"`
	Seed     uint64   `mapstructure:"seed"`
	Stacking bool     `mapstructure:"stacking"`
	Fast     bool     `mapstructure:"fast"`
	LogLevel string   `mapstructure:"log_level"`
	Timing   Timing   `mapstructure:"timing"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	d := table.DefaultDelays()
	return Config{
		Players:  []string{"Alice", "Bob", "Charlie", "Dana"},
		Stacking: true,
		LogLevel: "info",
		Timing: Timing{
			DealIntervalMs:   int(d.DealInterval / time.Millisecond),
			CardViewingMs:    int(d.CardViewing / time.Millisecond),
			BetweenRevealsMs: int(d.BetweenReveals / time.Millisecond),
			AIThinkingMs:     int(d.AIThinking / time.Millisecond),
			StackSettleMs:    int(d.StackSettle / time.Millisecond),
			EndHoldMs:        int(d.EndHold / time.Millisecond),
		},
	}
}

// Load reads configuration from the given file, falling back to
// cardtable.yaml in the working directory. A missing default file is not
// an error; an explicitly named file must exist. CARDTABLE_* environment
// variables override file values.
func Load(path string) (Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetEnvPrefix("cardtable")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("players", cfg.Players)
	v.SetDefault("seed", cfg.Seed)
	v.SetDefault("stacking", cfg.Stacking)
	v.SetDefault("fast", cfg.Fast)
	v.SetDefault("log_level", cfg.LogLevel)
	v.SetDefault("timing.deal_interval_ms", cfg.Timing.DealIntervalMs)
	v.SetDefault("timing.card_viewing_ms", cfg.Timing.CardViewingMs)
	v.SetDefault("timing.between_reveals_ms", cfg.Timing.BetweenRevealsMs)
	v.SetDefault("timing.ai_thinking_ms", cfg.Timing.AIThinkingMs)
	v.SetDefault("timing.stack_settle_ms", cfg.Timing.StackSettleMs)
	v.SetDefault("timing.end_hold_ms", cfg.Timing.EndHoldMs)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("cardtable")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return cfg, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if len(cfg.Players) < 2 {
		return cfg, fmt.Errorf("at least 2 players required, got %d", len(cfg.Players))
	}
	return cfg, nil
}

// Delays converts the millisecond timing values to engine delays.
func (c Config) Delays() table.Delays {
	return table.Delays{
		DealInterval:   time.Duration(c.Timing.DealIntervalMs) * time.Millisecond,
		CardViewing:    time.Duration(c.Timing.CardViewingMs) * time.Millisecond,
		BetweenReveals: time.Duration(c.Timing.BetweenRevealsMs) * time.Millisecond,
		AIThinking:     time.Duration(c.Timing.AIThinkingMs) * time.Millisecond,
		StackSettle:    time.Duration(c.Timing.StackSettleMs) * time.Millisecond,
		EndHold:        time.Duration(c.Timing.EndHoldMs) * time.Millisecond,
	}
}
