package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lucasmnd/duodle/internal/factory"
)

type Config struct {
	bind         string
	port         int
	jwtSecret    string
	historyType  string
	redisURL     string
	gameDuration time.Duration
	verbose      bool
}

func (c *Config) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	switch c.historyType {
	case factory.HistoryTypeMemory:
	case factory.HistoryTypeRedis:
		if c.redisURL == "" {
			return errors.New("--redis-url required when --history is redis")
		}
	default:
		return fmt.Errorf("invalid history backend (must be 'memory' or 'redis'): %s", c.historyType)
	}
	if c.gameDuration <= 0 {
		return errors.New("--game-duration must be positive")
	}
	return nil
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("DUODLE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "duodle-server",
		Short:         "Realtime 1v1 guessing-duel server.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: DUODLE_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: DUODLE_PORT)")
	fs.StringVar(&cfg.jwtSecret, "jwt-secret", "", "HMAC key for verifying identity tokens (env: DUODLE_JWT_SECRET)")
	fs.StringVar(&cfg.historyType, "history", factory.HistoryTypeMemory, "match history backend, memory or redis (env: DUODLE_HISTORY)")
	fs.StringVar(&cfg.redisURL, "redis-url", "", "redis connection URL for match history (env: DUODLE_REDIS_URL)")
	fs.DurationVar(&cfg.gameDuration, "game-duration", 3*time.Minute, "simultaneous-mode game length (env: DUODLE_GAME_DURATION)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: DUODLE_VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("duodle-server v{{.Version}}\n")
	cmd.SilenceUsage = true

	return cmd
}
