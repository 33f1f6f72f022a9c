package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/lucasmnd/duodle/internal/dependencies/clock"
	"github.com/lucasmnd/duodle/internal/dependencies/random"
	"github.com/lucasmnd/duodle/internal/feedback"
	"github.com/lucasmnd/duodle/internal/history"
	"github.com/lucasmnd/duodle/internal/history/memory"
	redishistory "github.com/lucasmnd/duodle/internal/history/redis"
	"github.com/lucasmnd/duodle/internal/identity"
	"github.com/lucasmnd/duodle/internal/services/directory"
	"github.com/lucasmnd/duodle/internal/services/game"
	"github.com/lucasmnd/duodle/internal/services/lobby"
	"github.com/lucasmnd/duodle/internal/services/matchmaking"
	"github.com/lucasmnd/duodle/internal/transport/ws"
)

// History backend constants
const (
	HistoryTypeMemory = "memory"
	HistoryTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Match history
	Recorder history.Recorder

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Feedback       *feedback.Engine
	GameController *game.Controller
	Directory      *directory.Directory
	Identity       *identity.Service

	// Transport
	Hub     *ws.Hub
	Handler *ws.Handler
}

// Config holds configuration for the application factory
type Config struct {
	// JWTSecret is the HMAC key shared with the external auth service
	JWTSecret []byte
	// GameConfig tunes the game controller (optional)
	GameConfig game.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// HistoryType selects the match-history backend ("memory" or "redis")
	// If empty, defaults to "memory"
	HistoryType string
	// RedisConfig holds Redis connection settings (required if HistoryType is "redis")
	RedisConfig *redishistory.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var recorder history.Recorder
	historyType := cfg.HistoryType
	if historyType == "" {
		historyType = HistoryTypeMemory
	}

	switch historyType {
	case HistoryTypeMemory:
		recorder = memory.New()
	case HistoryTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when HistoryType is redis")
		}
		redisRecorder, err := redishistory.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		recorder = redisRecorder
	default:
		return nil, errors.New("invalid HistoryType: must be 'memory' or 'redis'")
	}

	clk := clock.New()
	rnd := random.New()

	return newWithDependencies(recorder, clk, rnd, cfg.JWTSecret, cfg.GameConfig, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	recorder history.Recorder,
	clk clock.Clock,
	rnd random.Random,
	jwtSecret []byte,
	gameCfg game.Config,
	logger *slog.Logger,
) *App {
	engine := feedback.New()
	controller := game.NewController(engine, clk, rnd, gameCfg, logger)

	hub := ws.NewHub(logger)
	dir := directory.New(
		controller,
		matchmaking.New(),
		lobby.New(rnd),
		recorder,
		clk,
		hub,
		logger,
	)

	identityService := identity.New(identity.Config{Secret: jwtSecret}, logger)

	handler := ws.NewHandler(ws.HandlerConfig{
		Directory: dir,
		Verifier:  identityService,
		Hub:       hub,
		Logger:    logger,
	})

	return &App{
		Recorder:       recorder,
		Clock:          clk,
		Random:         rnd,
		Feedback:       engine,
		GameController: controller,
		Directory:      dir,
		Identity:       identityService,
		Hub:            hub,
		Handler:        handler,
	}
}
