// blast is a tile-matching puzzle played in the terminal.
//
// Usage:
//
//	blast play [level]        - Play the campaign, or a specific level
//	blast menu                - Start the interactive menu
//	blast levels              - List campaign levels
//	blast levels export <n>   - Print a level as JSON
//	blast scores              - Show high scores
//	blast progress            - Show campaign progress
//	blast simulate <level>    - Let the bot play a level and print the result
//	blast serve               - Start SSH server for remote play
//	blast list                - List registered games
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 30)
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--db <path>           - Set database path (default: ~/.arcade/blast.db)
//	--config <path>       - Use a custom config YAML
//	--difficulty <name>   - Difficulty preset: easy, normal, hard, fixed
//	--theme <name>        - Menu theme
//	--log-level <level>   - Log level: debug, info, warn, error
//	--log-file <path>     - Write logs to a file
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/blast-arcade/internal/config"
	"github.com/vovakirdan/blast-arcade/internal/core"
	"github.com/vovakirdan/blast-arcade/internal/games/blast"
	"github.com/vovakirdan/blast-arcade/internal/games/blast/levels"
	"github.com/vovakirdan/blast-arcade/internal/platform/tui"
	"github.com/vovakirdan/blast-arcade/internal/registry"
	"github.com/vovakirdan/blast-arcade/internal/storage"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagTheme      string
	flagLogLevel   string
	flagLogFile    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "blast",
	Short: "Blast - a tile-matching puzzle for your terminal",
	Long: `Blast is a tile-matching puzzle played in the terminal.

Tap groups of same-colored cubes to clear them, build rockets from big
groups and break every box, stone and vase before the moves run out.

Available commands:
  play      - Play the campaign or a specific level
  menu      - Interactive menu
  levels    - List or export levels
  scores    - View high scores
  progress  - View or reset campaign progress
  simulate  - Let the bot play a level
  serve     - Start SSH server for remote play

Examples:
  blast play
  blast play 3 --difficulty easy
  blast menu --theme neon
  blast simulate 2 --seed 42
  blast serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 30, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.arcade/blast.db", "Path to scores and progress database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagTheme, "theme", "default", "Menu theme")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(serveCmd)
}

// app holds the services a command needs.
type app struct {
	logger   *log.Logger
	logFile  *os.File
	config   config.BlastConfig
	levels   *levels.Manager
	store    *storage.Store
	campaign *blast.Campaign
	registry *registry.Registry
}

// appOptions selects what newApp sets up.
type appOptions struct {
	// interactive commands own the terminal, so logs go to --log-file or nowhere.
	interactive bool
	// requireStore fails instead of falling back to in-memory progress.
	requireStore bool
}

// newApp loads configuration, levels and storage and registers the game.
func newApp(opts appOptions) (*app, error) {
	a := &app{}

	var out io.Writer = os.Stderr
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		a.logFile = f
		out = f
	} else if opts.interactive {
		out = io.Discard
	}
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	a.logger = log.NewWithOptions(out, log.Options{
		Level:           level,
		ReportTimestamp: true,
	})

	preset, ok := config.ParsePreset(flagDifficulty)
	if !ok {
		a.Close()
		return nil, fmt.Errorf("unknown difficulty %q", flagDifficulty)
	}
	a.config, err = config.LoadBlast(flagConfig)
	if err != nil {
		a.Close()
		return nil, err
	}
	if flagDifficulty != "" {
		config.ApplyBlastPreset(&a.config, preset)
	}

	loader := levels.Default()
	if a.config.Levels.Dir != "" {
		loader = levels.NewLoader(a.config.Levels.Dir)
	}
	a.levels, err = levels.Load(loader)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("load levels: %w", err)
	}

	var progress blast.ProgressStore
	a.store, err = storage.Open(flagDBPath)
	switch {
	case err == nil:
		progress = a.store
	case opts.requireStore:
		a.Close()
		return nil, fmt.Errorf("open database: %w", err)
	default:
		a.logger.Warn("could not open database, progress will not be saved", "err", err)
		a.store = nil
	}
	a.campaign = blast.NewCampaign(a.levels, progress, a.logger)

	a.registry = registry.New()
	err = a.registry.Register(blast.GameID, func() registry.Game {
		return blast.New(blast.Options{
			Config:   a.config,
			Campaign: a.campaign,
			Logger:   a.logger,
		})
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// Close releases the store and log file.
func (a *app) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil && a.logger != nil {
			a.logger.Warn("closing database", "err", err)
		}
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
}

// theme resolves --theme.
func (a *app) theme() (tui.Theme, error) {
	theme, ok := tui.ThemeByName(flagTheme)
	if !ok {
		return tui.Theme{}, fmt.Errorf("unknown theme %q (available: %v)", flagTheme, tui.ThemeNames())
	}
	return theme, nil
}

// runtimeConfig sizes the screen to the terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}
