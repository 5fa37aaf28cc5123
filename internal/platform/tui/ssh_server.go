package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/google/uuid"

	"github.com/vovakirdan/blast-arcade/internal/core"
	"github.com/vovakirdan/blast-arcade/internal/games/blast"
	"github.com/vovakirdan/blast-arcade/internal/registry"
	"github.com/vovakirdan/blast-arcade/internal/storage"
)

// Deps are the services shared by every session.
type Deps struct {
	Registry *registry.Registry
	Store    *storage.Store // may be nil
	Campaign *blast.Campaign
	Theme    Theme
	Logger   *log.Logger
}

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.arcade/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// TickRate is the simulation rate of each session.
	TickRate int
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
		TickRate:    30,
	}
}

// SSHServer wraps a Wish SSH server serving the game to remote terminals.
type SSHServer struct {
	config SSHServerConfig
	deps   Deps
	server *ssh.Server
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig, deps Deps) (*SSHServer, error) {
	if deps.Registry == nil || deps.Campaign == nil {
		return nil, errors.New("tui: ssh server needs a registry and a campaign")
	}
	logger := deps.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	}
	logger = logger.WithPrefix("ssh")

	srv := &SSHServer{
		config: cfg,
		deps:   deps,
		logger: logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".arcade", "host_key")
	}
	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	// Middlewares run last to first: logging wraps the PTY check wraps the program.
	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			activeterm.Middleware(),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sess.User())
		return nil, nil
	}

	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.config.TickRate,
		Seed:     time.Now().UnixNano(),
	}

	deps := s.deps
	deps.Logger = s.logger.With("user", sess.User())
	model := NewSessionModel(deps, cfg, NewRenderer(bubbletea.MakeRenderer(sess)))

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		start := time.Now()
		s.logger.Info("session started",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
		)
		next(sess)
		s.logger.Info("session ended",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
			"duration", time.Since(start).Round(time.Second),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// levelSelector is implemented by games that can start on a chosen level.
type levelSelector interface {
	SelectLevel(n int)
}

// view is the screen a session is showing.
type view int

const (
	viewMenu view = iota
	viewLevels
	viewScores
	viewProgress
	viewGame
)

// SessionModel manages one full session: menu, pickers and the game.
// It runs every screen inside a single program so it works over SSH.
type SessionModel struct {
	deps     Deps
	config   core.RuntimeConfig
	renderer *Renderer
	id       string
	view     view
	menu     MenuModel
	levels   LevelMenuModel
	scores   ScoreboardModel
	progress ProgressModel
	game     *Model
	quitting bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(deps Deps, cfg core.RuntimeConfig, renderer *Renderer) SessionModel {
	if deps.Logger == nil {
		deps.Logger = log.Default()
	}
	id := uuid.NewString()
	deps.Logger = deps.Logger.With("conn", id[:8])

	return SessionModel{
		deps:     deps,
		config:   cfg,
		renderer: renderer,
		id:       id,
		menu:     NewMenuModel(deps.Campaign, cfg, deps.Theme),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.view {
	case viewLevels:
		return m.updateLevels(msg)
	case viewScores:
		return m.updateScores(msg)
	case viewProgress:
		return m.updateProgress(msg)
	case viewGame:
		return m.updateGame(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m SessionModel) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

func (m SessionModel) toMenu() (tea.Model, tea.Cmd) {
	m.view = viewMenu
	m.game = nil
	m.menu = NewMenuModel(m.deps.Campaign, m.config, m.deps.Theme)
	return m, m.menu.Init()
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	if menu, ok := next.(MenuModel); ok {
		m.menu = menu
	}
	if m.menu.IsQuitting() {
		return m.quit()
	}

	selected := m.menu.Selected()
	if selected == nil {
		return m, cmd
	}

	switch selected.Choice {
	case ChoicePlay:
		return m.startGame(0)
	case ChoiceSelectLevel:
		entries, err := LevelEntries(m.deps.Campaign)
		if err != nil {
			m.deps.Logger.Error("loading levels", "err", err)
			return m.toMenu()
		}
		m.levels = NewLevelMenuModel(entries, m.config.ScreenW, m.config.ScreenH, m.deps.Theme)
		m.view = viewLevels
	case ChoiceScores:
		m.scores = NewScoreboardModel(m.deps.Store, m.deps.Campaign.Levels().Numbers(),
			m.config.ScreenW, m.config.ScreenH, m.deps.Theme)
		m.view = viewScores
	case ChoiceProgress:
		progress, err := NewProgressModel(m.deps.Campaign, m.deps.Store, m.config.ScreenW, m.config.ScreenH, m.deps.Theme)
		if err != nil {
			m.deps.Logger.Error("loading progress", "err", err)
			return m.toMenu()
		}
		m.progress = progress
		m.view = viewProgress
	}
	return m, nil
}

func (m SessionModel) updateLevels(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.levels.Update(msg)
	if levels, ok := next.(LevelMenuModel); ok {
		m.levels = levels
	}
	switch {
	case m.levels.IsQuitting():
		return m.quit()
	case m.levels.WantsBack():
		return m.toMenu()
	case m.levels.Selected() > 0:
		return m.startGame(m.levels.Selected())
	}
	return m, cmd
}

func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.scores.Update(msg)
	if scores, ok := next.(ScoreboardModel); ok {
		m.scores = scores
	}
	switch {
	case m.scores.IsQuitting():
		return m.quit()
	case m.scores.IsGoingBack():
		return m.toMenu()
	}
	return m, cmd
}

func (m SessionModel) updateProgress(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.progress.Update(msg)
	if progress, ok := next.(ProgressModel); ok {
		m.progress = progress
	}
	switch {
	case m.progress.IsQuitting():
		return m.quit()
	case m.progress.IsGoingBack():
		return m.toMenu()
	}
	return m, cmd
}

// startGame creates a fresh game for this session on the given level,
// 0 resuming the campaign.
func (m SessionModel) startGame(level int) (tea.Model, tea.Cmd) {
	game, err := m.deps.Registry.Create(blast.GameID)
	if err != nil {
		m.deps.Logger.Error("creating game", "err", err)
		return m.toMenu()
	}
	if sel, ok := game.(levelSelector); ok {
		sel.SelectLevel(level)
	}

	m.config.Seed = time.Now().UnixNano()
	model := NewModel(game, m.deps.Store, m.config, m.deps.Logger).WithRenderer(m.renderer)
	m.game = &model
	m.view = viewGame
	m.deps.Logger.Info("game started", "level", level)
	return m, m.game.Init()
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	if game, ok := next.(Model); ok {
		m.game = &game
	}

	if m.game.BackToMenu() {
		return m.toMenu()
	}
	if m.game.IsQuitting() {
		return m.quit()
	}
	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.view {
	case viewLevels:
		return m.levels.View()
	case viewScores:
		return m.scores.View()
	case viewProgress:
		return m.progress.View()
	case viewGame:
		return m.game.View()
	default:
		return m.menu.View()
	}
}
