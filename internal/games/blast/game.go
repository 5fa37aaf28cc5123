// Package blast provides the blast tile-matching puzzle for the arcade.
package blast

import (
	"context"
	"errors"
	"io"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/blast-arcade/internal/config"
	platformcore "github.com/vovakirdan/blast-arcade/internal/core"
	"github.com/vovakirdan/blast-arcade/internal/games/blast/core"
	"github.com/vovakirdan/blast-arcade/internal/games/blast/levels"
)

const (
	hudHeight    = 4
	footerHeight = 2
	bannerTTL    = 2 * time.Second
)

// Options configures a Game.
type Options struct {
	Config     config.BlastConfig
	Campaign   *Campaign
	StartLevel int // 0 resumes the campaign
	Logger     *log.Logger
}

// Game adapts a core.Session to the arcade platform.
type Game struct {
	cfg        config.BlastConfig
	campaign   *Campaign
	difficulty *config.DifficultyManager
	logger     *log.Logger
	startLevel int

	session *core.Session
	unsubs  []func()
	ctx     context.Context
	cancel  context.CancelFunc
	loadErr error

	levelNum int
	cursor   platformcore.Point

	pending  bool
	moveDone chan moveOutcome

	recorded bool
	finished bool
	bestNext int

	banner atomic.Pointer[banner]

	screenW  int
	screenH  int
	cellW    int
	board    platformcore.Rect
	tooSmall bool
}

type moveOutcome struct {
	res core.MoveResult
	err error
}

type banner struct {
	text  string
	color platformcore.Color
	at    time.Time
}

// New creates a blast game. Zero options load the embedded campaign with
// default rules and in-memory progress.
func New(opts Options) *Game {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Config.Rules.MinMatch == 0 {
		opts.Config = config.DefaultBlastConfig()
	}
	g := &Game{
		cfg:        opts.Config,
		campaign:   opts.Campaign,
		difficulty: config.NewDifficultyManager(opts.Config.Difficulty),
		logger:     opts.Logger.WithPrefix(GameID),
		startLevel: opts.StartLevel,
		moveDone:   make(chan moveOutcome, 1),
		cellW:      max(opts.Config.Board.CellWidth, 2),
	}
	if g.campaign == nil {
		m, err := levels.Load(levels.Default())
		if err != nil {
			g.loadErr = err
			m = levels.NewManager(nil)
		}
		g.campaign = NewCampaign(m, nil, g.logger)
	}
	return g
}

// SessionOptions converts the blast config into engine options.
func SessionOptions(cfg config.BlastConfig, logger *log.Logger) core.Options {
	opts := core.DefaultOptions()
	opts.BufferRows = cfg.Rules.BufferRows
	opts.MinMatch = cfg.Rules.MinMatch
	opts.RocketThreshold = cfg.Rules.RocketThreshold
	opts.GravityCap = cfg.Rules.GravityCap
	opts.Hints = cfg.Board.Hints
	opts.Scoring = core.ScoreWeights{
		Cube:     cfg.Scoring.Cube,
		Obstacle: cfg.Scoring.Obstacle,
		Rocket:   cfg.Scoring.Rocket,
		MoveLeft: cfg.Scoring.MoveLeft,
	}
	opts.Logger = logger
	opts.Pacer = WavePacer(cfg.Animation.WaveDelay())
	return opts
}

// WavePacer waits d between rocket waves. It returns nil for d <= 0.
func WavePacer(d time.Duration) core.Pacer {
	if d <= 0 {
		return nil
	}
	return func(ctx context.Context, _ int) error {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-t.C:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// ID returns the game identifier.
func (g *Game) ID() string { return GameID }

// Title returns the display name.
func (g *Game) Title() string { return "Blast" }

// SessionID identifies the current session for score storage.
func (g *Game) SessionID() string {
	if g.session == nil {
		return ""
	}
	return g.session.ID()
}

// Snapshot returns the latest engine snapshot, nil before a level is loaded.
func (g *Game) Snapshot() *core.Snapshot {
	if g.session == nil {
		return nil
	}
	return g.session.Snapshot()
}

// Reset starts a fresh session on the start level.
func (g *Game) Reset(cfg platformcore.RuntimeConfig) {
	g.Close()
	g.ctx, g.cancel = context.WithCancel(context.Background())
	g.screenW, g.screenH = cfg.ScreenW, cfg.ScreenH
	g.finished = false

	opts := SessionOptions(g.cfg, g.logger)
	opts.Seed = cfg.Seed
	g.session = core.NewSession(opts)
	g.subscribe()

	if g.loadErr != nil {
		g.logger.Error("levels unavailable", "err", g.loadErr)
		return
	}
	n, err := g.firstLevel()
	if err != nil {
		g.loadErr = err
		g.logger.Error("no level to play", "err", err)
		return
	}
	g.startLevel = 0
	g.loadLevel(n)
}

// SelectLevel picks the level the next Reset starts on. 0 resumes the campaign.
func (g *Game) SelectLevel(n int) {
	g.startLevel = n
}

// Campaign returns the campaign the game records progress in.
func (g *Game) Campaign() *Campaign { return g.campaign }

// Resize adapts the layout without touching the level.
func (g *Game) Resize(w, h int) {
	g.screenW, g.screenH = w, h
	g.calculateLayout()
}

// Close cancels any move in flight and detaches from the bus.
func (g *Game) Close() {
	if g.cancel != nil {
		g.cancel()
	}
	for _, unsub := range g.unsubs {
		unsub()
	}
	g.unsubs = nil
}

func (g *Game) firstLevel() (int, error) {
	if g.startLevel > 0 {
		if _, err := g.campaign.Level(g.startLevel); err != nil {
			return 0, err
		}
		return g.startLevel, nil
	}
	lvl, ok, err := g.campaign.Current()
	if err != nil {
		return 0, err
	}
	if !ok {
		// Everything is cleared; replay from the top.
		return g.campaign.Levels().First(), nil
	}
	return lvl.Number, nil
}

func (g *Game) loadLevel(n int) {
	lvl, err := g.campaign.Level(n)
	if err != nil {
		g.loadErr = err
		return
	}
	spec := lvl.LevelSpec
	spec.Moves = g.difficulty.Moves(spec.Moves, spec.Number)

	g.drainMove()
	if err := g.session.Start(spec); err != nil {
		g.loadErr = err
		g.logger.Error("level rejected", "level", n, "err", err)
		return
	}
	g.levelNum = n
	g.recorded = false
	g.bestNext = -1
	g.cursor = platformcore.Point{}
	g.banner.Store(nil)
	g.calculateLayout()
	g.logger.Info("level started", "level", n, "name", spec.Name, "moves", spec.Moves)
}

func (g *Game) subscribe() {
	bus := g.session.Bus()
	g.unsubs = append(g.unsubs,
		core.On(bus, func(e core.RocketExploded) {
			if e.IsCombo {
				g.announce("Rocket combo!", platformcore.ColorBrightMagenta)
			}
		}),
		core.On(bus, func(e core.MatchProcessed) {
			if e.RocketCreated {
				g.announce("Rocket ready! ("+strconv.Itoa(e.Count)+" cubes)", platformcore.ColorMagenta)
			}
		}),
		core.On(bus, func(e core.ObstacleDestroyed) {
			g.announce(obstacleLabel(e.Type)+" destroyed", platformcore.ColorOrange)
		}),
		core.On(bus, func(e core.LevelWon) {
			g.logger.Info("level won", "level", e.Level)
		}),
		core.On(bus, func(e core.LevelLost) {
			g.logger.Info("level lost", "level", e.Level)
		}),
	)
}

// announce may run on the move goroutine.
func (g *Game) announce(text string, c platformcore.Color) {
	g.banner.Store(&banner{text: text, color: c, at: time.Now()})
}

// calculateLayout centers the board below the HUD.
func (g *Game) calculateLayout() {
	snap := g.Snapshot()
	if snap == nil {
		return
	}
	boardW := snap.Width*g.cellW + 2
	boardH := snap.Height + 2
	availH := g.screenH - hudHeight - footerHeight

	if g.screenW < boardW || availH < boardH {
		g.tooSmall = true
		return
	}
	g.tooSmall = false
	area := platformcore.NewRect(0, hudHeight, g.screenW, availH)
	g.board = area.Centered(boardW, boardH)
}

// cellAt maps a screen position to a visible cell.
func (g *Game) cellAt(p platformcore.Point) (platformcore.Point, bool) {
	snap := g.Snapshot()
	if snap == nil || g.tooSmall {
		return platformcore.Point{}, false
	}
	inner := platformcore.NewRect(g.board.X+1, g.board.Y+1, snap.Width*g.cellW, snap.Height)
	if !inner.Contains(p.X, p.Y) {
		return platformcore.Point{}, false
	}
	return platformcore.Point{X: (p.X - inner.X) / g.cellW, Y: p.Y - inner.Y}, true
}

// Step handles one tick of input.
func (g *Game) Step(in platformcore.InputFrame) platformcore.StepResult {
	g.collectMove()
	if g.session == nil || g.loadErr != nil {
		return platformcore.StepResult{State: g.State()}
	}

	if in.Has(platformcore.ActionRestart) {
		g.restart()
		return platformcore.StepResult{State: g.State()}
	}

	g.syncEnd()
	snap := g.session.Snapshot()

	if snap.Over() {
		if snap.Status == core.StatusWon && (in.Has(platformcore.ActionNext) || in.Has(platformcore.ActionConfirm)) {
			g.advance()
		}
		return platformcore.StepResult{State: g.State()}
	}

	if in.Has(platformcore.ActionPause) {
		if !g.session.Pause() {
			g.session.Resume()
		}
	}
	if g.session.Status() == core.StatusPaused || g.tooSmall {
		return platformcore.StepResult{State: g.State()}
	}

	g.moveCursor(in, snap)

	if p, ok := in.Clicked(); ok {
		if cell, ok := g.cellAt(p); ok {
			g.cursor = cell
			g.tap()
		}
	} else if in.Has(platformcore.ActionConfirm) {
		g.tap()
	}

	return platformcore.StepResult{State: g.State()}
}

func (g *Game) moveCursor(in platformcore.InputFrame, snap *core.Snapshot) {
	if in.Has(platformcore.ActionUp) {
		g.cursor.Y--
	}
	if in.Has(platformcore.ActionDown) {
		g.cursor.Y++
	}
	if in.Has(platformcore.ActionLeft) {
		g.cursor.X--
	}
	if in.Has(platformcore.ActionRight) {
		g.cursor.X++
	}
	g.cursor.X = platformcore.Clamp(g.cursor.X, 0, snap.Width-1)
	g.cursor.Y = platformcore.Clamp(g.cursor.Y, 0, snap.Height-1)
}

// tap plays the cell under the cursor. With a wave delay configured the move
// runs on its own goroutine so rocket waves animate between ticks.
func (g *Game) tap() {
	if g.pending || g.session.Busy() {
		return
	}
	x, y := g.cursor.X, g.cursor.Y
	if g.cfg.Animation.WaveDelay() <= 0 {
		res, err := g.session.Tap(g.ctx, x, y)
		g.finishMove(moveOutcome{res: res, err: err})
		return
	}

	g.pending = true
	s, ctx, done := g.session, g.ctx, g.moveDone
	go func() {
		res, err := s.Tap(ctx, x, y)
		done <- moveOutcome{res: res, err: err}
	}()
}

// collectMove picks up the result of an asynchronous move, if one finished.
func (g *Game) collectMove() {
	if !g.pending {
		return
	}
	select {
	case out := <-g.moveDone:
		g.pending = false
		g.finishMove(out)
	default:
	}
}

// drainMove waits for an asynchronous move that has been cancelled.
func (g *Game) drainMove() {
	if !g.pending {
		return
	}
	out := <-g.moveDone
	g.pending = false
	g.finishMove(out)
}

func (g *Game) finishMove(out moveOutcome) {
	switch {
	case out.err == nil:
		if out.res.Accepted() {
			g.logger.Debug("move resolved",
				"kind", out.res.Kind,
				"moves_left", out.res.MovesLeft,
				"phase", out.res.Phase)
		}
	case errors.Is(out.err, context.Canceled):
		g.logger.Debug("move cancelled")
	case errors.Is(out.err, core.ErrMoveInProgress), errors.Is(out.err, core.ErrNotPlaying),
		errors.Is(out.err, core.ErrLevelReloaded):
	default:
		g.logger.Warn("move failed", "err", out.err)
	}
}

func (g *Game) restart() {
	if err := g.session.Restart(); err != nil {
		g.logger.Warn("restart failed", "err", err)
		return
	}
	g.drainMove()
	g.recorded = false
	g.bestNext = -1
	g.finished = false
	g.banner.Store(nil)
	g.logger.Info("level restarted", "level", g.levelNum)
}

// syncEnd records a win with the campaign exactly once per level attempt.
func (g *Game) syncEnd() {
	snap := g.session.Snapshot()
	if g.recorded || snap == nil || snap.Status != core.StatusWon {
		return
	}
	g.recorded = true
	done, err := g.campaign.Complete(g.levelNum, snap.Score, snap.Moves)
	if err != nil {
		g.logger.Error("saving progress", "level", g.levelNum, "err", err)
		return
	}
	g.bestNext = done.Next
	g.finished = done.Next == -1
}

func (g *Game) advance() {
	if g.bestNext == -1 {
		return
	}
	g.loadLevel(g.bestNext)
}

// Render draws the game to the screen.
func (g *Game) Render(dst *platformcore.Screen) {
	dst.Clear()

	snap := g.Snapshot()
	if g.loadErr != nil || snap == nil {
		g.renderHUD(dst, nil)
		g.renderOverlay(dst, "No level to play", "Check the levels directory")
		return
	}
	g.renderHUD(dst, snap)

	if g.tooSmall {
		g.renderOverlay(dst, "Window too small", "Resize to continue")
		return
	}

	g.renderBoard(dst, snap)
	g.renderFooter(dst, snap)

	switch {
	case snap.Status == core.StatusWon && g.finished:
		g.renderOverlay(dst, "Campaign complete!", "Score "+strconv.Itoa(snap.Score)+" | R to replay")
	case snap.Status == core.StatusWon:
		g.renderOverlay(dst, "Level cleared!", "Score "+strconv.Itoa(snap.Score)+" | N for next level")
	case snap.Status == core.StatusLost:
		g.renderOverlay(dst, "Out of moves", "Press R to retry")
	case snap.Status == core.StatusPaused:
		g.renderOverlay(dst, "Paused", "Press P to continue")
	}
}

// renderHUD draws the status bar and the goal line.
func (g *Game) renderHUD(dst *platformcore.Screen, snap *core.Snapshot) {
	if snap == nil {
		dst.DrawTextWithColor(0, 0, " Blast", platformcore.ColorCyan)
		dst.DrawHLine(0, 1, dst.Width(), '─', platformcore.ColorGray)
		return
	}

	hud := " Blast | Level " + strconv.Itoa(snap.Level)
	if snap.LevelName != "" {
		hud += ": " + snap.LevelName
	}
	hud += " | Moves: " + strconv.Itoa(snap.Moves) + " | Score: " + strconv.Itoa(snap.Score)
	dst.DrawTextWithColor(0, 0, hud, platformcore.ColorCyan)
	dst.DrawHLine(0, 1, dst.Width(), '─', platformcore.ColorGray)

	x := 1
	dst.DrawTextWithColor(x, 2, "Goals:", platformcore.ColorWhite)
	x += len("Goals:") + 1
	for _, goal := range snap.Goals {
		view := core.CellView{Type: goal.Type()}
		dst.SetWithColor(x, 2, core.CellRune(view), cellColor(view))
		x += 2
		text := strconv.Itoa(goal.Remaining)
		color := platformcore.ColorWhite
		if goal.Done() {
			text, color = "✓", platformcore.ColorBrightGreen
		}
		dst.DrawTextWithColor(x, 2, text, color)
		x += len(text) + 2
	}
	dst.DrawHLine(0, 3, dst.Width(), '─', platformcore.ColorGray)
}

// renderBoard draws the visible grid inside a frame with the cursor marked.
func (g *Game) renderBoard(dst *platformcore.Screen, snap *core.Snapshot) {
	frame := platformcore.ColorGray
	if snap.Phase != core.PhaseIdle {
		frame = platformcore.ColorYellow
	}
	dst.DrawBox(g.board, frame)

	for y := 0; y < snap.Height; y++ {
		for x := 0; x < snap.Width; x++ {
			view := snap.At(x, y)
			sx := g.board.X + 1 + x*g.cellW
			sy := g.board.Y + 1 + y

			dst.SetWithColor(sx+g.cellW/2, sy, core.CellRune(view), cellColor(view))
			if x == g.cursor.X && y == g.cursor.Y {
				dst.SetWithColor(sx, sy, '[', platformcore.ColorBrightWhite)
				if g.cellW > 2 {
					dst.SetWithColor(sx+g.cellW-1, sy, ']', platformcore.ColorBrightWhite)
				}
			}
		}
	}
}

// renderFooter draws the event banner and the controls line.
func (g *Game) renderFooter(dst *platformcore.Screen, snap *core.Snapshot) {
	h := dst.Height()
	if b := g.banner.Load(); b != nil && time.Since(b.at) < bannerTTL {
		dst.DrawTextCenteredWithColor(h-2, b.text, b.color)
	}

	controls := " Arrows: Move | Enter/Click: Tap | R: Restart | P: Pause | Q: Quit"
	if snap.Status == core.StatusWon {
		controls = " N: Next level | R: Replay | Q: Quit"
	}
	dst.DrawTextWithColor(0, h-1, controls, platformcore.ColorGray)
}

// renderOverlay draws a centered two-line message box.
func (g *Game) renderOverlay(dst *platformcore.Screen, line1, line2 string) {
	boxW := max(len([]rune(line1)), len([]rune(line2))) + 4
	box := dst.Bounds().Centered(boxW, 5)

	dst.DrawRect(box, ' ')
	dst.DrawBox(box, platformcore.ColorWhite)
	dst.DrawTextCenteredWithColor(box.Y+1, line1, platformcore.ColorBrightYellow)
	dst.DrawTextCenteredWithColor(box.Y+3, line2, platformcore.ColorWhite)
}

// State returns the current game state.
func (g *Game) State() platformcore.GameState {
	snap := g.Snapshot()
	if snap == nil {
		return platformcore.GameState{GameOver: g.loadErr != nil}
	}
	return platformcore.GameState{
		Score:    snap.Score,
		Level:    snap.Level,
		GameOver: snap.Over(),
		Won:      snap.Status == core.StatusWon,
		Paused:   snap.Status == core.StatusPaused,
	}
}

// cellColor picks the screen color for a cell. Hinted cubes are bright.
func cellColor(v core.CellView) platformcore.Color {
	var c platformcore.Color
	switch v.Type {
	case core.TypeRedCube:
		c = platformcore.ColorRed
	case core.TypeGreenCube:
		c = platformcore.ColorGreen
	case core.TypeBlueCube:
		c = platformcore.ColorBlue
	case core.TypeYellowCube:
		c = platformcore.ColorYellow
	case core.TypeHorizontalRocket, core.TypeVerticalRocket:
		return platformcore.ColorBrightMagenta
	case core.TypeBox:
		return platformcore.ColorOrange
	case core.TypeStone:
		return platformcore.ColorWhite
	case core.TypeVase:
		return platformcore.ColorCyan
	default:
		return platformcore.ColorGray
	}
	if v.Hint {
		return c.Bright()
	}
	return c
}

func obstacleLabel(t core.ItemType) string {
	switch t {
	case core.TypeBox:
		return "Box"
	case core.TypeStone:
		return "Stone"
	case core.TypeVase:
		return "Vase"
	default:
		return t.String()
	}
}
