package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/danmaku/audio"
	"github.com/lixenwraith/danmaku/config"
	"github.com/lixenwraith/danmaku/core"
	"github.com/lixenwraith/danmaku/engine"
	"github.com/lixenwraith/danmaku/event"
	"github.com/lixenwraith/danmaku/input"
	"github.com/lixenwraith/danmaku/level"
	"github.com/lixenwraith/danmaku/object"
	"github.com/lixenwraith/danmaku/parameter"
	"github.com/lixenwraith/danmaku/render"
	"github.com/lixenwraith/danmaku/render/renderer"
	"github.com/lixenwraith/danmaku/status"
)

var (
	configFlag    = flag.String("config", "", "YAML config file")
	levelFlag     = flag.String("level", "", "level TOML file, overrides config")
	debugFlag     = flag.Bool("debug", false, "write debug log under the log directory")
	collisionFlag = flag.String("collision", "", "collision strategy: grid, tracked")
	muteFlag      = flag.Bool("mute", false, "disable sound cues")
	startFlag     = flag.Duration("start", 0, "skip into the level timeline, clamped to the level duration")
)

var errQuit = errors.New("quit")

func main() {
	// Panic recovery: restore the terminal before printing the trace
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *levelFlag != "" {
		cfg.Level = *levelFlag
	}
	if *collisionFlag != "" {
		cfg.Collision = *collisionFlag
	}
	cfg.Debug = cfg.Debug || *debugFlag
	cfg.Mute = cfg.Mute || *muteFlag
	if *startFlag != 0 {
		cfg.Start = *startFlag
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, closeLog, err := setupLogging(cfg.Debug, cfg.LogDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if err := run(cfg, log); err != nil {
		log.Error("exit", zap.Error(err))
		closeLog()
		fmt.Fprintf(os.Stderr, "danmaku: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	lvl, err := level.Load(cfg.Level, log.Named("loader"))
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return errors.Wrap(err, "create screen")
	}
	if err := screen.Init(); err != nil {
		return errors.Wrap(err, "init screen")
	}
	if cfg.Mouse {
		screen.EnableMouse()
	}
	screen.EnableFocus()
	core.SetCrashReset(screen.Fini)
	defer screen.Fini()

	player := audio.Open(cfg.Mute, cfg.Volume, log.Named("audio"))
	defer player.Close()

	reg := status.NewRegistry()
	eng := engine.New(engine.Options{
		Log:      log.Named("engine"),
		Strategy: cfg.Strategy(),
		Audio:    player,
		Status:   reg,
		Level:    lvl,
	})
	if cfg.Start > lvl.Duration() {
		log.Warn("start beyond level duration, clamped",
			zap.Duration("start", cfg.Start),
			zap.Duration("duration", lvl.Duration()))
	}
	eng.Spawn(object.NewLevelControllerAt(lvl, cfg.Start))
	if cfg.Mouse {
		eng.Spawn(object.NewMouse())
	}
	log.Info("engine ready",
		zap.String("level", lvl.Name),
		zap.String("run", eng.RunID().String()),
		zap.String("collision", cfg.Collision))

	orch := render.NewOrchestrator(screen)
	orch.Register(renderer.BorderRenderer{}, render.PriorityBorder)
	orch.Register(&renderer.EntityRenderer{}, render.PriorityEntities)
	orch.Register(renderer.NewStatusBarRenderer(reg), render.PriorityUI)
	sprites := render.Appearances(lvl.Sprites)

	var view atomic.Pointer[render.Projection]
	relayout := func() {
		w, h := orch.Size()
		p := layout(w, h)
		view.Store(&p)
	}
	orch.Resize()
	relayout()

	queue := event.NewInputQueue()
	reader := input.NewReader(screen, queue, func() render.Projection { return *view.Load() }, log.Named("input"))
	var resized atomic.Bool
	reader.OnResize = func() { resized.Store(true) }

	sched := engine.NewClockScheduler(engine.NewPausableClock(nil), cfg.Tick, cfg.MaxCatchUp)
	paused := reg.Bools.Get(status.KeyPaused)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(core.Recover(func() error {
		return reader.Run(gctx)
	}))

	g.Go(core.Recover(func() error {
		return sched.Run(gctx, func(n int) error {
			evs := queue.Consume()
			for _, ev := range evs {
				kp, ok := ev.Payload.(*event.KeyPayload)
				if !ok || kp.State != event.Pressed {
					continue
				}
				switch kp.Key {
				case event.KeyQuit:
					return errQuit
				case event.KeyPause:
					paused.Store(sched.TogglePause())
				}
			}
			eng.Input(evs)

			if resized.Swap(false) {
				orch.Resize()
				relayout()
			}

			for i := 0; i < n; i++ {
				eng.Step(sched.Tick())
			}

			orch.RenderFrame(&render.Frame{
				Infos:   eng.Snapshot(),
				Sprites: sprites,
				Status:  outcome(eng, reg),
				Paused:  sched.Paused(),
				View:    *view.Load(),
			})
			return nil
		})
	}))

	err = g.Wait()
	if errors.Is(err, errQuit) {
		err = nil
	}
	log.Info("stopped",
		zap.Uint64("ticks", eng.Ticks()),
		zap.Duration("dropped", sched.Dropped()),
		zap.Int64("score", reg.Ints.Get(status.KeyScore).Load()))
	return err
}

// layout fits the playfield into a w x h terminal, keeping one border cell around it and a status row below
// Cells are roughly twice as tall as wide, so a world unit takes twice the columns it takes rows
func layout(w, h int) render.Projection {
	aspect := 2 * parameter.WorldWidth / parameter.WorldHeight
	rows := h - 3
	cols := int(float64(rows) * aspect)
	if maxCols := w - 2; cols > maxCols {
		cols = maxCols
		rows = int(float64(cols) / aspect)
	}
	if rows < 1 || cols < 1 {
		return render.NewProjection(1, 1, 0, 0, parameter.WorldWidth, parameter.WorldHeight)
	}
	x := 1 + (w-2-cols)/2
	return render.NewProjection(x, 1, cols, rows, parameter.WorldWidth, parameter.WorldHeight)
}

func outcome(eng *engine.Engine, reg *status.Registry) string {
	if reg.Bools.Get(status.KeyDone).Load() {
		return "STAGE CLEAR"
	}
	if eng.Ticks() > 1 && reg.Ints.Get(status.KeyLives).Load() <= 0 {
		if _, ok := eng.Context().Registry.Lookup(object.AliasPlayer); !ok {
			return "GAME OVER"
		}
	}
	return ""
}
