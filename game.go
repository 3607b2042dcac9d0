package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/limbopass/appstate"
	"github.com/milk9111/limbopass/assets"
	"github.com/milk9111/limbopass/common"
	"github.com/milk9111/limbopass/ecs"
	"github.com/milk9111/limbopass/ecs/component"
	"github.com/milk9111/limbopass/ecs/entity"
	"github.com/milk9111/limbopass/ecs/system"
	"github.com/milk9111/limbopass/prefabs"
	"github.com/qmuntal/gltf"
)

const sampleRate = 44100

type Options struct {
	AssetsDir string
	Debug     bool
	SkipMenu  bool
}

type Game struct {
	spec *prefabs.GameSpec
	opts Options
	log  *slog.Logger

	world     *ecs.World
	scheduler *ecs.Scheduler
	state     *appstate.Machine
	gate      *appstate.Gate

	assets   *assets.Server
	audioCtx *audio.Context
	font     *assets.Handle[*ebtext.GoTextFaceSource]
	theme    *assets.Handle[*audio.Player]
	scene    *assets.Handle[*gltf.Document]

	render  *system.RenderSystem
	ui      *gameUI
	watcher *prefabs.Watcher

	playClicked bool
}

func NewGame(spec *prefabs.GameSpec, opts Options) (*Game, error) {
	if opts.AssetsDir == "" {
		opts.AssetsDir = "assets"
	}
	log := slog.Default().With("component", "game")

	g := &Game{
		spec:      spec,
		opts:      opts,
		log:       log,
		world:     ecs.NewWorld(),
		scheduler: ecs.NewScheduler(),
		state:     appstate.NewMachine(log),
		gate:      appstate.NewGate(),
		assets:    assets.NewServer(os.DirFS(opts.AssetsDir), log),
		audioCtx:  audio.NewContext(sampleRate),
		render:    system.NewRenderSystem(),
	}
	g.ui = newGameUI(spec.UI, spec.Theme,
		func() { g.playClicked = true },
		func() { system.ToggleMute(g.world) },
	)

	if err := g.addSystems(); err != nil {
		return nil, err
	}
	g.addHooks()

	if err := g.state.Start(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Game) running(*ecs.World) bool {
	return g.state.In(appstate.Running)
}

func (g *Game) addSystems() error {
	bindings := system.LoadBindings(prefabs.ControlsScript)
	running := ecs.RunIf(g.running)

	if err := system.AddMovement(g.scheduler, system.EbitenKeys{}, bindings, system.NewPhysicsSystem(), running); err != nil {
		return fmt.Errorf("game: movement: %w", err)
	}

	adds := []struct {
		name string
		sys  ecs.System
		opts []ecs.SystemOption
	}{
		{"follow", system.NewFollowSystem(), []ecs.SystemOption{ecs.After(system.PhysicsSystemName)}},
		{"orbit_camera", system.NewOrbitCameraSystem(system.EbitenPointer{}), nil},
		{"mute_key", system.NewMuteKeySystem(system.EbitenKeys{}, ebiten.KeyM), []ecs.SystemOption{running}},
		{"music", system.NewMusicSystem(), []ecs.SystemOption{ecs.After("mute_key")}},
	}
	for _, a := range adds {
		if err := g.scheduler.Add(a.name, a.sys, a.opts...); err != nil {
			return fmt.Errorf("game: %s: %w", a.name, err)
		}
	}

	if !g.opts.Debug {
		return nil
	}
	watcher, err := prefabs.NewWatcher(prefabs.Dir, filepath.Join(prefabs.Dir, "scripts"))
	if err != nil {
		g.log.Warn("hot reload disabled", "err", err)
		return nil
	}
	g.watcher = watcher

	sys, _ := g.scheduler.Lookup(system.IntentSystemName)
	intents, _ := sys.(*system.IntentSystem)
	reload := system.NewHotReloadSystem(watcher, g.spec.Form, prefabs.ControlsScript, intents)
	if err := g.scheduler.Add("hot_reload", reload, ecs.After(system.IntentSystemName)); err != nil {
		return fmt.Errorf("game: hot reload: %w", err)
	}
	return nil
}

func (g *Game) addHooks() {
	g.state.OnEnter(appstate.Loading, func(_, _ appstate.State) error {
		return g.enterLoading()
	})
	g.state.OnExit(appstate.Loading, func(_, _ appstate.State) error {
		return g.spawnScene()
	})
	g.state.OnEnter(appstate.MainMenu, func(_, _ appstate.State) error {
		g.ui.showMenu()
		return nil
	})
	g.state.OnEnter(appstate.Running, func(_, _ appstate.State) error {
		g.ui.showRunning()
		return nil
	})
}

func (g *Game) enterLoading() error {
	g.ui.showLoading()

	if _, err := entity.NewEnvironment(g.world, g.spec.Environment); err != nil {
		return fmt.Errorf("game: environment: %w", err)
	}
	if _, err := entity.NewPointLights(g.world, g.spec.Lights); err != nil {
		return fmt.Errorf("game: lights: %w", err)
	}
	if _, err := entity.NewCamera(g.world, g.spec.Camera); err != nil {
		return fmt.Errorf("game: camera: %w", err)
	}
	if _, err := entity.NewPlayBounds(g.world, g.spec.Bounds); err != nil {
		return fmt.Errorf("game: bounds: %w", err)
	}

	g.font = g.assets.LoadFont(g.spec.Assets.Font)
	g.theme = g.assets.LoadMusic(g.audioCtx, g.spec.Assets.Theme, true)
	g.scene = g.assets.LoadScene(g.spec.Assets.Scene)

	g.gate.Require("font", readiness(g.font))
	g.gate.Require("theme", readiness(g.theme))
	g.gate.Require("scene", readiness(g.scene))
	return nil
}

func readiness[T any](h *assets.Handle[T]) appstate.Check {
	return func() (appstate.Readiness, error) {
		switch h.State() {
		case assets.Loaded:
			return appstate.Ready, nil
		case assets.Failed:
			return appstate.Failed, h.Err()
		default:
			return appstate.Pending, nil
		}
	}
}

func (g *Game) spawnScene() error {
	doc, _ := g.scene.Get()
	if _, err := entity.NewTerrain(g.world, doc, g.spec.Scene); err != nil {
		return fmt.Errorf("game: terrain: %w", err)
	}
	if _, err := entity.NewForm(g.world, g.spec.Form, doc); err != nil {
		return fmt.Errorf("game: %w", err)
	}

	player, _ := g.theme.Get()
	tracks := map[string]component.Track{g.spec.Assets.Theme: player}
	if _, err := entity.NewMusicPlayer(g.world, tracks); err != nil {
		return fmt.Errorf("game: %w", err)
	}
	system.RequestMusic(g.world, g.spec.Assets.Theme, g.spec.Theme.Volume)

	if src, ok := g.font.Get(); ok {
		g.ui.setFont(src)
	}
	return nil
}

func (g *Game) Update() error {
	g.ui.ui.Update()

	switch g.state.Current() {
	case appstate.Loading:
		ready, pending, err := g.gate.Poll()
		if err != nil {
			return fmt.Errorf("game: loading: %w", err)
		}
		g.ui.setPending(pending)
		if ready {
			next := appstate.MainMenu
			if g.opts.SkipMenu || g.spec.Lifecycle.SkipMenu {
				next = appstate.Running
			}
			if err := g.state.Transition(next); err != nil {
				return err
			}
		}
	case appstate.MainMenu:
		if g.playClicked {
			g.playClicked = false
			if err := g.state.Transition(appstate.Running); err != nil {
				return err
			}
		}
	}

	if err := g.scheduler.Update(g.world); err != nil {
		return err
	}
	g.ui.setMuted(system.MusicMuted(g.world))
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.render.Draw(g.world, screen)
	g.ui.ui.Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return common.BaseWidth, common.BaseHeight
}

// Close releases the prefab watcher and waits for in-flight asset loads.
func (g *Game) Close() error {
	g.assets.Wait()
	if g.watcher != nil {
		return g.watcher.Close()
	}
	return nil
}
