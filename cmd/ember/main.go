// Command ember opens the scene editor: a free-flying camera over a scene
// loaded from JSON, with click selection, debug panels and an optional
// websocket link for external editors.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/profile"
	"github.com/plus3/ember3d/assets"
	"github.com/plus3/ember3d/config"
	"github.com/plus3/ember3d/ecs"
	"github.com/plus3/ember3d/ecs/debugui"
	debugui_ebiten "github.com/plus3/ember3d/ecs/debugui/ebiten"
	"github.com/plus3/ember3d/editorlink"
	"github.com/plus3/ember3d/geom"
	"github.com/plus3/ember3d/input"
	"github.com/plus3/ember3d/internal/logging"
	"github.com/plus3/ember3d/render"
	"github.com/plus3/ember3d/render/ebitengpu"
	"github.com/plus3/ember3d/scene"
	"github.com/plus3/ember3d/systems"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML or TOML config file.")
	scenePath := flag.String("scene", "", "Scene JSON to load, overrides the config.")
	dump := flag.Bool("dump", false, "Print the loaded scene as JSON and exit.")
	profileCPU := flag.Bool("profile", false, "Write a CPU profile to the working directory.")
	flag.Parse()

	if err := run(*configPath, *scenePath, *dump, *profileCPU); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// buildEngine creates the engine and loads the configured scene, or the demo
// scene when none is set.
func buildEngine(cfg config.Config, logger *zap.Logger) (*ecs.Engine, error) {
	registry := ecs.NewComponentRegistry()
	scene.RegisterComponents(registry)
	engine := ecs.NewEngine(ecs.WithRegistry(registry), ecs.WithLogger(logger))

	if cfg.Scene == "" {
		for _, e := range demoScene(cfg) {
			if err := engine.AddEntity(e); err != nil {
				return nil, err
			}
		}
		return engine, nil
	}

	data, err := os.ReadFile(cfg.Scene)
	if err != nil {
		return nil, fmt.Errorf("reading scene: %w", err)
	}
	if _, err := scene.Load(engine, string(data)); err != nil {
		return nil, fmt.Errorf("loading scene %s: %w", cfg.Scene, err)
	}
	return engine, nil
}

// openAssets opens the asset root and preloads its manifest. A missing root
// leaves only the built-in primitives.
func openAssets(ctx context.Context, cfg config.AssetsConfig, logger *zap.Logger) (*assets.Library, error) {
	library, err := assets.Open(cfg.Root, assets.WithLogger(logger))
	if err != nil {
		logger.Warn("Asset root unavailable, using built-in assets only",
			zap.String("root", cfg.Root), zap.Error(err))
		library = assets.NewLibrary(nil, assets.WithLogger(logger))
		library.AddPrimitives()
		return library, nil
	}
	library.AddPrimitives()

	if cfg.Manifest == "" {
		return library, nil
	}
	manifest, err := library.ReadManifest(cfg.Manifest)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return library, nil
		}
		return nil, err
	}

	if cfg.PreloadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(cfg.PreloadTimeout*float64(time.Second)))
		defer cancel()
	}
	if err := library.Preload(ctx, manifest); err != nil {
		return nil, err
	}
	return library, nil
}

func run(configPath, scenePath string, dump, profileCPU bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if scenePath != "" {
		cfg.Scene = scenePath
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if profileCPU {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	engine, err := buildEngine(cfg, logger)
	if err != nil {
		return err
	}

	if dump {
		data, err := scene.FromGame(engine)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	library, err := openAssets(ctx, cfg.Assets, logger)
	if err != nil {
		return err
	}

	var reloads <-chan string
	if cfg.Assets.Watch && library.Root() != "" {
		watcher, err := library.Watch()
		if err != nil {
			logger.Warn("Shader watching disabled", zap.Error(err))
		} else {
			defer watcher.Close()
			go watcher.Run(ctx)
			reloads = watcher.Changes()
		}
	}

	device := ebitengpu.NewDevice(logger)
	pipeline := render.NewPipeline(device, ebitengpu.Fallback{Primary: library}, library,
		render.WithLogger(logger),
		render.WithClearColor(geom.V4(0.1, 0.1, 0.12, 1)))
	pipeline.AddPass(render.NewMainPass(render.MaterialBasic))
	if cfg.Editor.Grid {
		pipeline.AddPass(render.NewGridPass(20, 1))
	}

	materials := render.NewMaterialRegistry()
	render.RegisterBuiltinMaterials(materials)

	game := &Game{
		logger:    logger,
		keyboard:  input.NewKeyboard(input.DefaultBindings()),
		device:    device,
		pipeline:  pipeline,
		reloads:   reloads,
		fixedStep: cfg.Tick.FixedDT,
		width:     cfg.Window.Width,
		height:    cfg.Window.Height,
	}

	var in input.Input = game.keyboard
	update := ecs.NewScheduler(engine)
	var ui *debugui.DebugUISystem
	if cfg.Editor.DebugUI {
		game.imgui = debugui_ebiten.New(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height)
		ui = debugui.Default(update)
		in = debugui.NewGate(game.keyboard, ui.Input)
	} else {
		ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
		ebiten.SetWindowTitle(cfg.Window.Title)
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	update.AddSystem(systems.NewEditorControlSystem(in))
	update.AddSystem(systems.NewRotatorSystem())
	if cfg.Physics.Enabled {
		update.AddSystem(systems.NewPhysicsSystem(geom.V3(cfg.Physics.GravityX, cfg.Physics.GravityY, 0)))
	}
	update.AddSystem(systems.NewSelectionSystem(in, game.Viewport))

	if cfg.EditorLink.Enabled {
		hub := editorlink.NewHub(logger)
		defer hub.Close()
		update.AddSystem(editorlink.NewHubSystem(hub))

		mux := http.NewServeMux()
		mux.Handle("/ws", hub)
		server := &http.Server{Addr: cfg.EditorLink.Listen, Handler: mux}
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Editor link server failed", zap.Error(err))
			}
		}()
		defer server.Shutdown(context.Background())
		logger.Info("Editor link listening", zap.String("addr", cfg.EditorLink.Listen))
	}

	if ui != nil {
		update.AddSystem(ui)
	}

	draw := ecs.NewScheduler(engine)
	draw.AddSystem(systems.NewRenderSystem(pipeline, library, materials))

	game.update = update
	game.draw = draw

	logger.Info("Starting editor",
		zap.Int("entities", engine.Len()),
		zap.Bool("debugUI", ui != nil),
		zap.Bool("physics", cfg.Physics.Enabled))

	err = ebiten.RunGame(game)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}
