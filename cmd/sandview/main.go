// Command sandview opens a window and drives the falling-sand grid live: it
// fills a grid with worldgen terrain, steps it every frame, decodes each
// cell's material into a flat color onto a grid-sized texture, and crops
// that texture to the camera's visible window with DrawTexturePro — the
// same camera-relative GPU crop the teacher's resource fog renderer used,
// and the same per-frame step+draw loop its own main.go drove.
package main

import (
	"image/color"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/indubitablement2/eos/camera"
	"github.com/indubitablement2/eos/config"
	"github.com/indubitablement2/eos/grid"
	"github.com/indubitablement2/eos/material"
	"github.com/indubitablement2/eos/telemetry"
	"github.com/indubitablement2/eos/worldgen"
)

const (
	screenWidth  = 1280
	screenHeight = 720
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	grid.SetLogger(logger)

	var cfgPath string
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}
	if err := config.Init(cfgPath); err != nil {
		logger.Error("loading config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	cat, err := material.LoadCatalogDefaults()
	if err != nil {
		logger.Error("loading material catalog", "error", err)
		os.Exit(1)
	}
	table, err := material.BuildTable(cat)
	if err != nil {
		logger.Error("building material table", "error", err)
		os.Exit(1)
	}
	names := cat.NameIndex()

	g := grid.NewEmpty(cfg.Grid.Width, cfg.Grid.Height)
	g.Materials = table
	g.DissipateChance = cfg.Grid.DissipateChance

	worldgen.Fill(g, 1, worldgen.Palette{
		Stone: names["stone"],
		Sand:  names["sand"],
		Water: names["water"],
	}, worldgen.DefaultParams(g.Height))

	var recorder *telemetry.Recorder
	if cfg.Telemetry.OutputPath != "" {
		recorder, err = telemetry.NewRecorder(cfg.Telemetry.OutputPath, cfg.Telemetry.SampleInterval)
		if err != nil {
			logger.Warn("telemetry disabled", "error", err)
		}
		defer recorder.Close()
	}

	rl.InitWindow(screenWidth, screenHeight, "sandview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	cam := camera.New(screenWidth, screenHeight, float32(g.Width), float32(g.Height))

	// One texture sized to the whole grid, uploaded in full each tick and
	// cropped to the camera's visible window on draw via DrawTexturePro —
	// the same GPU-crop pattern as the teacher's resource fog renderer,
	// which drew a field-sized texture through a camera-relative srcRect.
	img := rl.GenImageColor(g.Width, g.Height, rl.Black)
	tex := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(tex)

	perf := telemetry.NewPerfCollector(60)
	palette := buildPalette(cat)
	pixels := make([]color.RGBA, g.Width*g.Height)

	for !rl.WindowShouldClose() {
		perf.StartTick()
		perf.StartPhase(telemetry.PhaseStep)
		g.StepManual()

		perf.StartPhase(telemetry.PhaseTelemetry)
		if recorder != nil {
			if err := recorder.Sample(g, g.GetTick()); err != nil {
				logger.Warn("telemetry sample failed", "error", err)
			}
		}
		perf.EndTick()

		handleInput(cam)

		decodeGrid(g, palette, pixels)
		rl.UpdateTexture(tex, pixels)

		minX, minY, maxX, maxY := cam.VisibleWorldBounds()
		srcRect := rl.Rectangle{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
		dstRect := rl.Rectangle{X: 0, Y: 0, Width: screenWidth, Height: screenHeight}

		rl.BeginDrawing()
		rl.ClearBackground(rl.Black)
		rl.DrawTexturePro(tex, srcRect, dstRect, rl.Vector2{}, 0, rl.White)
		rl.EndDrawing()
	}
}

// buildPalette assigns each material index a display color, grouped loosely
// by movement class so powders read warm, liquids/gases read cool, and
// structural solids read neutral.
func buildPalette(cat material.Catalog) []color.RGBA {
	pal := make([]color.RGBA, len(cat.Materials))
	for i, def := range cat.Materials {
		switch def.Movement {
		case "solid":
			if def.Name == "empty" {
				pal[i] = color.RGBA{10, 10, 14, 255}
			} else {
				pal[i] = color.RGBA{120, 110, 100, 255}
			}
		case "powder":
			pal[i] = color.RGBA{210, 180, 110, 255}
		case "liquid":
			if def.Name == "lava" {
				pal[i] = color.RGBA{230, 90, 30, 255}
			} else {
				pal[i] = color.RGBA{60, 110, 220, 255}
			}
		case "gas":
			pal[i] = color.RGBA{200, 200, 210, 180}
		default:
			pal[i] = color.RGBA{255, 0, 255, 255}
		}
	}
	return pal
}

// decodeGrid writes one decoded RGBA pixel per cell into pixels, row-major
// across the entire grid.
func decodeGrid(g *grid.Grid, palette []color.RGBA, pixels []color.RGBA) {
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			idx := g.GetCellMaterialIdx(x, y)
			if int(idx) < len(palette) {
				pixels[y*g.Width+x] = palette[idx]
			}
		}
	}
}

// handleInput applies arrow-key panning and scroll-wheel zoom to cam.
func handleInput(cam *camera.Camera) {
	panSpeed := float32(8.0) / cam.Zoom
	if rl.IsKeyDown(rl.KeyRight) {
		cam.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		cam.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		cam.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		cam.Pan(0, -panSpeed)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		cam.ZoomBy(1 + wheel*0.1)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		cam.Reset()
	}
}
