package main

import (
	"fmt"
	"image/color"
	"log"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/swarm/ecs"
	"github.com/milk9111/swarm/manifest"
	"github.com/milk9111/swarm/sim"
	"golang.org/x/image/colornames"
)

const (
	screenWidth  = 640
	screenHeight = 480
)

type Game struct {
	frames int
	debug  bool

	ui     *sceneUI
	showUI bool

	manifestPath string
	registry     *ecs.Registry
	watcher      *manifest.Watcher
}

func NewGame(manifestPath string, watch, debug bool) (*Game, error) {
	g := &Game{
		debug:        debug,
		manifestPath: manifestPath,
		ui:           newSceneUI(),
		showUI:       true,
	}
	if err := g.load(); err != nil {
		return nil, err
	}

	if watch {
		dirs := []string{"manifest/scenes", "manifest/scenes/scripts"}
		dirs = slices.DeleteFunc(dirs, func(d string) bool {
			info, err := os.Stat(d)
			return err != nil || !info.IsDir()
		})
		if len(dirs) > 0 {
			w, err := manifest.NewWatcher(dirs...)
			if err != nil {
				log.Printf("swarmview: watch disabled: %v", err)
			} else {
				g.watcher = w
			}
		}
	}
	return g, nil
}

// load rebuilds the registry from the manifest. On error the running
// registry is kept.
func (g *Game) load() error {
	m, err := manifest.LoadFile(g.manifestPath)
	if err != nil {
		return err
	}
	r := ecs.NewRegistry()
	if err := sim.NewCatalog(log.Default()).Apply(m, r); err != nil {
		return err
	}
	g.registry = r
	return nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	g.frames++
	g.pollReload()

	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.showUI = !g.showUI
		g.ui.setVisible(g.showUI)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.debug = !g.debug
	}

	g.ui.sync(g)
	g.ui.ui.Update()

	if _, s := g.registry.Current(); s != nil {
		s.TimedTick(1.0 / float64(ebiten.TPS()))
	}
	return nil
}

func (g *Game) pollReload() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			start := time.Now()
			if err := g.load(); err != nil {
				log.Printf("swarmview: reload after %s failed: %v", name, err)
				continue
			}
			log.Printf("swarmview: reloaded %s in %s", name, time.Since(start))
		case err := <-g.watcher.Errors:
			if err != nil {
				log.Printf("swarmview: watch error: %v", err)
			}
		default:
			return
		}
	}
}

func (g *Game) setScene(name string) {
	if g.registry.Set(name) {
		log.Printf("swarmview: scene %s is current", name)
	}
}

func (g *Game) resetScene(name string) {
	if g.registry.Reset(name) {
		log.Printf("swarmview: scene %s reset", name)
	}
}

func (g *Game) removeScene(name string) {
	if g.registry.Remove(name) {
		log.Printf("swarmview: scene %s removed", name)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Midnightblue)

	defer g.ui.ui.Draw(screen)

	name, s := g.registry.Current()
	if s == nil {
		ebitenutil.DebugPrint(screen, "no scene")
		return
	}

	ecs.ForEach2(s, sim.PositionComponent, sim.BodyComponent, func(e ecs.Entity, p *sim.Position, b *sim.Body) {
		vector.FillCircle(screen, float32(p.X), float32(p.Y), float32(b.Radius), bodyColor(s, e, b), true)
	})

	ebitenutil.DebugPrint(screen, fmt.Sprintf("Scene: %s  Entities: %d  FPS: %.2f", name, s.Len(), ebiten.ActualFPS()))
	if g.debug {
		ebitenutil.DebugPrintAt(screen, timings(s), 0, 16)
	}
}

func bodyColor(s *ecs.Scene, e ecs.Entity, b *sim.Body) color.Color {
	if l, ok := ecs.TryGet(s, e, sim.LifetimeComponent); ok && l.Ticks < 60 {
		return colornames.Orangered
	}
	if !ecs.Has(s, e, sim.VelocityComponent) {
		return colornames.Lightgrey
	}
	if b.Mass > 5 {
		return colornames.Gold
	}
	return colornames.Mediumseagreen
}

func timings(s *ecs.Scene) string {
	times := s.ProcessTimes()
	labels := make([]string, 0, len(times))
	for label := range times {
		labels = append(labels, label)
	}
	slices.Sort(labels)

	var b strings.Builder
	for _, label := range labels {
		fmt.Fprintf(&b, "%-10s %v\n", label, times[label])
	}
	return b.String()
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}
