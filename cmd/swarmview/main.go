package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	manifestPath := flag.String("manifest", "demo.yaml", "scene manifest (path or name under manifest/scenes)")
	watch := flag.Bool("watch", true, "reload the manifest when files under manifest/scenes change")
	debug := flag.Bool("debug", false, "draw per-processor timings")
	flag.Parse()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(screenWidth*2, screenHeight*2)
	ebiten.SetWindowTitle("swarm")

	game, err := NewGame(*manifestPath, *watch, *debug)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
