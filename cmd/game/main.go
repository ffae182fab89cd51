package main

import (
	"flag"
	"log"
	"time"

	"github.com/Garsondee/Arena-Sense/internal/arena"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	var seed int64
	flag.Int64Var(&seed, "seed", 0, "RNG seed (0 = time-based)")
	flag.Parse()

	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	ebiten.SetWindowTitle("Arena Sense")
	ebiten.SetWindowSize(1280, 720)
	if err := ebiten.RunGame(arena.NewGame(seed)); err != nil {
		log.Fatal(err)
	}
}
