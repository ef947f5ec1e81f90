// Command gones is a thin Ebitengine host for the nescore emulator
// core: it owns the window, polls keyboard state into the core's
// controller shadow, and blits the core's RGBA8 frame buffer once per
// Draw.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"nescore"
)

func main() {
	romPath := flag.String("rom", "", "path to an iNES (.nes) ROM file")
	scale := flag.Int("scale", 3, "integer window scale factor")
	flag.Parse()

	if *romPath == "" {
		fmt.Fprintln(os.Stderr, "usage: gones -rom <file.nes> [-scale N]")
		os.Exit(2)
	}

	rom, err := os.ReadFile(*romPath)
	if err != nil {
		log.Fatalf("reading ROM: %v", err)
	}

	nes, err := nescore.New(rom)
	if err != nil {
		log.Fatalf("loading ROM: %v", err)
	}

	g := &game{nes: nes, scale: *scale}
	ebiten.SetWindowSize(nescore.Width*g.scale, nescore.Height*g.scale)
	ebiten.SetWindowTitle("gones")
	if err := ebiten.RunGame(g); err != nil {
		log.Fatalf("ebiten run: %v", err)
	}
}

type game struct {
	nes   *nescore.NES
	scale int
	frame *ebiten.Image
}

var keymap = map[ebiten.Key]nescore.Button{
	ebiten.KeyZ:          nescore.ButtonA,
	ebiten.KeyX:          nescore.ButtonB,
	ebiten.KeyShift:      nescore.ButtonSelect,
	ebiten.KeyEnter:      nescore.ButtonStart,
	ebiten.KeyArrowUp:    nescore.ButtonUp,
	ebiten.KeyArrowDown:  nescore.ButtonDown,
	ebiten.KeyArrowLeft:  nescore.ButtonLeft,
	ebiten.KeyArrowRight: nescore.ButtonRight,
}

func (g *game) Update() error {
	for key, button := range keymap {
		g.nes.SetButton(0, button, ebiten.IsKeyPressed(key))
	}
	g.nes.StepFrame()
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.frame == nil {
		g.frame = ebiten.NewImage(nescore.Width, nescore.Height)
	}
	buf := g.nes.FrameBuffer()
	pix := make([]byte, nescore.Width*nescore.Height*4)
	for i, rgba := range buf {
		pix[i*4+0] = byte(rgba >> 24)
		pix[i*4+1] = byte(rgba >> 16)
		pix[i*4+2] = byte(rgba >> 8)
		pix[i*4+3] = byte(rgba)
	}
	g.frame.WritePixels(pix)

	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(g.scale), float64(g.scale))
	screen.DrawImage(g.frame, op)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return nescore.Width * g.scale, nescore.Height * g.scale
}
