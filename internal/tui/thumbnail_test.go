package tui

import (
	"image"
	"image/color"
	"strings"
	"testing"
)

func TestHalfBlocks(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 3))
	out := halfBlocks(img)

	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines for 3 pixel rows, got %d", len(lines))
	}
	if n := strings.Count(out, "▀"); n != 4 {
		t.Errorf("expected 4 cells, got %d", n)
	}
}

func TestHexColor(t *testing.T) {
	if got := hexColor(color.RGBA{R: 255, G: 16, B: 0, A: 255}); got != "#ff1000" {
		t.Errorf("unexpected color %q", got)
	}
}
