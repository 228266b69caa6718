package tui

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// halfBlocks draws img with two pixel rows per text line: the upper pixel
// is the foreground of "▀" and the lower one its background.
func halfBlocks(img image.Image) string {
	b := img.Bounds()
	var sb strings.Builder
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		for x := b.Min.X; x < b.Max.X; x++ {
			st := lipgloss.NewStyle().Foreground(hexColor(img.At(x, y)))
			if y+1 < b.Max.Y {
				st = st.Background(hexColor(img.At(x, y+1)))
			}
			sb.WriteString(st.Render("▀"))
		}
		if y+2 < b.Max.Y {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func hexColor(c color.Color) lipgloss.Color {
	r, g, b, _ := c.RGBA()
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8))
}
