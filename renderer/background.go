package renderer

import (
	"fmt"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Background is a solid colour or an image stretched over the arena.
type Background struct {
	color    rl.Color
	texture  rl.Texture2D
	hasImage bool
	contrast rl.Color
}

// NewBackground creates a background from a colour spec or an image path.
// Image loading needs an open window. An unusable spec falls back to white.
func NewBackground(spec string) *Background {
	if c, err := ParseColor(spec); err == nil {
		return solidBackground(c)
	}
	b, err := loadImageBackground(spec)
	if err != nil {
		slog.Warn("background unusable, using white", "background", spec, "error", err)
		return solidBackground(rl.White)
	}
	return b
}

func solidBackground(c rl.Color) *Background {
	return &Background{color: c, contrast: ContrastColor(c)}
}

func loadImageBackground(path string) (*Background, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("not a colour or readable image: %w", err)
	}
	img := rl.LoadImage(path)
	if img == nil || img.Width == 0 || img.Height == 0 {
		return nil, fmt.Errorf("loading image %s failed", path)
	}
	defer rl.UnloadImage(img)

	mean := meanColor(rl.LoadImageColors(img))
	return &Background{
		color:    mean,
		texture:  rl.LoadTextureFromImage(img),
		hasImage: true,
		contrast: ContrastColor(mean),
	}, nil
}

// meanColor averages the pixels of an image.
func meanColor(pixels []rl.Color) rl.Color {
	if len(pixels) == 0 {
		return rl.White
	}
	var r, g, b uint64
	for _, p := range pixels {
		r += uint64(p.R)
		g += uint64(p.G)
		b += uint64(p.B)
	}
	n := uint64(len(pixels))
	return rl.Color{R: uint8(r / n), G: uint8(g / n), B: uint8(b / n), A: 255}
}

// Draw fills dst with the background.
func (b *Background) Draw(dst rl.Rectangle) {
	if !b.hasImage {
		rl.DrawRectangleRec(dst, b.color)
		return
	}
	src := rl.Rectangle{Width: float32(b.texture.Width), Height: float32(b.texture.Height)}
	rl.DrawTexturePro(b.texture, src, dst, rl.Vector2{}, 0, rl.White)
}

// Color returns the solid colour, or the image's mean colour.
func (b *Background) Color() rl.Color {
	return b.color
}

// Contrast returns the colour used for obstacles without their own colour.
func (b *Background) Contrast() rl.Color {
	return b.contrast
}

// Unload frees the image texture.
func (b *Background) Unload() {
	if b.hasImage {
		rl.UnloadTexture(b.texture)
		b.hasImage = false
	}
}
