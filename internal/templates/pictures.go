package templates

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
)

// Pixel sizes of the drawn pictures. Backgrounds keep the aspect ratio of the
// card they sit behind.
const (
	tractorBackgroundWidth      = 804
	tractorBackgroundHeight     = 563
	certificateBackgroundWidth  = 560
	certificateBackgroundHeight = 365
	logoWidth                   = 110
	logoHeight                  = 78
)

var (
	blueTint  = color.RGBA{R: 0xd6, G: 0xe6, B: 0xf5, A: 0xff}
	blueEdge  = color.RGBA{R: 0x3a, G: 0x6e, B: 0xa5, A: 0xff}
	greenTint = color.RGBA{R: 0xdc, G: 0xef, B: 0xd8, A: 0xff}
	greenEdge = color.RGBA{R: 0x3f, G: 0x7d, B: 0x3a, A: 0xff}
	paperTint = color.RGBA{R: 0xfb, G: 0xf6, B: 0xe4, A: 0xff}
	goldEdge  = color.RGBA{R: 0xb0, G: 0x8d, B: 0x3c, A: 0xff}
	logoBlue  = color.RGBA{R: 0x1f, G: 0x4e, B: 0x8c, A: 0xff}
)

func drawPictures() (map[string][]byte, error) {
	images := map[string]image.Image{
		BlueTractorBackground:  drawBackground(tractorBackgroundWidth, tractorBackgroundHeight, blueTint, blueEdge),
		GreenTractorBackground: drawBackground(tractorBackgroundWidth, tractorBackgroundHeight, greenTint, greenEdge),
		CertificateBackground:  drawBackground(certificateBackgroundWidth, certificateBackgroundHeight, paperTint, goldEdge),
		EducationLogo:          drawLogo(logoWidth, logoHeight),
	}
	pictures := make(map[string][]byte, len(images))
	for name, img := range images {
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode picture %s: %w", name, err)
		}
		pictures[name] = buf.Bytes()
	}
	return pictures, nil
}

// drawBackground fills a card with a vertical fade from tint to white, a
// double frame and a light guilloche of diagonal lines.
func drawBackground(w, h int, tint, edge color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		fade := float64(y) / float64(h)
		row := color.RGBA{
			R: mix(tint.R, 0xff, fade*0.6),
			G: mix(tint.G, 0xff, fade*0.6),
			B: mix(tint.B, 0xff, fade*0.6),
			A: 0xff,
		}
		for x := 0; x < w; x++ {
			c := row
			if (x+y)%24 == 0 || (x-y+h*24)%24 == 0 {
				c = blend(row, edge, 0.12)
			}
			img.SetRGBA(x, y, c)
		}
	}
	frame(img, 6, 3, edge)
	frame(img, 14, 1, edge)
	return img
}

// drawLogo draws a filled disc with a white book shape inside.
func drawLogo(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	cx, cy := w/2, h/2
	r := min(w, h)/2 - 2
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy > r*r {
				continue
			}
			c := logoBlue
			if abs(dy) < r/3 && abs(dx) < r/2 && abs(dx) > 1 {
				c = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func frame(img *image.RGBA, inset, width int, c color.RGBA) {
	b := img.Bounds()
	for i := inset; i < inset+width; i++ {
		for x := b.Min.X + i; x < b.Max.X-i; x++ {
			img.SetRGBA(x, b.Min.Y+i, c)
			img.SetRGBA(x, b.Max.Y-1-i, c)
		}
		for y := b.Min.Y + i; y < b.Max.Y-i; y++ {
			img.SetRGBA(b.Min.X+i, y, c)
			img.SetRGBA(b.Max.X-1-i, y, c)
		}
	}
}

func mix(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}

func blend(a, b color.RGBA, t float64) color.RGBA {
	return color.RGBA{R: mix(a.R, b.R, t), G: mix(a.G, b.G, t), B: mix(a.B, b.B, t), A: 0xff}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
