package images

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	ThumbnailWidth  = 1200
	ThumbnailHeight = 630

	minFontSize     = 10
	maxFontSize     = 60
	textMargin      = 100
	lineSpacing     = 10
	overlayAlpha    = 175 // GD alpha 40 of 127
	shadowOffset    = 2
	blurPasses      = 3
	blurSigma       = 1.5
	jpegQuality     = 90
	defaultBg       = "#0073aa"
	defaultText     = "#ffffff"
	defaultFontSize = 48
)

type ThumbnailConfig struct {
	BgColor   string
	TextColor string
	FontSize  int
	BgImage   string
	TempDir   string
}

// ThumbnailGenerator renders a branded 1200x630 cover with the post title.
type ThumbnailGenerator struct {
	cfg       ThumbnailConfig
	font      *opentype.Font
	bgColor   color.NRGBA
	textColor color.NRGBA
}

func NewThumbnailGenerator(cfg ThumbnailConfig) (*ThumbnailGenerator, error) {
	parsed, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	if cfg.FontSize == 0 {
		cfg.FontSize = defaultFontSize
	}
	cfg.FontSize = max(minFontSize, min(cfg.FontSize, maxFontSize))

	return &ThumbnailGenerator{
		cfg:       cfg,
		font:      parsed,
		bgColor:   ParseHexColor(cfg.BgColor, defaultBg),
		textColor: ParseHexColor(cfg.TextColor, defaultText),
	}, nil
}

// Generate writes the cover to a temporary JPEG file and returns its path.
// The caller removes the file.
func (g *ThumbnailGenerator) Generate(title string) (string, error) {
	img, err := g.Render(title)
	if err != nil {
		return "", err
	}

	f, err := os.CreateTemp(g.cfg.TempDir, "autonews-thumb-*.jpg")
	if err != nil {
		return "", fmt.Errorf("failed to create thumbnail file: %w", err)
	}
	path := f.Name()

	if err := imaging.Encode(f, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write thumbnail: %w", err)
	}

	return path, nil
}

func (g *ThumbnailGenerator) Render(title string) (*image.NRGBA, error) {
	background, err := g.background()
	if err != nil {
		return nil, err
	}

	overlay := imaging.New(ThumbnailWidth, ThumbnailHeight, color.NRGBA{R: g.bgColor.R, G: g.bgColor.G, B: g.bgColor.B, A: overlayAlpha})
	canvas := imaging.Overlay(background, overlay, image.Pt(0, 0), 1.0)

	face, err := opentype.NewFace(g.font, &opentype.FaceOptions{
		Size:    float64(g.cfg.FontSize),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	defer face.Close()

	lines := WrapText(face, strings.TrimSpace(title), ThumbnailWidth-textMargin)

	lineHeight := g.cfg.FontSize + lineSpacing
	y := (ThumbnailHeight-len(lines)*lineHeight)/2 + g.cfg.FontSize

	shadow := color.NRGBA{A: 128}
	for _, line := range lines {
		width := font.MeasureString(face, line).Ceil()
		x := (ThumbnailWidth - width) / 2

		drawString(canvas, face, shadow, x+shadowOffset, y+shadowOffset, line)
		drawString(canvas, face, g.textColor, x, y, line)

		y += lineHeight
	}

	return canvas, nil
}

func (g *ThumbnailGenerator) background() (*image.NRGBA, error) {
	var src image.Image
	if g.cfg.BgImage != "" {
		img, err := imaging.Open(g.cfg.BgImage)
		if err != nil {
			return nil, fmt.Errorf("failed to load background image: %w", err)
		}
		src = img
	} else {
		src = gradient(ThumbnailWidth, ThumbnailHeight)
	}

	bg := imaging.Fill(src, ThumbnailWidth, ThumbnailHeight, imaging.Center, imaging.Lanczos)
	for range blurPasses {
		bg = imaging.Blur(bg, blurSigma)
	}
	return bg, nil
}

// WrapText breaks text into lines no wider than maxWidth. A single word wider
// than maxWidth gets a line of its own.
func WrapText(face font.Face, text string, maxWidth int) []string {
	var lines []string
	line := ""
	for _, word := range strings.Fields(text) {
		candidate := word
		if line != "" {
			candidate = line + " " + word
		}
		if line != "" && font.MeasureString(face, candidate).Ceil() > maxWidth {
			lines = append(lines, line)
			line = word
			continue
		}
		line = candidate
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

func drawString(dst *image.NRGBA, face font.Face, c color.Color, x, y int, text string) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// gradient is the neutral background used when no image is configured.
func gradient(width, height int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		shade := uint8(40 + 60*y/height)
		for x := range width {
			img.SetNRGBA(x, y, color.NRGBA{R: shade, G: shade, B: shade + 10, A: 255})
		}
	}
	return img
}

// ParseHexColor reads "#rrggbb" or "#rgb", using fallback when value is invalid.
func ParseHexColor(value, fallback string) color.NRGBA {
	c, ok := parseHex(value)
	if !ok {
		c, _ = parseHex(fallback)
	}
	return c
}

func parseHex(value string) (color.NRGBA, bool) {
	value = strings.TrimPrefix(strings.TrimSpace(value), "#")
	c := color.NRGBA{A: 255}

	switch len(value) {
	case 6:
		if _, err := fmt.Sscanf(value, "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
			return c, false
		}
	case 3:
		if _, err := fmt.Sscanf(value, "%1x%1x%1x", &c.R, &c.G, &c.B); err != nil {
			return c, false
		}
		c.R *= 17
		c.G *= 17
		c.B *= 17
	default:
		return c, false
	}

	return c, true
}
