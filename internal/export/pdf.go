// Package export renders a board snapshot as a single-page PDF.
package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/cthunline/cthunline-web-sub002/internal/geometry"
	"github.com/cthunline/cthunline-web-sub002/internal/sketch"
)

const (
	TokenRadius     = 20
	defaultFontSize = 16
)

type rgb struct{ r, g, b int }

var black = rgb{}

// PDF writes snap to w. The page is the logical canvas, one point per
// logical unit. Images are drawn as labelled frames since their sources
// live outside the board.
func PDF(w io.Writer, title string, snap sketch.Snapshot) error {
	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: geometry.LogicalWidth, Ht: geometry.LogicalHeight},
	})
	p.SetTitle(title, true)
	p.SetAutoPageBreak(false, 0)
	p.AddPage()
	tr := p.UnicodeTranslatorFromDescriptor("")

	for _, img := range snap.Images {
		drawImage(p, tr, img)
	}
	for _, path := range snap.Paths {
		drawPath(p, path)
	}
	for _, t := range snap.Texts {
		drawText(p, tr, t)
	}
	for _, tok := range snap.Tokens {
		drawToken(p, tr, tok)
	}

	if err := p.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func drawImage(p *gofpdf.Fpdf, tr func(string) string, img sketch.Image) {
	h := img.Width * geometry.LogicalHeight / geometry.LogicalWidth
	if img.Height != nil {
		h = *img.Height
	}
	p.SetDrawColor(128, 128, 128)
	p.SetLineWidth(1)
	p.Rect(img.X, img.Y, img.Width, h, "D")

	p.SetFont("Helvetica", "I", 10)
	p.SetTextColor(128, 128, 128)
	p.Text(img.X+4, img.Y+12, tr(img.URL))
}

func drawPath(p *gofpdf.Fpdf, path sketch.Path) {
	c := parseColor(path.Color)
	pts := geometry.PathPoints(path.D)
	if len(pts) == 0 {
		return
	}
	p.SetDrawColor(c.r, c.g, c.b)
	p.SetFillColor(c.r, c.g, c.b)
	p.SetLineWidth(path.Width)
	p.SetLineCapStyle("round")
	p.SetLineJoinStyle("round")

	if len(pts) == 1 {
		p.Circle(pts[0].X, pts[0].Y, path.Width/2, "F")
		return
	}
	for i := 1; i < len(pts); i++ {
		p.Line(pts[i-1].X, pts[i-1].Y, pts[i].X, pts[i].Y)
	}
}

func drawText(p *gofpdf.Fpdf, tr func(string) string, t sketch.Text) {
	c := parseColor(t.Color)
	size := t.FontSize
	if size <= 0 {
		size = defaultFontSize
	}
	p.SetFont("Helvetica", "", size)
	p.SetTextColor(c.r, c.g, c.b)
	p.Text(t.X, t.Y, tr(t.Text))
}

func drawToken(p *gofpdf.Fpdf, tr func(string) string, tok sketch.Token) {
	c := parseColor(tok.Color)
	p.SetFillColor(c.r, c.g, c.b)
	p.SetDrawColor(0, 0, 0)
	p.SetLineWidth(1)
	cx, cy := tok.X+TokenRadius, tok.Y+TokenRadius
	p.Circle(cx, cy, TokenRadius, "FD")

	if tok.AttachedData == nil || tok.AttachedData.CharacterName == "" {
		return
	}
	label := tr(tok.AttachedData.CharacterName)
	p.SetFont("Helvetica", "B", 11)
	p.SetTextColor(0, 0, 0)
	p.Text(cx-p.GetStringWidth(label)/2, cy+TokenRadius+12, label)
}

// parseColor accepts #rgb and #rrggbb. Anything else is black.
func parseColor(s string) rgb {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return black
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return black
	}
	return rgb{r: int(v >> 16 & 0xff), g: int(v >> 8 & 0xff), b: int(v & 0xff)}
}
