package chart

import (
	"image/color"
	"math"
	"strconv"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// Figure layout, in pixels.
const (
	panelWidth  = 420
	panelHeight = 460
	titleHeight = 40

	marginLeft   = 70
	marginRight  = 20
	marginTop    = 40
	marginBottom = 70

	heatCell   = 110
	heatMargin = 150
)

var (
	background = color.White
	ink        = color.Black
	gridColor  = color.RGBA{R: 0xdd, G: 0xdd, B: 0xdd, A: 0xff}
	missing    = color.RGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}

	// per-impact bar colours
	carbonColor = color.RGBA{R: 0x4c, G: 0x72, B: 0xb0, A: 0xff}
	energyColor = color.RGBA{R: 0xdd, G: 0x84, B: 0x52, A: 0xff}
	waterColor  = color.RGBA{R: 0x55, G: 0xa8, B: 0x68, A: 0xff}
	otherColor  = color.RGBA{R: 0x81, G: 0x72, B: 0xb3, A: 0xff}
)

// panel is one bar plot inside a figure.
type panel struct {
	Title  string
	Labels []string
	Values []float64
	Color  color.Color
}

// drawPanels lays panels out side by side under a shared title.
func drawPanels(title string, panels []panel) *gg.Context {
	width := panelWidth * max(len(panels), 1)
	dc := gg.NewContext(width, panelHeight+titleHeight)
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(background)
	dc.Clear()

	dc.SetColor(ink)
	dc.DrawStringAnchored(title, float64(width)/2, titleHeight/2, 0.5, 0.5)

	for i, p := range panels {
		drawBars(dc, float64(i*panelWidth), titleHeight, p)
	}
	return dc
}

func drawBars(dc *gg.Context, x0, y0 float64, p panel) {
	left := x0 + marginLeft
	right := x0 + panelWidth - marginRight
	top := y0 + marginTop
	bottom := y0 + panelHeight - marginBottom
	plotW := right - left
	plotH := bottom - top

	dc.SetColor(ink)
	dc.DrawStringAnchored(p.Title, x0+panelWidth/2, y0+marginTop/2, 0.5, 0.5)

	peak := 0.0
	for _, v := range p.Values {
		peak = math.Max(peak, v)
	}
	if peak == 0 {
		peak = 1
	}

	// y grid
	const ticks = 4
	for t := 0; t <= ticks; t++ {
		y := bottom - plotH*float64(t)/ticks
		dc.SetColor(gridColor)
		dc.DrawLine(left, y, right, y)
		dc.Stroke()
		dc.SetColor(ink)
		dc.DrawStringAnchored(formatTick(peak*float64(t)/ticks), left-6, y, 1, 0.5)
	}

	n := len(p.Values)
	if n == 0 {
		return
	}
	slot := plotW / float64(n)
	barW := slot * 0.7
	for i, v := range p.Values {
		h := plotH * math.Max(v, 0) / peak
		x := left + slot*float64(i) + (slot-barW)/2

		dc.SetColor(p.Color)
		dc.DrawRectangle(x, bottom-h, barW, h)
		dc.Fill()

		dc.SetColor(ink)
		dc.DrawStringAnchored(formatTick(v), x+barW/2, bottom-h-4, 0.5, 0)
		dc.DrawStringWrapped(p.Labels[i], x+barW/2, bottom+8, 0.5, 0, slot, 1.2, gg.AlignCenter)
	}

	dc.SetColor(ink)
	dc.DrawLine(left, bottom, right, bottom)
	dc.DrawLine(left, top, left, bottom)
	dc.Stroke()
}

// drawHeatmap renders a symmetric matrix with values in [-1, 1].
// NaN cells are drawn grey and labelled n/a.
func drawHeatmap(title string, labels []string, matrix [][]float64) *gg.Context {
	n := len(labels)
	size := heatMargin + heatCell*n + marginRight
	dc := gg.NewContext(size, size+titleHeight)
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(background)
	dc.Clear()

	dc.SetColor(ink)
	dc.DrawStringAnchored(title, float64(size)/2, titleHeight/2, 0.5, 0.5)

	x0 := float64(heatMargin)
	y0 := float64(heatMargin + titleHeight)
	for i := range n {
		dc.SetColor(ink)
		dc.DrawStringAnchored(labels[i], x0-8, y0+heatCell*(float64(i)+0.5), 1, 0.5)
		dc.DrawStringWrapped(labels[i], x0+heatCell*(float64(i)+0.5), y0-30, 0.5, 0.5, heatCell, 1.2, gg.AlignCenter)

		for j := range n {
			v := matrix[i][j]
			x := x0 + heatCell*float64(j)
			y := y0 + heatCell*float64(i)

			text := "n/a"
			if math.IsNaN(v) {
				dc.SetColor(missing)
			} else {
				dc.SetColor(diverging(v))
				text = strconv.FormatFloat(v, 'f', 2, 64)
			}
			dc.DrawRectangle(x, y, heatCell, heatCell)
			dc.Fill()

			dc.SetColor(ink)
			dc.DrawStringAnchored(text, x+heatCell/2, y+heatCell/2, 0.5, 0.5)
		}
	}
	return dc
}

// diverging maps -1 -> blue, 0 -> white, 1 -> red.
func diverging(v float64) color.Color {
	v = math.Max(-1, math.Min(1, v))
	fade := func(t float64) uint8 { return uint8(math.Round(255 * (1 - t))) }
	if v >= 0 {
		return color.RGBA{R: 0xff, G: fade(v), B: fade(v), A: 0xff}
	}
	return color.RGBA{R: fade(-v), G: fade(-v), B: 0xff, A: 0xff}
}

func formatTick(v float64) string {
	switch a := math.Abs(v); {
	case a >= 1e6:
		return strconv.FormatFloat(v/1e6, 'f', 1, 64) + "M"
	case a >= 1e4:
		return strconv.FormatFloat(v/1e3, 'f', 1, 64) + "k"
	case a >= 100 || a == 0:
		return strconv.FormatFloat(v, 'f', 0, 64)
	default:
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
}
