// Package report renders the monthly stability class distribution of a run.
package report

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/lox/akterm/internal/models"
	"github.com/lox/akterm/internal/stability"
)

// Distribution counts final classes per calendar month. The class index is
// the stability.Class value, so index 0 holds undefined classes.
type Distribution struct {
	Counts [12][stability.ClassV + 1]int
}

// Tally counts the final classes of rows by local month.
func Tally(rows []stability.Classified) Distribution {
	var d Distribution
	for _, c := range rows {
		local := c.Local
		if local.IsZero() {
			local = c.Timestamp
		}
		if local.IsZero() {
			continue
		}
		d.Counts[local.Month()-1][c.Class]++
	}
	return d
}

// FromCounts builds a distribution from archived class counts.
func FromCounts(counts []models.ClassCount) (Distribution, error) {
	var d Distribution
	for _, cc := range counts {
		if cc.Month < time.January || cc.Month > time.December {
			return d, fmt.Errorf("invalid month %d", cc.Month)
		}
		class, err := stability.ParseClass(cc.Class)
		if err != nil {
			return d, err
		}
		d.Counts[cc.Month-1][class] += cc.Count
	}
	return d, nil
}

// MonthTotal returns the number of observations in month m.
func (d Distribution) MonthTotal(m time.Month) int {
	total := 0
	for _, n := range d.Counts[m-1] {
		total += n
	}
	return total
}

// Total returns the number of observations over all months.
func (d Distribution) Total() int {
	total := 0
	for m := time.January; m <= time.December; m++ {
		total += d.MonthTotal(m)
	}
	return total
}

const (
	ChartWidth  = 960
	ChartHeight = 540

	marginLeft   = 60
	marginRight  = 140
	marginTop    = 50
	marginBottom = 50
)

var classColors = [stability.ClassV + 1]color.RGBA{
	stability.ClassUndefined: {120, 120, 120, 255},
	stability.ClassI:         {33, 64, 154, 255},
	stability.ClassII:        {52, 120, 198, 255},
	stability.ClassIII1:      {102, 189, 99, 255},
	stability.ClassIII2:      {254, 224, 139, 255},
	stability.ClassIV:        {244, 109, 67, 255},
	stability.ClassV:         {165, 0, 38, 255},
}

// RenderChart draws a 100% stacked bar per month with one segment per class.
func RenderChart(d Distribution, title string) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, ChartWidth, ChartHeight))

	for y := 0; y < ChartHeight; y++ {
		progress := float64(y) / float64(ChartHeight)
		r := uint8(20 + progress*10)
		g := uint8(20 + progress*15)
		b := uint8(40 + progress*20)
		for x := 0; x < ChartWidth; x++ {
			img.SetRGBA(x, y, color.RGBA{r, g, b, 255})
		}
	}

	white := color.RGBA{255, 255, 255, 255}
	lightGray := color.RGBA{200, 200, 200, 255}
	face := basicfont.Face7x13

	drawText(img, title, marginLeft, marginTop-20, white, face)

	plotW := ChartWidth - marginLeft - marginRight
	plotH := ChartHeight - marginTop - marginBottom
	slot := plotW / 12
	barW := slot * 3 / 4

	for m := time.January; m <= time.December; m++ {
		x0 := marginLeft + int(m-1)*slot + (slot-barW)/2
		total := d.MonthTotal(m)

		if total > 0 {
			// Most stable class at the bottom.
			bottom := marginTop + plotH
			acc := 0
			for _, class := range append([]stability.Class{stability.ClassUndefined}, stability.Classes...) {
				n := d.Counts[m-1][class]
				if n == 0 {
					continue
				}
				acc += n
				top := marginTop + plotH - acc*plotH/total
				fillRect(img, x0, top, x0+barW, bottom, classColors[class])
				bottom = top
			}
		}

		drawText(img, m.String()[:3], x0+(barW-21)/2, ChartHeight-marginBottom+18, lightGray, face)
	}

	for i := 0; i <= 4; i++ {
		y := marginTop + plotH - i*plotH/4
		fillRect(img, marginLeft-4, y, marginLeft, y+1, lightGray)
		drawText(img, fmt.Sprintf("%3d%%", i*25), marginLeft-40, y+4, lightGray, face)
	}

	legendX := ChartWidth - marginRight + 20
	for i, class := range stability.Classes {
		y := marginTop + i*22
		fillRect(img, legendX, y, legendX+14, y+14, classColors[class])
		drawText(img, class.String(), legendX+22, y+11, white, face)
	}
	y := marginTop + len(stability.Classes)*22
	fillRect(img, legendX, y, legendX+14, y+14, classColors[stability.ClassUndefined])
	drawText(img, "undefined", legendX+22, y+11, white, face)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode chart: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteChart renders d and writes the PNG to path.
func WriteChart(path string, d Distribution, title string) error {
	b, err := RenderChart(d, title)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	return os.WriteFile(path, b, 0o644)
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	r := image.Rect(x0, y0, x1, y1).Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, col)
		}
	}
}

// drawText draws text with its baseline at y.
func drawText(img *image.RGBA, text string, x, y int, col color.Color, face font.Face) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
