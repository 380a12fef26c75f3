// Package plot draws an integrand in the terminal: the curve over a window
// twice as wide as the integration interval, the area between the curve and
// the x-axis shaded inside the interval, and labelled axes.
package plot

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/agbru/mcspeed/internal/integrand"
	"github.com/agbru/mcspeed/internal/ui"
)

const (
	// DefaultWidth and DefaultHeight size the drawing area in cells.
	DefaultWidth  = 72
	DefaultHeight = 20

	ticks      = 10
	flatRange  = 1e-6
	padding    = 0.2
	minWidth   = 11
	minHeight  = 5
	curveRune  = '•'
	areaRune   = '░'
	xAxisRune  = '─'
	yAxisRune  = '│'
	originRune = '┼'
)

// Options sizes the plot. Zero values select the defaults.
type Options struct {
	Width  int
	Height int
}

func (o Options) size() (int, int) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = DefaultWidth
	}
	if h <= 0 {
		h = DefaultHeight
	}
	return max(w, minWidth), max(h, minHeight)
}

// Frame is the sampled geometry of a plot: one value per column over the
// extended window and the padded value range.
type Frame struct {
	// A and B are the integration bounds as given.
	A, B float64
	// MinX and MaxX bound the extended window [c-(b-a), c+(b-a)] where c is
	// the interval's midpoint.
	MinX, MaxX float64
	// MinY and MaxY bound the plotted values, padded by 20% of their range,
	// or [-1, 1] when the function is flat.
	MinY, MaxY float64
	// Values holds f at each column; Valid is false where the evaluation
	// was skipped.
	Values []float64
	Valid  []bool
}

// Window returns the extended plotting window for [a, b].
func Window(a, b float64) (lo, hi float64) {
	c := (a + b) / 2
	half := math.Abs(b - a)
	return c - half, c + half
}

// NewFrame samples f at width evenly spaced columns across the window of
// [a, b].
func NewFrame(f integrand.Integrand, a, b float64, width int) Frame {
	fr := Frame{A: a, B: b, Values: make([]float64, width), Valid: make([]bool, width)}
	fr.MinX, fr.MaxX = Window(a, b)
	step := (fr.MaxX - fr.MinX) / float64(width)

	lo, hi := math.Inf(1), math.Inf(-1)
	for i := range width {
		y, ok := integrand.Evaluate(f, fr.MinX+float64(i)*step)
		if !ok {
			continue
		}
		fr.Values[i], fr.Valid[i] = y, true
		lo, hi = min(lo, y), max(hi, y)
	}
	fr.MinY, fr.MaxY = valueRange(lo, hi)
	return fr
}

func valueRange(lo, hi float64) (float64, float64) {
	r := hi - lo
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) || r < flatRange {
		return -1, 1
	}
	return lo - padding*r, hi + padding*r
}

// x returns the abscissa of column i.
func (fr Frame) x(i int) float64 {
	return fr.MinX + float64(i)*(fr.MaxX-fr.MinX)/float64(len(fr.Values))
}

// row maps a value to a row index, 0 at the top, clamped to the canvas.
func (fr Frame) row(y float64, height int) int {
	r := int(math.Round((fr.MaxY - y) / (fr.MaxY - fr.MinY) * float64(height-1)))
	return min(max(r, 0), height-1)
}

// column maps an abscissa to a column index, or -1 when outside the window.
func (fr Frame) column(x float64) int {
	if x < fr.MinX || x > fr.MaxX {
		return -1
	}
	step := (fr.MaxX - fr.MinX) / float64(len(fr.Values))
	return min(int(math.Round((x-fr.MinX)/step)), len(fr.Values)-1)
}

type cellKind uint8

const (
	blank cellKind = iota
	area
	axis
	curve
)

// cell is one character of the canvas. shaded survives axis and curve
// strokes so the area under the curve stays known per column.
type cell struct {
	r      rune
	kind   cellKind
	shaded bool
}

// canvas rasterises the frame into height rows.
func (fr Frame) canvas(height int) [][]cell {
	width := len(fr.Values)
	grid := make([][]cell, height)
	for r := range grid {
		grid[r] = make([]cell, width)
		for c := range grid[r] {
			grid[r][c] = cell{r: ' '}
		}
	}

	zeroRow := fr.row(0, height)
	lo, hi := min(fr.A, fr.B), max(fr.A, fr.B)
	for c := range width {
		if !fr.Valid[c] {
			continue
		}
		x := fr.x(c)
		yr := fr.row(fr.Values[c], height)
		if x >= lo && x <= hi {
			from, to := min(yr, zeroRow), max(yr, zeroRow)
			for r := from; r <= to; r++ {
				grid[r][c] = cell{r: areaRune, kind: area, shaded: true}
			}
		}
	}

	if fr.MinY <= 0 && fr.MaxY >= 0 {
		for c := range width {
			grid[zeroRow][c] = cell{r: xAxisRune, kind: axis, shaded: grid[zeroRow][c].shaded}
		}
	}
	if col := fr.column(0); col >= 0 {
		for r := range height {
			ch := yAxisRune
			if grid[r][col].r == xAxisRune {
				ch = originRune
			}
			grid[r][col] = cell{r: ch, kind: axis, shaded: grid[r][col].shaded}
		}
	}

	for c := range width {
		if fr.Valid[c] {
			r := fr.row(fr.Values[c], height)
			grid[r][c] = cell{r: curveRune, kind: curve, shaded: grid[r][c].shaded}
		}
	}
	return grid
}

// yLabels returns the tick label of each row that carries one.
func (fr Frame) yLabels(height int) map[int]string {
	labels := make(map[int]string, ticks+1)
	for i := 0; i <= ticks; i++ {
		y := fr.MinY + float64(i)*(fr.MaxY-fr.MinY)/ticks
		labels[fr.row(y, height)] = fmt.Sprintf("%.1f", y)
	}
	return labels
}

// xLabels lays the x tick labels out on one line, dropping any label that
// would overlap its left neighbour.
func (fr Frame) xLabels() string {
	width := len(fr.Values)
	line := []rune(strings.Repeat(" ", width+8))
	next := 0
	for i := 0; i <= ticks; i++ {
		x := fr.MinX + float64(i)*(fr.MaxX-fr.MinX)/ticks
		label := []rune(fmt.Sprintf("%.1f", x))
		start := int(math.Round(float64(i)*float64(width-1)/ticks)) - len(label)/2
		start = max(start, 0)
		if start < next || start+len(label) > len(line) {
			continue
		}
		copy(line[start:], label)
		next = start + len(label) + 1
	}
	return strings.TrimRight(string(line), " ")
}

// Render draws f over the window of [a, b] to w.
func Render(w io.Writer, f integrand.Integrand, a, b float64, opts Options) error {
	width, height := opts.size()
	fr := NewFrame(f, a, b, width)
	return fr.Write(w, height)
}

// Write draws the frame using height rows.
func (fr Frame) Write(w io.Writer, height int) error {
	height = max(height, minHeight)
	grid := fr.canvas(height)
	labels := fr.yLabels(height)

	margin := 0
	for _, l := range labels {
		margin = max(margin, len(l))
	}

	var b strings.Builder
	for r, row := range grid {
		fmt.Fprintf(&b, "%*s ", margin, labels[r])
		for _, c := range row {
			b.WriteString(paint(c))
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "%*s %s\n", margin, "", fr.xLabels())

	_, err := io.WriteString(w, b.String())
	return err
}

func paint(c cell) string {
	s := string(c.r)
	switch c.kind {
	case curve:
		return ui.Paint(ui.ColorCurve(), s)
	case area:
		return ui.Paint(ui.ColorArea(), s)
	case axis:
		return ui.Paint(ui.ColorSecondary(), s)
	}
	return s
}
