package tui

import (
	"strings"

	"github.com/agbru/mcspeed/internal/integrand"
	"github.com/agbru/mcspeed/internal/plot"
)

// yLabelMargin is the room left for the plot's y-axis labels.
const yLabelMargin = 9

// PlotModel draws the integrand over its interval. The drawing only depends
// on the panel size, so it is recomputed on resize and cached.
type PlotModel struct {
	f      integrand.Integrand
	a, b   float64
	label  string
	width  int
	height int
	cached string
}

// NewPlotModel creates a plot panel for f over [a, b].
func NewPlotModel(f integrand.Integrand, a, b float64, label string) PlotModel {
	return PlotModel{f: f, a: a, b: b, label: label}
}

// SetSize updates dimensions and redraws.
func (p *PlotModel) SetSize(w, h int) {
	p.width, p.height = w, h
	var sb strings.Builder
	opts := plot.Options{Width: max(w-4-yLabelMargin, 1), Height: max(h-4, 1)}
	if err := plot.Render(&sb, p.f, p.a, p.b, opts); err != nil {
		p.cached = logErrorStyle.Render(err.Error())
		return
	}
	p.cached = strings.TrimRight(sb.String(), "\n")
}

// View renders the plot panel.
func (p PlotModel) View() string {
	body := panelTitleStyle.Render("f(x) = "+p.label) + "\n" + p.cached
	return panelStyle.
		Width(max(p.width-2, 0)).
		Height(max(p.height-2, 0)).
		MaxHeight(max(p.height, 0)).
		Render(body)
}
