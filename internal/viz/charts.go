// Package viz renders simulation output for the terminal: asciigraph line
// charts, a shaded bifurcation density map, and lipgloss-styled summaries.
package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/hailcloud-um/logistic-map/internal/bifurcation"
	"github.com/hailcloud-um/logistic-map/internal/engine"
	"github.com/hailcloud-um/logistic-map/internal/predict"
)

const (
	chartWidth  = 90
	chartHeight = 14
)

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(22)
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	crossedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Bold(true)
	graphStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	captionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// densityShades orders fill characters from sparse to dense.
var densityShades = []rune(" .:-=+*#%@")

// TrajectoryChart plots the true and forecast trajectories on one chart.
func TrajectoryChart(truth, selected []float64) string {
	chart := asciigraph.PlotMany(
		[][]float64{truth, selected},
		asciigraph.Height(chartHeight),
		asciigraph.Width(chartWidth),
		asciigraph.SeriesColors(asciigraph.Green, asciigraph.Red),
		asciigraph.SeriesLegends("truth", "forecast"),
		asciigraph.Caption("population x(t)"),
	)
	return graphStyle.Render(chart)
}

// ErrorChart plots the forecast error on a log10 axis. Zero errors are
// clamped so the logarithm stays finite.
func ErrorChart(absError []float64, threshold float64) string {
	logged := make([]float64, len(absError))
	for i, v := range predict.ClampFloor(absError, predict.LogFloor) {
		logged[i] = math.Log10(v)
	}
	caption := fmt.Sprintf("log10 |error|, threshold %.1e", threshold)
	chart := asciigraph.Plot(logged,
		asciigraph.Height(chartHeight),
		asciigraph.Width(chartWidth),
		asciigraph.Caption(caption),
	)
	return graphStyle.Render(chart)
}

// SpreadChart plots the ensemble envelope around the selected series.
func SpreadChart(run *engine.Bundle) string {
	if run.Ensemble == nil {
		return ""
	}
	sr := run.Ensemble.Series
	chart := asciigraph.PlotMany(
		[][]float64{sr.P10, sr.P90, run.Selected},
		asciigraph.Height(chartHeight),
		asciigraph.Width(chartWidth),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Blue, asciigraph.Red),
		asciigraph.SeriesLegends("p10", "p90", "forecast"),
		asciigraph.Caption("ensemble spread"),
	)
	return graphStyle.Render(chart)
}

// Summary renders the scenario outcome as a styled key/value block.
func Summary(req engine.Request, b *engine.Bundle) string {
	var s strings.Builder
	s.WriteString(headerStyle.Render("LOGISTIC MAP FORECAST") + "\n")
	s.WriteString(row("true scenario", fmt.Sprintf("r=%.6g  x0=%.6g", req.RTrue, req.X0True)))
	s.WriteString(row("model scenario", fmt.Sprintf("r=%.6g  x0=%.6g", req.RModel, req.X0Model)))
	s.WriteString(row("steps", fmt.Sprintf("%d", req.Steps)))
	s.WriteString(row("error threshold", fmt.Sprintf("%.3g", req.Threshold)))
	if req.Ensemble {
		s.WriteString(row("ensemble", fmt.Sprintf("%d members, init sd %.2g, param sd %.2g",
			req.EnsembleSize, req.InitPerturbSD, req.ParamPerturbSD)))
		s.WriteString(row("forecast statistic", req.Statistic.String()))
	} else {
		s.WriteString(row("forecast", "single deterministic run"))
	}

	if b.Exceeded() {
		s.WriteString(row("predictability limit",
			crossedStyle.Render(fmt.Sprintf("lost at step %d", b.CrossingIndex))))
	} else {
		s.WriteString(row("predictability limit",
			okStyle.Render(fmt.Sprintf("held for all %d steps", len(b.AbsError)))))
	}
	return s.String()
}

func row(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value) + "\n"
}

// DensityMap renders a bifurcation density grid as shaded character cells,
// x increasing upward and r increasing to the right.
func DensityMap(g *bifurcation.DensityGrid) string {
	max := g.MaxCount()
	var s strings.Builder

	xBins := len(g.Counts)
	for xi := xBins - 1; xi >= 0; xi-- {
		s.WriteString(fmt.Sprintf("%7.3f |", g.XEdges[xi]))
		for ri := range g.Counts[xi] {
			s.WriteRune(shade(g.Counts[xi][ri], max))
		}
		s.WriteString("\n")
	}

	rBins := 0
	if xBins > 0 {
		rBins = len(g.Counts[0])
	}
	s.WriteString("        +" + strings.Repeat("-", rBins) + "\n")
	s.WriteString(fmt.Sprintf("         %-*.3f%.3f\n", rBins-5, g.REdges[0], g.REdges[len(g.REdges)-1]))
	s.WriteString(captionStyle.Render(fmt.Sprintf("%d attractor points, %d parameter values", g.Total(), len(g.Cloud.R))))
	return s.String()
}

func shade(count, max int) rune {
	if count == 0 || max == 0 {
		return densityShades[0]
	}
	// sqrt scaling keeps sparse branches visible next to dense bands
	idx := int(math.Sqrt(float64(count)/float64(max)) * float64(len(densityShades)-1))
	if idx < 1 {
		idx = 1
	}
	if idx >= len(densityShades) {
		idx = len(densityShades) - 1
	}
	return densityShades[idx]
}

// ScanSummary renders a single predictability-limit scan outcome.
func ScanSummary(cfg predict.ScanConfig, limit int) string {
	var s strings.Builder
	s.WriteString(headerStyle.Render("PREDICTABILITY SCAN") + "\n")
	s.WriteString(row("parameter r", fmt.Sprintf("%.6g", cfg.R)))
	s.WriteString(row("model bias", fmt.Sprintf("%.3g", cfg.ModelBias)))
	s.WriteString(row("initial-condition bias", fmt.Sprintf("%.3g", cfg.ICBias)))
	s.WriteString(row("trials", fmt.Sprintf("%d x %d iterations", cfg.Trials, cfg.Iterations)))
	s.WriteString(row("metric", cfg.Metric.String()))
	s.WriteString(row("predictability limit", okStyle.Render(fmt.Sprintf("%d steps", limit))))
	return s.String()
}
